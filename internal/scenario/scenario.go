// Package scenario provides a small in-memory harness for driving the
// engine through a fixed sequence of operations against a pinned clock and
// oracle feed (spec.md §8 seed cases S1-S6; C15 supplemental, grounded on
// the original source's controller test harnesses for scale orders and
// liquidation math). It is test infrastructure, not a new externally-facing
// module.
package scenario

import (
	"github.com/nhb-labs/percore/core/types"
	"github.com/nhb-labs/percore/internal/state"
)

// Clock is a fixed, manually-advanced implementation of state.Clock for
// deterministic scenario replay.
type Clock struct {
	TS   int64
	Slot uint64
}

// NowTS implements state.Clock.
func (c *Clock) NowTS() int64 { return c.TS }

// CurrentSlot implements state.Clock.
func (c *Clock) CurrentSlot() uint64 { return c.Slot }

// Advance moves the clock forward by seconds and slots.
func (c *Clock) Advance(seconds int64, slots uint64) {
	c.TS += seconds
	c.Slot += slots
}

// MapFeed is a fixed-price implementation of state.PriceFeed, keyed by
// market index.
type MapFeed struct {
	Perp map[uint16]types.OracleSnapshot
	Spot map[uint16]int64
}

// NewMapFeed returns an empty feed ready for population.
func NewMapFeed() *MapFeed {
	return &MapFeed{Perp: make(map[uint16]types.OracleSnapshot), Spot: make(map[uint16]int64)}
}

// PerpOracle implements state.PriceFeed.
func (f *MapFeed) PerpOracle(marketIndex uint16) (types.OracleSnapshot, error) {
	return f.Perp[marketIndex], nil
}

// SpotOracle implements state.PriceFeed.
func (f *MapFeed) SpotOracle(marketIndex uint16) (int64, error) {
	return f.Spot[marketIndex], nil
}

// Step is one operation in a scenario, closing over whatever book/feed/clock
// it needs.
type Step func() error

// Run executes steps in order, stopping at the first error (spec.md §5
// "Cancellation": an operation either commits entirely or is rejected, so a
// failed step never masks the ones after it as having run).
func Run(steps ...Step) error {
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// NewBook is a thin re-export so scenario tests don't need a second import
// for the root book type.
func NewBook() *state.Book { return state.NewBook() }

// Package state wires the per-concern packages (oracle, margin, position,
// funding, liquidation, scaleorder) into the root book every operation runs
// against. Each operation runs on its own: none of them accrues interest,
// settles funding or settles LP before applying a fill.
package state

import (
	cerrors "github.com/nhb-labs/percore/core/errors"
	"github.com/nhb-labs/percore/core/types"
)

// PriceFeed resolves the current oracle reading for a market by index. A
// production embedder backs this with whatever adapter reads the external
// oracle (spec.md §6 "Oracle adapter"); tests back it with a fixed map.
type PriceFeed interface {
	PerpOracle(marketIndex uint16) (types.OracleSnapshot, error)
	SpotOracle(marketIndex uint16) (price int64, err error)
}

// Clock resolves the current time and slot (spec.md §6 "Clock").
type Clock interface {
	NowTS() int64
	CurrentSlot() uint64
}

// Book is the root structure every operation is passed by reference
// (spec.md §9 "Global mutable state"). Markets and spot markets are keyed
// by index rather than linked by pointer so the ownership graph stays a
// DAG; users are keyed by authority.
type Book struct {
	Markets     map[uint16]*types.Market
	SpotMarkets map[uint16]*types.SpotMarket
	Users       map[[20]byte]*types.User
}

// NewBook returns an empty book ready for registration.
func NewBook() *Book {
	return &Book{
		Markets:     make(map[uint16]*types.Market),
		SpotMarkets: make(map[uint16]*types.SpotMarket),
		Users:       make(map[[20]byte]*types.User),
	}
}

// AddMarket registers a perp market, keyed by its own MarketIndex.
func (b *Book) AddMarket(m *types.Market) { b.Markets[m.MarketIndex] = m }

// AddSpotMarket registers a spot market, keyed by its own MarketIndex.
func (b *Book) AddSpotMarket(m *types.SpotMarket) { b.SpotMarkets[m.MarketIndex] = m }

// AddUser registers a user, keyed by authority.
func (b *Book) AddUser(u *types.User) { b.Users[u.Authority] = u }

// Market looks up a registered perp market or returns ErrMarketNotFound.
func (b *Book) Market(marketIndex uint16) (*types.Market, error) {
	m, ok := b.Markets[marketIndex]
	if !ok {
		return nil, cerrors.ErrMarketNotFound
	}
	return m, nil
}

// SpotMarket looks up a registered spot market or returns
// ErrSpotMarketNotFound.
func (b *Book) SpotMarket(marketIndex uint16) (*types.SpotMarket, error) {
	m, ok := b.SpotMarkets[marketIndex]
	if !ok {
		return nil, cerrors.ErrSpotMarketNotFound
	}
	return m, nil
}

// User looks up a registered user or returns ErrUserNotFound.
func (b *Book) User(authority [20]byte) (*types.User, error) {
	u, ok := b.Users[authority]
	if !ok {
		return nil, cerrors.ErrUserNotFound
	}
	return u, nil
}

// RequireOperational returns ErrMarketNotOperational unless the market
// accepts risk-increasing actions (spec.md §5 "Cancellation").
func RequireOperational(m *types.Market) error {
	if !m.IsOperational() {
		return cerrors.ErrMarketNotOperational
	}
	return nil
}

// RequireNotSettledOrDelisted rejects every operation it guards once a
// market leaves normal trading: ErrMarketInSettlement once Status ==
// MarketSettlement, ErrMarketDelisted once Status == MarketDelisted
// (spec.md §7 "under settlement status, only settle_expired_position
// succeeds; under delisted status, all user actions fail"). Operations
// apply this unconditionally — unlike RequireOperational it is not limited
// to risk-increasing deltas, since a settled/delisted market blocks
// reducing actions too.
func RequireNotSettledOrDelisted(m *types.Market) error {
	switch m.Status {
	case types.MarketSettlement:
		return cerrors.ErrMarketInSettlement
	case types.MarketDelisted:
		return cerrors.ErrMarketDelisted
	}
	return nil
}

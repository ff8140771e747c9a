package state

import (
	"github.com/nhb-labs/percore/core/types"
	"github.com/nhb-labs/percore/internal/margin"
)

// MarginContext builds the priced snapshot margin.TotalCollateral and
// margin.MarginRequirement need for user, resolving every market the user
// currently holds a slot in against feed (spec.md §4.7). Positions in
// available (recycled) slots are skipped.
func (b *Book) MarginContext(user *types.User, feed PriceFeed) (margin.Context, error) {
	ctx := margin.Context{
		Perp: make(map[uint16]margin.PerpSnapshot),
		Spot: make(map[uint16]margin.SpotSnapshot),
	}

	for i := range user.PerpPositions {
		p := &user.PerpPositions[i]
		if p.IsAvailable() {
			continue
		}
		if _, ok := ctx.Perp[p.MarketIndex]; ok {
			continue
		}
		m, err := b.Market(p.MarketIndex)
		if err != nil {
			return margin.Context{}, err
		}
		snap, err := feed.PerpOracle(p.MarketIndex)
		if err != nil {
			return margin.Context{}, err
		}
		ctx.Perp[p.MarketIndex] = margin.PerpSnapshot{
			Market:      m,
			OraclePrice: snap.Price,
			TwapPrice:   m.AMM.LastOraclePriceTwap,
		}
	}

	for i := range user.SpotPositions {
		sp := &user.SpotPositions[i]
		if sp.ScaledBalance == 0 {
			continue
		}
		if _, ok := ctx.Spot[sp.MarketIndex]; ok {
			continue
		}
		m, err := b.SpotMarket(sp.MarketIndex)
		if err != nil {
			return margin.Context{}, err
		}
		price, err := feed.SpotOracle(sp.MarketIndex)
		if err != nil {
			return margin.Context{}, err
		}
		ctx.Spot[sp.MarketIndex] = margin.SpotSnapshot{Market: m, OraclePrice: price}
	}

	return ctx, nil
}

// Package jit computes the AMM's dynamic long/short spread and sizes its
// just-in-time maker fills when a taker crosses an external maker (spec.md
// §4.9, C9).
package jit

import (
	cerrors "github.com/nhb-labs/percore/core/errors"
	"github.com/nhb-labs/percore/core/types"
	"github.com/nhb-labs/percore/internal/amm"
	"github.com/nhb-labs/percore/internal/fixedpoint"
)

// MaxInventorySkew caps both the inventory and effective-leverage spread
// multipliers (spec.md §4.9 "capped at MAX_INVENTORY_SKEW").
const MaxInventorySkew = 10 * types.BidAskSpreadPrecision

// LargeFactor is the blowout multiplier applied to both spreads once the
// fee pool has run dry (spec.md §4.9 "multiply both spreads by LARGE_FACTOR").
const LargeFactor = 4

// Spread is the recomputed long/short spread pair.
type Spread struct {
	LongSpread  int64
	ShortSpread int64
}

// Recompute derives the AMM's long/short spread from its base spread,
// oracle retreat, inventory skew, and effective leverage (spec.md §4.9
// "Spread"). maxBids/maxAsks are the maker-book depth in base units on each
// side, used for the inventory-imbalance term.
func Recompute(a *types.AMM, maxBids, maxAsks int64) (Spread, error) {
	half := a.BaseSpread / 2

	retreat := absI64(a.LastOracleReservePriceSpreadPct) + a.LastOracleConfPct

	long, err := fixedpoint.AddI64(half, retreat)
	if err != nil {
		return Spread{}, err
	}
	short, err := fixedpoint.AddI64(half, retreat)
	if err != nil {
		return Spread{}, err
	}

	invFactor, err := inventoryFactor(a.NetBaseAssetAmountWithAMM, maxBids, maxAsks)
	if err != nil {
		return Spread{}, err
	}
	long, err = scaleBySpreadFactor(long, invFactor)
	if err != nil {
		return Spread{}, err
	}
	short, err = scaleBySpreadFactor(short, invFactor)
	if err != nil {
		return Spread{}, err
	}

	levFactor, err := effectiveLeverageFactor(a)
	if err != nil {
		return Spread{}, err
	}
	long, err = scaleBySpreadFactor(long, levFactor)
	if err != nil {
		return Spread{}, err
	}
	short, err = scaleBySpreadFactor(short, levFactor)
	if err != nil {
		return Spread{}, err
	}

	if a.TotalFeeMinusDistributions <= 0 {
		long, err = fixedpoint.MulI64(long, LargeFactor)
		if err != nil {
			return Spread{}, err
		}
		short, err = fixedpoint.MulI64(short, LargeFactor)
		if err != nil {
			return Spread{}, err
		}
	}

	cap := a.MaxSpread
	if absI64(a.LastOracleReservePriceSpreadPct) > cap {
		cap = absI64(a.LastOracleReservePriceSpreadPct)
	}
	sum, err := fixedpoint.AddI64(long, short)
	if err != nil {
		return Spread{}, err
	}
	if sum > cap {
		long, err = fixedpoint.MulDivSigned(long, cap, sum, fixedpoint.RoundDown)
		if err != nil {
			return Spread{}, err
		}
		short, err = fixedpoint.MulDivSigned(short, cap, sum, fixedpoint.RoundDown)
		if err != nil {
			return Spread{}, err
		}
	}

	return Spread{LongSpread: long, ShortSpread: short}, nil
}

// inventoryFactor is BID_ASK_SPREAD_PRECISION + |net_base|×LARGE_FACTOR /
// min(max_bids, |max_asks|), capped at MaxInventorySkew (spec.md §4.9).
func inventoryFactor(netBase, maxBids, maxAsks int64) (int64, error) {
	depth := maxBids
	if absI64(maxAsks) < depth {
		depth = absI64(maxAsks)
	}
	if depth <= 0 {
		return MaxInventorySkew, nil
	}
	skew, err := fixedpoint.MulDivSigned(absI64(netBase), LargeFactor, depth, fixedpoint.RoundDown)
	if err != nil {
		return 0, err
	}
	factor, err := fixedpoint.AddI64(types.BidAskSpreadPrecision, skew)
	if err != nil {
		return 0, err
	}
	if factor > MaxInventorySkew {
		factor = MaxInventorySkew
	}
	return factor, nil
}

// effectiveLeverageFactor compares (quote_reserve − terminal_quote_reserve)×peg
// against net_base×reserve_price, capped identically to the inventory
// factor (spec.md §4.9).
func effectiveLeverageFactor(a *types.AMM) (int64, error) {
	reservePrice, err := amm.ReservePrice(a.BaseReserve, a.QuoteReserve, a.PegMultiplier)
	if err != nil {
		return types.BidAskSpreadPrecision, nil
	}
	quoteDelta, err := fixedpoint.SubI64(a.QuoteReserve, a.TerminalQuoteReserve)
	if err != nil {
		return 0, err
	}
	pegged, err := fixedpoint.MulDivSigned(absI64(quoteDelta), a.PegMultiplier, types.PegPrecision, fixedpoint.RoundDown)
	if err != nil {
		return 0, err
	}
	baseNotional, err := fixedpoint.MulDivSigned(absI64(a.NetBaseAssetAmountWithAMM), reservePrice, types.PricePrecision, fixedpoint.RoundDown)
	if err != nil {
		return 0, err
	}
	if baseNotional <= 0 {
		return types.BidAskSpreadPrecision, nil
	}
	factor, err := fixedpoint.MulDivSigned(pegged, types.BidAskSpreadPrecision, baseNotional, fixedpoint.RoundDown)
	if err != nil {
		return 0, err
	}
	factor, err = fixedpoint.AddI64(types.BidAskSpreadPrecision, factor)
	if err != nil {
		return 0, err
	}
	if factor > MaxInventorySkew {
		factor = MaxInventorySkew
	}
	return factor, nil
}

func scaleBySpreadFactor(spread, factor int64) (int64, error) {
	return fixedpoint.MulDivSigned(spread, factor, types.BidAskSpreadPrecision, fixedpoint.RoundDown)
}

// Apply recomputes and writes back long_spread/short_spread, then refreshes
// the cached spread reserves (spec.md §4.9: spreads and spread reserves are
// always kept in lockstep).
func Apply(a *types.AMM, maxBids, maxAsks int64) error {
	s, err := Recompute(a, maxBids, maxAsks)
	if err != nil {
		return cerrors.ErrOverflowInCurve
	}
	a.LongSpread = s.LongSpread
	a.ShortSpread = s.ShortSpread
	return amm.RefreshSpreadReserves(a)
}

func absI64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

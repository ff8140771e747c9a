package lp

import (
	cerrors "github.com/nhb-labs/percore/core/errors"
	"github.com/nhb-labs/percore/core/events"
	"github.com/nhb-labs/percore/core/types"
	"github.com/nhb-labs/percore/internal/fixedpoint"
)

// MinAddCooldownSeconds bounds how soon after adding liquidity a position
// may burn it, preventing a single slot's JIT round trip from front-running
// a settlement it hasn't yet absorbed.
const MinAddCooldownSeconds = 60

// AddLiquidity mints sharesToAdd against the market's sqrt_k, settling any
// prior accumulator growth first so the new shares don't retroactively
// claim it (spec.md §4.6: shares track per-share accumulators from the
// moment they're minted).
func AddLiquidity(market *types.Market, p *types.PerpPosition, sharesToAdd, now int64, user [20]byte, sink events.EventSink) error {
	if sharesToAdd <= 0 {
		return cerrors.New(cerrors.KindPrecondition, "lp: shares to add must be positive")
	}

	before := p.LpShares

	if _, err := Settle(market, p); err != nil {
		return err
	}

	newSqrtK, err := fixedpoint.AddI64(market.AMM.SqrtK, sharesToAdd)
	if err != nil {
		return err
	}
	market.AMM.SqrtK = newSqrtK
	market.AMM.UserLpShares, err = fixedpoint.AddI64(market.AMM.UserLpShares, sharesToAdd)
	if err != nil {
		return err
	}

	p.LpShares, err = fixedpoint.AddI64(p.LpShares, sharesToAdd)
	if err != nil {
		return err
	}
	// Shares minted now must not claim growth that predates them.
	p.LastBaseAssetAmountPerLp = market.AMM.BaseAssetAmountPerLp
	p.LastQuoteAssetAmountPerLp = market.AMM.QuoteAssetAmountPerLp
	p.LastLpAddTS = now

	if sink != nil {
		sink.Emit(events.NewLP(now, market.MarketIndex, user, "add", 0, 0, before, p.LpShares))
	}
	return nil
}

// Package lp implements LP share settlement and burning against the AMM's
// per-share accumulators (spec.md §4.6, C6).
package lp

import (
	"github.com/nhb-labs/percore/core/types"
	"github.com/nhb-labs/percore/internal/fixedpoint"
	"github.com/nhb-labs/percore/internal/position"
)

// PerLpUnit is the fixed-point scale at which base_asset_amount_per_lp and
// quote_asset_amount_per_lp accumulate per share. It is sized the same as
// AMMReservePrecision so LP shares track the AMM's own reserve scale
// (spec.md §9 open question; see DESIGN.md "per_lp_base_unit").
const PerLpUnit = types.AMMReservePrecision

// SettleResult carries both the position-algebra outcome and the raw
// settled amounts, for callers that need to distinguish an LP settlement
// from an ordinary fill when building an events.LP record.
type SettleResult struct {
	position.Result
	SettledBase  int64
	SettledQuote int64
}

// Settle folds the AMM's per-share accumulator growth since the position's
// last settlement into the position as a PositionDelta (spec.md §4.6). After
// settlement position.LastBaseAssetAmountPerLp/LastQuoteAssetAmountPerLp
// equal the AMM's current accumulators, so the next settlement is
// incremental.
func Settle(market *types.Market, p *types.PerpPosition) (SettleResult, error) {
	if p.LpShares == 0 {
		return SettleResult{}, nil
	}

	deltaBasePerLp, err := fixedpoint.SubI64(market.AMM.BaseAssetAmountPerLp, p.LastBaseAssetAmountPerLp)
	if err != nil {
		return SettleResult{}, err
	}
	deltaQuotePerLp, err := fixedpoint.SubI64(market.AMM.QuoteAssetAmountPerLp, p.LastQuoteAssetAmountPerLp)
	if err != nil {
		return SettleResult{}, err
	}

	settledBase, err := fixedpoint.MulDivSigned(deltaBasePerLp, p.LpShares, PerLpUnit, fixedpoint.RoundDown)
	if err != nil {
		return SettleResult{}, err
	}
	settledQuote, err := fixedpoint.MulDivSigned(deltaQuotePerLp, p.LpShares, PerLpUnit, fixedpoint.RoundDown)
	if err != nil {
		return SettleResult{}, err
	}

	p.LastBaseAssetAmountPerLp = market.AMM.BaseAssetAmountPerLp
	p.LastQuoteAssetAmountPerLp = market.AMM.QuoteAssetAmountPerLp

	if settledBase == 0 && settledQuote == 0 {
		return SettleResult{}, nil
	}

	res, err := position.Apply(market, p, types.PositionDelta{BaseAssetAmount: settledBase, QuoteAssetAmount: settledQuote})
	if err != nil {
		return SettleResult{}, err
	}

	return SettleResult{Result: res, SettledBase: settledBase, SettledQuote: settledQuote}, nil
}

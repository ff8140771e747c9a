package position

import (
	"github.com/nhb-labs/percore/core/types"
	"github.com/nhb-labs/percore/internal/fixedpoint"
)

// Result is the effect of applying one PositionDelta, ready to be turned
// into an events.SettlePnl record by the caller.
type Result struct {
	Kind        types.PositionChangeKind
	RealizedPnl int64
}

// Apply applies delta to p in place, classifying it and running the
// type-specific quote-entry/break-even bookkeeping from spec.md §4.5. market
// supplies order_step_size for remainder normalization and has its
// base_asset_amount_long/short and net_base_asset_amount_with_amm aggregates
// updated by the same signed delta.
func Apply(market *types.Market, p *types.PerpPosition, delta types.PositionDelta) (Result, error) {
	kind := Classify(p.BaseAssetAmount, p.RemainderBaseAssetAmount, delta.BaseAssetAmount)

	// Flip touches the aggregates and base/quote bookkeeping itself, once
	// per leg at the zero crossing; every other case shares one codepath.
	if kind == types.PositionFlip {
		result, err := applyFlip(market, p, delta)
		if err != nil {
			return Result{}, err
		}
		result.Kind = kind
		return result, nil
	}

	var result Result
	var err error
	switch kind {
	case types.PositionOpen, types.PositionIncrease:
		result, err = applyOpenOrIncrease(p, delta)
	case types.PositionReduce:
		result, err = applyReduce(p, delta)
	case types.PositionClose:
		result, err = applyClose(p, delta)
	}
	if err != nil {
		return Result{}, err
	}
	result.Kind = kind

	if err := updateAggregates(market, delta.BaseAssetAmount); err != nil {
		return Result{}, err
	}

	newBase, err := fixedpoint.AddI64(p.BaseAssetAmount, delta.BaseAssetAmount)
	if err != nil {
		return Result{}, err
	}
	settledBase, remainder, err := NormalizeStepSize(newBase, p.RemainderBaseAssetAmount, market.AMM.OrderStepSize)
	if err != nil {
		return Result{}, err
	}
	p.BaseAssetAmount = settledBase
	p.RemainderBaseAssetAmount = remainder

	p.QuoteAssetAmount, err = fixedpoint.AddI64(p.QuoteAssetAmount, delta.QuoteAssetAmount)
	if err != nil {
		return Result{}, err
	}

	return result, nil
}

func applyOpenOrIncrease(p *types.PerpPosition, delta types.PositionDelta) (Result, error) {
	entry, err := fixedpoint.AddI64(p.QuoteEntryAmount, delta.QuoteAssetAmount)
	if err != nil {
		return Result{}, err
	}
	be, err := fixedpoint.AddI64(p.QuoteBreakEvenAmount, delta.QuoteAssetAmount)
	if err != nil {
		return Result{}, err
	}
	p.QuoteEntryAmount = entry
	p.QuoteBreakEvenAmount = be
	return Result{}, nil
}

// applyReduce proportionally reduces quote_entry and quote_break_even by
// |D.base|/|P.base|; the pro-rated entry removed plus the incoming quote
// delta is the realized pnl for the closed slice (spec.md §4.5), mirroring
// applyClose's P.quote_entry + D.quote for the full-close case.
func applyReduce(p *types.PerpPosition, delta types.PositionDelta) (Result, error) {
	absDelta := abs64(delta.BaseAssetAmount)
	absBase := abs64(p.BaseAssetAmount)

	entryReduction, err := fixedpoint.MulDivSigned(p.QuoteEntryAmount, absDelta, absBase, fixedpoint.RoundDown)
	if err != nil {
		return Result{}, err
	}
	beReduction, err := fixedpoint.MulDivSigned(p.QuoteBreakEvenAmount, absDelta, absBase, fixedpoint.RoundDown)
	if err != nil {
		return Result{}, err
	}

	p.QuoteEntryAmount, err = fixedpoint.SubI64(p.QuoteEntryAmount, entryReduction)
	if err != nil {
		return Result{}, err
	}
	p.QuoteBreakEvenAmount, err = fixedpoint.SubI64(p.QuoteBreakEvenAmount, beReduction)
	if err != nil {
		return Result{}, err
	}

	realizedPnl, err := fixedpoint.AddI64(entryReduction, delta.QuoteAssetAmount)
	if err != nil {
		return Result{}, err
	}
	return Result{RealizedPnl: realizedPnl}, nil
}

// applyClose realizes P.quote_entry + D.quote and zeroes the cost basis
// (spec.md §4.5).
func applyClose(p *types.PerpPosition, delta types.PositionDelta) (Result, error) {
	realizedPnl, err := fixedpoint.AddI64(p.QuoteEntryAmount, delta.QuoteAssetAmount)
	if err != nil {
		return Result{}, err
	}
	p.QuoteEntryAmount = 0
	p.QuoteBreakEvenAmount = 0
	return Result{RealizedPnl: realizedPnl}, nil
}

// applyFlip splits delta at the zero crossing: the portion that exactly
// closes the existing position is applied with Close semantics, the
// remainder opens a new position on the other side with Open semantics
// (spec.md §4.5). Quote is split in proportion to each leg's share of
// |delta.base|.
func applyFlip(market *types.Market, p *types.PerpPosition, delta types.PositionDelta) (Result, error) {
	closingBase := -p.BaseAssetAmount
	openingBase, err := fixedpoint.SubI64(delta.BaseAssetAmount, closingBase)
	if err != nil {
		return Result{}, err
	}

	absDelta := abs64(delta.BaseAssetAmount)
	absClosing := abs64(closingBase)

	closingQuote, err := fixedpoint.MulDivSigned(delta.QuoteAssetAmount, absClosing, absDelta, fixedpoint.RoundDown)
	if err != nil {
		return Result{}, err
	}
	openingQuote, err := fixedpoint.SubI64(delta.QuoteAssetAmount, closingQuote)
	if err != nil {
		return Result{}, err
	}

	closeResult, err := applyClose(p, types.PositionDelta{BaseAssetAmount: closingBase, QuoteAssetAmount: closingQuote})
	if err != nil {
		return Result{}, err
	}

	if err := updateAggregates(market, closingBase); err != nil {
		return Result{}, err
	}

	p.BaseAssetAmount, err = fixedpoint.AddI64(p.BaseAssetAmount, closingBase)
	if err != nil {
		return Result{}, err
	}
	p.QuoteAssetAmount, err = fixedpoint.AddI64(p.QuoteAssetAmount, closingQuote)
	if err != nil {
		return Result{}, err
	}

	openResult, err := applyOpenOrIncrease(p, types.PositionDelta{BaseAssetAmount: openingBase, QuoteAssetAmount: openingQuote})
	if err != nil {
		return Result{}, err
	}
	if err := updateAggregates(market, openingBase); err != nil {
		return Result{}, err
	}

	newBase, err := fixedpoint.AddI64(p.BaseAssetAmount, openingBase)
	if err != nil {
		return Result{}, err
	}
	settledBase, remainder, err := NormalizeStepSize(newBase, p.RemainderBaseAssetAmount, market.AMM.OrderStepSize)
	if err != nil {
		return Result{}, err
	}
	p.BaseAssetAmount = settledBase
	p.RemainderBaseAssetAmount = remainder
	p.QuoteAssetAmount, err = fixedpoint.AddI64(p.QuoteAssetAmount, openingQuote)
	if err != nil {
		return Result{}, err
	}

	return Result{RealizedPnl: closeResult.RealizedPnl, Kind: openResult.Kind}, nil
}

// updateAggregates folds a signed base delta into the market's open-interest
// counters and the AMM's net exposure (spec.md §4.5: "Always update
// aggregate market counters ... and net_base_asset_amount_with_amm").
func updateAggregates(market *types.Market, deltaBase int64) error {
	var err error
	if deltaBase >= 0 {
		market.BaseAssetAmountLong, err = fixedpoint.AddI64(market.BaseAssetAmountLong, deltaBase)
	} else {
		market.BaseAssetAmountShort, err = fixedpoint.AddI64(market.BaseAssetAmountShort, deltaBase)
	}
	if err != nil {
		return err
	}
	market.AMM.NetBaseAssetAmountWithAMM, err = fixedpoint.AddI64(market.AMM.NetBaseAssetAmountWithAMM, deltaBase)
	return err
}

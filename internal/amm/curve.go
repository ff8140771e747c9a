package amm

import (
	cerrors "github.com/nhb-labs/percore/core/errors"
	"github.com/nhb-labs/percore/core/types"
	"github.com/nhb-labs/percore/internal/fixedpoint"
)

// MaxSqrtK bounds how deep a single market's virtual liquidity can grow.
const MaxSqrtK = 1_000_000_000_000_000_000 // 1e18, AMMReservePrecision-scaled

// MaxKDecreaseBps caps a single K-curve decrease at 2.5% of sqrt_k
// (spec.md §4.2 "K-curve update").
const MaxKDecreaseBps = 250 // out of 10_000

// CurveUpdate is the computed effect of a K-curve update, ready to be both
// applied to the AMM and turned into an events.Curve record.
type CurveUpdate struct {
	SqrtKBefore int64
	SqrtKAfter  int64

	BaseReserveBefore  int64
	QuoteReserveBefore int64
	BaseReserveAfter   int64
	QuoteReserveAfter  int64

	CostQuote int64
	RoundedUp bool
}

// PlanKUpdate computes the effect of moving sqrt_k to targetSqrtK, validating
// the invariants from spec.md §4.2: a decrease must not push sqrt_k below
// |net_base_asset_amount_with_amm| (unless the market is ReduceOnly),
// decreases are capped at MaxKDecreaseBps per call, and increases may not
// exceed MaxSqrtK. It does not mutate a; callers apply the result themselves
// after any budget check.
func PlanKUpdate(a *types.AMM, status types.MarketStatus, targetSqrtK int64) (CurveUpdate, error) {
	if targetSqrtK <= 0 {
		return CurveUpdate{}, cerrors.New(cerrors.KindPrecondition, "amm: target sqrt_k must be positive")
	}

	netAbs := absInt64(a.NetBaseAssetAmountWithAMM)
	if targetSqrtK < a.SqrtK {
		decreaseBps := bpsDecrease(a.SqrtK, targetSqrtK)
		if decreaseBps > MaxKDecreaseBps {
			return CurveUpdate{}, cerrors.ErrKDecreaseTooLarge
		}
		if status != types.MarketReduceOnly && targetSqrtK < netAbs {
			return CurveUpdate{}, cerrors.ErrKInvariantBreached
		}
	} else if targetSqrtK > MaxSqrtK {
		return CurveUpdate{}, cerrors.ErrKIncreaseTooLarge
	}

	_, quoteBefore, err := TerminalReserves(a)
	if err != nil {
		return CurveUpdate{}, err
	}

	scaled := *a
	scaled.SqrtK = targetSqrtK
	// Reserves scale proportionally to sqrt_k while net base stays fixed:
	// new_base_reserve = base_reserve * (targetSqrtK/sqrtK), rounding
	// direction keyed on the sign of net base (spec.md §9 open question —
	// see DESIGN.md "formulaic_update_k rounding").
	roundUp := a.NetBaseAssetAmountWithAMM >= 0
	mode := fixedpoint.RoundDown
	if roundUp {
		mode = fixedpoint.RoundUp
	}
	newBaseReserve, err := fixedpoint.MulDivSigned(a.BaseReserve, targetSqrtK, a.SqrtK, mode)
	if err != nil {
		return CurveUpdate{}, cerrors.ErrOverflowInCurve
	}
	scaled.BaseReserve = newBaseReserve
	newQuoteReserve, err := fixedpoint.SqrtKOverReserve(targetSqrtK, newBaseReserve)
	if err != nil {
		return CurveUpdate{}, cerrors.ErrOverflowInCurve
	}
	scaled.QuoteReserve = newQuoteReserve

	_, quoteAfter, err := TerminalReserves(&scaled)
	if err != nil {
		return CurveUpdate{}, err
	}

	costQuote, err := costFromTerminalReserves(quoteBefore, quoteAfter, a.PegMultiplier, roundUp)
	if err != nil {
		return CurveUpdate{}, err
	}

	return CurveUpdate{
		SqrtKBefore:        a.SqrtK,
		SqrtKAfter:         targetSqrtK,
		BaseReserveBefore:  a.BaseReserve,
		QuoteReserveBefore: a.QuoteReserve,
		BaseReserveAfter:   newBaseReserve,
		QuoteReserveAfter:  newQuoteReserve,
		CostQuote:          costQuote,
		RoundedUp:          roundUp,
	}, nil
}

// Apply writes a planned CurveUpdate back onto the AMM and refreshes the
// cached spread reserves (the terminal reserves bookkeeping fields are
// refreshed by the caller once the position-algebra layer has a chance to
// observe the pre-update terminal reserves too).
func (u CurveUpdate) Apply(a *types.AMM) error {
	a.SqrtK = u.SqrtKAfter
	a.BaseReserve = u.BaseReserveAfter
	a.QuoteReserve = u.QuoteReserveAfter
	return RefreshSpreadReserves(a)
}

func costFromTerminalReserves(quoteBefore, quoteAfter, peg int64, roundUp bool) (int64, error) {
	deltaQuoteReserve, err := fixedpoint.SubI64(quoteAfter, quoteBefore)
	if err != nil {
		return 0, cerrors.ErrOverflowInCurve
	}
	return QuotePegged(deltaQuoteReserve, peg, roundUp)
}

func bpsDecrease(before, after int64) int64 {
	if before <= 0 {
		return 0
	}
	delta := before - after
	if delta <= 0 {
		return 0
	}
	bps, err := fixedpoint.MulDivSigned(delta, 10_000, before, fixedpoint.RoundUp)
	if err != nil {
		return 10_000
	}
	return bps
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

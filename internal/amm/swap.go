// Package amm implements vAMM reserve math: the swap primitive, spread and
// terminal reserves, and K-curve updates (spec.md §4.2, C2). Every mutation
// is computed into a local copy and only written back to the caller's *AMM
// on success, so a failed operation never corrupts state (spec.md §4.2
// "Failure modes").
package amm

import (
	cerrors "github.com/nhb-labs/percore/core/errors"
	"github.com/nhb-labs/percore/core/types"
	"github.com/nhb-labs/percore/internal/fixedpoint"
)

// SwapResult is the outcome of the constant-product swap primitive.
type SwapResult struct {
	NewReserveIn  int64
	NewReserveOut int64
	AmountOut     int64
}

// Swap computes reserveOut - sqrtK^2/(reserveIn +/- delta) per spec.md §4.2
// "Swap primitive". direction selects the sign: SwapAdd increases reserveIn
// (a taker selling the "in" asset into the AMM), SwapRemove decreases it.
func Swap(reserveIn, reserveOut, sqrtK, delta int64, direction types.SwapDirection) (SwapResult, error) {
	if reserveIn <= 0 || reserveOut <= 0 || sqrtK <= 0 {
		return SwapResult{}, cerrors.ErrZeroReserve
	}
	if delta < 0 {
		return SwapResult{}, cerrors.New(cerrors.KindPrecondition, "amm: swap delta must be non-negative")
	}

	var newReserveIn int64
	var err error
	switch direction {
	case types.SwapAdd:
		newReserveIn, err = fixedpoint.AddI64(reserveIn, delta)
	case types.SwapRemove:
		newReserveIn, err = fixedpoint.SubI64(reserveIn, delta)
	default:
		return SwapResult{}, cerrors.New(cerrors.KindPrecondition, "amm: unknown swap direction")
	}
	if err != nil {
		return SwapResult{}, cerrors.ErrOverflowInCurve
	}
	if newReserveIn <= 0 {
		return SwapResult{}, cerrors.ErrInsufficientReservesForFill
	}

	newReserveOut, err := fixedpoint.SqrtKOverReserve(sqrtK, newReserveIn)
	if err != nil {
		return SwapResult{}, cerrors.ErrOverflowInCurve
	}
	if newReserveOut <= 0 || newReserveOut > reserveOut {
		return SwapResult{}, cerrors.ErrInsufficientReservesForFill
	}

	amountOut, err := fixedpoint.SubI64(reserveOut, newReserveOut)
	if err != nil {
		return SwapResult{}, cerrors.ErrOverflowInCurve
	}
	return SwapResult{NewReserveIn: newReserveIn, NewReserveOut: newReserveOut, AmountOut: amountOut}, nil
}

// QuotePegged applies the peg multiplier to a raw quote-reserve delta
// (spec.md §4.2: "quote_amount = |Δquote_reserve| x peg / PEG_PRECISION").
// takerOutOfAMM selects the rounding direction: round up when the taker is
// receiving quote out of the AMM, round down when quote is flowing into it.
func QuotePegged(deltaQuoteReserve, peg int64, takerOutOfAMM bool) (int64, error) {
	if deltaQuoteReserve < 0 {
		deltaQuoteReserve = -deltaQuoteReserve
	}
	mode := fixedpoint.RoundDown
	if takerOutOfAMM {
		mode = fixedpoint.RoundUp
	}
	return fixedpoint.MulDivSigned(deltaQuoteReserve, peg, types.PegPrecision, mode)
}

// ReservePrice computes quote_reserve*peg*PRICE_PRECISION / (base_reserve*PEG_PRECISION)
// using two chained widened divisions so neither intermediate product needs
// to fit in 64 bits, only the final price (spec.md §4.2 "Reserve price").
func ReservePrice(baseReserve, quoteReserve, peg int64) (int64, error) {
	if baseReserve <= 0 {
		return 0, cerrors.ErrZeroReserve
	}
	pegged, err := fixedpoint.MulDivSigned(quoteReserve, peg, baseReserve, fixedpoint.RoundDown)
	if err != nil {
		return 0, cerrors.ErrOverflowInCurve
	}
	price, err := fixedpoint.MulDivSigned(pegged, types.PricePrecision, types.PegPrecision, fixedpoint.RoundDown)
	if err != nil {
		return 0, cerrors.ErrOverflowInCurve
	}
	return price, nil
}

package amm

import (
	cerrors "github.com/nhb-labs/percore/core/errors"
	"github.com/nhb-labs/percore/core/types"
	"github.com/nhb-labs/percore/internal/fixedpoint"
)

// SpreadReserves is the pre-computed bid/ask reserve pair stored on the AMM
// so fills read cheaply without recomputing spreads (spec.md §4.2 "Spread
// reserves").
type SpreadReserves struct {
	BidBaseReserve  int64
	BidQuoteReserve int64
	AskBaseReserve  int64
	AskQuoteReserve int64
}

// ComputeSpreadReserves derives the bid/ask reserve pair from the AMM's
// current reserves and its long/short spreads (spec.md §4.2). The short
// spread narrows the quote reserve on the bid side; the long spread widens
// it on the ask side; the paired base reserve on each side is derived from
// the constant-product invariant so the stored pair is always consistent
// with sqrt_k.
func ComputeSpreadReserves(a *types.AMM) (SpreadReserves, error) {
	bidQuote, err := spreadAdjustedReserve(a.QuoteReserve, a.ShortSpread, false)
	if err != nil {
		return SpreadReserves{}, err
	}
	askQuote, err := spreadAdjustedReserve(a.QuoteReserve, a.LongSpread, true)
	if err != nil {
		return SpreadReserves{}, err
	}
	bidBase, err := fixedpoint.SqrtKOverReserve(a.SqrtK, bidQuote)
	if err != nil {
		return SpreadReserves{}, cerrors.ErrOverflowInCurve
	}
	askBase, err := fixedpoint.SqrtKOverReserve(a.SqrtK, askQuote)
	if err != nil {
		return SpreadReserves{}, cerrors.ErrOverflowInCurve
	}
	return SpreadReserves{
		BidBaseReserve:  bidBase,
		BidQuoteReserve: bidQuote,
		AskBaseReserve:  askBase,
		AskQuoteReserve: askQuote,
	}, nil
}

// spreadAdjustedReserve computes quoteReserve -+ quoteReserve*spread/(2*SPREAD_PRECISION).
func spreadAdjustedReserve(quoteReserve, spread int64, add bool) (int64, error) {
	if spread <= 0 {
		return quoteReserve, nil
	}
	adjustment, err := fixedpoint.MulDivSigned(quoteReserve, spread, 2*types.SpreadPrecision, fixedpoint.RoundDown)
	if err != nil {
		return 0, cerrors.ErrOverflowInCurve
	}
	if add {
		return fixedpoint.AddI64(quoteReserve, adjustment)
	}
	return fixedpoint.SubI64(quoteReserve, adjustment)
}

// RefreshSpreadReserves recomputes and writes back the AMM's cached bid/ask
// reserves. Callers must invoke this whenever any spread input changes
// (spec.md §4.2: "refreshed whenever any spread input changes").
func RefreshSpreadReserves(a *types.AMM) error {
	sr, err := ComputeSpreadReserves(a)
	if err != nil {
		return err
	}
	a.BidBaseReserve = sr.BidBaseReserve
	a.BidQuoteReserve = sr.BidQuoteReserve
	a.AskBaseReserve = sr.AskBaseReserve
	a.AskQuoteReserve = sr.AskQuoteReserve
	return nil
}

// TerminalReserves simulates the swap that would flatten
// net_base_asset_amount_with_amm and returns the resulting reserves, used to
// detect solvency of peg changes (spec.md §4.2 "Terminal reserves").
func TerminalReserves(a *types.AMM) (baseReserve, quoteReserve int64, err error) {
	net := a.NetBaseAssetAmountWithAMM
	terminalBase, err := fixedpoint.AddI64(a.BaseReserve, net)
	if err != nil {
		return 0, 0, cerrors.ErrOverflowInCurve
	}
	if terminalBase <= 0 {
		return 0, 0, cerrors.ErrInsufficientReservesForFill
	}
	terminalQuote, err := fixedpoint.SqrtKOverReserve(a.SqrtK, terminalBase)
	if err != nil {
		return 0, 0, cerrors.ErrOverflowInCurve
	}
	return terminalBase, terminalQuote, nil
}

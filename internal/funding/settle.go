package funding

import (
	"github.com/nhb-labs/percore/core/types"
	"github.com/nhb-labs/percore/internal/fixedpoint"
)

// Settlement is the result of settling one position against the market's
// current cumulative funding rate.
type Settlement struct {
	Payment              int64
	AMMCumulativeFunding int64
}

// cumulativeFundingRate selects the long or short cumulative rate the
// position's side accrues against (spec.md §4.4 "Settlement").
func cumulativeFundingRate(a *types.AMM, baseAssetAmount int64) int64 {
	if baseAssetAmount >= 0 {
		return a.CumulativeFundingRateLong
	}
	return a.CumulativeFundingRateShort
}

// SettlePosition computes and applies one position's funding payment:
// payment = (amm_cumulative - last_cumulative) * base_asset_amount / FUNDING_RATE_BUFFER,
// rounded toward zero. The sign convention is payment > 0 credits the
// position (it receives funding); payment < 0 debits it. QuoteEntryAmount is
// never touched — only QuoteAssetAmount and QuoteBreakEvenAmount move
// (spec.md §4.4).
func SettlePosition(a *types.AMM, p *types.PerpPosition) (Settlement, error) {
	ammCum := cumulativeFundingRate(a, p.BaseAssetAmount)
	if p.BaseAssetAmount == 0 {
		p.LastCumulativeFundingRate = ammCum
		return Settlement{AMMCumulativeFunding: ammCum}, nil
	}

	delta, err := fixedpoint.SubI64(ammCum, p.LastCumulativeFundingRate)
	if err != nil {
		return Settlement{}, err
	}
	if delta == 0 {
		p.LastCumulativeFundingRate = ammCum
		return Settlement{AMMCumulativeFunding: ammCum}, nil
	}

	// Funding owed BY the position is delta*base/buffer; the position is
	// credited the negative of that (a positive cumulative delta on a long
	// means longs paid, so a long position's quote balance is debited).
	owed, err := fixedpoint.MulDivSigned(delta, p.BaseAssetAmount, types.FundingRateBuffer, fixedpoint.RoundDown)
	if err != nil {
		return Settlement{}, err
	}
	payment := -owed

	p.QuoteAssetAmount, err = fixedpoint.AddI64(p.QuoteAssetAmount, payment)
	if err != nil {
		return Settlement{}, err
	}
	p.QuoteBreakEvenAmount, err = fixedpoint.AddI64(p.QuoteBreakEvenAmount, payment)
	if err != nil {
		return Settlement{}, err
	}
	p.LastCumulativeFundingRate = ammCum

	return Settlement{Payment: payment, AMMCumulativeFunding: ammCum}, nil
}

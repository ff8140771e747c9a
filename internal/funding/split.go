package funding

import (
	cerrors "github.com/nhb-labs/percore/core/errors"
	"github.com/nhb-labs/percore/core/types"
	"github.com/nhb-labs/percore/internal/fixedpoint"
)

// Split is the asymmetric long/short funding rate pair plus the bookkeeping
// needed to decide whether it had to be capped against the fee pool
// (spec.md §4.4 "asymmetric long/short split").
type Split struct {
	RateLong  int64
	RateShort int64

	UncappedPnlToAMM int64
	Capped           bool
}

// SplitFundingRate derives funding_rate_long and funding_rate_short from the
// symmetric funding_rate, skewing the split so the AMM's net funding revenue
// stays non-negative when one side of open interest dominates, then clamps
// any negative-to-AMM residual against a third of the fee pool balance
// (spec.md §4.4: "fee-pool-capped payouts").
//
// When base_asset_amount_long and base_asset_amount_short are balanced the
// split collapses to rateLong == rateShort == fundingRate.
func SplitFundingRate(m *types.Market, fundingRate int64) (Split, error) {
	longAmt := m.BaseAssetAmountLong
	shortAmt := -m.BaseAssetAmountShort // stored as a negative magnitude
	if shortAmt < 0 {
		shortAmt = -shortAmt
	}

	if longAmt == 0 && shortAmt == 0 {
		return Split{RateLong: fundingRate, RateShort: fundingRate}, nil
	}

	uncappedLongPnl, err := fixedpoint.MulDivSigned(fundingRate, longAmt, types.FundingRateBuffer, fixedpoint.RoundDown)
	if err != nil {
		return Split{}, err
	}
	uncappedShortPnl, err := fixedpoint.MulDivSigned(fundingRate, shortAmt, types.FundingRateBuffer, fixedpoint.RoundDown)
	if err != nil {
		return Split{}, err
	}
	// Positive fundingRate: longs pay, shorts receive. The AMM nets the
	// difference between what it collects from longs and what it owes
	// shorts (it only carries the imbalance between the two sides).
	uncappedToAMM, err := fixedpoint.SubI64(uncappedLongPnl, uncappedShortPnl)
	if err != nil {
		return Split{}, err
	}

	if uncappedToAMM >= 0 {
		return Split{RateLong: fundingRate, RateShort: fundingRate, UncappedPnlToAMM: uncappedToAMM}, nil
	}

	// The AMM would pay out net funding: cap the payout at a third of the
	// fee pool and skew rateShort down so the capped side absorbs the
	// shortfall instead of the protocol.
	maxPayout, err := fixedpoint.DivI64(m.AMM.FeePoolBalance, 3, fixedpoint.RoundDown)
	if err != nil {
		return Split{}, err
	}
	payout := -uncappedToAMM
	if payout <= maxPayout {
		return Split{RateLong: fundingRate, RateShort: fundingRate, UncappedPnlToAMM: uncappedToAMM}, nil
	}

	newFloor, err := fixedpoint.SubI64(m.AMM.TotalFeeMinusDistributions, maxPayout)
	if err != nil {
		return Split{}, err
	}
	if newFloor < 0 {
		return Split{}, cerrors.ErrFundingSolvencyFloor
	}

	cappedShortAmt := shortAmt
	if cappedShortAmt == 0 {
		return Split{}, cerrors.ErrFundingSolvencyFloor
	}
	cappedTotalShortPnl, err := fixedpoint.AddI64(uncappedLongPnl, maxPayout)
	if err != nil {
		return Split{}, err
	}
	rateShort, err := fixedpoint.MulDivSigned(cappedTotalShortPnl, types.FundingRateBuffer, cappedShortAmt, fixedpoint.RoundDown)
	if err != nil {
		return Split{}, err
	}

	return Split{
		RateLong:         fundingRate,
		RateShort:        rateShort,
		UncappedPnlToAMM: uncappedToAMM,
		Capped:           true,
	}, nil
}

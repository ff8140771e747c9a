package scenario

import (
	"testing"

	"github.com/stretchr/testify/require"

	cerrors "github.com/nhb-labs/percore/core/errors"
	"github.com/nhb-labs/percore/core/events"
	"github.com/nhb-labs/percore/core/types"
	"github.com/nhb-labs/percore/internal/funding"
	"github.com/nhb-labs/percore/internal/liquidation"
)

func baseMarket() *types.Market {
	return &types.Market{
		MarketIndex:          1,
		Status:               types.MarketActive,
		ContractTier:         types.ContractTierA,
		FundingPeriodSeconds: 3600,
		AMM: types.AMM{
			BaseReserve:         1_000_000_000_000_000,
			QuoteReserve:        1_000_000_000_000_000,
			SqrtK:               1_000_000_000_000_000,
			PegMultiplier:       types.PegPrecision,
			LastOraclePriceTwap: types.PricePrecision,
			LastMarkPriceTwap:   types.PricePrecision,
			FeePoolBalance:      1_000_000_000,
		},
	}
}

// S2: funding positive accrual. mark_twap > oracle_twap with a long-heavy
// book should yield a positive funding_rate that debits a long position by
// (rate * base) / FUNDING_RATE_BUFFER (spec.md §8 seed case S2).
func TestScenarioS2FundingPositiveAccrualDebitsLong(t *testing.T) {
	m := baseMarket()
	m.BaseAssetAmountLong = 1_000_000_000
	m.BaseAssetAmountShort = -100_000_000 // long-heavy book

	oracleTwap := int64(1_000_000)
	markTwap := int64(1_001_000)

	premium, err := funding.ComputePremium(oracleTwap, markTwap, m.ContractTier, funding.DefaultDivergenceTable(), m.FundingPeriodSeconds)
	require.NoError(t, err)
	require.Greater(t, premium.FundingRate, int64(0))

	split, err := funding.SplitFundingRate(m, premium.FundingRate)
	require.NoError(t, err)
	require.False(t, split.Capped)
	require.Equal(t, split.RateLong, split.RateShort, "balanced-enough book keeps the split symmetric")

	m.AMM.CumulativeFundingRateLong = split.RateLong
	m.AMM.CumulativeFundingRateShort = split.RateShort

	long := &types.PerpPosition{BaseAssetAmount: 1_000_000_000}
	settlement, err := funding.SettlePosition(&m.AMM, long)
	require.NoError(t, err)

	wantPayment := -(split.RateLong * long.BaseAssetAmount) / types.FundingRateBuffer
	require.Equal(t, wantPayment, settlement.Payment)
	require.Equal(t, wantPayment, long.QuoteAssetAmount)
	require.Negative(t, long.QuoteAssetAmount)

	short := &types.PerpPosition{BaseAssetAmount: -100_000_000}
	_, err = funding.SettlePosition(&m.AMM, short)
	require.NoError(t, err)
	require.Positive(t, short.QuoteAssetAmount)
}

// S3: funding cap. A thin fee pool facing a large uncapped short payout
// clamps rateShort so the AMM's realized outflow never exceeds a third of
// the fee pool (spec.md §8 seed case S3).
func TestScenarioS3FundingCapLimitsAMMOutflow(t *testing.T) {
	m := baseMarket()
	m.AMM.FeePoolBalance = 300
	m.AMM.TotalFeeMinusDistributions = 1_000_000
	m.BaseAssetAmountLong = 10_000_000
	m.BaseAssetAmountShort = -1_500_000_000

	split, err := funding.SplitFundingRate(m, 1_000_000_000)
	require.NoError(t, err)
	require.True(t, split.Capped)

	maxPayout := m.AMM.FeePoolBalance / 3
	require.Equal(t, int64(100), maxPayout)

	longAmt := m.BaseAssetAmountLong
	shortAmt := -m.BaseAssetAmountShort
	longPnl := split.RateLong * longAmt / types.FundingRateBuffer
	shortPnl := split.RateShort * shortAmt / types.FundingRateBuffer
	actualToAMM := longPnl - shortPnl
	require.GreaterOrEqual(t, actualToAMM, -maxPayout)
}

// S4: liquidation throttle ramps linearly from initial_pct at slot 0 to
// 100% at duration, gating how much of a 1000-unit shortage a liquidator
// may consume at a given slot (spec.md §8 seed case S4).
func TestScenarioS4LiquidationThrottleRampsAcrossSlots(t *testing.T) {
	const shortage = 1000
	const duration = 100
	const initialPct = 1_000 // 10% of SpotWeightPrecision

	for _, tc := range []struct {
		slot int64
		want int64
	}{
		{0, 100},
		{50, 550},
		{100, 1000},
	} {
		pct, err := liquidation.ThrottlePct(tc.slot, duration, initialPct, false)
		require.NoError(t, err)
		consumable := shortage * pct / types.SpotWeightPrecision
		require.Equal(t, tc.want, consumable, "slot %d", tc.slot)
	}
}

// S6: an oracle reading more than too_volatile_ratio away from its own TWAP
// blocks update_funding_rate entirely, leaving market state untouched
// (spec.md §8 seed case S6).
func TestScenarioS6TooVolatileOracleBlocksFunding(t *testing.T) {
	m := baseMarket()
	m.AMM.LastOraclePriceTwap = 100
	m.AMM.LastFundingRateTS = 0
	before := *m

	snap := types.OracleSnapshot{Price: 1000, HasSufficientDataPoints: true}
	sink := &events.CollectingSink{}

	err := funding.UpdateFundingRate(m, snap, 3601, funding.DefaultConfig(), sink)
	require.Error(t, err)
	require.Equal(t, cerrors.KindValidityGate, cerrors.Classify(err))
	require.Empty(t, sink.Records)
	require.Equal(t, before, *m)
}

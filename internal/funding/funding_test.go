package funding

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nhb-labs/percore/core/errors"
	"github.com/nhb-labs/percore/core/events"
	"github.com/nhb-labs/percore/core/types"
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

func TestOnTheHourUpdate(t *testing.T) {
	require.ErrorIs(t, OnTheHourUpdate(100, 100, 3600), errors.ErrFundingClockSkew)
	require.ErrorIs(t, OnTheHourUpdate(200, 100, 3600), errors.ErrFundingNotDue)
	require.NoError(t, OnTheHourUpdate(3701, 100, 3600))
}

func TestComputePremiumZeroSpreadFollowsOffsetBias(t *testing.T) {
	p, err := ComputePremium(types.PricePrecision, types.PricePrecision, types.ContractTierA, DefaultDivergenceTable(), 3600)
	require.NoError(t, err)
	// offset bias alone still nudges the spread; rate sign follows the bias.
	require.Equal(t, p.OracleTwap, int64(types.PricePrecision))
	require.Equal(t, int64(types.PricePrecision/types.FundingRateOffsetDenominator), p.PriceSpread)
	require.Greater(t, p.FundingRate, int64(0))
}

func TestComputePremiumClampsToTierBound(t *testing.T) {
	table := DefaultDivergenceTable()
	oracleTwap := int64(types.PricePrecision)
	markTwap := oracleTwap * 2 // wildly divergent
	p, err := ComputePremium(oracleTwap, markTwap, types.ContractTierPrediction, table, 3600)
	require.NoError(t, err)
	bound, err := table.MaxPriceDivergence(types.ContractTierPrediction, oracleTwap)
	require.NoError(t, err)
	require.Equal(t, bound, p.Clamped)
}

func TestSplitFundingRateBalancedBook(t *testing.T) {
	m := baseMarket()
	m.BaseAssetAmountLong = 1_000_000_000
	m.BaseAssetAmountShort = -1_000_000_000
	split, err := SplitFundingRate(m, 1_000_000)
	require.NoError(t, err)
	require.Equal(t, split.RateLong, split.RateShort)
	require.False(t, split.Capped)
}

func TestSplitFundingRateCapsAgainstFeePool(t *testing.T) {
	m := baseMarket()
	m.AMM.FeePoolBalance = 100
	m.AMM.TotalFeeMinusDistributions = 1_000_000_000
	m.BaseAssetAmountLong = 100_000_000
	m.BaseAssetAmountShort = -10_000_000_000
	split, err := SplitFundingRate(m, 1_000_000_000)
	require.NoError(t, err)
	require.True(t, split.Capped)
}

func TestSettlePositionZeroPositionJustAdvancesCursor(t *testing.T) {
	a := &types.AMM{CumulativeFundingRateLong: 500}
	p := &types.PerpPosition{}
	settlement, err := SettlePosition(a, p)
	require.NoError(t, err)
	require.Equal(t, int64(0), settlement.Payment)
	require.Equal(t, int64(500), p.LastCumulativeFundingRate)
}

func TestSettlePositionDebitsLongWhenCumulativeRises(t *testing.T) {
	a := &types.AMM{CumulativeFundingRateLong: 1_000_000_000}
	p := &types.PerpPosition{BaseAssetAmount: 1_000_000_000, LastCumulativeFundingRate: 0}
	settlement, err := SettlePosition(a, p)
	require.NoError(t, err)
	require.Equal(t, int64(-100_000_000_000_000), settlement.Payment)
	require.Equal(t, int64(-100_000_000_000_000), p.QuoteAssetAmount)
	require.Equal(t, int64(-100_000_000_000_000), p.QuoteBreakEvenAmount)
	require.Equal(t, int64(0), p.QuoteEntryAmount)
}

func TestUpdateFundingRateEmitsRecord(t *testing.T) {
	m := baseMarket()
	m.BaseAssetAmountLong = 1_000_000_000
	m.BaseAssetAmountShort = -1_000_000_000
	snap := types.OracleSnapshot{Price: types.PricePrecision, Confidence: 100, HasSufficientDataPoints: true}
	sink := &events.CollectingSink{}
	err := UpdateFundingRate(m, snap, 3601, DefaultConfig(), sink)
	require.NoError(t, err)
	require.Len(t, sink.Records, 1)
	require.Equal(t, events.TypeFundingRate, sink.Records[0].RecordType())
	require.Equal(t, int64(3601), m.AMM.LastFundingRateTS)
}

func TestUpdateFundingRateRejectsBeforeCadence(t *testing.T) {
	m := baseMarket()
	m.AMM.LastFundingRateTS = 1000
	snap := types.OracleSnapshot{Price: types.PricePrecision, HasSufficientDataPoints: true}
	err := UpdateFundingRate(m, snap, 1001, DefaultConfig(), nil)
	require.ErrorIs(t, err, errors.ErrFundingNotDue)
}

package liquidation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nhb-labs/percore/core/types"
	"github.com/nhb-labs/percore/internal/margin"
)

func baseMarket() *types.Market {
	return &types.Market{
		MarketIndex:            1,
		Status:                 types.MarketActive,
		MarginRatioMaintenance: 500,  // 5%
		MarginRatioInitial:     1000, // 10%
	}
}

func TestCheckFlagsBelowMaintenance(t *testing.T) {
	// base*price/PricePrecision with price == PricePrecision reduces to
	// base itself, so a 100-unit position notionals at 100*BasePrecision.
	const baseValue = 100 * types.BasePrecision
	const requirement = baseValue * 500 / types.SpotWeightPrecision // 5%

	user := &types.User{}
	user.PerpPositions[0] = types.PerpPosition{MarketIndex: 1, BaseAssetAmount: 100 * types.BasePrecision, QuoteAssetAmount: requirement - baseValue}

	ctx := margin.Context{
		Perp: map[uint16]margin.PerpSnapshot{
			1: {Market: baseMarket(), OraclePrice: types.PricePrecision},
		},
	}

	status, err := Check(user, ctx)
	require.NoError(t, err)
	// collateral == requirement is not below, so not liquidatable yet.
	require.False(t, status.Liquidatable)

	user.PerpPositions[0].QuoteAssetAmount = requirement - baseValue - 1
	status, err = Check(user, ctx)
	require.NoError(t, err)
	require.True(t, status.Liquidatable)
}

func TestEnterRejectsHealthyUser(t *testing.T) {
	user := &types.User{}
	user.PerpPositions[0] = types.PerpPosition{MarketIndex: 1, BaseAssetAmount: 100 * types.BasePrecision, QuoteAssetAmount: 0}
	ctx := margin.Context{
		Perp: map[uint16]margin.PerpSnapshot{1: {Market: baseMarket(), OraclePrice: types.PricePrecision}},
	}
	_, err := Enter(user, ctx)
	require.Error(t, err)
}

func TestTryExitRequiresBufferAboveMaintenance(t *testing.T) {
	const baseValue = 100 * types.BasePrecision
	const requirement = baseValue * 500 / types.SpotWeightPrecision // 5%
	const threshold = requirement * (10_000 + ExitBufferBps) / 10_000

	user := &types.User{BeingLiquidated: true}
	user.PerpPositions[0] = types.PerpPosition{MarketIndex: 1, BaseAssetAmount: 100 * types.BasePrecision, QuoteAssetAmount: threshold - baseValue - 1}
	ctx := margin.Context{
		Perp: map[uint16]margin.PerpSnapshot{1: {Market: baseMarket(), OraclePrice: types.PricePrecision}},
	}

	exited, err := TryExit(user, ctx)
	require.NoError(t, err)
	require.False(t, exited)

	user.PerpPositions[0].QuoteAssetAmount = threshold - baseValue
	exited, err = TryExit(user, ctx)
	require.NoError(t, err)
	require.True(t, exited)
	require.False(t, user.BeingLiquidated)
}

func TestThrottlePctRampsLinearly(t *testing.T) {
	pct, err := ThrottlePct(0, 100, 1_000, false)
	require.NoError(t, err)
	require.Equal(t, int64(1_000), pct)

	pct, err = ThrottlePct(50, 100, 1_000, false)
	require.NoError(t, err)
	require.Equal(t, int64(1_000+(types.SpotWeightPrecision-1_000)/2), pct)

	pct, err = ThrottlePct(200, 100, 1_000, false)
	require.NoError(t, err)
	require.Equal(t, int64(types.SpotWeightPrecision), pct)
}

func TestThrottlePctIsolatedSkipsRamp(t *testing.T) {
	pct, err := ThrottlePct(0, 100, 1_000, true)
	require.NoError(t, err)
	require.Equal(t, int64(types.SpotWeightPrecision), pct)
}

func TestAttemptLimiterBurstThenBlocks(t *testing.T) {
	liquidator := [20]byte{1}
	l := NewAttemptLimiter(1, 1)
	require.True(t, l.Allow(liquidator))
	require.False(t, l.Allow(liquidator))
}

func TestLiquidatePerpTransfersMinBound(t *testing.T) {
	m := baseMarket()
	m.BaseAssetAmountLong = 100 * types.BasePrecision

	liquidatee := &types.PerpPosition{MarketIndex: 1, BaseAssetAmount: 100 * types.BasePrecision, QuoteAssetAmount: -96 * types.PricePrecision, QuoteEntryAmount: -100 * types.PricePrecision}
	liquidator := &types.PerpPosition{MarketIndex: 1}

	res, _, _, err := LiquidatePerp(m, liquidatee, liquidator, types.PricePrecision, 10_000, 10*types.BasePrecision, 1_000*types.BasePrecision, types.SpotWeightPrecision)
	require.NoError(t, err)
	require.Equal(t, int64(10*types.BasePrecision), res.TransferBase)
	require.Equal(t, int64(90*types.BasePrecision), liquidatee.BaseAssetAmount)
	require.Equal(t, int64(10*types.BasePrecision), liquidator.BaseAssetAmount)
}

func TestLiquidatePerpRejectsFlatPosition(t *testing.T) {
	m := baseMarket()
	liquidatee := &types.PerpPosition{MarketIndex: 1}
	liquidator := &types.PerpPosition{MarketIndex: 1}
	_, _, _, err := LiquidatePerp(m, liquidatee, liquidator, types.PricePrecision, 10_000, 1, 1, types.SpotWeightPrecision)
	require.Error(t, err)
}

func TestLiabilityTransferRequiresPositiveWeightSpread(t *testing.T) {
	_, err := LiabilityTransfer(1_000_000, types.PricePrecision, 8_000, 9_000, 1, 1)
	require.Error(t, err)
}

func TestLiquidateBorrowRepaysAndSeizesCollateral(t *testing.T) {
	liabilityMarket := &types.SpotMarket{
		MarketIndex:                1,
		CumulativeBorrowInterest:   types.SpotWeightPrecision,
		CumulativeDepositInterest:  types.SpotWeightPrecision,
		MaintenanceLiabilityWeight: 11_000,
		BorrowBalance:              100 * types.BasePrecision,
	}
	assetMarket := &types.SpotMarket{
		MarketIndex:               2,
		CumulativeDepositInterest: types.SpotWeightPrecision,
		MaintenanceAssetWeight:    9_000,
		DepositBalance:            100 * types.BasePrecision,
	}

	liquidateeLiability := &types.SpotPosition{MarketIndex: 1, BalanceType: types.BalanceBorrow, ScaledBalance: 50 * types.BasePrecision}
	liquidateeAsset := &types.SpotPosition{MarketIndex: 2, BalanceType: types.BalanceDeposit, ScaledBalance: 50 * types.BasePrecision}
	liquidatorLiability := &types.SpotPosition{MarketIndex: 1, BalanceType: types.BalanceDeposit}
	liquidatorAsset := &types.SpotPosition{MarketIndex: 2, BalanceType: types.BalanceDeposit}

	res, err := LiquidateBorrow(liquidateeLiability, liquidateeAsset, liquidatorLiability, liquidatorAsset, liabilityMarket, assetMarket, types.PricePrecision, types.PricePrecision, 10*types.BasePrecision, 1_000_000)
	require.NoError(t, err)
	require.Greater(t, res.LiabilityRepaid, int64(0))
	require.Greater(t, res.AssetSeized, int64(0))
	require.Equal(t, types.BalanceBorrow, liquidatorLiability.BalanceType)
}

func TestSocializePerpBankruptcyRequiresNegativeCollateral(t *testing.T) {
	m := baseMarket()
	user := &types.User{}
	user.PerpPositions[0] = types.PerpPosition{MarketIndex: 1}
	_, err := SocializePerpBankruptcy(m, user, 1, 100, 50, true)
	require.Error(t, err)
}

func TestSocializePerpBankruptcySpreadsLossOverOpenSide(t *testing.T) {
	m := baseMarket()
	m.BaseAssetAmountLong = 0
	m.BaseAssetAmountShort = -100 * types.BasePrecision

	user := &types.User{}
	user.PerpPositions[0] = types.PerpPosition{MarketIndex: 1, BaseAssetAmount: 0, QuoteAssetAmount: -50 * types.PricePrecision}

	res, err := SocializePerpBankruptcy(m, user, 1, -50*types.PricePrecision, 50*types.PricePrecision, true)
	require.NoError(t, err)
	require.Equal(t, uint8(1), res.Side)
	require.Equal(t, int64(-100*types.BasePrecision), res.TotalOpenBase)
	require.Less(t, m.AMM.CumulativeFundingRateShort, int64(0))
	require.False(t, user.BeingLiquidated)
}

func TestSocializeSpotBankruptcyHaircutsDepositInterest(t *testing.T) {
	sm := &types.SpotMarket{
		DepositBalance:            1_000 * types.BasePrecision,
		CumulativeDepositInterest: types.SpotWeightPrecision,
	}
	res, err := SocializeSpotBankruptcy(sm, -1, 100*types.BasePrecision)
	require.NoError(t, err)
	require.Less(t, res.After, res.Before)
	require.Less(t, sm.CumulativeDepositInterest, types.SpotWeightPrecision)
}

package margin

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nhb-labs/percore/core/types"
)

func TestTotalCollateralNetsDepositAndPerp(t *testing.T) {
	user := &types.User{}
	user.SpotPositions[0] = types.SpotPosition{MarketIndex: 0, ScaledBalance: 1_000_000_000, BalanceType: types.BalanceDeposit}
	user.PerpPositions[0] = types.PerpPosition{MarketIndex: 1, BaseAssetAmount: 1_000_000_000, QuoteAssetAmount: -1_000_000}

	ctx := Context{
		Spot: map[uint16]SpotSnapshot{
			0: {Market: &types.SpotMarket{CumulativeDepositInterest: types.SpotWeightPrecision, MaintenanceAssetWeight: 9_000, InitialAssetWeight: 8_000}, OraclePrice: types.PricePrecision},
		},
		Perp: map[uint16]PerpSnapshot{
			1: {Market: &types.Market{MarginRatioMaintenance: 500, MarginRatioInitial: 1_000}, OraclePrice: types.PricePrecision},
		},
	}

	collateral, err := TotalCollateral(user, ctx, ModeMaintenance, false)
	require.NoError(t, err)
	// deposit: 1e9 * 1e6/1e6 * 9000/10000 = 900_000_000
	// perp: quote(-1_000_000) + base*price = -1_000_000 + 1_000_000_000 = 999_000_000
	require.Equal(t, int64(900_000_000+999_000_000), collateral)
}

func TestMarginRequirementAppliesIMFPremium(t *testing.T) {
	user := &types.User{}
	user.PerpPositions[0] = types.PerpPosition{MarketIndex: 1, BaseAssetAmount: 100 * types.BasePrecision}
	ctx := Context{
		Perp: map[uint16]PerpSnapshot{
			1: {Market: &types.Market{MarginRatioInitial: 1_000, MarginRatioMaintenance: 500, IMFFactor: 10_000}, OraclePrice: types.PricePrecision},
		},
	}
	maint, err := MarginRequirement(user, ctx, ModeMaintenance, false)
	require.NoError(t, err)
	initial, err := MarginRequirement(user, ctx, ModeInitial, false)
	require.NoError(t, err)
	require.Greater(t, initial, maint)
}

func TestLiabilityNotionalPredictionMarketUsesComplement(t *testing.T) {
	v, err := liabilityNotional(types.ContractTierPrediction, types.BasePrecision, 200_000)
	require.NoError(t, err)
	// complement = 1_000_000 - 200_000 = 800_000 > 200_000, so it wins:
	// 1e9 * 800_000 / PricePrecision = 800_000_000.
	require.Equal(t, int64(800_000_000), v)
}

package scaleorder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nhb-labs/percore/core/types"
)

func TestExpandFlatLongDCADown(t *testing.T) {
	// S5: Long Flat N=5, start=110, end=100, total=1.0 (BasePrecision units).
	params := types.ScaleOrderParams{
		Direction:            types.DirectionLong,
		TotalBaseAssetAmount: 1 * types.BasePrecision,
		StartPrice:           110 * types.PricePrecision,
		EndPrice:             100 * types.PricePrecision,
		NumOrders:            5,
		Distribution:         types.ScaleDistributionFlat,
	}

	orders, err := Expand(params, 1, 0)
	require.NoError(t, err)
	require.Len(t, orders, 5)

	wantPrices := []int64{110, 107_500_000, 105_000_000, 102_500_000, 100_000_000}
	for i, want := range wantPrices {
		if i == 0 {
			require.Equal(t, int64(110*types.PricePrecision), orders[0].Price)
			continue
		}
		require.Equal(t, want, orders[i].Price)
	}

	var sum int64
	for _, o := range orders {
		require.Equal(t, int64(0.2*float64(types.BasePrecision)), o.BaseAssetAmount)
		sum += o.BaseAssetAmount
	}
	require.Equal(t, params.TotalBaseAssetAmount, sum)
}

func TestExpandRejectsWrongMonotonicityForLong(t *testing.T) {
	params := types.ScaleOrderParams{
		Direction:            types.DirectionLong,
		TotalBaseAssetAmount: 10 * types.BasePrecision,
		StartPrice:           100 * types.PricePrecision,
		EndPrice:             110 * types.PricePrecision,
		NumOrders:            3,
	}
	_, err := Expand(params, 1, 0)
	require.Error(t, err)
}

func TestExpandRejectsTotalBelowStepFloor(t *testing.T) {
	params := types.ScaleOrderParams{
		Direction:            types.DirectionShort,
		TotalBaseAssetAmount: 1,
		StartPrice:           100 * types.PricePrecision,
		EndPrice:             110 * types.PricePrecision,
		NumOrders:            3,
	}
	_, err := Expand(params, 1_000, 0)
	require.Error(t, err)
}

func TestExpandRejectsOpenOrderCap(t *testing.T) {
	params := types.ScaleOrderParams{
		Direction:            types.DirectionLong,
		TotalBaseAssetAmount: 100 * types.BasePrecision,
		StartPrice:           110 * types.PricePrecision,
		EndPrice:             100 * types.PricePrecision,
		NumOrders:            5,
	}
	_, err := Expand(params, 1, types.MaxOpenOrders-2)
	require.Error(t, err)
}

func TestExpandAscendingSumsExactlyAndGrows(t *testing.T) {
	params := types.ScaleOrderParams{
		Direction:            types.DirectionShort,
		TotalBaseAssetAmount: 1_000 * types.BasePrecision,
		StartPrice:           100 * types.PricePrecision,
		EndPrice:             110 * types.PricePrecision,
		NumOrders:            4,
		Distribution:         types.ScaleDistributionAscending,
	}
	orders, err := Expand(params, 1, 0)
	require.NoError(t, err)

	var sum int64
	for i, o := range orders {
		sum += o.BaseAssetAmount
		if i > 0 {
			require.GreaterOrEqual(t, o.BaseAssetAmount, orders[i-1].BaseAssetAmount)
		}
	}
	require.Equal(t, params.TotalBaseAssetAmount, sum)
}

func TestExpandDescendingMirrorsAscending(t *testing.T) {
	base := types.ScaleOrderParams{
		Direction:            types.DirectionShort,
		TotalBaseAssetAmount: 1_000 * types.BasePrecision,
		StartPrice:           100 * types.PricePrecision,
		EndPrice:             110 * types.PricePrecision,
		NumOrders:            4,
	}
	asc := base
	asc.Distribution = types.ScaleDistributionAscending
	ascOrders, err := Expand(asc, 1, 0)
	require.NoError(t, err)

	desc := base
	desc.Distribution = types.ScaleDistributionDescending
	descOrders, err := Expand(desc, 1, 0)
	require.NoError(t, err)

	require.Equal(t, ascOrders[0].BaseAssetAmount, descOrders[len(descOrders)-1].BaseAssetAmount)
}

func TestExpandOnlyFirstOrderCarriesBitFlags(t *testing.T) {
	params := types.ScaleOrderParams{
		Direction:            types.DirectionLong,
		TotalBaseAssetAmount: 10 * types.BasePrecision,
		StartPrice:           110 * types.PricePrecision,
		EndPrice:             100 * types.PricePrecision,
		NumOrders:            3,
		BitFlags:             0x01,
	}
	orders, err := Expand(params, 1, 0)
	require.NoError(t, err)
	require.Equal(t, uint8(0x01), orders[0].BitFlags)
	require.Equal(t, uint8(0), orders[1].BitFlags)
	require.Equal(t, uint8(0), orders[2].BitFlags)
}

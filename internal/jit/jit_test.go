package jit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nhb-labs/percore/core/types"
)

func baseAMM() *types.AMM {
	return &types.AMM{
		BaseReserve:          1_000 * types.AMMReservePrecision,
		QuoteReserve:         1_000 * types.AMMReservePrecision,
		SqrtK:                1_000 * types.AMMReservePrecision,
		PegMultiplier:        types.PegPrecision,
		TerminalQuoteReserve: 1_000 * types.AMMReservePrecision,
		BaseSpread:           2_000, // 0.2% total, 0.1% each side
		MaxSpread:            50_000,
		AMMJitIntensity:      100,
		OrderStepSize:        1,
	}
}

func TestRecomputeStaysWithinCapWhenBalanced(t *testing.T) {
	a := baseAMM()
	s, err := Recompute(a, 100*types.BasePrecision, -100*types.BasePrecision)
	require.NoError(t, err)
	require.LessOrEqual(t, s.LongSpread+s.ShortSpread, a.MaxSpread)
}

func TestRecomputeAppliesLargeFactorWhenFeePoolDry(t *testing.T) {
	balanced := baseAMM()
	balanced.TotalFeeMinusDistributions = 1
	sBalanced, err := Recompute(balanced, 100*types.BasePrecision, -100*types.BasePrecision)
	require.NoError(t, err)

	dry := baseAMM()
	dry.TotalFeeMinusDistributions = -1
	sDry, err := Recompute(dry, 100*types.BasePrecision, -100*types.BasePrecision)
	require.NoError(t, err)

	require.GreaterOrEqual(t, sDry.LongSpread+sDry.ShortSpread, sBalanced.LongSpread+sBalanced.ShortSpread)
}

func TestWantsJITOnlyWhenMovingTowardZero(t *testing.T) {
	require.True(t, WantsJIT(100, -10))
	require.False(t, WantsJIT(100, 10))
	require.True(t, WantsJIT(-100, 10))
	require.False(t, WantsJIT(0, 10))
}

func TestSizeNeverFlipsNetBaseSign(t *testing.T) {
	a := baseAMM()
	a.NetBaseAssetAmountWithAMM = 5 * types.BasePrecision
	size, err := Size(a, 100*types.BasePrecision, 100*types.BasePrecision, 10*types.BasePrecision, 10*types.BasePrecision)
	require.NoError(t, err)
	require.LessOrEqual(t, size, a.NetBaseAssetAmountWithAMM)
}

func TestSizeIsBoundedByLimitShareEvenWhenImbalanced(t *testing.T) {
	a := baseAMM()
	a.NetBaseAssetAmountWithAMM = 1_000_000 * types.BasePrecision
	a.AMMJitIntensity = 100
	size, err := Size(a, 100*types.BasePrecision, 1_000_000*types.BasePrecision, 100*types.BasePrecision, 1*types.BasePrecision)
	require.NoError(t, err)
	// limit share (half of maker_base) is the binding constraint here even
	// though the imbalance and intensity shares would allow more.
	require.Equal(t, int64(50*types.BasePrecision), size)
}

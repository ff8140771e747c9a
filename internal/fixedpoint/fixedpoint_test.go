package fixedpoint

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDivI64Rounding(t *testing.T) {
	q, err := DivI64(7, 2, RoundDown)
	require.NoError(t, err)
	require.Equal(t, int64(3), q)

	q, err = DivI64(7, 2, RoundUp)
	require.NoError(t, err)
	require.Equal(t, int64(4), q)

	q, err = DivI64(-7, 2, RoundDown)
	require.NoError(t, err)
	require.Equal(t, int64(-3), q)

	q, err = DivI64(-7, 2, RoundUp)
	require.NoError(t, err)
	require.Equal(t, int64(-4), q)
}

func TestMulI64Overflow(t *testing.T) {
	_, err := MulI64(math.MaxInt64, 2)
	require.ErrorIs(t, err, ErrOverflow)
}

func TestConvertScale(t *testing.T) {
	v, err := ConvertScale(1_000_000, 6, 9, RoundDown)
	require.NoError(t, err)
	require.Equal(t, int64(1_000_000_000), v)

	v, err = ConvertScale(1_000_000_000, 9, 6, RoundDown)
	require.NoError(t, err)
	require.Equal(t, int64(1_000_000), v)
}

func TestSqrtI64(t *testing.T) {
	v, err := SqrtI64(1_000_000_000_000_000_000)
	require.NoError(t, err)
	require.Equal(t, int64(1_000_000_000), v)
}

func TestMulDivSigned(t *testing.T) {
	v, err := MulDivSigned(1_000_000_000_000, 1_000_000_000_000, 1_000_000_000_000, RoundDown)
	require.NoError(t, err)
	require.Equal(t, int64(1_000_000_000_000), v)

	v, err = MulDivSigned(-10, 3, 2, RoundDown)
	require.NoError(t, err)
	require.Equal(t, int64(-15), v)
}

func TestSqrtKOverReserve(t *testing.T) {
	v, err := SqrtKOverReserve(1_000_000_000_000_000, 1_000_000_000_000_000)
	require.NoError(t, err)
	require.Equal(t, int64(1_000_000_000_000_000), v)
}

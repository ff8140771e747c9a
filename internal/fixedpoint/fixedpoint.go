// Package fixedpoint implements the checked scaled-integer arithmetic that
// every other component builds on (spec.md §4.1, C1). Overflow in a checked
// operation is a fatal protocol error — it never silently wraps.
package fixedpoint

import (
	"math"
	"math/big"

	cerrors "github.com/nhb-labs/percore/core/errors"
)

// ErrOverflow is returned by every checked operation that would overflow the
// requested integer width.
var ErrOverflow = cerrors.New(cerrors.KindMath, "fixedpoint: operation overflows")

// ErrDivideByZero is returned by any checked division with a zero divisor.
var ErrDivideByZero = cerrors.New(cerrors.KindMath, "fixedpoint: division by zero")

// AddI64 adds two signed 64-bit quantities, failing on overflow.
func AddI64(a, b int64) (int64, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, ErrOverflow
	}
	return sum, nil
}

// SubI64 subtracts b from a, failing on overflow.
func SubI64(a, b int64) (int64, error) {
	if b == math.MinInt64 {
		return 0, ErrOverflow
	}
	return AddI64(a, -b)
}

// MulI64 multiplies two signed 64-bit quantities using a 128-bit
// intermediate, failing if the result does not fit back into 64 bits.
func MulI64(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	wide := new(big.Int).Mul(big.NewInt(a), big.NewInt(b))
	if !wide.IsInt64() {
		return 0, ErrOverflow
	}
	return wide.Int64(), nil
}

// RoundMode selects the sanctioned rounding rule for a checked division
// (spec.md §4.1: borrow rounds up, deposit/pnl round down).
type RoundMode uint8

const (
	RoundDown RoundMode = iota
	RoundUp
)

// DivI64 divides a by b using the requested rounding mode on the
// magnitude, preserving the sign of the mathematical quotient.
func DivI64(a, b int64, mode RoundMode) (int64, error) {
	if b == 0 {
		return 0, ErrDivideByZero
	}
	if a == math.MinInt64 || b == math.MinInt64 {
		// Avoid sign-flip overflow on Abs; route through big.Int instead.
		return divBig(big.NewInt(a), big.NewInt(b), mode)
	}
	neg := (a < 0) != (b < 0)
	absA, absB := abs64(a), abs64(b)
	q := absA / absB
	r := absA % absB
	if r != 0 && mode == RoundUp {
		q++
	}
	if neg {
		return -q, nil
	}
	return q, nil
}

func divBig(a, b *big.Int, mode RoundMode) (int64, error) {
	q, r := new(big.Int).QuoRem(a, b, new(big.Int))
	if r.Sign() != 0 && mode == RoundUp {
		if (a.Sign() < 0) == (b.Sign() < 0) {
			q.Add(q, big.NewInt(1))
		} else {
			q.Sub(q, big.NewInt(1))
		}
	}
	if !q.IsInt64() {
		return 0, ErrOverflow
	}
	return q.Int64(), nil
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// ConvertScale rescales value from a precision of 10^fromExp to 10^toExp,
// multiplying when the target precision is finer and dividing (with mode)
// otherwise. It never routes through a float (spec.md §4.1).
func ConvertScale(value int64, fromExp, toExp int, mode RoundMode) (int64, error) {
	if fromExp == toExp {
		return value, nil
	}
	if toExp > fromExp {
		factor := pow10(toExp - fromExp)
		return MulI64(value, factor)
	}
	factor := pow10(fromExp - toExp)
	return DivI64(value, factor, mode)
}

func pow10(n int) int64 {
	v := int64(1)
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}

// SqrtI64 computes the integer square root of a non-negative value via
// widened big.Int arithmetic (spec.md §4.1: "price and reserve derivations
// use integer sqrt after widening").
func SqrtI64(value int64) (int64, error) {
	if value < 0 {
		return 0, cerrors.New(cerrors.KindMath, "fixedpoint: sqrt of negative value")
	}
	root := new(big.Int).Sqrt(big.NewInt(value))
	if !root.IsInt64() {
		return 0, ErrOverflow
	}
	return root.Int64(), nil
}

package fixedpoint

import (
	"math"

	"github.com/holiman/uint256"

	cerrors "github.com/nhb-labs/percore/core/errors"
)

// MulDivSigned computes a*b/c with a 256-bit intermediate product so it never
// overflows the way a naive int64 multiply-then-divide would (spec.md §4.1
// "Multiplications that could exceed 128 bits ... use a 192-bit widening
// type"; uint256 is the concrete widened width used here). Sign is tracked
// separately and checked before the unsigned uint256 result is narrowed back
// (spec.md §9).
func MulDivSigned(a, b, c int64, mode RoundMode) (int64, error) {
	if c == 0 {
		return 0, ErrDivideByZero
	}
	neg := signOf(a) != signOf(b)
	negDivisor := signOf(c) < 0
	if negDivisor {
		neg = !neg
	}

	ua := uint256.NewInt(uint64(abs64(a)))
	ub := uint256.NewInt(uint64(abs64(b)))
	uc := uint256.NewInt(uint64(abs64(c)))

	product := new(uint256.Int).Mul(ua, ub)
	quot, rem := new(uint256.Int), new(uint256.Int)
	quot.DivMod(product, uc, rem)

	if !rem.IsZero() && mode == RoundUp {
		quot.AddUint64(quot, 1)
	}

	if !quot.IsUint64() {
		return 0, ErrOverflow
	}
	magnitude := quot.Uint64()
	if magnitude > (1<<63) || (magnitude == (1<<63) && !neg) {
		return 0, ErrOverflow
	}
	result := int64(magnitude)
	if neg {
		result = -result
	}
	return result, nil
}

func signOf(v int64) int {
	if v < 0 {
		return -1
	}
	return 1
}

// SqrtKOverReserve computes sqrtK*sqrtK/reserve using a 256-bit
// intermediate, the widened operation behind invariant 3 (spec.md §3):
// |sqrt_k^2/base_reserve - quote_reserve| <= 15.
func SqrtKOverReserve(sqrtK, reserve int64) (int64, error) {
	if reserve <= 0 {
		return 0, cerrors.New(cerrors.KindMath, "fixedpoint: non-positive reserve")
	}
	if sqrtK < 0 {
		return 0, cerrors.New(cerrors.KindMath, "fixedpoint: negative sqrt_k")
	}
	k := uint256.NewInt(uint64(sqrtK))
	k.Mul(k, k)
	r := uint256.NewInt(uint64(reserve))
	q := new(uint256.Int).Div(k, r)
	if !q.IsUint64() || q.Uint64() > uint64(math.MaxInt64) {
		return 0, ErrOverflow
	}
	return int64(q.Uint64()), nil
}

package position

import "github.com/nhb-labs/percore/internal/fixedpoint"

// NormalizeStepSize folds a carried remainder into a raw base amount and
// splits the sum back into a step-size-aligned settled amount plus a new
// remainder with |remainder| < stepSize (spec.md §4.5: "step-size
// normalization absorbs any remainder overflow into remainder"). A
// non-positive stepSize disables normalization.
func NormalizeStepSize(rawBase, carriedRemainder, stepSize int64) (settled, remainder int64, err error) {
	if stepSize <= 0 {
		return rawBase, carriedRemainder, nil
	}
	total, err := fixedpoint.AddI64(rawBase, carriedRemainder)
	if err != nil {
		return 0, 0, err
	}
	r, err := fixedpoint.DivI64(total, stepSize, fixedpoint.RoundDown)
	if err != nil {
		return 0, 0, err
	}
	settled, err = fixedpoint.MulI64(r, stepSize)
	if err != nil {
		return 0, 0, err
	}
	remainder, err = fixedpoint.SubI64(total, settled)
	if err != nil {
		return 0, 0, err
	}
	return settled, remainder, nil
}

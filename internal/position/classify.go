// Package position implements position-delta application: classification
// into Open/Increase/Reduce/Close/Flip, step-size normalization, and
// proportional quote-entry/break-even bookkeeping (spec.md §4.5, C5).
package position

import "github.com/nhb-labs/percore/core/types"

// Classify determines which of the five update_position cases applies,
// comparing the position's combined base (its settled amount plus any
// carried step-size remainder) against the incoming delta's base (spec.md
// §4.5).
func Classify(baseBefore, remainderBefore, deltaBase int64) types.PositionChangeKind {
	if baseBefore == 0 && remainderBefore == 0 {
		return types.PositionOpen
	}
	combined := baseBefore + remainderBefore
	if signOf(combined) == signOf(deltaBase) || deltaBase == 0 {
		return types.PositionIncrease
	}

	absCombined := abs64(combined)
	absDelta := abs64(deltaBase)
	switch {
	case absCombined > absDelta:
		return types.PositionReduce
	case absCombined == absDelta:
		return types.PositionClose
	default:
		return types.PositionFlip
	}
}

func signOf(v int64) int {
	if v < 0 {
		return -1
	}
	if v > 0 {
		return 1
	}
	return 0
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

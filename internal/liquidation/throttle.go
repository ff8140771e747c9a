package liquidation

import (
	"github.com/nhb-labs/percore/core/types"
	"github.com/nhb-labs/percore/internal/fixedpoint"
)

// ThrottlePct computes the SpotWeightPrecision-scaled fraction of the
// margin shortage a liquidator may consume this slot: it ramps linearly
// from initialPct at slot 0 to 100% after durationSlots (spec.md §4.8
// "Throttled size"). Isolated positions disable the throttle entirely.
func ThrottlePct(slotsSinceEntry, durationSlots, initialPct int64, isolated bool) (int64, error) {
	if isolated || durationSlots <= 0 || slotsSinceEntry >= durationSlots {
		return types.SpotWeightPrecision, nil
	}
	span := types.SpotWeightPrecision - initialPct
	progress, err := fixedpoint.MulDivSigned(span, slotsSinceEntry, durationSlots, fixedpoint.RoundDown)
	if err != nil {
		return 0, err
	}
	pct := initialPct + progress
	if pct > types.SpotWeightPrecision {
		pct = types.SpotWeightPrecision
	}
	return pct, nil
}

// Package funding implements the periodic funding-rate engine: premium
// computation, the asymmetric long/short split, fee-pool clamping, and
// per-position settlement (spec.md §4.4, C4).
package funding

import cerrors "github.com/nhb-labs/percore/core/errors"

// OnTheHourUpdate reports whether a funding tick is due: now must be at or
// past lastFundingTS+period (spec.md §4.4 "the cadence boundary has been
// crossed"). Per spec.md §9's open question, any now <= lastFundingTS is
// treated as "do not update" rather than as a signed duration — clock skew
// never triggers a tick.
func OnTheHourUpdate(now, lastFundingTS, period int64) error {
	if period <= 0 {
		return cerrors.New(cerrors.KindPrecondition, "funding: period must be positive")
	}
	if now <= lastFundingTS {
		return cerrors.ErrFundingClockSkew
	}
	if now < lastFundingTS+period {
		return cerrors.ErrFundingNotDue
	}
	return nil
}

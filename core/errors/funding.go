package errors

// Sentinels for the funding engine (spec.md §4.4).
var (
	ErrFundingNotDue        = New(KindState, "funding: cadence boundary not yet crossed")
	ErrFundingPaused        = New(KindState, "funding: updates paused")
	ErrFundingSolvencyFloor = New(KindInvariant, "funding: total_fee_minus_distributions would fall below its lower bound")
	ErrFundingClockSkew     = New(KindPrecondition, "funding: now precedes last_funding_rate_ts")
)

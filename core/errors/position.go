package errors

// Sentinels for position algebra and LP accounting (spec.md §4.5, §4.6).
var (
	ErrPositionSlotsExhausted = New(KindState, "position: no available perp position slot")
	ErrLPCooldownNotElapsed   = New(KindState, "lp: cooldown not elapsed since last add")
	ErrLPInsufficientShares   = New(KindPrecondition, "lp: burn exceeds held shares")
)

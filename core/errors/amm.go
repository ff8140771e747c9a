package errors

// Sentinels for the AMM reserve-math component (spec.md §4.2).
var (
	ErrOverflowInCurve           = New(KindMath, "amm: overflow computing curve")
	ErrKInvariantBreached        = New(KindInvariant, "amm: sqrt_k would fall below |net base|")
	ErrInsufficientReservesForFill = New(KindState, "amm: insufficient reserves for fill")
	ErrKDecreaseTooLarge         = New(KindPrecondition, "amm: single-transaction K decrease exceeds cap")
	ErrKIncreaseTooLarge         = New(KindPrecondition, "amm: sqrt_k would exceed MAX_SQRT_K")
	ErrZeroReserve               = New(KindMath, "amm: reserve is zero")
)

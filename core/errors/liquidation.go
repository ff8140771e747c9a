package errors

// Sentinels for the liquidation state machine (spec.md §4.8).
var (
	ErrNotLiquidatable       = New(KindState, "liquidation: user is not below maintenance margin")
	ErrAlreadyOutOfLiquidation = New(KindState, "liquidation: user has already exited liquidation")
	ErrLiquidationThrottled  = New(KindThrottle, "liquidation: per-slot throttle exceeded, retry next slot")
	ErrNoBankruptcy          = New(KindState, "liquidation: total_collateral is not negative")
	ErrNoOpenBaseToSocialize = New(KindInvariant, "liquidation: no open base on the affected side to socialize loss across")
)

package errors

// Sentinels for the root book: operations addressing a market or user index
// that hasn't been registered, or a market whose lifecycle status forbids
// the requested action (spec.md §6 operation surface, §7 KindState).
var (
	ErrMarketNotFound        = New(KindState, "book: market index not registered")
	ErrSpotMarketNotFound    = New(KindState, "book: spot market index not registered")
	ErrUserNotFound          = New(KindState, "book: user authority not registered")
	ErrMarketNotOperational  = New(KindState, "book: market status forbids risk-increasing actions")
	ErrSameLiquidateeLiquidator = New(KindPrecondition, "book: liquidatee and liquidator must differ")

	// ErrMarketInSettlement gates every operation except
	// settle_expired_position once a market enters MarketSettlement (spec.md
	// §7 "under settlement status, only settle_expired_position succeeds").
	ErrMarketInSettlement    = New(KindState, "book: market is in settlement; only settle_expired_position is permitted")
	// ErrMarketNotInSettlement is returned by settle_expired_position
	// against any market not currently in MarketSettlement.
	ErrMarketNotInSettlement = New(KindState, "book: market is not in settlement")

	ErrPerpPositionNotFound      = New(KindState, "book: user holds no position in market")
	ErrSpotPositionSlotsExhausted = New(KindState, "book: no available spot position slot")
	// ErrSettlePnlUnauthorized gates settle_pnl: a caller other than the
	// position's own authority may only settle a loss (spec.md §6
	// "authority may only settle negative pnl of others").
	ErrSettlePnlUnauthorized = New(KindPrecondition, "book: only the position authority may settle non-negative pnl")
)

package errors

// Sentinels for the margin engine (spec.md §4.7).
var (
	ErrMarginInsufficientForAction = New(KindState, "margin: initial margin requirement not met for risk-increasing action")
	ErrMarketNotActive             = New(KindState, "margin: market is not Active")
	ErrMarketDelisted              = New(KindState, "margin: market is Delisted")
	ErrUserBankrupt                = New(KindState, "margin: user account is bankrupt")
)

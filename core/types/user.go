package types

const (
	MaxPerpPositions = 8
	MaxSpotPositions = 8
	MaxOpenOrders    = 32
)

// User is a margin account (spec.md §3).
type User struct {
	Authority [20]byte

	PerpPositions [MaxPerpPositions]PerpPosition
	SpotPositions [MaxSpotPositions]SpotPosition
	Orders        [MaxOpenOrders]Order

	BeingLiquidated bool
	Bankrupt        bool

	// MarginFreed holds collateral value freed by liquidation (spec.md
	// §4.8). liquidation.TryExit resets it to zero on exit; no operation adds
	// to it, and exit is decided by a fresh margin check, not by this field.
	MarginFreed int64

	LastAddPerpLpSharesTS int64
	CumulativePerpFunding int64

	TotalDeposits  int64
	TotalWithdraws int64
}

// PerpPositionByMarket returns the position for marketIndex, or nil if the
// user holds no slot for that market.
func (u *User) PerpPositionByMarket(marketIndex uint16) *PerpPosition {
	for i := range u.PerpPositions {
		if u.PerpPositions[i].MarketIndex == marketIndex && !u.PerpPositions[i].IsAvailable() {
			return &u.PerpPositions[i]
		}
	}
	return nil
}

// OpenPerpPositionOrCreate returns the existing position for marketIndex, or
// recycles the first available slot and binds it to marketIndex.
func (u *User) OpenPerpPositionOrCreate(marketIndex uint16) (*PerpPosition, bool) {
	for i := range u.PerpPositions {
		if u.PerpPositions[i].MarketIndex == marketIndex && !u.PerpPositions[i].IsAvailable() {
			return &u.PerpPositions[i], true
		}
	}
	for i := range u.PerpPositions {
		if u.PerpPositions[i].IsAvailable() {
			u.PerpPositions[i] = PerpPosition{MarketIndex: marketIndex}
			return &u.PerpPositions[i], true
		}
	}
	return nil, false
}

// SpotPositionByMarket returns the balance slot for marketIndex, or nil.
func (u *User) SpotPositionByMarket(marketIndex uint16) *SpotPosition {
	for i := range u.SpotPositions {
		if u.SpotPositions[i].MarketIndex == marketIndex {
			return &u.SpotPositions[i]
		}
	}
	return nil
}

// OpenSpotPositionOrCreate returns the existing balance slot for
// marketIndex, or recycles the first zero-balance slot and binds it to
// marketIndex. A zero ScaledBalance is treated as "free" throughout this
// package (see the margin context builder), so a slot is only considered
// bound to marketIndex once it carries a nonzero balance.
func (u *User) OpenSpotPositionOrCreate(marketIndex uint16) (*SpotPosition, bool) {
	for i := range u.SpotPositions {
		if u.SpotPositions[i].MarketIndex == marketIndex && u.SpotPositions[i].ScaledBalance != 0 {
			return &u.SpotPositions[i], true
		}
	}
	for i := range u.SpotPositions {
		if u.SpotPositions[i].ScaledBalance == 0 {
			u.SpotPositions[i] = SpotPosition{MarketIndex: marketIndex}
			return &u.SpotPositions[i], true
		}
	}
	return nil, false
}

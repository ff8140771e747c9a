package types

// PerpPosition is a user's stake in a single perpetual market (spec.md §3).
type PerpPosition struct {
	MarketIndex uint16

	BaseAssetAmount  int64 // BasePrecision, signed
	QuoteAssetAmount int64 // QuotePrecision, signed; net of fees + realized pnl

	// QuoteEntryAmount is the cost basis used for unrealized pnl only; it is
	// never touched by funding settlement (spec.md §4.4).
	QuoteEntryAmount     int64
	QuoteBreakEvenAmount int64

	LastCumulativeFundingRate int64 // FundingRatePrecision

	LpShares                  int64
	LastBaseAssetAmountPerLp  int64
	LastQuoteAssetAmountPerLp int64
	LastLpAddTS               int64

	// RemainderBaseAssetAmount absorbs step-size rounding; invariant
	// |Remainder| < market.AMM.OrderStepSize.
	RemainderBaseAssetAmount int64

	OpenBids   int64
	OpenAsks   int64
	OpenOrders uint8
}

// IsAvailable reports whether the slot can be recycled for another market
// (spec.md §3 "Ownership").
func (p *PerpPosition) IsAvailable() bool {
	return p.BaseAssetAmount == 0 && p.LpShares == 0 && p.OpenOrders == 0
}

// SpotPosition is a user's balance in a single spot/lendable asset.
type SpotPosition struct {
	MarketIndex uint16
	ScaledBalance int64
	BalanceType   BalanceType

	// CumulativeDeposits is signed: non-negative for Deposit, non-positive
	// for Borrow (spec.md §3 invariant 8).
	CumulativeDeposits int64

	OpenBids int64
	OpenAsks int64
}

// PositionDelta is the signed base/quote change applied by update_position
// (spec.md §4.5, §6).
type PositionDelta struct {
	BaseAssetAmount  int64
	QuoteAssetAmount int64
}

// PositionChangeKind classifies a delta applied to a position.
type PositionChangeKind uint8

const (
	PositionOpen PositionChangeKind = iota
	PositionIncrease
	PositionReduce
	PositionClose
	PositionFlip
)

func (k PositionChangeKind) String() string {
	switch k {
	case PositionOpen:
		return "open"
	case PositionIncrease:
		return "increase"
	case PositionReduce:
		return "reduce"
	case PositionClose:
		return "close"
	case PositionFlip:
		return "flip"
	default:
		return "unknown"
	}
}

package types

// OrderType enumerates the order shapes the core must price/validate. Actual
// matching is a peripheral layer (spec.md §1 non-goals); the core only needs
// enough shape to validate scale-order expansion and oracle-offset pricing.
type OrderType uint8

const (
	OrderMarket OrderType = iota
	OrderLimit
	OrderTriggerMarket
	OrderTriggerLimit
	OrderOracle
)

// TriggerCondition is the comparison an Order's TriggerPrice is checked
// against.
type TriggerCondition uint8

const (
	TriggerAbove TriggerCondition = iota
	TriggerBelow
)

// OrderStatus tracks whether an order slot is live.
type OrderStatus uint8

const (
	OrderStatusInit OrderStatus = iota
	OrderStatusOpen
	OrderStatusFilled
	OrderStatusCanceled
)

// Order is a single resting or conditional order (spec.md §3).
type Order struct {
	Status    OrderStatus
	OrderType OrderType
	Direction PositionDirection

	MarketIndex     uint16
	BaseAssetAmount int64
	Price           int64

	TriggerPrice     int64
	TriggerCondition TriggerCondition

	AuctionStartPrice  int64
	AuctionEndPrice    int64
	AuctionDurationSlots uint8
	SlotPlaced         uint64

	PostOnly          bool
	ReduceOnly        bool
	ImmediateOrCancel bool
	MaxTS             int64

	OracleOffsetPrice int64

	// BitFlags carries order-level flags such as high-leverage mode (spec.md
	// §4.10); only the first order of a scale-order expansion carries the
	// caller-supplied value.
	BitFlags uint8
}

// IsActive reports whether the order participates in margin/fill logic.
func (o *Order) IsActive() bool { return o.Status == OrderStatusOpen }

// ScaleOrderDistribution selects the per-order size curve for a scale-order
// expansion (spec.md §4.10).
type ScaleOrderDistribution uint8

const (
	ScaleDistributionFlat ScaleOrderDistribution = iota
	ScaleDistributionAscending
	ScaleDistributionDescending
)

// ScaleOrderParams describes a scale-order request before expansion.
type ScaleOrderParams struct {
	MarketIndex     uint16
	Direction       PositionDirection
	TotalBaseAssetAmount int64
	StartPrice      int64
	EndPrice        int64
	NumOrders       int
	Distribution    ScaleOrderDistribution

	ReduceOnly        bool
	PostOnly          bool
	ImmediateOrCancel bool
	MaxTS             int64
	BitFlags          uint8
}

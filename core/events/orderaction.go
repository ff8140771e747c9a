package events

const TypeOrderAction = "order.action"

// OrderAction records a scale-order expansion or an individual order's
// lifecycle transition relevant to the core (placement only — matching
// itself is a peripheral layer, spec.md §1).
type OrderAction struct {
	envelope
	MarketIndex uint16
	User        [20]byte

	Action          string // "place_scale_orders", "place"
	OrderIndex      int
	Direction       uint8
	BaseAssetAmount int64
	Price           int64
}

// RecordType implements Record.
func (OrderAction) RecordType() string { return TypeOrderAction }

// NewOrderAction constructs an OrderAction record.
func NewOrderAction(ts int64, marketIndex uint16, user [20]byte, action string, orderIndex int, direction uint8, base, price int64) OrderAction {
	return OrderAction{
		envelope:        newEnvelope(ts),
		MarketIndex:     marketIndex,
		User:            user,
		Action:          action,
		OrderIndex:      orderIndex,
		Direction:       direction,
		BaseAssetAmount: base,
		Price:           price,
	}
}

package errors

// Sentinels for the scale-order planner (spec.md §4.10).
var (
	ErrScaleOrderCountOutOfRange = New(KindPrecondition, "scale_order: NumOrders must be between 2 and MaxOpenOrders")
	ErrScaleOrderPriceDirection  = New(KindPrecondition, "scale_order: start/end price violates direction-appropriate monotonicity")
	ErrScaleOrderSizeTooSmall    = New(KindPrecondition, "scale_order: total base asset amount below NumOrders * step size")
	ErrScaleOrderOpenOrdersCap   = New(KindPrecondition, "scale_order: expansion would exceed user's max open orders")
)

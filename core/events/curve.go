package events

const TypeCurve = "amm.curve_update"

// Curve records a K-curve update (spec.md §4.2 "K-curve update").
type Curve struct {
	envelope
	MarketIndex uint16

	SqrtKBefore int64
	SqrtKAfter  int64

	BaseReserveBefore  int64
	QuoteReserveBefore int64
	BaseReserveAfter   int64
	QuoteReserveAfter  int64

	BudgetQuote int64
	CostQuote   int64

	// AdjustmentCost rounding direction for the quote-to-K ratio depends on
	// the sign of net base; this documents which way this update rounded
	// (spec.md §9 open question, see DESIGN.md).
	RoundedUp bool
}

// RecordType implements Record.
func (Curve) RecordType() string { return TypeCurve }

// NewCurve constructs a Curve record.
func NewCurve(ts int64, marketIndex uint16, sqrtKBefore, sqrtKAfter, baseBefore, quoteBefore, baseAfter, quoteAfter, budget, cost int64, roundedUp bool) Curve {
	return Curve{
		envelope:           newEnvelope(ts),
		MarketIndex:        marketIndex,
		SqrtKBefore:        sqrtKBefore,
		SqrtKAfter:         sqrtKAfter,
		BaseReserveBefore:  baseBefore,
		QuoteReserveBefore: quoteBefore,
		BaseReserveAfter:   baseAfter,
		QuoteReserveAfter:  quoteAfter,
		BudgetQuote:        budget,
		CostQuote:          cost,
		RoundedUp:          roundedUp,
	}
}

package types

// OracleSnapshot is the immutable view of an oracle read at the start of an
// operation (spec.md §3, §5 "Suspension points"). The core never re-reads
// the oracle mid-operation.
type OracleSnapshot struct {
	Price   int64 // PricePrecision, signed
	Confidence uint64 // PricePrecision, unsigned

	// PublishSlotDelay is CurrentSlot - PublishSlot at the time the snapshot
	// was taken.
	PublishSlotDelay uint64

	HasSufficientDataPoints bool

	// IsStableSource marks a stablecoin-pegged oracle; the margin staleness
	// threshold is tripled for such sources (spec.md §4.3, §6).
	IsStableSource bool
}

package events

const TypeSettlePnl = "pnl.settled"

// SettlePnl records the realized-pnl side effect of update_position closing
// or reducing a position (spec.md §4.5). It is not the authority-gated
// settle_pnl operation (spec.md §6) — see PnlPoolSettlement for that.
type SettlePnl struct {
	envelope
	MarketIndex uint16
	User        [20]byte

	PnlTransferred  int64
	QuoteAssetAmountAfter int64
	BaseAssetAmount int64
}

// RecordType implements Record.
func (SettlePnl) RecordType() string { return TypeSettlePnl }

// NewSettlePnl constructs a SettlePnl record.
func NewSettlePnl(ts int64, marketIndex uint16, user [20]byte, transferred, quoteAfter, base int64) SettlePnl {
	return SettlePnl{
		envelope:              newEnvelope(ts),
		MarketIndex:           marketIndex,
		User:                  user,
		PnlTransferred:        transferred,
		QuoteAssetAmountAfter: quoteAfter,
		BaseAssetAmount:       base,
	}
}

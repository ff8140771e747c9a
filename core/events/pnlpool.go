package events

const TypePnlPoolSettlement = "pnl_pool.settled"

// PnlPoolSettlement records a settle_pnl transfer between a user's quote
// spot balance and a market's perp pnl pool (spec.md §6 "settle_pnl").
// Unlike SettlePnl (the realized-pnl side effect of update_position), this
// is the distinct authority-gated operation named in the operation surface
// table.
type PnlPoolSettlement struct {
	envelope
	MarketIndex uint16
	Authority   [20]byte
	User        [20]byte

	PnlTransferred  int64
	PnlPoolBalance  int64
	SpotBalanceAfter int64
}

// RecordType implements Record.
func (PnlPoolSettlement) RecordType() string { return TypePnlPoolSettlement }

// NewPnlPoolSettlement constructs a PnlPoolSettlement record.
func NewPnlPoolSettlement(ts int64, marketIndex uint16, authority, user [20]byte, transferred, pnlPoolBalance, spotBalanceAfter int64) PnlPoolSettlement {
	return PnlPoolSettlement{
		envelope:         newEnvelope(ts),
		MarketIndex:      marketIndex,
		Authority:        authority,
		User:             user,
		PnlTransferred:   transferred,
		PnlPoolBalance:   pnlPoolBalance,
		SpotBalanceAfter: spotBalanceAfter,
	}
}

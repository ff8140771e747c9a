package events

const TypeLP = "lp.settled"

// LP records an LP settlement or burn (spec.md §4.6).
type LP struct {
	envelope
	MarketIndex uint16
	User        [20]byte

	Action string // "settle" or "burn"

	SettledBase  int64
	SettledQuote int64
	SharesBefore int64
	SharesAfter  int64
}

// RecordType implements Record.
func (LP) RecordType() string { return TypeLP }

// NewLP constructs an LP record.
func NewLP(ts int64, marketIndex uint16, user [20]byte, action string, settledBase, settledQuote, sharesBefore, sharesAfter int64) LP {
	return LP{
		envelope:     newEnvelope(ts),
		MarketIndex:  marketIndex,
		User:         user,
		Action:       action,
		SettledBase:  settledBase,
		SettledQuote: settledQuote,
		SharesBefore: sharesBefore,
		SharesAfter:  sharesAfter,
	}
}

package margin

import "github.com/nhb-labs/percore/core/types"

// Mode selects which weight table a computation uses.
type Mode uint8

const (
	ModeMaintenance Mode = iota
	ModeInitial
)

// PerpSnapshot is the priced, resolved view of one perp market needed to
// value a position in it.
type PerpSnapshot struct {
	Market      *types.Market
	OraclePrice int64
	TwapPrice   int64 // used only in strict mode
}

// SpotSnapshot is the priced, resolved view of one spot market.
type SpotSnapshot struct {
	Market      *types.SpotMarket
	OraclePrice int64
}

// Context resolves the market and price data a margin computation needs by
// index; callers build it once per computation from their own state.
type Context struct {
	Perp map[uint16]PerpSnapshot
	Spot map[uint16]SpotSnapshot
}

// assetPrice and liabilityPrice implement spec.md §4.7 "Strict mode": the
// worse of oracle_price and twap_price, min for asset valuation and max for
// liability valuation. Outside strict mode both just return oraclePrice.
func assetPrice(oraclePrice, twapPrice int64, strict bool) int64 {
	if !strict || twapPrice == 0 {
		return oraclePrice
	}
	if twapPrice < oraclePrice {
		return twapPrice
	}
	return oraclePrice
}

func liabilityPrice(oraclePrice, twapPrice int64, strict bool) int64 {
	if !strict || twapPrice == 0 {
		return oraclePrice
	}
	if twapPrice > oraclePrice {
		return twapPrice
	}
	return oraclePrice
}

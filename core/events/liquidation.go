package events

const (
	TypeLiquidation     = "liquidation.step"
	TypeSpotBankruptcy  = "bankruptcy.spot"
	TypePerpBankruptcy  = "bankruptcy.perp"
)

// Liquidation records a single liquidate_perp / liquidate_borrow step
// (spec.md §4.8).
type Liquidation struct {
	envelope
	Liquidatee [20]byte
	Liquidator [20]byte
	MarketIndex uint16

	Mode string // "perp", "borrow", "borrow_for_perp_pnl", "perp_pnl_for_deposit"

	TransferBaseAssetAmount int64
	TransferQuoteValue      int64
	OraclePrice             int64
	LiquidatorFee           int64

	MarginShortageBefore int64
	MarginShortageAfter  int64

	ThrottlePct int64 // SpotWeightPrecision-scaled pct of shortage permitted this slot
}

// RecordType implements Record.
func (Liquidation) RecordType() string { return TypeLiquidation }

// NewLiquidation constructs a Liquidation record.
func NewLiquidation(ts int64, liquidatee, liquidator [20]byte, marketIndex uint16, mode string, transferBase, transferQuote, oraclePrice, fee, shortageBefore, shortageAfter, throttlePct int64) Liquidation {
	return Liquidation{
		envelope:                newEnvelope(ts),
		Liquidatee:              liquidatee,
		Liquidator:              liquidator,
		MarketIndex:             marketIndex,
		Mode:                    mode,
		TransferBaseAssetAmount: transferBase,
		TransferQuoteValue:      transferQuote,
		OraclePrice:             oraclePrice,
		LiquidatorFee:           fee,
		MarginShortageBefore:    shortageBefore,
		MarginShortageAfter:     shortageAfter,
		ThrottlePct:             throttlePct,
	}
}

// PerpBankruptcy records socialization of a perp bankruptcy loss via a
// cumulative-funding-rate delta (spec.md §4.8).
type PerpBankruptcy struct {
	envelope
	User        [20]byte
	MarketIndex uint16

	Loss              int64
	CumulativeRateDelta int64
	Side              uint8 // 0 = long side absorbs, 1 = short side absorbs
	TotalOpenBase     int64
}

// RecordType implements Record.
func (PerpBankruptcy) RecordType() string { return TypePerpBankruptcy }

// NewPerpBankruptcy constructs a PerpBankruptcy record.
func NewPerpBankruptcy(ts int64, user [20]byte, marketIndex uint16, loss, rateDelta int64, side uint8, totalOpenBase int64) PerpBankruptcy {
	return PerpBankruptcy{
		envelope:            newEnvelope(ts),
		User:                user,
		MarketIndex:         marketIndex,
		Loss:                loss,
		CumulativeRateDelta: rateDelta,
		Side:                side,
		TotalOpenBase:       totalOpenBase,
	}
}

// SpotBankruptcy records socialization of a borrow bankruptcy loss via a
// cumulative-deposit-interest scale-down (spec.md §4.8).
type SpotBankruptcy struct {
	envelope
	User        [20]byte
	MarketIndex uint16

	Loss                     int64
	CumulativeInterestBefore int64
	CumulativeInterestAfter  int64
}

// RecordType implements Record.
func (SpotBankruptcy) RecordType() string { return TypeSpotBankruptcy }

// NewSpotBankruptcy constructs a SpotBankruptcy record.
func NewSpotBankruptcy(ts int64, user [20]byte, marketIndex uint16, loss, before, after int64) SpotBankruptcy {
	return SpotBankruptcy{
		envelope:                 newEnvelope(ts),
		User:                     user,
		MarketIndex:              marketIndex,
		Loss:                     loss,
		CumulativeInterestBefore: before,
		CumulativeInterestAfter:  after,
	}
}

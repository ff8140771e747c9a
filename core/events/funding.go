package events

const (
	TypeFundingRate    = "funding.rate"
	TypeFundingPayment = "funding.payment"
)

// FundingRate records a single update_funding_rate tick (spec.md §4.4).
type FundingRate struct {
	envelope
	MarketIndex uint16

	OracleTwap int64
	MarkTwap   int64
	PriceSpread int64

	FundingRate      int64
	FundingRateLong  int64
	FundingRateShort int64

	Capped          bool
	UncappedPnl     int64
	FeePoolBalance  int64
}

// RecordType implements Record.
func (FundingRate) RecordType() string { return TypeFundingRate }

// NewFundingRate constructs a FundingRate record.
func NewFundingRate(ts int64, marketIndex uint16, oracleTwap, markTwap, priceSpread, rate, rateLong, rateShort int64, capped bool, uncappedPnl, feePool int64) FundingRate {
	return FundingRate{
		envelope:         newEnvelope(ts),
		MarketIndex:      marketIndex,
		OracleTwap:       oracleTwap,
		MarkTwap:         markTwap,
		PriceSpread:      priceSpread,
		FundingRate:      rate,
		FundingRateLong:  rateLong,
		FundingRateShort: rateShort,
		Capped:           capped,
		UncappedPnl:      uncappedPnl,
		FeePoolBalance:   feePool,
	}
}

// FundingPayment records a single position's funding settlement
// (spec.md §4.4 "Settlement").
type FundingPayment struct {
	envelope
	MarketIndex uint16
	User        [20]byte

	Amount                    int64
	BaseAssetAmount           int64
	UserLastCumulativeFunding int64
	AMMCumulativeFunding      int64
}

// RecordType implements Record.
func (FundingPayment) RecordType() string { return TypeFundingPayment }

// NewFundingPayment constructs a FundingPayment record.
func NewFundingPayment(ts int64, marketIndex uint16, user [20]byte, amount, baseAssetAmount, userLastCum, ammCum int64) FundingPayment {
	return FundingPayment{
		envelope:                  newEnvelope(ts),
		MarketIndex:               marketIndex,
		User:                      user,
		Amount:                    amount,
		BaseAssetAmount:           baseAssetAmount,
		UserLastCumulativeFunding: userLastCum,
		AMMCumulativeFunding:      ammCum,
	}
}

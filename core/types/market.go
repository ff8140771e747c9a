package types

// MarketStatus tracks a perpetual market's lifecycle. Transitions are
// monotone up to Delisted.
type MarketStatus uint8

const (
	MarketInitialized MarketStatus = iota
	MarketActive
	MarketReduceOnly
	MarketSettlement
	MarketDelisted
)

// ContractTier is a risk classification controlling funding caps and oracle
// strictness (spec.md §4.4, §4.7, §9 GLOSSARY).
type ContractTier uint8

const (
	ContractTierA ContractTier = iota
	ContractTierB
	ContractTierC
	ContractTierSpeculative
	ContractTierPrediction
)

// Market is a single perpetual market: reduced-only admin-controlled
// metadata plus the AMM substructure that prices it.
type Market struct {
	MarketIndex uint16
	Status      MarketStatus
	ContractTier ContractTier

	MarginRatioInitial     uint32 // SpotWeightPrecision-scaled
	MarginRatioMaintenance uint32

	FundingPeriodSeconds int64

	// SettlementPrice is only valid when Status == MarketSettlement.
	SettlementPrice int64
	ExpiryTS        int64

	AMM AMM

	// Aggregates mirrored from position algebra (invariant 1 in spec.md §3).
	BaseAssetAmountLong  int64
	BaseAssetAmountShort int64

	// IMFFactor scales the initial-margin size premium (spec.md §4.7).
	IMFFactor uint32
}

// IsOperational reports whether the market accepts risk-increasing actions.
func (m *Market) IsOperational() bool {
	return m.Status == MarketActive
}

// AMM is the vAMM state of a Market (spec.md §3).
type AMM struct {
	BaseReserve  int64 // AMMReservePrecision
	QuoteReserve int64 // AMMReservePrecision
	SqrtK        int64 // AMMReservePrecision

	PegMultiplier int64 // PegPrecision

	TerminalQuoteReserve int64
	MinBaseReserve       int64
	MaxBaseReserve       int64
	ConcentrationCoef    int64 // SpreadPrecision-scaled, >= SpreadPrecision

	BaseSpread  int64 // SpreadPrecision
	LongSpread  int64
	ShortSpread int64
	MaxSpread   int64

	// Pre-computed spread reserves, refreshed whenever a spread input
	// changes (spec.md §4.2 "Spread reserves").
	BidBaseReserve   int64
	BidQuoteReserve  int64
	AskBaseReserve   int64
	AskQuoteReserve  int64

	LastFundingRateTS           int64
	CumulativeFundingRateLong   int64 // FundingRatePrecision
	CumulativeFundingRateShort  int64

	LastOraclePriceTwap          int64
	LastMarkPriceTwap            int64
	LastMarkPriceTwap5Min        int64
	LastOracleReservePriceSpreadPct int64 // SpreadPrecision, signed
	LastOracleConfPct             int64  // SpreadPrecision, unsigned magnitude

	FeePoolBalance              int64 // QuotePrecision
	// PnlPoolBalance is the market's counterparty for settle_pnl: it pays out
	// positive settled pnl and absorbs negative settled pnl (spec.md §6
	// "settle_pnl", "transfers between quote spot and perp pnl pool").
	PnlPoolBalance              int64 // QuotePrecision
	NetBaseAssetAmountWithAMM   int64 // BasePrecision, signed
	NetBaseAssetAmountWithUnsettledLP int64
	TotalFeeMinusDistributions  int64 // QuotePrecision, signed
	NetRevenueSinceLastFunding  int64

	CurveUpdateIntensity int64
	AMMJitIntensity      int64

	UserLpShares             int64
	BaseAssetAmountPerLp     int64 // BasePrecision accumulator
	QuoteAssetAmountPerLp    int64 // QuotePrecision accumulator

	OrderStepSize int64
	OrderTickSize int64

	// IsStableOracle marks whether the oracle backing this market is a
	// stablecoin peg (spec.md §6, §4.3; see SPEC_FULL.md "stablecoin oracle
	// tripling"). The tripled margin staleness threshold is applied by
	// oracle.Classify from OracleSnapshot.IsStableSource; no engine code
	// reads this field.
	IsStableOracle bool
}

// SwapDirection disambiguates the two sides of the constant-product swap
// primitive (spec.md §4.2).
type SwapDirection uint8

const (
	SwapAdd SwapDirection = iota
	SwapRemove
)

// PositionDirection is Long or Short.
type PositionDirection uint8

const (
	DirectionLong PositionDirection = iota
	DirectionShort
)

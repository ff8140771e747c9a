package types

// Fixed-point precisions shared across the engine. Every quantity carries an
// implicit scale; conversions between two precisions must go through
// ConvertScale (internal/fixedpoint) rather than an ad-hoc shift, and no
// computation ever mixes two precisions without an explicit conversion.
const (
	PricePrecision         = 1_000_000         // 1e6, quoted prices
	BasePrecision          = 1_000_000_000     // 1e9, base-asset amounts
	QuotePrecision         = 1_000_000         // 1e6, quote-asset amounts
	AMMReservePrecision    = 1_000_000_000     // 1e9, virtual reserves
	PegPrecision           = 1_000_000         // 1e6, peg multiplier
	FundingRatePrecision   = 1_000_000_000     // 1e9, per-hour cumulative rate
	SpotWeightPrecision    = 10_000            // 1e4, margin weights (1.0 = 10000)
	LiquidationFeePrecision = 1_000_000        // 1e6
	SpreadPrecision        = 1_000_000         // 1e6, bid/ask spread bps-like scale
	BidAskSpreadPrecision  = 1_000_000         // 1e6, inventory-skew spread scale

	// MaxPredictionPrice fixes the settlement ceiling for prediction-market
	// liability valuation (spec open question, see DESIGN.md).
	MaxPredictionPrice = PricePrecision
)

// FundingRateBuffer widens the cumulative funding rate so that a single
// position's payment — (cum_rate_delta * base_asset_amount) / FundingRateBuffer —
// keeps integer precision even for small positions.
const FundingRateBuffer = 10_000

// FundingRateOffsetDenominator controls the permanent skew applied to the
// mark/oracle premium before clamping (see funding engine §4.4 step 3).
const FundingRateOffsetDenominator = 5_000

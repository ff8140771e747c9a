package funding

import (
	"github.com/nhb-labs/percore/core/types"
	"github.com/nhb-labs/percore/internal/fixedpoint"
)

// DivergenceTable resolves the spec.md §9 open question: "the precise
// formula for max_price_divergence_for_funding_rate ... source exposes only
// a tier-keyed function". This implementation uses an explicit,
// config-loadable table (see internal/config) rather than a formula,
// preserving the contract that stricter tiers yield tighter caps (see
// DESIGN.md "max_price_divergence_for_funding_rate").
type DivergenceTable map[types.ContractTier]int64 // PricePrecision-scaled fraction of oracle_twap

// DefaultDivergenceTable mirrors drift-protocol-v2's tier ordering: A is the
// least strict (blue-chip, deepest liquidity), C and Speculative tighten
// progressively, Prediction markets (settling in [0,1]) are tightest.
func DefaultDivergenceTable() DivergenceTable {
	return DivergenceTable{
		types.ContractTierA:           50_000, // 5%
		types.ContractTierB:           30_000, // 3%
		types.ContractTierC:           15_000, // 1.5%
		types.ContractTierSpeculative: 10_000, // 1%
		types.ContractTierPrediction:  5_000,  // 0.5%
	}
}

// MaxPriceDivergence returns the absolute clamp bound for a given oracle
// TWAP and contract tier.
func (t DivergenceTable) MaxPriceDivergence(tier types.ContractTier, oracleTwap int64) (int64, error) {
	pct, ok := t[tier]
	if !ok {
		pct = t[types.ContractTierC]
	}
	return fixedpoint.MulDivSigned(oracleTwap, pct, types.PricePrecision, fixedpoint.RoundDown)
}

// ExecutionPremiumPrice chooses the "execution premium price" used to update
// the mark TWAP: the side's quoted ask/bid when spreads are asymmetric,
// otherwise the plain reserve price (spec.md §4.4 step 2).
func ExecutionPremiumPrice(a *types.AMM) (int64, error) {
	reservePrice, err := reservePrice(a)
	if err != nil {
		return 0, err
	}
	if a.LongSpread == a.ShortSpread {
		return reservePrice, nil
	}
	if a.LongSpread > a.ShortSpread {
		return askPrice(a)
	}
	return bidPrice(a)
}

func reservePrice(a *types.AMM) (int64, error) {
	return reservePriceFn(a.BaseReserve, a.QuoteReserve, a.PegMultiplier)
}

func askPrice(a *types.AMM) (int64, error) {
	if a.AskBaseReserve == 0 {
		return reservePrice(a)
	}
	return reservePriceFn(a.AskBaseReserve, a.AskQuoteReserve, a.PegMultiplier)
}

func bidPrice(a *types.AMM) (int64, error) {
	if a.BidBaseReserve == 0 {
		return reservePrice(a)
	}
	return reservePriceFn(a.BidBaseReserve, a.BidQuoteReserve, a.PegMultiplier)
}

// reservePriceFn is a seam so this package doesn't import internal/amm
// directly (keeps the dependency graph a DAG per spec.md §9): the caller
// (the top-level engine wiring) injects the real implementation.
var reservePriceFn = func(baseReserve, quoteReserve, peg int64) (int64, error) {
	return fixedpoint.MulDivSigned(quoteReserve, peg, baseReserve, fixedpoint.RoundDown)
}

// SetReservePriceFunc overrides the reserve-price implementation used for
// the execution premium price. internal/state wires this to
// internal/amm.ReservePrice in its package init.
func SetReservePriceFunc(fn func(baseReserve, quoteReserve, peg int64) (int64, error)) {
	reservePriceFn = fn
}

// Premium is the computed, clamped mark/oracle premium for one funding tick.
type Premium struct {
	OracleTwap  int64
	MarkTwap    int64
	PriceSpread int64 // after offset bias, before clamp
	Clamped     int64
	FundingRate int64 // before asymmetric split / cap
}

// ComputePremium implements spec.md §4.4 steps 3-5: offset-biased spread,
// tier clamp, and the funding-rate buffer scale.
func ComputePremium(oracleTwap, markTwap int64, tier types.ContractTier, table DivergenceTable, period int64) (Premium, error) {
	spread, err := fixedpoint.SubI64(markTwap, oracleTwap)
	if err != nil {
		return Premium{}, err
	}
	offset, err := fixedpoint.DivI64(oracleTwap, types.FundingRateOffsetDenominator, fixedpoint.RoundDown)
	if err != nil {
		return Premium{}, err
	}
	biased, err := fixedpoint.AddI64(spread, offset)
	if err != nil {
		return Premium{}, err
	}

	bound, err := table.MaxPriceDivergence(tier, oracleTwap)
	if err != nil {
		return Premium{}, err
	}
	clamped := biased
	if clamped > bound {
		clamped = bound
	}
	if clamped < -bound {
		clamped = -bound
	}

	periodAdjusted := period
	if periodAdjusted < 3600 {
		periodAdjusted = 3600
	}
	buffered, err := fixedpoint.MulI64(clamped, types.FundingRateBuffer)
	if err != nil {
		return Premium{}, err
	}
	rate, err := fixedpoint.MulDivSigned(buffered, periodAdjusted, 86_400, fixedpoint.RoundDown)
	if err != nil {
		return Premium{}, err
	}

	return Premium{
		OracleTwap:  oracleTwap,
		MarkTwap:    markTwap,
		PriceSpread: biased,
		Clamped:     clamped,
		FundingRate: rate,
	}, nil
}

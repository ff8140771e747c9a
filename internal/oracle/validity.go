// Package oracle implements oracle-validity classification and the
// per-action permission gate (spec.md §4.3, C3).
package oracle

import (
	"math/big"

	"github.com/nhb-labs/percore/core/types"
)

// Tier is the oracle validity classification, ordered worst-to-best. Lower
// values are MORE severe; Classify always returns the highest-severity tier
// that applies (spec.md §4.3: "highest severity wins").
type Tier uint8

const (
	TierNonPositive Tier = iota
	TierTooVolatile
	TierTooUncertain
	TierStaleForMargin
	TierInsufficientDataPoints
	TierStaleForAMM
	TierValid
)

func (t Tier) String() string {
	switch t {
	case TierNonPositive:
		return "non_positive"
	case TierTooVolatile:
		return "too_volatile"
	case TierTooUncertain:
		return "too_uncertain"
	case TierStaleForMargin:
		return "stale_for_margin"
	case TierInsufficientDataPoints:
		return "insufficient_data_points"
	case TierStaleForAMM:
		return "stale_for_amm"
	case TierValid:
		return "valid"
	default:
		return "unknown"
	}
}

// WorseThan reports whether t is strictly more severe than other.
func (t Tier) WorseThan(other Tier) bool { return t < other }

// Thresholds configures the four classification conditions (spec.md §4.3).
// Values not overridden by (*Config).Thresholds use the defaults below.
type Thresholds struct {
	TooVolatileRatio           int64 // integer ratio, e.g. 5 means 5x
	ConfidenceIntervalMaxPct   int64 // SpreadPrecision-scaled
	MarketConfidenceMultiplier int64 // SpreadPrecision-scaled, 1.0 = SpreadPrecision

	SlotsBeforeStaleForAMM    uint64
	SlotsBeforeStaleForMargin uint64
}

// DefaultThresholds mirrors drift-protocol-v2's guard rail defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TooVolatileRatio:           5,
		ConfidenceIntervalMaxPct:   20_000,  // 2% of SpreadPrecision (1e6)
		MarketConfidenceMultiplier: types.SpreadPrecision,
		SlotsBeforeStaleForAMM:     10,
		SlotsBeforeStaleForMargin:  120,
	}
}

// Classify evaluates a snapshot against its own TWAP and returns the
// highest-severity applicable tier (spec.md §4.3).
func Classify(snap types.OracleSnapshot, twap int64, th Thresholds) Tier {
	if snap.Price <= 0 {
		return TierNonPositive
	}
	if tooVolatile(snap.Price, twap, th.TooVolatileRatio) {
		return TierTooVolatile
	}
	if tooUncertain(snap.Price, snap.Confidence, th.ConfidenceIntervalMaxPct, th.MarketConfidenceMultiplier) {
		return TierTooUncertain
	}
	marginThreshold := th.SlotsBeforeStaleForMargin
	if snap.IsStableSource {
		marginThreshold *= 3
	}
	if snap.PublishSlotDelay > marginThreshold {
		return TierStaleForMargin
	}
	if !snap.HasSufficientDataPoints {
		return TierInsufficientDataPoints
	}
	if snap.PublishSlotDelay > th.SlotsBeforeStaleForAMM {
		return TierStaleForAMM
	}
	return TierValid
}

func tooVolatile(price, twap, ratio int64) bool {
	if ratio <= 0 {
		return false
	}
	hi := price
	lo := twap
	if lo > hi {
		hi, lo = lo, hi
	}
	if lo < 1 {
		lo = 1
	}
	return hi > lo*ratio
}

// tooUncertain checks confidence/price > confidenceIntervalMax *
// marketConfidenceMultiplier, where both factors are SpreadPrecision-scaled
// fractions. Cross-multiplied to avoid a float division:
//
//	confidence * SpreadPrecision^2 > maxPct * multiplier * price
func tooUncertain(price int64, confidence uint64, maxPct, multiplier int64) bool {
	if price <= 0 {
		return true
	}
	lhs := new(big.Int).Mul(big.NewInt(int64(confidence)), big.NewInt(types.SpreadPrecision))
	lhs.Mul(lhs, big.NewInt(types.SpreadPrecision))

	rhs := new(big.Int).Mul(big.NewInt(maxPct), big.NewInt(multiplier))
	rhs.Mul(rhs, big.NewInt(price))

	return lhs.Cmp(rhs) > 0
}

package oracle

import "github.com/nhb-labs/percore/internal/fixedpoint"

// UpdateTWAP folds a new sample into an existing time-weighted average using
// an EMA over period, with the new sample's deviation from the previous
// average clamped to maxDeviationPct of the previous average first (spec.md
// §4.4 step 1: "sanitized clamp of per-update deviation"). sinceLast and
// period are both in seconds.
//
// maxDeviationPct is SpreadPrecision-scaled (1.0 = SpreadPrecision); a value
// of 0 disables clamping.
func UpdateTWAP(previous, sample int64, sinceLast, period int64, maxDeviationPct int64) (int64, error) {
	if period <= 0 {
		return 0, fixedpointErrNonPositivePeriod
	}
	if sinceLast < 0 {
		sinceLast = 0
	}
	if sinceLast > period {
		sinceLast = period
	}
	sanitized := sample
	if maxDeviationPct > 0 && previous != 0 {
		maxDelta, err := fixedpoint.MulDivSigned(previous, maxDeviationPct, spreadPrecision, fixedpoint.RoundDown)
		if err != nil {
			return 0, err
		}
		if maxDelta < 0 {
			maxDelta = -maxDelta
		}
		if sample > previous+maxDelta {
			sanitized = previous + maxDelta
		} else if sample < previous-maxDelta {
			sanitized = previous - maxDelta
		}
	}

	// EMA: twap = (twap*(period-sinceLast) + sample*sinceLast) / period
	weightedOld, err := fixedpoint.MulI64(previous, period-sinceLast)
	if err != nil {
		return 0, err
	}
	weightedNew, err := fixedpoint.MulI64(sanitized, sinceLast)
	if err != nil {
		return 0, err
	}
	sum, err := fixedpoint.AddI64(weightedOld, weightedNew)
	if err != nil {
		return 0, err
	}
	return fixedpoint.DivI64(sum, period, fixedpoint.RoundDown)
}

const spreadPrecision = 1_000_000

var fixedpointErrNonPositivePeriod = fixedpoint.ErrDivideByZero

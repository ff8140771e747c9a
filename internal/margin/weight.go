// Package margin implements cross-margin collateral valuation and margin
// requirement computation (spec.md §4.7, C7).
package margin

import (
	"github.com/nhb-labs/percore/core/types"
	"github.com/nhb-labs/percore/internal/fixedpoint"
)

// IMFPrecision scales imf_factor: the premium added to the margin ratio is
// sqrt(|base|) × imf_factor / IMFPrecision, in SpotWeightPrecision units.
const IMFPrecision = 100_000

// IMFSizeThresholdBase is the notional (BasePrecision-scaled, at a
// synthetic $1 oracle price) above which the IMF size premium begins to
// bite; sizes below it see no premium (spec.md §4.7: "for sizes exceeding
// an imf_factor threshold").
const IMFSizeThresholdBase = 10 * types.BasePrecision

// SizePremiumMarginRatio increases a perp's liability-side margin ratio by a
// function of sqrt(size) once the position's notional exceeds
// IMFSizeThresholdBase (spec.md §4.7 "IMF size premium"). imfFactor == 0
// disables the premium entirely.
func SizePremiumMarginRatio(baseMarginRatio uint32, absBaseAssetAmount int64, imfFactor uint32) (uint32, error) {
	if imfFactor == 0 || absBaseAssetAmount <= IMFSizeThresholdBase {
		return baseMarginRatio, nil
	}
	sizeSqrt, err := fixedpoint.SqrtI64(absBaseAssetAmount)
	if err != nil {
		return 0, err
	}
	premium, err := fixedpoint.MulDivSigned(sizeSqrt, int64(imfFactor), IMFPrecision, fixedpoint.RoundUp)
	if err != nil {
		return 0, err
	}
	return baseMarginRatio + uint32(premium), nil
}

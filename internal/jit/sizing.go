package jit

import (
	"github.com/nhb-labs/percore/core/types"
	"github.com/nhb-labs/percore/internal/fixedpoint"
)

// ImbalanceThreshold is the maker-depth imbalance ratio above which the AMM
// fills a full maker_base (rather than a quarter) toward JIT (spec.md §4.9
// "full when AMM is imbalanced: max(max_bids,|max_asks|)/min(·) >= 1.5").
const ImbalanceThreshold = 3 // compared against a 2x-scaled ratio, i.e. 1.5x

// WantsJIT reports whether filling the taker's delta (takerDeltaBase)
// against the AMM moves net_base_asset_amount_with_amm toward zero (spec.md
// §4.9 "If the AMM 'wants to JIT' (inventory would improve toward zero)").
func WantsJIT(netBaseWithAMM, takerDeltaBase int64) bool {
	if netBaseWithAMM == 0 {
		return false
	}
	if netBaseWithAMM > 0 {
		return takerDeltaBase < 0
	}
	return takerDeltaBase > 0
}

// Size computes the step-size-normalized JIT fill size (spec.md §4.9 "JIT
// sizing"): the minimum of a limit share of maker_base, an imbalance-scaled
// share of maker_base, an intensity-scaled share of the taker's size, and
// the remaining net base the AMM can absorb without flipping sign.
func Size(a *types.AMM, makerBase, takerSize, maxBids, maxAsks int64) (int64, error) {
	if makerBase <= 0 || takerSize <= 0 {
		return 0, nil
	}

	limitShare := makerBase / 2

	imbalanceShare := makerBase / 4
	if isImbalanced(maxBids, maxAsks) {
		imbalanceShare = makerBase
	}

	intensityShare, err := fixedpoint.MulDivSigned(takerSize, a.AMMJitIntensity, 100, fixedpoint.RoundDown)
	if err != nil {
		return 0, err
	}

	remaining := absI64(a.NetBaseAssetAmountWithAMM)

	size := min64(limitShare, imbalanceShare, intensityShare, remaining)
	if size <= 0 {
		return 0, nil
	}

	if a.OrderStepSize > 0 {
		size -= size % a.OrderStepSize
	}
	return size, nil
}

// isImbalanced reports whether the maker book's deeper side outweighs the
// thinner side by at least the 1.5x threshold (spec.md §4.9), compared as
// 2×max >= 3×min to stay in integer arithmetic.
func isImbalanced(maxBids, maxAsks int64) bool {
	deep := maxBids
	thin := absI64(maxAsks)
	if thin > deep {
		deep, thin = thin, deep
	}
	if thin <= 0 {
		return true
	}
	return 2*deep >= ImbalanceThreshold*thin
}

func min64(vs ...int64) int64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

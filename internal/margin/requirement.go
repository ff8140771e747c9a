package margin

import (
	"github.com/nhb-labs/percore/core/types"
	"github.com/nhb-labs/percore/internal/fixedpoint"
)

// MarginRequirement sums each open perp position's notional liability scaled
// by its margin ratio (spec.md §4.7). mode selects initial vs maintenance
// margin ratio; initial margin additionally applies the IMF size premium.
// strict uses the worse-of-oracle/TWAP liability price.
func MarginRequirement(user *types.User, ctx Context, mode Mode, strict bool) (int64, error) {
	var total int64
	var err error

	for i := range user.PerpPositions {
		pos := &user.PerpPositions[i]
		if pos.BaseAssetAmount == 0 {
			continue
		}
		snap, ok := ctx.Perp[pos.MarketIndex]
		if !ok {
			continue
		}
		contribution, cerr := perpRequirement(pos, snap, mode, strict)
		if cerr != nil {
			return 0, cerr
		}
		total, err = fixedpoint.AddI64(total, contribution)
		if err != nil {
			return 0, err
		}
	}

	return total, nil
}

func perpRequirement(pos *types.PerpPosition, snap PerpSnapshot, mode Mode, strict bool) (int64, error) {
	price := liabilityPrice(snap.OraclePrice, snap.TwapPrice, strict)

	liabilityValue, err := liabilityNotional(snap.Market.ContractTier, pos.BaseAssetAmount, price)
	if err != nil {
		return 0, err
	}

	absBase := pos.BaseAssetAmount
	if absBase < 0 {
		absBase = -absBase
	}

	ratio := snap.Market.MarginRatioMaintenance
	if mode == ModeInitial {
		ratio, err = SizePremiumMarginRatio(snap.Market.MarginRatioInitial, absBase, snap.Market.IMFFactor)
		if err != nil {
			return 0, err
		}
	}

	return fixedpoint.MulDivSigned(liabilityValue, int64(ratio), types.SpotWeightPrecision, fixedpoint.RoundUp)
}

// liabilityNotional is |base| × oracle_price for standard perps, or
// |base| × max(price, MAX_PREDICTION_PRICE − price) for prediction markets,
// whose settlement price is bounded in [0, MAX_PREDICTION_PRICE] so the
// worse-case side of that range must be used (spec.md §4.7).
func liabilityNotional(tier types.ContractTier, baseAssetAmount, price int64) (int64, error) {
	absBase := baseAssetAmount
	if absBase < 0 {
		absBase = -absBase
	}

	effectivePrice := price
	if tier == types.ContractTierPrediction {
		complement := types.MaxPredictionPrice - price
		if complement > effectivePrice {
			effectivePrice = complement
		}
	}

	return fixedpoint.MulDivSigned(absBase, effectivePrice, types.PricePrecision, fixedpoint.RoundUp)
}

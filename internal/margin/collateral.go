package margin

import (
	"github.com/nhb-labs/percore/core/types"
	"github.com/nhb-labs/percore/internal/fixedpoint"
)

// TotalCollateral sums every spot position's weighted asset/liability value
// plus every perp position's net quote value (spec.md §4.7 "Total
// collateral = Σasset_value_weighted − Σliability_value_weighted"). mode
// selects the spot weight table; strict applies the worse-of-oracle-TWAP
// pricing from "Strict mode" to every position.
func TotalCollateral(user *types.User, ctx Context, mode Mode, strict bool) (int64, error) {
	var total int64
	var err error

	for i := range user.SpotPositions {
		pos := &user.SpotPositions[i]
		if pos.ScaledBalance == 0 {
			continue
		}
		snap, ok := ctx.Spot[pos.MarketIndex]
		if !ok {
			continue
		}
		contribution, cerr := spotContribution(pos, snap.Market, snap.OraclePrice, mode)
		if cerr != nil {
			return 0, cerr
		}
		total, err = fixedpoint.AddI64(total, contribution)
		if err != nil {
			return 0, err
		}
	}

	for i := range user.PerpPositions {
		pos := &user.PerpPositions[i]
		if pos.BaseAssetAmount == 0 && pos.QuoteAssetAmount == 0 {
			continue
		}
		snap, ok := ctx.Perp[pos.MarketIndex]
		if !ok {
			continue
		}
		price := assetPrice(snap.OraclePrice, snap.TwapPrice, strict)
		netValue, nerr := perpNetQuoteValue(pos, price)
		if nerr != nil {
			return 0, nerr
		}
		total, err = fixedpoint.AddI64(total, netValue)
		if err != nil {
			return 0, err
		}
	}

	return total, nil
}

// spotContribution returns a spot position's signed contribution to total
// collateral: a weighted positive value for deposits, a weighted negative
// value for borrows.
func spotContribution(pos *types.SpotPosition, sm *types.SpotMarket, price int64, mode Mode) (int64, error) {
	amount, err := spotTokenAmount(pos, sm)
	if err != nil {
		return 0, err
	}
	value, err := fixedpoint.MulDivSigned(amount, price, types.PricePrecision, fixedpoint.RoundDown)
	if err != nil {
		return 0, err
	}

	if pos.BalanceType == types.BalanceBorrow {
		weight := sm.MaintenanceLiabilityWeight
		if mode == ModeInitial {
			weight = sm.InitialLiabilityWeight
		}
		weighted, werr := fixedpoint.MulDivSigned(value, int64(weight), types.SpotWeightPrecision, fixedpoint.RoundUp)
		if werr != nil {
			return 0, werr
		}
		return -weighted, nil
	}

	weight := sm.MaintenanceAssetWeight
	if mode == ModeInitial {
		weight = sm.InitialAssetWeight
	}
	return fixedpoint.MulDivSigned(value, int64(weight), types.SpotWeightPrecision, fixedpoint.RoundDown)
}

// spotTokenAmount converts a scaled balance into its current token amount
// via the market's cumulative interest accumulator, rounding up for borrows
// (spec.md §4.7 "borrow-conservative rounding") and down for deposits
// (spec.md §4.1 canonical rounding rule).
func spotTokenAmount(pos *types.SpotPosition, sm *types.SpotMarket) (int64, error) {
	if pos.BalanceType == types.BalanceBorrow {
		return fixedpoint.MulDivSigned(pos.ScaledBalance, sm.CumulativeBorrowInterest, types.SpotWeightPrecision, fixedpoint.RoundUp)
	}
	return fixedpoint.MulDivSigned(pos.ScaledBalance, sm.CumulativeDepositInterest, types.SpotWeightPrecision, fixedpoint.RoundDown)
}

// perpNetQuoteValue is what the position would be worth, in quote terms, if
// closed at price right now: its settled quote balance plus the
// mark-to-market value of its base exposure.
func perpNetQuoteValue(p *types.PerpPosition, price int64) (int64, error) {
	baseValue, err := fixedpoint.MulDivSigned(p.BaseAssetAmount, price, types.PricePrecision, fixedpoint.RoundDown)
	if err != nil {
		return 0, err
	}
	return fixedpoint.AddI64(p.QuoteAssetAmount, baseValue)
}

package liquidation

import (
	cerrors "github.com/nhb-labs/percore/core/errors"
	"github.com/nhb-labs/percore/core/types"
	"github.com/nhb-labs/percore/internal/fixedpoint"
)

// BorrowResult is the effect of one borrow-family liquidation step.
type BorrowResult struct {
	LiabilityRepaid int64 // token amount of the liability market repaid
	AssetSeized     int64 // token amount of the asset/pnl side transferred to the liquidator
}

// LiabilityTransfer computes the token amount of a liability that erases
// shortage once weighted by the margin differential between the liability
// and asset sides of the swap (spec.md §4.8 "Liquidate-Borrow" family):
//
//	liability_transfer = shortage × PRICE_PRECISION × SPOT_WEIGHT_PRECISION /
//	    (liability_price × (liability_weight − asset_weight×asset_mult/liability_mult))
//
// assetMult/liabilityMult let the same formula serve the three borrow-family
// modes, where one side may be a spot asset (mult 1) and the other a perp
// pnl balance weighted at SpotWeightPrecision (mult 1, no haircut).
func LiabilityTransfer(shortage, liabilityPrice int64, liabilityWeight, assetWeight uint32, assetMult, liabilityMult int64) (int64, error) {
	if shortage <= 0 {
		return 0, cerrors.ErrNotLiquidatable
	}
	if liabilityMult <= 0 {
		liabilityMult = 1
	}
	if assetMult <= 0 {
		assetMult = 1
	}
	weightedAsset, err := fixedpoint.MulDivSigned(int64(assetWeight), assetMult, liabilityMult, fixedpoint.RoundDown)
	if err != nil {
		return 0, err
	}
	denomWeight := int64(liabilityWeight) - weightedAsset
	if denomWeight <= 0 {
		return 0, cerrors.New(cerrors.KindPrecondition, "liquidation: liability/asset weight differential is non-positive")
	}
	denominator, err := fixedpoint.MulI64(liabilityPrice, denomWeight)
	if err != nil {
		return 0, err
	}
	if denominator <= 0 {
		return 0, cerrors.New(cerrors.KindPrecondition, "liquidation: non-positive liability transfer denominator")
	}
	// PricePrecision * SpotWeightPrecision fits in an int64 constant; folding
	// both multiplies into one MulDivSigned call keeps the shortage*price
	// product inside the 256-bit intermediate instead of two narrower ones.
	return fixedpoint.MulDivSigned(shortage, types.PricePrecision*types.SpotWeightPrecision, denominator, fixedpoint.RoundUp)
}

// tokenAmountToScaledBalance is the inverse of the cumulative-interest
// scaling applied when reading a SpotPosition's token amount.
func tokenAmountToScaledBalance(amount, cumulativeInterest int64, roundUp bool) (int64, error) {
	mode := fixedpoint.RoundDown
	if roundUp {
		mode = fixedpoint.RoundUp
	}
	return fixedpoint.MulDivSigned(amount, types.SpotWeightPrecision, cumulativeInterest, mode)
}

// LiquidateBorrow transfers up to X of the liability token from the
// liquidator to the liquidatee's borrow (reducing the borrow) and an equal
// weighted value of the liquidatee's deposit collateral to the liquidator
// (spec.md §4.8 "Liquidate-Borrow").
func LiquidateBorrow(
	liquidateeLiability, liquidateeAsset *types.SpotPosition,
	liquidatorLiability, liquidatorAsset *types.SpotPosition,
	liabilityMarket, assetMarket *types.SpotMarket,
	liabilityPrice, assetPrice, requestedAmount, shortage int64,
) (BorrowResult, error) {
	if liquidateeLiability.BalanceType != types.BalanceBorrow {
		return BorrowResult{}, cerrors.ErrNotLiquidatable
	}
	transfer, err := LiabilityTransfer(shortage, liabilityPrice, liabilityMarket.MaintenanceLiabilityWeight, assetMarket.MaintenanceAssetWeight, 1, 1)
	if err != nil {
		return BorrowResult{}, err
	}
	liabilityBorrowed, err := spotTokenAmount(liquidateeLiability, liabilityMarket)
	if err != nil {
		return BorrowResult{}, err
	}
	x := min64(requestedAmount, transfer, abs64(liabilityBorrowed))
	if x <= 0 {
		return BorrowResult{}, cerrors.ErrLiquidationThrottled
	}

	assetSeized, err := fixedpoint.MulDivSigned(x, liabilityPrice, assetPrice, fixedpoint.RoundUp)
	if err != nil {
		return BorrowResult{}, err
	}

	if err := repayBorrow(liquidateeLiability, liabilityMarket, x); err != nil {
		return BorrowResult{}, err
	}
	if err := extendBorrow(liquidatorLiability, liabilityMarket, x); err != nil {
		return BorrowResult{}, err
	}
	if err := withdrawDeposit(liquidateeAsset, assetMarket, assetSeized); err != nil {
		return BorrowResult{}, err
	}
	if err := depositAsset(liquidatorAsset, assetMarket, assetSeized); err != nil {
		return BorrowResult{}, err
	}

	return BorrowResult{LiabilityRepaid: x, AssetSeized: assetSeized}, nil
}

// spotTokenAmount mirrors margin.spotTokenAmount, which is unexported;
// duplicated locally so this package does not need it exported.
func spotTokenAmount(pos *types.SpotPosition, sm *types.SpotMarket) (int64, error) {
	if pos.BalanceType == types.BalanceBorrow {
		return fixedpoint.MulDivSigned(pos.ScaledBalance, sm.CumulativeBorrowInterest, types.SpotWeightPrecision, fixedpoint.RoundUp)
	}
	return fixedpoint.MulDivSigned(pos.ScaledBalance, sm.CumulativeDepositInterest, types.SpotWeightPrecision, fixedpoint.RoundDown)
}

func repayBorrow(pos *types.SpotPosition, sm *types.SpotMarket, amount int64) error {
	delta, err := tokenAmountToScaledBalance(amount, sm.CumulativeBorrowInterest, false)
	if err != nil {
		return err
	}
	pos.ScaledBalance -= delta
	pos.CumulativeDeposits += amount
	sm.BorrowBalance -= delta
	if pos.ScaledBalance <= 0 {
		pos.ScaledBalance = 0
		pos.BalanceType = types.BalanceDeposit
	}
	return nil
}

func extendBorrow(pos *types.SpotPosition, sm *types.SpotMarket, amount int64) error {
	delta, err := tokenAmountToScaledBalance(amount, sm.CumulativeBorrowInterest, true)
	if err != nil {
		return err
	}
	pos.BalanceType = types.BalanceBorrow
	pos.ScaledBalance += delta
	pos.CumulativeDeposits -= amount
	sm.BorrowBalance += delta
	return nil
}

func withdrawDeposit(pos *types.SpotPosition, sm *types.SpotMarket, amount int64) error {
	delta, err := tokenAmountToScaledBalance(amount, sm.CumulativeDepositInterest, true)
	if err != nil {
		return err
	}
	pos.ScaledBalance -= delta
	pos.CumulativeDeposits -= amount
	sm.DepositBalance -= delta
	return nil
}

func depositAsset(pos *types.SpotPosition, sm *types.SpotMarket, amount int64) error {
	delta, err := tokenAmountToScaledBalance(amount, sm.CumulativeDepositInterest, false)
	if err != nil {
		return err
	}
	pos.BalanceType = types.BalanceDeposit
	pos.ScaledBalance += delta
	pos.CumulativeDeposits += amount
	sm.DepositBalance += delta
	return nil
}

// LiquidateBorrowForPerpPnl repays a liquidatee's spot borrow using their
// own positive perp pnl, credited to the liquidator's borrow position
// instead of cash (spec.md §4.8 "Liquidate-Borrow-For-Perp-Pnl").
func LiquidateBorrowForPerpPnl(
	liquidateeLiability *types.SpotPosition,
	liquidateePerp *types.PerpPosition,
	liquidatorLiability *types.SpotPosition,
	liabilityMarket *types.SpotMarket,
	liabilityPrice, requestedAmount, shortage int64,
) (BorrowResult, error) {
	if liquidateePerp.QuoteAssetAmount <= 0 {
		return BorrowResult{}, cerrors.ErrNotLiquidatable
	}
	transfer, err := LiabilityTransfer(shortage, liabilityPrice, liabilityMarket.MaintenanceLiabilityWeight, types.SpotWeightPrecision, 1, 1)
	if err != nil {
		return BorrowResult{}, err
	}
	liabilityBorrowed, err := spotTokenAmount(liquidateeLiability, liabilityMarket)
	if err != nil {
		return BorrowResult{}, err
	}
	x := min64(requestedAmount, transfer, abs64(liabilityBorrowed), liquidateePerp.QuoteAssetAmount)
	if x <= 0 {
		return BorrowResult{}, cerrors.ErrLiquidationThrottled
	}

	if err := repayBorrow(liquidateeLiability, liabilityMarket, x); err != nil {
		return BorrowResult{}, err
	}
	if err := extendBorrow(liquidatorLiability, liabilityMarket, x); err != nil {
		return BorrowResult{}, err
	}
	liquidateePerp.QuoteAssetAmount, err = fixedpoint.SubI64(liquidateePerp.QuoteAssetAmount, x)
	if err != nil {
		return BorrowResult{}, err
	}

	return BorrowResult{LiabilityRepaid: x, AssetSeized: x}, nil
}

// LiquidatePerpPnlForDeposit lets a liquidator advance deposit collateral to
// a liquidatee in exchange for the liquidatee's positive perp pnl (spec.md
// §4.8 "Liquidate-Perp-Pnl-For-Deposit") — used when the shortfall sits
// entirely on the perp side and no borrow needs repaying.
func LiquidatePerpPnlForDeposit(
	liquidateePerp *types.PerpPosition,
	liquidateeAsset, liquidatorAsset *types.SpotPosition,
	assetMarket *types.SpotMarket,
	assetPrice, requestedAmount, shortage int64,
) (BorrowResult, error) {
	if liquidateePerp.QuoteAssetAmount <= 0 {
		return BorrowResult{}, cerrors.ErrNotLiquidatable
	}
	transfer, err := LiabilityTransfer(shortage, assetPrice, types.SpotWeightPrecision, assetMarket.MaintenanceAssetWeight, 1, 1)
	if err != nil {
		return BorrowResult{}, err
	}
	x := min64(requestedAmount, transfer, liquidateePerp.QuoteAssetAmount)
	if x <= 0 {
		return BorrowResult{}, cerrors.ErrLiquidationThrottled
	}

	if err := withdrawDeposit(liquidatorAsset, assetMarket, x); err != nil {
		return BorrowResult{}, err
	}
	if err := depositAsset(liquidateeAsset, assetMarket, x); err != nil {
		return BorrowResult{}, err
	}
	liquidateePerp.QuoteAssetAmount, err = fixedpoint.SubI64(liquidateePerp.QuoteAssetAmount, x)
	if err != nil {
		return BorrowResult{}, err
	}

	return BorrowResult{LiabilityRepaid: x, AssetSeized: x}, nil
}

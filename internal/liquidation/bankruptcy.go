package liquidation

import (
	cerrors "github.com/nhb-labs/percore/core/errors"
	"github.com/nhb-labs/percore/core/events"
	"github.com/nhb-labs/percore/core/types"
	"github.com/nhb-labs/percore/internal/fixedpoint"
)

// PerpBankruptcyResult is the cumulative-funding-rate delta applied to the
// absorbing side of an open interest book.
type PerpBankruptcyResult struct {
	Loss          int64
	RateDelta     int64
	Side          uint8 // 0 = long absorbs, 1 = short absorbs
	TotalOpenBase int64
}

// SocializePerpBankruptcy spreads an unpaid perp loss across the side
// opposite the liquidatee's (now-closed) exposure via a cumulative-funding-
// rate delta (spec.md §4.8 "Bankruptcy": loss × FUNDING_RATE_BUFFER /
// total_open_base, applied to the absorbing side's cumulative rate so
// future settlement charges it evenly). wasLong is the sign of the
// liquidatee's position before this closure erased it. Requires
// total_collateral < 0 and the position fully closed.
func SocializePerpBankruptcy(market *types.Market, user *types.User, marketIndex uint16, totalCollateral, loss int64, wasLong bool) (PerpBankruptcyResult, error) {
	if totalCollateral >= 0 {
		return PerpBankruptcyResult{}, cerrors.ErrNoBankruptcy
	}
	if loss <= 0 {
		return PerpBankruptcyResult{}, cerrors.ErrNoBankruptcy
	}

	p := findPerpPosition(user, marketIndex)
	if p == nil || p.BaseAssetAmount != 0 {
		return PerpBankruptcyResult{}, cerrors.New(cerrors.KindPrecondition, "liquidation: bankruptcy requires the perp position fully closed")
	}

	// The liquidatee was long, so the short side of the book realized the
	// matching gain and absorbs the shortfall, and vice versa.
	var side uint8
	var totalOpenBase int64
	if wasLong {
		side = 1
		totalOpenBase = market.BaseAssetAmountShort
	} else {
		side = 0
		totalOpenBase = market.BaseAssetAmountLong
	}
	if totalOpenBase == 0 {
		return PerpBankruptcyResult{}, cerrors.ErrNoOpenBaseToSocialize
	}

	rateDelta, err := fixedpoint.MulDivSigned(loss, types.FundingRateBuffer, abs64(totalOpenBase), fixedpoint.RoundUp)
	if err != nil {
		return PerpBankruptcyResult{}, err
	}
	if side == 0 {
		market.AMM.CumulativeFundingRateLong, err = fixedpoint.AddI64(market.AMM.CumulativeFundingRateLong, rateDelta)
	} else {
		market.AMM.CumulativeFundingRateShort, err = fixedpoint.SubI64(market.AMM.CumulativeFundingRateShort, rateDelta)
	}
	if err != nil {
		return PerpBankruptcyResult{}, err
	}

	p.QuoteAssetAmount, err = fixedpoint.AddI64(p.QuoteAssetAmount, loss)
	if err != nil {
		return PerpBankruptcyResult{}, err
	}
	user.BeingLiquidated = false

	return PerpBankruptcyResult{Loss: loss, RateDelta: rateDelta, Side: side, TotalOpenBase: totalOpenBase}, nil
}

// EmitPerpBankruptcy records a resolved perp bankruptcy.
func EmitPerpBankruptcy(sink events.EventSink, now int64, user [20]byte, marketIndex uint16, res PerpBankruptcyResult) {
	if sink == nil {
		return
	}
	sink.Emit(events.NewPerpBankruptcy(now, user, marketIndex, res.Loss, res.RateDelta, res.Side, res.TotalOpenBase))
}

// SpotBankruptcyResult is the cumulative-deposit-interest haircut applied
// across all depositors of a market to cover an unpaid borrow loss.
type SpotBankruptcyResult struct {
	Loss   int64
	Before int64
	After  int64
}

// SocializeSpotBankruptcy scales down a spot market's cumulative deposit
// interest by (1 − loss/total_deposits) so every depositor absorbs a pro
// rata share of an unrecoverable borrow default (spec.md §4.8 "Bankruptcy").
func SocializeSpotBankruptcy(market *types.SpotMarket, totalCollateral, loss int64) (SpotBankruptcyResult, error) {
	if totalCollateral >= 0 {
		return SpotBankruptcyResult{}, cerrors.ErrNoBankruptcy
	}
	if loss <= 0 {
		return SpotBankruptcyResult{}, cerrors.ErrNoBankruptcy
	}
	totalDeposits, err := fixedpoint.MulDivSigned(market.DepositBalance, market.CumulativeDepositInterest, types.SpotWeightPrecision, fixedpoint.RoundDown)
	if err != nil {
		return SpotBankruptcyResult{}, err
	}
	if totalDeposits <= 0 {
		return SpotBankruptcyResult{}, cerrors.ErrNoOpenBaseToSocialize
	}

	before := market.CumulativeDepositInterest
	retained, err := fixedpoint.SubI64(totalDeposits, loss)
	if err != nil {
		return SpotBankruptcyResult{}, err
	}
	if retained < 0 {
		retained = 0
	}
	after, err := fixedpoint.MulDivSigned(before, retained, totalDeposits, fixedpoint.RoundDown)
	if err != nil {
		return SpotBankruptcyResult{}, err
	}
	market.CumulativeDepositInterest = after

	return SpotBankruptcyResult{Loss: loss, Before: before, After: after}, nil
}

// EmitSpotBankruptcy records a resolved spot bankruptcy.
func EmitSpotBankruptcy(sink events.EventSink, now int64, user [20]byte, marketIndex uint16, res SpotBankruptcyResult) {
	if sink == nil {
		return
	}
	sink.Emit(events.NewSpotBankruptcy(now, user, marketIndex, res.Loss, res.Before, res.After))
}

func findPerpPosition(user *types.User, marketIndex uint16) *types.PerpPosition {
	for i := range user.PerpPositions {
		if user.PerpPositions[i].MarketIndex == marketIndex {
			return &user.PerpPositions[i]
		}
	}
	return nil
}

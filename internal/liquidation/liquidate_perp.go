package liquidation

import (
	cerrors "github.com/nhb-labs/percore/core/errors"
	"github.com/nhb-labs/percore/core/events"
	"github.com/nhb-labs/percore/core/types"
	"github.com/nhb-labs/percore/internal/fixedpoint"
	"github.com/nhb-labs/percore/internal/position"
)

// PerpResult is the effect of one liquidate_perp step.
type PerpResult struct {
	TransferBase  int64
	TransferQuote int64
	ShortageAfter int64
}

// LiquidatePerp transfers up to X base from liquidatee to liquidator at
// oracle_price × (1 − liquidatorFeeBps/LiquidationFeePrecision) (spec.md
// §4.8 "Liquidate-Perp"). X is the minimum of the liquidatee's position
// size, the liquidator's requested size, the size needed to erase the
// margin shortage, and the throttled per-slot max.
func LiquidatePerp(
	market *types.Market,
	liquidatee, liquidator *types.PerpPosition,
	oraclePrice, liquidatorFeeBps, requestedSize, shortage, throttlePct int64,
) (PerpResult, types.PositionDelta, types.PositionDelta, error) {
	if liquidatee.BaseAssetAmount == 0 {
		return PerpResult{}, types.PositionDelta{}, types.PositionDelta{}, cerrors.ErrNotLiquidatable
	}
	if shortage <= 0 {
		return PerpResult{}, types.PositionDelta{}, types.PositionDelta{}, cerrors.ErrNotLiquidatable
	}

	execPrice, err := fixedpoint.MulDivSigned(oraclePrice, types.LiquidationFeePrecision-liquidatorFeeBps, types.LiquidationFeePrecision, fixedpoint.RoundDown)
	if err != nil {
		return PerpResult{}, types.PositionDelta{}, types.PositionDelta{}, err
	}
	if execPrice <= 0 {
		return PerpResult{}, types.PositionDelta{}, types.PositionDelta{}, cerrors.New(cerrors.KindPrecondition, "liquidation: non-positive execution price")
	}

	throttledShortage, err := fixedpoint.MulDivSigned(shortage, throttlePct, types.SpotWeightPrecision, fixedpoint.RoundDown)
	if err != nil {
		return PerpResult{}, types.PositionDelta{}, types.PositionDelta{}, err
	}
	sizeToErodeShortage, err := fixedpoint.MulDivSigned(throttledShortage, types.PricePrecision, execPrice, fixedpoint.RoundUp)
	if err != nil {
		return PerpResult{}, types.PositionDelta{}, types.PositionDelta{}, err
	}

	userSize := abs64(liquidatee.BaseAssetAmount)
	x := min64(userSize, requestedSize, sizeToErodeShortage)
	if x <= 0 {
		return PerpResult{}, types.PositionDelta{}, types.PositionDelta{}, cerrors.ErrLiquidationThrottled
	}

	sign := int64(1)
	if liquidatee.BaseAssetAmount < 0 {
		sign = -1
	}

	quoteMagnitude, err := fixedpoint.MulDivSigned(x, execPrice, types.PricePrecision, fixedpoint.RoundDown)
	if err != nil {
		return PerpResult{}, types.PositionDelta{}, types.PositionDelta{}, err
	}

	liquidateeDelta := types.PositionDelta{
		BaseAssetAmount:  -sign * x,
		QuoteAssetAmount: sign * quoteMagnitude,
	}
	liquidatorDelta := types.PositionDelta{
		BaseAssetAmount:  sign * x,
		QuoteAssetAmount: -sign * quoteMagnitude,
	}

	if _, err := position.Apply(market, liquidatee, liquidateeDelta); err != nil {
		return PerpResult{}, types.PositionDelta{}, types.PositionDelta{}, err
	}
	if _, err := position.Apply(market, liquidator, liquidatorDelta); err != nil {
		return PerpResult{}, types.PositionDelta{}, types.PositionDelta{}, err
	}

	shortageAfter, err := fixedpoint.SubI64(shortage, quoteMagnitude)
	if err != nil {
		return PerpResult{}, types.PositionDelta{}, types.PositionDelta{}, err
	}
	if shortageAfter < 0 {
		shortageAfter = 0
	}

	return PerpResult{TransferBase: x, TransferQuote: quoteMagnitude, ShortageAfter: shortageAfter}, liquidateeDelta, liquidatorDelta, nil
}

// EmitLiquidation records a completed liquidation step.
func EmitLiquidation(sink events.EventSink, now int64, liquidatee, liquidator [20]byte, marketIndex uint16, mode string, res PerpResult, oraclePrice, shortageBefore, throttlePct int64) {
	if sink == nil {
		return
	}
	sink.Emit(events.NewLiquidation(now, liquidatee, liquidator, marketIndex, mode, res.TransferBase, res.TransferQuote, oraclePrice, 0, shortageBefore, res.ShortageAfter, throttlePct))
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
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

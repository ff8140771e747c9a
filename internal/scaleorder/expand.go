// Package scaleorder expands a ScaleOrderParams request into the individual
// limit orders it describes (spec.md §4.10, C10).
package scaleorder

import (
	cerrors "github.com/nhb-labs/percore/core/errors"
	"github.com/nhb-labs/percore/core/events"
	"github.com/nhb-labs/percore/core/types"
	"github.com/nhb-labs/percore/internal/fixedpoint"
)

// Expand validates params and returns the N orders it describes (spec.md
// §4.10). openOrderCount is the user's current open-order count, used to
// enforce MaxOpenOrders.
func Expand(params types.ScaleOrderParams, stepSize int64, openOrderCount int) ([]types.Order, error) {
	if params.NumOrders < 2 || params.NumOrders > types.MaxOpenOrders {
		return nil, cerrors.ErrScaleOrderCountOutOfRange
	}
	if openOrderCount+params.NumOrders > types.MaxOpenOrders {
		return nil, cerrors.ErrScaleOrderOpenOrdersCap
	}
	if err := validatePriceDirection(params); err != nil {
		return nil, err
	}

	n := int64(params.NumOrders)
	if params.TotalBaseAssetAmount < n*stepSize {
		return nil, cerrors.ErrScaleOrderSizeTooSmall
	}

	prices, err := linearPrices(params.StartPrice, params.EndPrice, params.NumOrders)
	if err != nil {
		return nil, err
	}
	sizes, err := distributeSizes(params.TotalBaseAssetAmount, params.NumOrders, params.Distribution, stepSize)
	if err != nil {
		return nil, err
	}

	orders := make([]types.Order, params.NumOrders)
	for i := 0; i < params.NumOrders; i++ {
		orders[i] = types.Order{
			Status:            types.OrderStatusOpen,
			OrderType:         types.OrderLimit,
			Direction:         params.Direction,
			MarketIndex:       params.MarketIndex,
			BaseAssetAmount:   sizes[i],
			Price:             prices[i],
			ReduceOnly:        params.ReduceOnly,
			PostOnly:          params.PostOnly,
			ImmediateOrCancel: params.ImmediateOrCancel,
			MaxTS:             params.MaxTS,
		}
	}
	orders[0].BitFlags = params.BitFlags

	return orders, nil
}

// validatePriceDirection enforces the DCA-down-on-longs / DCA-up-on-shorts
// rule (spec.md §4.10).
func validatePriceDirection(params types.ScaleOrderParams) error {
	switch params.Direction {
	case types.DirectionLong:
		if params.StartPrice <= params.EndPrice {
			return cerrors.ErrScaleOrderPriceDirection
		}
	case types.DirectionShort:
		if params.StartPrice >= params.EndPrice {
			return cerrors.ErrScaleOrderPriceDirection
		}
	default:
		return cerrors.ErrScaleOrderPriceDirection
	}
	return nil
}

// linearPrices steps from start to end in N-1 equal increments, forcing the
// last entry to exactly end_price to avoid drift from repeated rounding
// (spec.md §4.10 "Price distribution").
func linearPrices(start, end int64, n int) ([]int64, error) {
	prices := make([]int64, n)
	prices[0] = start
	if n == 1 {
		return prices, nil
	}
	step, err := fixedpoint.DivI64(end-start, int64(n-1), fixedpoint.RoundDown)
	if err != nil {
		return nil, err
	}
	for i := 1; i < n-1; i++ {
		next, err := fixedpoint.AddI64(start, step*int64(i))
		if err != nil {
			return nil, err
		}
		prices[i] = next
	}
	prices[n-1] = end
	return prices, nil
}

// distributeSizes allocates total across n orders per the selected curve,
// step-size-rounding each and pushing the leftover remainder into the last
// order so the sum is always exact (spec.md §4.10 invariant 7).
func distributeSizes(total int64, n int, dist types.ScaleOrderDistribution, stepSize int64) ([]int64, error) {
	sizes := make([]int64, n)
	var err error

	switch dist {
	case types.ScaleDistributionFlat:
		for i := 0; i < n; i++ {
			sizes[i], err = roundToStep(total/int64(n), stepSize)
			if err != nil {
				return nil, err
			}
		}
	case types.ScaleDistributionAscending, types.ScaleDistributionDescending:
		// multiplier_i = 1 + 0.5*i = (2+i)/2 for i = 0..n-1; sum of
		// multipliers = n(n+3)/4, so size_i = total*(2+i) / (n*(n+3))
		// (spec.md §4.10 "Ascending"). Built in ascending shape first so the
		// remainder correction below always lands on the largest order;
		// Descending then reverses the finished, exact array.
		nn := int64(n)
		denom := nn * (nn + 3)
		for i := 0; i < n; i++ {
			sz, serr := fixedpoint.MulDivSigned(total, int64(2+i), denom, fixedpoint.RoundDown)
			if serr != nil {
				return nil, serr
			}
			sizes[i], err = roundToStep(sz, stepSize)
			if err != nil {
				return nil, err
			}
		}
	default:
		return nil, cerrors.New(cerrors.KindPrecondition, "scale_order: unknown size distribution")
	}

	sum := int64(0)
	for i := 0; i < n-1; i++ {
		sum, err = fixedpoint.AddI64(sum, sizes[i])
		if err != nil {
			return nil, err
		}
	}
	remainder, err := fixedpoint.SubI64(total, sum)
	if err != nil {
		return nil, err
	}
	sizes[n-1] = remainder

	if dist == types.ScaleDistributionDescending {
		for l, r := 0, n-1; l < r; l, r = l+1, r-1 {
			sizes[l], sizes[r] = sizes[r], sizes[l]
		}
	}

	return sizes, nil
}

func roundToStep(amount, stepSize int64) (int64, error) {
	if stepSize <= 0 {
		return amount, nil
	}
	steps, err := fixedpoint.DivI64(amount, stepSize, fixedpoint.RoundDown)
	if err != nil {
		return 0, err
	}
	return fixedpoint.MulI64(steps, stepSize)
}

// EmitExpansion records each order placed by a scale-order expansion.
func EmitExpansion(sink events.EventSink, now int64, user [20]byte, marketIndex uint16, orders []types.Order) {
	if sink == nil {
		return
	}
	for i, o := range orders {
		sink.Emit(events.NewOrderAction(now, marketIndex, user, "place_scale_orders", i, uint8(o.Direction), o.BaseAssetAmount, o.Price))
	}
}

package state

import (
	cerrors "github.com/nhb-labs/percore/core/errors"
	"github.com/nhb-labs/percore/core/events"
	"github.com/nhb-labs/percore/core/types"
	"github.com/nhb-labs/percore/internal/fixedpoint"
	"github.com/nhb-labs/percore/internal/funding"
	"github.com/nhb-labs/percore/internal/liquidation"
	"github.com/nhb-labs/percore/internal/oracle"
	"github.com/nhb-labs/percore/internal/position"
	"github.com/nhb-labs/percore/internal/scaleorder"
)

// UpdateFundingRate runs one funding tick for marketIndex (spec.md §6
// "update_funding_rate").
func (b *Book) UpdateFundingRate(marketIndex uint16, feed PriceFeed, now int64, cfg funding.Config, sink events.EventSink) error {
	m, err := b.Market(marketIndex)
	if err != nil {
		return err
	}
	if err := RequireNotSettledOrDelisted(m); err != nil {
		return err
	}
	snap, err := feed.PerpOracle(marketIndex)
	if err != nil {
		return err
	}
	return funding.UpdateFundingRate(m, snap, now, cfg, sink)
}

// SettleFundingPayment settles one user position's funding payment against
// its market's cumulative rate (spec.md §6 "settle_funding_payment"). Must
// run before margin is computed and before a new fill is applied in the
// same operation (spec.md §5 ordering guarantees 2 and 4).
func (b *Book) SettleFundingPayment(user *types.User, marketIndex uint16, now int64, sink events.EventSink) error {
	m, err := b.Market(marketIndex)
	if err != nil {
		return err
	}
	if err := RequireNotSettledOrDelisted(m); err != nil {
		return err
	}
	p := user.PerpPositionByMarket(marketIndex)
	if p == nil {
		return nil
	}
	before := p.LastCumulativeFundingRate
	settlement, err := funding.SettlePosition(&m.AMM, p)
	if err != nil {
		return err
	}
	if sink != nil && settlement.Payment != 0 {
		sink.Emit(events.NewFundingPayment(now, marketIndex, user.Authority, settlement.Payment, p.BaseAssetAmount, before, settlement.AMMCumulativeFunding))
	}
	return nil
}

// UpdatePosition applies delta to user's position in marketIndex,
// rejecting risk-increasing deltas on a non-operational market (spec.md §5
// "Cancellation", §6 "update_position"). A position slot is opened lazily
// on the user's first delta in a market.
func (b *Book) UpdatePosition(user *types.User, marketIndex uint16, delta types.PositionDelta, now int64, sink events.EventSink) (position.Result, error) {
	m, err := b.Market(marketIndex)
	if err != nil {
		return position.Result{}, err
	}
	if err := RequireNotSettledOrDelisted(m); err != nil {
		return position.Result{}, err
	}
	existing := user.PerpPositionByMarket(marketIndex)
	increasing := existing == nil || sameSign(existing.BaseAssetAmount, delta.BaseAssetAmount)
	if increasing {
		if err := RequireOperational(m); err != nil {
			return position.Result{}, err
		}
	}

	p, ok := user.OpenPerpPositionOrCreate(marketIndex)
	if !ok {
		return position.Result{}, cerrors.ErrPositionSlotsExhausted
	}

	result, err := position.Apply(m, p, delta)
	if err != nil {
		return position.Result{}, err
	}
	if sink != nil {
		sink.Emit(events.NewSettlePnl(now, marketIndex, user.Authority, result.RealizedPnl, p.QuoteAssetAmount, p.BaseAssetAmount))
	}
	return result, nil
}

func sameSign(current, delta int64) bool {
	if current == 0 || delta == 0 {
		return true
	}
	return (current > 0) == (delta > 0)
}

// LiquidatePerp runs one throttled perp liquidation transfer between two
// registered users in marketIndex (spec.md §4.8, §6 "liquidate_perp").
// Liquidator and liquidatee are both exclusive-write for the duration
// (spec.md §5 "Shared-resource policy"); in this single-threaded model that
// is satisfied by the caller holding both *types.User pointers for the
// whole call.
func (b *Book) LiquidatePerp(liquidateeAuth, liquidatorAuth [20]byte, marketIndex uint16, oraclePrice, liquidatorFeeBps, requestedSize, shortage, throttlePct, now int64, sink events.EventSink) (liquidation.PerpResult, error) {
	if liquidateeAuth == liquidatorAuth {
		return liquidation.PerpResult{}, cerrors.ErrSameLiquidateeLiquidator
	}
	m, err := b.Market(marketIndex)
	if err != nil {
		return liquidation.PerpResult{}, err
	}
	if err := RequireNotSettledOrDelisted(m); err != nil {
		return liquidation.PerpResult{}, err
	}
	liquidatee, err := b.User(liquidateeAuth)
	if err != nil {
		return liquidation.PerpResult{}, err
	}
	liquidator, err := b.User(liquidatorAuth)
	if err != nil {
		return liquidation.PerpResult{}, err
	}
	liquidateePos := liquidatee.PerpPositionByMarket(marketIndex)
	if liquidateePos == nil {
		return liquidation.PerpResult{}, cerrors.ErrPositionSlotsExhausted
	}
	liquidatorPos, ok := liquidator.OpenPerpPositionOrCreate(marketIndex)
	if !ok {
		return liquidation.PerpResult{}, cerrors.ErrPositionSlotsExhausted
	}

	res, _, _, err := liquidation.LiquidatePerp(m, liquidateePos, liquidatorPos, oraclePrice, liquidatorFeeBps, requestedSize, shortage, throttlePct)
	if err != nil {
		return liquidation.PerpResult{}, err
	}
	liquidation.EmitLiquidation(sink, now, liquidateeAuth, liquidatorAuth, marketIndex, "perp", res, oraclePrice, shortage, throttlePct)
	return res, nil
}

// PlaceScaleOrders expands params into resting orders and writes them into
// the first available slots of user.Orders (spec.md §4.10, §6
// "place_scale_orders").
func (b *Book) PlaceScaleOrders(user *types.User, params types.ScaleOrderParams, stepSize int64, now int64, sink events.EventSink) ([]types.Order, error) {
	m, err := b.Market(params.MarketIndex)
	if err != nil {
		return nil, err
	}
	if err := RequireNotSettledOrDelisted(m); err != nil {
		return nil, err
	}
	if err := RequireOperational(m); err != nil {
		return nil, err
	}

	open := 0
	for i := range user.Orders {
		if user.Orders[i].Status != types.OrderStatusInit {
			open++
		}
	}

	orders, err := scaleorder.Expand(params, stepSize, open)
	if err != nil {
		return nil, err
	}

	placed := make([]types.Order, 0, len(orders))
	oi := 0
	for _, o := range orders {
		for oi < len(user.Orders) && user.Orders[oi].Status != types.OrderStatusInit {
			oi++
		}
		if oi >= len(user.Orders) {
			return nil, cerrors.ErrScaleOrderOpenOrdersCap
		}
		user.Orders[oi] = o
		placed = append(placed, o)
		oi++
	}

	scaleorder.EmitExpansion(sink, now, user.Authority, params.MarketIndex, placed)
	return placed, nil
}

// SettlePnl transfers a user's settled perp pnl between their quote spot
// balance and the market's pnl pool (spec.md §6 "settle_pnl"). authority
// need not equal user.Authority, but a third party may only trigger the
// transfer when the position's settled pnl is negative — i.e. third
// parties may collect a user's losses into the pnl pool but may not force a
// user to realize a gain (spec.md §6 "authority may only settle negative
// pnl of others"). quoteMarketIndex is the spot market the proceeds settle
// into, left to the caller rather than assumed so a deployment's quote
// asset is not hardcoded into the engine.
func (b *Book) SettlePnl(authority, userAuth [20]byte, marketIndex, quoteMarketIndex uint16, feed PriceFeed, now int64, sink events.EventSink) (int64, error) {
	m, err := b.Market(marketIndex)
	if err != nil {
		return 0, err
	}
	if err := RequireNotSettledOrDelisted(m); err != nil {
		return 0, err
	}
	user, err := b.User(userAuth)
	if err != nil {
		return 0, err
	}
	p := user.PerpPositionByMarket(marketIndex)
	if p == nil {
		return 0, cerrors.ErrPerpPositionNotFound
	}

	snap, err := feed.PerpOracle(marketIndex)
	if err != nil {
		return 0, err
	}
	tier := oracle.Classify(snap, m.AMM.LastOraclePriceTwap, oracle.DefaultThresholds())
	if err := oracle.Gate(oracle.ActionSettlePnl, tier); err != nil {
		return 0, err
	}

	pnl := p.QuoteAssetAmount
	if pnl == 0 {
		return 0, nil
	}
	if authority != user.Authority && pnl >= 0 {
		return 0, cerrors.ErrSettlePnlUnauthorized
	}

	spot, ok := user.OpenSpotPositionOrCreate(quoteMarketIndex)
	if !ok {
		return 0, cerrors.ErrSpotPositionSlotsExhausted
	}

	newPool, err := fixedpoint.SubI64(m.AMM.PnlPoolBalance, pnl)
	if err != nil {
		return 0, err
	}
	newSpotBalance, err := fixedpoint.AddI64(spot.ScaledBalance, pnl)
	if err != nil {
		return 0, err
	}

	m.AMM.PnlPoolBalance = newPool
	spot.ScaledBalance = newSpotBalance
	p.QuoteAssetAmount = 0

	if sink != nil {
		sink.Emit(events.NewPnlPoolSettlement(now, marketIndex, authority, userAuth, pnl, newPool, newSpotBalance))
	}
	return pnl, nil
}

// SettleExpiredPosition closes a user's position at the market's frozen
// SettlementPrice. It is the only operation permitted once a market enters
// MarketSettlement (spec.md §7 "under settlement status, only
// settle_expired_position succeeds").
func (b *Book) SettleExpiredPosition(user *types.User, marketIndex uint16, now int64, sink events.EventSink) (position.Result, error) {
	m, err := b.Market(marketIndex)
	if err != nil {
		return position.Result{}, err
	}
	if m.Status != types.MarketSettlement {
		return position.Result{}, cerrors.ErrMarketNotInSettlement
	}
	p := user.PerpPositionByMarket(marketIndex)
	if p == nil {
		return position.Result{}, nil
	}

	closingQuote, err := fixedpoint.MulDivSigned(p.BaseAssetAmount, m.SettlementPrice, types.PricePrecision, fixedpoint.RoundDown)
	if err != nil {
		return position.Result{}, err
	}
	delta := types.PositionDelta{
		BaseAssetAmount:  -p.BaseAssetAmount,
		QuoteAssetAmount: closingQuote,
	}

	result, err := position.Apply(m, p, delta)
	if err != nil {
		return position.Result{}, err
	}
	if sink != nil {
		sink.Emit(events.NewSettlePnl(now, marketIndex, user.Authority, result.RealizedPnl, p.QuoteAssetAmount, p.BaseAssetAmount))
	}
	return result, nil
}

package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	cerrors "github.com/nhb-labs/percore/core/errors"
	"github.com/nhb-labs/percore/core/events"
	"github.com/nhb-labs/percore/core/types"
)

type fixedFeed struct {
	perp map[uint16]types.OracleSnapshot
	spot map[uint16]int64
}

func (f fixedFeed) PerpOracle(marketIndex uint16) (types.OracleSnapshot, error) {
	return f.perp[marketIndex], nil
}

func (f fixedFeed) SpotOracle(marketIndex uint16) (int64, error) {
	return f.spot[marketIndex], nil
}

func addr(b byte) [20]byte {
	var a [20]byte
	a[19] = b
	return a
}

func activeMarket(index uint16) *types.Market {
	return &types.Market{
		MarketIndex:            index,
		Status:                 types.MarketActive,
		MarginRatioInitial:     1_000,
		MarginRatioMaintenance: 500,
		AMM:                    types.AMM{OrderStepSize: 1},
	}
}

func TestUpdatePositionOpensAndRejectsOnReduceOnlyMarket(t *testing.T) {
	b := NewBook()
	m := activeMarket(1)
	b.AddMarket(m)
	user := &types.User{Authority: addr(1)}
	b.AddUser(user)

	result, err := b.UpdatePosition(user, 1, types.PositionDelta{BaseAssetAmount: 100, QuoteAssetAmount: -100}, 0, nil)
	require.NoError(t, err)
	require.Equal(t, types.PositionOpen, result.Kind)

	m.Status = types.MarketReduceOnly
	_, err = b.UpdatePosition(user, 1, types.PositionDelta{BaseAssetAmount: 50, QuoteAssetAmount: -50}, 0, nil)
	require.Error(t, err)

	// Risk-reducing (opposite sign, smaller magnitude) still succeeds.
	_, err = b.UpdatePosition(user, 1, types.PositionDelta{BaseAssetAmount: -50, QuoteAssetAmount: 50}, 0, nil)
	require.NoError(t, err)
}

func TestUpdatePositionRejectsUnknownMarket(t *testing.T) {
	b := NewBook()
	user := &types.User{Authority: addr(1)}
	b.AddUser(user)
	_, err := b.UpdatePosition(user, 99, types.PositionDelta{BaseAssetAmount: 1}, 0, nil)
	require.Error(t, err)
}

func TestLiquidatePerpTransfersBetweenRegisteredUsers(t *testing.T) {
	b := NewBook()
	m := activeMarket(1)
	b.AddMarket(m)

	liquidatee := &types.User{Authority: addr(1)}
	liquidatee.PerpPositions[0] = types.PerpPosition{MarketIndex: 1, BaseAssetAmount: 100 * types.BasePrecision, QuoteAssetAmount: -90 * types.BasePrecision}
	liquidator := &types.User{Authority: addr(2)}
	b.AddUser(liquidatee)
	b.AddUser(liquidator)

	res, err := b.LiquidatePerp(liquidatee.Authority, liquidator.Authority, 1, types.PricePrecision, 10_000, 40*types.BasePrecision, 1_000*types.BasePrecision, types.SpotWeightPrecision, 0, nil)
	require.NoError(t, err)
	require.Equal(t, int64(40*types.BasePrecision), res.TransferBase)

	require.Equal(t, int64(60*types.BasePrecision), liquidatee.PerpPositions[0].BaseAssetAmount)
	require.Equal(t, int64(40*types.BasePrecision), liquidator.PerpPositions[0].BaseAssetAmount)
}

func TestLiquidatePerpRejectsSameUser(t *testing.T) {
	b := NewBook()
	b.AddMarket(activeMarket(1))
	user := &types.User{Authority: addr(1)}
	b.AddUser(user)
	_, err := b.LiquidatePerp(user.Authority, user.Authority, 1, types.PricePrecision, 0, 1, 1, types.SpotWeightPrecision, 0, nil)
	require.Error(t, err)
}

func TestPlaceScaleOrdersWritesIntoEmptySlots(t *testing.T) {
	b := NewBook()
	b.AddMarket(activeMarket(1))
	user := &types.User{Authority: addr(1)}
	b.AddUser(user)

	params := types.ScaleOrderParams{
		MarketIndex:          1,
		Direction:            types.DirectionLong,
		TotalBaseAssetAmount: 1 * types.BasePrecision,
		StartPrice:           110 * types.PricePrecision,
		EndPrice:             100 * types.PricePrecision,
		NumOrders:            5,
		Distribution:         types.ScaleDistributionFlat,
	}
	placed, err := b.PlaceScaleOrders(user, params, 1, 0, nil)
	require.NoError(t, err)
	require.Len(t, placed, 5)

	open := 0
	for _, o := range user.Orders {
		if o.Status == types.OrderStatusOpen {
			open++
		}
	}
	require.Equal(t, 5, open)
}

func validFeed(marketIndex uint16, price int64) fixedFeed {
	return fixedFeed{perp: map[uint16]types.OracleSnapshot{
		marketIndex: {Price: price, HasSufficientDataPoints: true},
	}}
}

func TestSettlePnlSettlesOwnPositivePnl(t *testing.T) {
	b := NewBook()
	m := activeMarket(1)
	m.AMM.LastOraclePriceTwap = types.PricePrecision
	m.AMM.PnlPoolBalance = 1_000
	b.AddMarket(m)

	user := &types.User{Authority: addr(1)}
	user.PerpPositions[0] = types.PerpPosition{MarketIndex: 1, BaseAssetAmount: 100, QuoteAssetAmount: 40}
	b.AddUser(user)

	sink := &events.CollectingSink{}
	pnl, err := b.SettlePnl(user.Authority, user.Authority, 1, 0, validFeed(1, types.PricePrecision), 0, sink)
	require.NoError(t, err)
	require.Equal(t, int64(40), pnl)
	require.Equal(t, int64(0), user.PerpPositions[0].QuoteAssetAmount)
	require.Equal(t, int64(40), user.SpotPositions[0].ScaledBalance)
	require.Equal(t, int64(960), m.AMM.PnlPoolBalance)
	require.Len(t, sink.Records, 1)
}

func TestSettlePnlThirdPartyCannotSettlePositivePnl(t *testing.T) {
	b := NewBook()
	m := activeMarket(1)
	m.AMM.LastOraclePriceTwap = types.PricePrecision
	b.AddMarket(m)

	user := &types.User{Authority: addr(1)}
	user.PerpPositions[0] = types.PerpPosition{MarketIndex: 1, BaseAssetAmount: 100, QuoteAssetAmount: 40}
	b.AddUser(user)

	other := addr(2)
	_, err := b.SettlePnl(other, user.Authority, 1, 0, validFeed(1, types.PricePrecision), 0, nil)
	require.Error(t, err)
	require.Equal(t, cerrors.KindPrecondition, cerrors.Classify(err))
	require.Equal(t, int64(40), user.PerpPositions[0].QuoteAssetAmount, "unauthorized settle must not mutate state")
}

func TestSettlePnlThirdPartyMaySettleNegativePnl(t *testing.T) {
	b := NewBook()
	m := activeMarket(1)
	m.AMM.LastOraclePriceTwap = types.PricePrecision
	m.AMM.PnlPoolBalance = 1_000
	b.AddMarket(m)

	user := &types.User{Authority: addr(1)}
	user.PerpPositions[0] = types.PerpPosition{MarketIndex: 1, BaseAssetAmount: 100, QuoteAssetAmount: -40}
	b.AddUser(user)

	other := addr(2)
	pnl, err := b.SettlePnl(other, user.Authority, 1, 0, validFeed(1, types.PricePrecision), 0, nil)
	require.NoError(t, err)
	require.Equal(t, int64(-40), pnl)
	require.Equal(t, int64(1_040), m.AMM.PnlPoolBalance)
	require.Equal(t, int64(-40), user.SpotPositions[0].ScaledBalance)
}

func TestSettleExpiredPositionClosesAtSettlementPrice(t *testing.T) {
	b := NewBook()
	m := activeMarket(1)
	m.Status = types.MarketSettlement
	m.SettlementPrice = types.PricePrecision
	b.AddMarket(m)

	user := &types.User{Authority: addr(1)}
	user.PerpPositions[0] = types.PerpPosition{MarketIndex: 1, BaseAssetAmount: 100, QuoteEntryAmount: -90}
	b.AddUser(user)

	sink := &events.CollectingSink{}
	result, err := b.SettleExpiredPosition(user, 1, 0, sink)
	require.NoError(t, err)
	require.Equal(t, int64(0), user.PerpPositions[0].BaseAssetAmount)
	require.Equal(t, int64(10), result.RealizedPnl)
	require.Len(t, sink.Records, 1)
}

func TestSettleExpiredPositionRejectsNonSettlementMarket(t *testing.T) {
	b := NewBook()
	b.AddMarket(activeMarket(1))
	user := &types.User{Authority: addr(1)}
	b.AddUser(user)

	_, err := b.SettleExpiredPosition(user, 1, 0, nil)
	require.Error(t, err)
	require.Equal(t, cerrors.KindState, cerrors.Classify(err))
}

func TestSettlementMarketBlocksEveryOtherOperation(t *testing.T) {
	b := NewBook()
	m := activeMarket(1)
	m.Status = types.MarketSettlement
	m.SettlementPrice = types.PricePrecision
	b.AddMarket(m)

	liquidatee := &types.User{Authority: addr(1)}
	liquidatee.PerpPositions[0] = types.PerpPosition{MarketIndex: 1, BaseAssetAmount: 100}
	liquidator := &types.User{Authority: addr(2)}
	b.AddUser(liquidatee)
	b.AddUser(liquidator)

	_, err := b.UpdatePosition(liquidatee, 1, types.PositionDelta{BaseAssetAmount: -10, QuoteAssetAmount: 10}, 0, nil)
	require.Error(t, err)
	require.Equal(t, cerrors.ErrMarketInSettlement, err)

	err = b.SettleFundingPayment(liquidatee, 1, 0, nil)
	require.Error(t, err)
	require.Equal(t, cerrors.ErrMarketInSettlement, err)

	_, err = b.LiquidatePerp(liquidatee.Authority, liquidator.Authority, 1, types.PricePrecision, 0, 1, 1, types.SpotWeightPrecision, 0, nil)
	require.Error(t, err)
	require.Equal(t, cerrors.ErrMarketInSettlement, err)

	_, err = b.PlaceScaleOrders(liquidator, types.ScaleOrderParams{MarketIndex: 1, TotalBaseAssetAmount: 1, NumOrders: 1, StartPrice: 1, EndPrice: 1}, 1, 0, nil)
	require.Error(t, err)
	require.Equal(t, cerrors.ErrMarketInSettlement, err)

	_, err = b.SettlePnl(liquidatee.Authority, liquidatee.Authority, 1, 0, validFeed(1, types.PricePrecision), 0, nil)
	require.Error(t, err)
	require.Equal(t, cerrors.ErrMarketInSettlement, err)

	// settle_expired_position is the one operation that still succeeds.
	_, err = b.SettleExpiredPosition(liquidatee, 1, 0, nil)
	require.NoError(t, err)
}

func TestMarginContextSkipsAvailableSlots(t *testing.T) {
	b := NewBook()
	b.AddMarket(&types.Market{MarketIndex: 1, MarginRatioInitial: 1_000, MarginRatioMaintenance: 500})
	user := &types.User{}
	user.PerpPositions[0] = types.PerpPosition{MarketIndex: 1, BaseAssetAmount: types.BasePrecision}

	feed := fixedFeed{perp: map[uint16]types.OracleSnapshot{1: {Price: types.PricePrecision}}}
	ctx, err := b.MarginContext(user, feed)
	require.NoError(t, err)
	require.Contains(t, ctx.Perp, uint16(1))
	require.Len(t, ctx.Perp, 1)
}

package lp

import (
	cerrors "github.com/nhb-labs/percore/core/errors"
	"github.com/nhb-labs/percore/core/events"
	"github.com/nhb-labs/percore/core/types"
	"github.com/nhb-labs/percore/internal/fixedpoint"
)

// Burn settles the position, then removes sharesToBurn from both the
// position and the market's sqrt_k. If every share is burned and a
// sub-step base residue remains, the residue is pushed back through the
// AMM rather than left stranded: the AMM absorbs the base exposure
// (net_base_asset_amount_with_amm rises as net_base_asset_amount_with_unsettled_lp
// falls by the same amount) and the position is cashed out at oracle price
// plus one quote-unit rounding margin, paid from the fee pool (spec.md
// §4.6).
func Burn(market *types.Market, p *types.PerpPosition, sharesToBurn, oraclePrice, now int64, user [20]byte, sink events.EventSink) error {
	if sharesToBurn <= 0 || sharesToBurn > p.LpShares {
		return cerrors.ErrLPInsufficientShares
	}
	if now < p.LastLpAddTS+MinAddCooldownSeconds {
		return cerrors.ErrLPCooldownNotElapsed
	}

	before := p.LpShares

	settleRes, err := Settle(market, p)
	if err != nil {
		return err
	}

	burningAll := sharesToBurn == p.LpShares

	newSqrtK, err := fixedpoint.SubI64(market.AMM.SqrtK, sharesToBurn)
	if err != nil {
		return err
	}
	market.AMM.SqrtK = newSqrtK
	market.AMM.UserLpShares, err = fixedpoint.SubI64(market.AMM.UserLpShares, sharesToBurn)
	if err != nil {
		return err
	}
	p.LpShares, err = fixedpoint.SubI64(p.LpShares, sharesToBurn)
	if err != nil {
		return err
	}

	if burningAll && p.RemainderBaseAssetAmount != 0 {
		if err := settleResidue(market, p, oraclePrice); err != nil {
			return err
		}
	}

	if sink != nil {
		sink.Emit(events.NewLP(now, market.MarketIndex, user, "burn", settleRes.SettledBase, settleRes.SettledQuote, before, p.LpShares))
	}
	return nil
}

func settleResidue(market *types.Market, p *types.PerpPosition, oraclePrice int64) error {
	residue := p.RemainderBaseAssetAmount
	magnitude := residue
	if magnitude < 0 {
		magnitude = -magnitude
	}

	quoteMagnitude, err := fixedpoint.MulDivSigned(magnitude, oraclePrice, types.PricePrecision, fixedpoint.RoundUp)
	if err != nil {
		return err
	}
	quoteMagnitude, err = fixedpoint.AddI64(quoteMagnitude, 1) // rounding margin in the AMM's favor
	if err != nil {
		return err
	}
	quoteValue := quoteMagnitude
	if residue < 0 {
		quoteValue = -quoteValue
	}

	market.AMM.NetBaseAssetAmountWithAMM, err = fixedpoint.AddI64(market.AMM.NetBaseAssetAmountWithAMM, residue)
	if err != nil {
		return err
	}
	market.AMM.NetBaseAssetAmountWithUnsettledLP, err = fixedpoint.SubI64(market.AMM.NetBaseAssetAmountWithUnsettledLP, residue)
	if err != nil {
		return err
	}

	market.AMM.FeePoolBalance, err = fixedpoint.SubI64(market.AMM.FeePoolBalance, quoteValue)
	if err != nil {
		return err
	}
	market.AMM.TotalFeeMinusDistributions, err = fixedpoint.SubI64(market.AMM.TotalFeeMinusDistributions, quoteValue)
	if err != nil {
		return err
	}
	p.QuoteAssetAmount, err = fixedpoint.AddI64(p.QuoteAssetAmount, quoteValue)
	if err != nil {
		return err
	}
	p.RemainderBaseAssetAmount = 0
	return nil
}

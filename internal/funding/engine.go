package funding

import (
	"github.com/nhb-labs/percore/core/events"
	"github.com/nhb-labs/percore/core/types"
	"github.com/nhb-labs/percore/internal/fixedpoint"
	"github.com/nhb-labs/percore/internal/oracle"
)

// Config bundles the tunables UpdateFundingRate needs beyond the market and
// oracle snapshot themselves.
type Config struct {
	Thresholds             oracle.Thresholds
	DivergenceTable        DivergenceTable
	OracleTwapMaxDeviation int64 // SpreadPrecision-scaled
	MarkTwapMaxDeviation   int64
}

// DefaultConfig mirrors drift-protocol-v2's defaults: a 10% sanity clamp on
// any single TWAP update for both oracle and mark price.
func DefaultConfig() Config {
	return Config{
		Thresholds:             oracle.DefaultThresholds(),
		DivergenceTable:        DefaultDivergenceTable(),
		OracleTwapMaxDeviation: 100_000,
		MarkTwapMaxDeviation:   100_000,
	}
}

// UpdateFundingRate runs one full funding tick (spec.md §4.4): cadence
// check, oracle validity gate, TWAP updates, premium computation, the
// asymmetric split, and the cumulative-rate write-back. It does not settle
// any individual position; callers settle lazily via SettlePosition the next
// time each position is touched.
func UpdateFundingRate(m *types.Market, snap types.OracleSnapshot, now int64, cfg Config, sink events.EventSink) error {
	if err := OnTheHourUpdate(now, m.AMM.LastFundingRateTS, m.FundingPeriodSeconds); err != nil {
		return err
	}

	tier := oracle.Classify(snap, m.AMM.LastOraclePriceTwap, cfg.Thresholds)
	if err := oracle.Gate(oracle.ActionUpdateFunding, tier); err != nil {
		return err
	}

	sinceLast := now - m.AMM.LastFundingRateTS
	if m.AMM.LastFundingRateTS == 0 {
		sinceLast = m.FundingPeriodSeconds
	}

	oracleTwap, err := oracle.UpdateTWAP(m.AMM.LastOraclePriceTwap, snap.Price, sinceLast, m.FundingPeriodSeconds, cfg.OracleTwapMaxDeviation)
	if err != nil {
		return err
	}

	execPrice, err := ExecutionPremiumPrice(&m.AMM)
	if err != nil {
		return err
	}
	markTwap, err := oracle.UpdateTWAP(m.AMM.LastMarkPriceTwap, execPrice, sinceLast, m.FundingPeriodSeconds, cfg.MarkTwapMaxDeviation)
	if err != nil {
		return err
	}

	premium, err := ComputePremium(oracleTwap, markTwap, m.ContractTier, cfg.DivergenceTable, m.FundingPeriodSeconds)
	if err != nil {
		return err
	}

	split, err := SplitFundingRate(m, premium.FundingRate)
	if err != nil {
		return err
	}

	m.AMM.CumulativeFundingRateLong, err = fixedpoint.AddI64(m.AMM.CumulativeFundingRateLong, split.RateLong)
	if err != nil {
		return err
	}
	m.AMM.CumulativeFundingRateShort, err = fixedpoint.AddI64(m.AMM.CumulativeFundingRateShort, split.RateShort)
	if err != nil {
		return err
	}

	if split.Capped {
		payout, perr := fixedpoint.DivI64(m.AMM.FeePoolBalance, 3, fixedpoint.RoundDown)
		if perr != nil {
			return perr
		}
		m.AMM.FeePoolBalance, err = fixedpoint.SubI64(m.AMM.FeePoolBalance, payout)
		if err != nil {
			return err
		}
		m.AMM.TotalFeeMinusDistributions, err = fixedpoint.SubI64(m.AMM.TotalFeeMinusDistributions, payout)
		if err != nil {
			return err
		}
	}

	m.AMM.LastFundingRateTS = now
	m.AMM.LastOraclePriceTwap = oracleTwap
	m.AMM.LastMarkPriceTwap = markTwap

	if sink != nil {
		sink.Emit(events.NewFundingRate(now, m.MarketIndex, oracleTwap, markTwap, premium.Clamped,
			premium.FundingRate, split.RateLong, split.RateShort, split.Capped, split.UncappedPnlToAMM, m.AMM.FeePoolBalance))
	}

	return nil
}

// SettleAndEmit settles one position's funding and, if non-zero, emits a
// FundingPayment record.
func SettleAndEmit(now int64, m *types.Market, user [20]byte, p *types.PerpPosition, sink events.EventSink) (Settlement, error) {
	settlement, err := SettlePosition(&m.AMM, p)
	if err != nil {
		return Settlement{}, err
	}
	if sink != nil && settlement.Payment != 0 {
		sink.Emit(events.NewFundingPayment(now, m.MarketIndex, user, settlement.Payment, p.BaseAssetAmount, p.LastCumulativeFundingRate, settlement.AMMCumulativeFunding))
	}
	return settlement, nil
}

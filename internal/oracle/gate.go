package oracle

import cerrors "github.com/nhb-labs/percore/core/errors"

// Action is a declared operation category the validity gate permits or
// denies per oracle tier (spec.md §4.3).
type Action uint8

const (
	ActionUpdateFunding Action = iota
	ActionSettlePnl
	ActionTriggerOrder
	ActionFillOrderAmm
	ActionFillOrderMatch
	ActionLiquidate
	ActionMarginCalc
	ActionUpdateTwap
	ActionUpdateAMMCurve
	ActionOracleOrderPrice
)

// permitTable maps (Action, Tier) -> permitted. Absent entries default to
// "denied" so a newly added action fails closed until explicitly wired.
//
// Table rationale (spec.md §4.3 examples plus the natural extension of its
// stated policy: risk-reducing/observational actions tolerate more
// degradation than risk-increasing or money-moving ones):
//   - FillOrderAmm requires Valid (taker fills against AMM reserves need the
//     tightest price fidelity).
//   - Liquidate permits everything except NonPositive and TooVolatile (a
//     liquidation is risk-reducing for the protocol and must still be able
//     to run under a stale/uncertain oracle).
//   - MarginCalc denies anything worse than StaleForMargin.
var permitTable = map[Action]map[Tier]bool{
	ActionUpdateFunding: {
		TierValid:                  true,
		TierStaleForAMM:            true,
		TierInsufficientDataPoints: false,
		TierStaleForMargin:         false,
		TierTooUncertain:           false,
		TierTooVolatile:            false,
		TierNonPositive:            false,
	},
	ActionSettlePnl: {
		TierValid:                  true,
		TierStaleForAMM:            true,
		TierInsufficientDataPoints: true,
		TierStaleForMargin:         false,
		TierTooUncertain:           false,
		TierTooVolatile:            false,
		TierNonPositive:            false,
	},
	ActionTriggerOrder: {
		TierValid:                  true,
		TierStaleForAMM:            true,
		TierInsufficientDataPoints: true,
		TierStaleForMargin:         true,
		TierTooUncertain:           false,
		TierTooVolatile:            false,
		TierNonPositive:            false,
	},
	ActionFillOrderAmm: {
		TierValid: true,
	},
	ActionFillOrderMatch: {
		TierValid:                  true,
		TierStaleForAMM:            true,
		TierInsufficientDataPoints: true,
		TierStaleForMargin:         false,
		TierTooUncertain:           false,
		TierTooVolatile:            false,
		TierNonPositive:            false,
	},
	ActionLiquidate: {
		TierValid:                  true,
		TierStaleForAMM:            true,
		TierInsufficientDataPoints: true,
		TierStaleForMargin:         true,
		TierTooUncertain:           true,
		TierTooVolatile:            false,
		TierNonPositive:            false,
	},
	ActionMarginCalc: {
		TierValid:                  true,
		TierStaleForAMM:            true,
		TierInsufficientDataPoints: true,
		TierStaleForMargin:         true,
		TierTooUncertain:           false,
		TierTooVolatile:            false,
		TierNonPositive:            false,
	},
	ActionUpdateTwap: {
		TierValid:                  true,
		TierStaleForAMM:            true,
		TierInsufficientDataPoints: true,
		TierStaleForMargin:         true,
		TierTooUncertain:           false,
		TierTooVolatile:            false,
		TierNonPositive:            false,
	},
	ActionUpdateAMMCurve: {
		TierValid:       true,
		TierStaleForAMM: true,
	},
	ActionOracleOrderPrice: {
		TierValid:                  true,
		TierStaleForAMM:            true,
		TierInsufficientDataPoints: true,
		TierStaleForMargin:         false,
		TierTooUncertain:           false,
		TierTooVolatile:            false,
		TierNonPositive:            false,
	},
}

// Permitted reports whether action is allowed to run under tier.
func Permitted(action Action, tier Tier) bool {
	row, ok := permitTable[action]
	if !ok {
		return false
	}
	return row[tier]
}

// Gate returns ErrOracleValidityGate if action is not permitted under tier,
// nil otherwise.
func Gate(action Action, tier Tier) error {
	if Permitted(action, tier) {
		return nil
	}
	return cerrors.ErrOracleValidityGate
}

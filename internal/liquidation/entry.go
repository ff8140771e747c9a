// Package liquidation implements the liquidation state machine: entry/exit
// gating, per-slot throttled transfer sizing, and bankruptcy socialization
// (spec.md §4.8, C8).
package liquidation

import (
	cerrors "github.com/nhb-labs/percore/core/errors"
	"github.com/nhb-labs/percore/core/types"
	"github.com/nhb-labs/percore/internal/fixedpoint"
	"github.com/nhb-labs/percore/internal/margin"
)

// ExitBufferBps is the cushion above maintenance margin a user must clear
// before being_liquidated resets (spec.md §4.8 "buffer ≈ 2% default").
const ExitBufferBps = 200 // out of 10_000

// Status is the outcome of a margin check against the maintenance
// threshold.
type Status struct {
	Liquidatable bool
	Collateral   int64
	Requirement  int64
}

// Check evaluates a user's maintenance margin standing (spec.md §4.8
// "Entry"): liquidatable iff total_collateral < maintenance_margin.
func Check(user *types.User, ctx margin.Context) (Status, error) {
	collateral, err := margin.TotalCollateral(user, ctx, margin.ModeMaintenance, false)
	if err != nil {
		return Status{}, err
	}
	requirement, err := margin.MarginRequirement(user, ctx, margin.ModeMaintenance, false)
	if err != nil {
		return Status{}, err
	}
	return Status{Liquidatable: collateral < requirement, Collateral: collateral, Requirement: requirement}, nil
}

// Enter marks the user as being_liquidated if their standing qualifies.
func Enter(user *types.User, ctx margin.Context) (Status, error) {
	status, err := Check(user, ctx)
	if err != nil {
		return Status{}, err
	}
	if !status.Liquidatable {
		return status, cerrors.ErrNotLiquidatable
	}
	user.BeingLiquidated = true
	return status, nil
}

// TryExit clears being_liquidated once collateral recovers past
// maintenance_margin × (1 + ExitBufferBps) (spec.md §4.8 "Entry"). Reports
// whether the user exited.
func TryExit(user *types.User, ctx margin.Context) (bool, error) {
	if !user.BeingLiquidated {
		return false, cerrors.ErrAlreadyOutOfLiquidation
	}
	status, err := Check(user, ctx)
	if err != nil {
		return false, err
	}
	threshold, err := fixedpoint.MulDivSigned(status.Requirement, 10_000+ExitBufferBps, 10_000, fixedpoint.RoundUp)
	if err != nil {
		return false, err
	}
	if status.Collateral < threshold {
		return false, nil
	}
	user.BeingLiquidated = false
	user.MarginFreed = 0
	return true, nil
}

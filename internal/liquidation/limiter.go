package liquidation

import (
	"context"

	"golang.org/x/time/rate"
)

// AttemptLimiter rate-limits how often a single liquidator may submit a
// liquidation attempt against a given market, independent of the per-slot
// shortage throttle: the throttle bounds how MUCH a pass may consume, this
// bounds how OFTEN passes may be submitted so a liquidator can't spam retries
// faster than the chain can apply them.
type AttemptLimiter struct {
	limiters map[[20]byte]*rate.Limiter
	rps      rate.Limit
	burst    int
}

// NewAttemptLimiter builds a limiter allowing rps liquidation attempts per
// second per liquidator, with burst allowed immediately.
func NewAttemptLimiter(rps float64, burst int) *AttemptLimiter {
	return &AttemptLimiter{
		limiters: make(map[[20]byte]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

// Allow reports whether liquidator may submit another attempt right now.
func (a *AttemptLimiter) Allow(liquidator [20]byte) bool {
	l, ok := a.limiters[liquidator]
	if !ok {
		l = rate.NewLimiter(a.rps, a.burst)
		a.limiters[liquidator] = l
	}
	return l.Allow()
}

// Wait blocks until liquidator is permitted another attempt or ctx is
// cancelled.
func (a *AttemptLimiter) Wait(ctx context.Context, liquidator [20]byte) error {
	l, ok := a.limiters[liquidator]
	if !ok {
		l = rate.NewLimiter(a.rps, a.burst)
		a.limiters[liquidator] = l
	}
	return l.Wait(ctx)
}

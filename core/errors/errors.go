// Package errors defines the engine-wide error taxonomy (spec.md §7). Every
// sentinel declared across the domain packages (amm.go, funding.go, ...)
// classifies into exactly one Kind via Classify, so callers that need to
// decide retry-vs-abort never string-match an error message.
package errors

import stderrors "errors"

// Kind is the top-level failure classification from spec.md §7.
type Kind uint8

const (
	KindInvariant Kind = iota
	KindMath
	KindValidityGate
	KindState
	KindPrecondition
	KindThrottle
)

func (k Kind) String() string {
	switch k {
	case KindInvariant:
		return "invariant"
	case KindMath:
		return "math"
	case KindValidityGate:
		return "validity_gate"
	case KindState:
		return "state"
	case KindPrecondition:
		return "precondition"
	case KindThrottle:
		return "throttle"
	default:
		return "unknown"
	}
}

// Retryable reports whether the caller is expected to retry in a later slot
// rather than treat the error as fatal (spec.md §7: only Throttle is).
func (k Kind) Retryable() bool { return k == KindThrottle }

// Kinded is implemented by errors that know their taxonomy classification.
type Kinded interface {
	error
	Kind() Kind
}

// kindedError pairs a sentinel with its taxonomy classification.
type kindedError struct {
	kind Kind
	err  error
}

func (e *kindedError) Error() string { return e.err.Error() }
func (e *kindedError) Kind() Kind    { return e.kind }
func (e *kindedError) Unwrap() error { return e.err }

// New constructs a Kinded sentinel. Domain packages call this once per
// sentinel at init time, the way core/errors/stake.go declared package-level
// vars for the lending/stake modules.
func New(kind Kind, message string) Kinded {
	return &kindedError{kind: kind, err: stderrors.New(message)}
}

// Classify extracts the Kind from any error in the chain, defaulting to
// KindState for errors that never opted into the taxonomy (caller code,
// context cancellation, etc.) since "market not in the right state" is the
// closest fallback meaning.
func Classify(err error) Kind {
	var k Kinded
	if stderrors.As(err, &k) {
		return k.Kind()
	}
	return KindState
}

// Is delegates to the standard library so sentinels declared with New can be
// compared with errors.Is after wrapping.
func Is(err, target error) bool { return stderrors.Is(err, target) }

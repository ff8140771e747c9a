package state

import (
	"github.com/nhb-labs/percore/internal/amm"
	"github.com/nhb-labs/percore/internal/funding"
)

// init wires the funding package's reserve-price seam to the real AMM
// implementation (spec.md §9 "Event emission is a pure sink"; the same
// pattern applies to this cross-package seam so internal/funding never
// imports internal/amm directly).
func init() {
	funding.SetReservePriceFunc(amm.ReservePrice)
}

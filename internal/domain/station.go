package domain

import (
	"github.com/shopspring/decimal"
)

// Station represents a fuel-dispensing station in the domain layer.
// Each station holds exactly one fuel type and a stock quantity.
//
// Availability state machine:
//   - Active:   dispenses accepted. A successful dispense moves the station to Cooldown.
//   - Cooldown: Active == false. Dispenses are rejected and do NOT extend the cooldown.
//     The reactivation scheduler moves the station back to Active after the
//     configured delay, unless the station was removed in the interim.
type Station struct {
	ID           int64
	FuelTypeID   int64           // Fixed at creation, must reference an existing FuelType
	FuelQuantity decimal.Decimal // Never negative
	Active       bool
}

// Validate ensures the station adheres to domain rules
// Returns an error if validation fails
func (s *Station) Validate() error {
	if s.FuelTypeID <= 0 {
		return ErrFuelTypeNotFound
	}
	if s.FuelQuantity.IsNegative() {
		return ErrInvalidQuantity
	}
	return nil
}

// CanDispense reports whether a draw of the given quantity is admissible
// against the station's current state. It returns the typed rejection the
// dispensing workflow surfaces to the caller, or nil.
//
// Order matters: an over-draw is reported before an inactive station, matching
// the workflow contract.
func (s *Station) CanDispense(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidQuantity
	}
	if quantity.GreaterThan(s.FuelQuantity) {
		return ErrInsufficientStock
	}
	if !s.Active {
		return ErrStationInactive
	}
	return nil
}

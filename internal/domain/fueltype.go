package domain

import (
	"github.com/shopspring/decimal"
)

// FuelType represents a fuel type entity in the domain layer.
// Fuel types are seeded at startup or added administratively and are never deleted;
// only the price is mutated in place.
type FuelType struct {
	ID    int64
	Name  string
	Price decimal.Decimal // Price per unit, non-negative
}

// Validate ensures the fuel type adheres to domain rules
// Returns an error if validation fails
func (f *FuelType) Validate() error {
	if f.Name == "" {
		return ErrInvalidFuelName
	}
	if f.Price.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a committed fuel draw in the domain layer.
// Transactions are append-only facts: once persisted they are never mutated
// or deleted. FuelTypeID and UnitPrice are copied from the station and the
// catalog at commit time so later price changes cannot rewrite history.
type Transaction struct {
	ID         int64  // Assigned by the store, monotonically increasing
	Number     string // Client-supplied receipt number
	StationID  int64
	FuelTypeID int64
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal // Catalog price at commit time
	TotalPrice decimal.Decimal // Quantity * UnitPrice
	Date       time.Time       // Server-stamped at commit time
}

// Validate ensures the transaction adheres to domain rules
// Returns an error if validation fails
// CRITICAL: TotalPrice must equal Quantity * UnitPrice exactly
func (t *Transaction) Validate() error {
	if t.Quantity.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidQuantity
	}
	if t.UnitPrice.IsNegative() {
		return ErrInvalidPrice
	}
	if !t.TotalPrice.Equal(t.Quantity.Mul(t.UnitPrice)) {
		return ErrPriceMismatch
	}
	return nil
}

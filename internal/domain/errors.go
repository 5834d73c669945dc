package domain

import "errors"

// Typed domain errors. Services return these sentinels (possibly wrapped with
// %w) so callers can branch on error kind with errors.Is instead of matching
// message strings. Storage-layer faults are wrapped around the driver error
// and are therefore never equal to any of these sentinels.
var (
	ErrFuelTypeNotFound    = errors.New("fuel type not found")
	ErrStationNotFound     = errors.New("station not found")
	ErrTransactionNotFound = errors.New("transaction not found")

	ErrInsufficientStock = errors.New("insufficient fuel stock")
	ErrStationInactive   = errors.New("station is inactive")

	ErrInvalidFuelName = errors.New("fuel name cannot be empty")
	ErrInvalidPrice    = errors.New("price must be non-negative")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrPriceMismatch   = errors.New("total price must equal quantity times unit price")
)

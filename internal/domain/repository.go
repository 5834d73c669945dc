package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// FuelTypeRepository defines the interface for fuel catalog persistence operations
type FuelTypeRepository interface {
	// GetByID retrieves a fuel type by its ID
	// Returns ErrFuelTypeNotFound if the fuel type does not exist
	GetByID(ctx context.Context, id int64) (*FuelType, error)

	// List retrieves all fuel types ordered by ID
	List(ctx context.Context) ([]*FuelType, error)

	// Create creates a new fuel type and assigns its ID
	Create(ctx context.Context, fuelType *FuelType) error

	// SetPrice updates the unit price of a fuel type in place
	// Returns ErrFuelTypeNotFound if the fuel type does not exist
	SetPrice(ctx context.Context, id int64, price decimal.Decimal) error
}

// StationRepository defines the interface for station persistence operations
type StationRepository interface {
	// GetByID retrieves a station by its ID
	// Returns ErrStationNotFound if the station does not exist
	GetByID(ctx context.Context, id int64) (*Station, error)

	// List retrieves all stations ordered by ID
	List(ctx context.Context) ([]*Station, error)

	// Create creates a new station and assigns its ID
	Create(ctx context.Context, station *Station) error

	// AdjustStock atomically applies fuel_quantity += delta and returns the
	// resulting quantity. delta may be negative for a draw.
	// Returns ErrStationNotFound if the station does not exist and
	// ErrInsufficientStock if the adjustment would take the stock below zero.
	AdjustStock(ctx context.Context, id int64, delta decimal.Decimal) (decimal.Decimal, error)

	// SetStock overwrites a station's stock quantity (restock to level)
	// Returns ErrStationNotFound if the station does not exist
	SetStock(ctx context.Context, id int64, quantity decimal.Decimal) error

	// SetActive toggles a station's availability flag
	// Returns ErrStationNotFound if the station does not exist
	SetActive(ctx context.Context, id int64, active bool) error

	// Delete removes a station
	// Returns ErrStationNotFound if the station does not exist
	Delete(ctx context.Context, id int64) error
}

// TransactionRepository defines the interface for transaction persistence operations.
// Transactions are append-only: there are no update or delete operations.
type TransactionRepository interface {
	// Create persists a new transaction and assigns its ID.
	// This is the commit point of a dispense: a failure here must leave
	// no partial transaction visible to any reader.
	Create(ctx context.Context, tx *Transaction) error

	// GetByID retrieves a transaction by its ID
	// Returns ErrTransactionNotFound if the transaction does not exist
	GetByID(ctx context.Context, id int64) (*Transaction, error)

	// List retrieves all transactions ordered by ID
	List(ctx context.Context) ([]*Transaction, error)

	// ListByStation retrieves all transactions recorded against a station
	ListByStation(ctx context.Context, stationID int64) ([]*Transaction, error)

	// ListByDateRange retrieves all transactions with from <= date <= to
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*Transaction, error)

	// ListByFuelType retrieves all transactions for a fuel type
	ListByFuelType(ctx context.Context, fuelTypeID int64) ([]*Transaction, error)
}

package dispense

import (
	"context"
	"time"

	"github.com/zaripovich/fuelstation-backend/internal/domain"
)

// Supplementary read operations over the transaction log. Pass-throughs to
// the repository, exposed here so the transport layer talks to one service
// for everything transaction-shaped.

// GetTransaction retrieves a transaction by its ID
func (s *DispenseService) GetTransaction(ctx context.Context, id int64) (*domain.Transaction, error) {
	return s.TransactionRepo.GetByID(ctx, id)
}

// ListTransactions retrieves all transactions ordered by ID
func (s *DispenseService) ListTransactions(ctx context.Context) ([]*domain.Transaction, error) {
	return s.TransactionRepo.List(ctx)
}

// ListByStation retrieves all transactions recorded against a station
func (s *DispenseService) ListByStation(ctx context.Context, stationID int64) ([]*domain.Transaction, error) {
	return s.TransactionRepo.ListByStation(ctx, stationID)
}

// ListByDateRange retrieves all transactions with from <= date <= to
func (s *DispenseService) ListByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Transaction, error) {
	return s.TransactionRepo.ListByDateRange(ctx, from, to)
}

// ListByFuelType retrieves all transactions for a fuel type
func (s *DispenseService) ListByFuelType(ctx context.Context, fuelTypeID int64) ([]*domain.Transaction, error) {
	return s.TransactionRepo.ListByFuelType(ctx, fuelTypeID)
}

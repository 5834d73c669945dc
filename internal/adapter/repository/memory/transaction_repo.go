package memory

import (
	"context"
	"sync"
	"time"

	"github.com/zaripovich/fuelstation-backend/internal/domain"
)

// TransactionRepository is an in-memory implementation of
// domain.TransactionRepository. Append-only; IDs are assigned monotonically.
type TransactionRepository struct {
	mu     sync.RWMutex
	data   []*domain.Transaction
	nextID int64
}

// NewTransactionRepository constructs an empty repository
func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{}
}

// Create persists a new transaction and assigns its ID
func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	tx.ID = r.nextID
	clone := *tx
	r.data = append(r.data, &clone)
	return nil
}

// GetByID retrieves a transaction by its ID
func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, tx := range r.data {
		if tx.ID == id {
			clone := *tx
			return &clone, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

// List retrieves all transactions ordered by ID
func (r *TransactionRepository) List(ctx context.Context) ([]*domain.Transaction, error) {
	return r.filter(ctx, func(*domain.Transaction) bool { return true })
}

// ListByStation retrieves all transactions recorded against a station
func (r *TransactionRepository) ListByStation(ctx context.Context, stationID int64) ([]*domain.Transaction, error) {
	return r.filter(ctx, func(tx *domain.Transaction) bool { return tx.StationID == stationID })
}

// ListByDateRange retrieves all transactions with from <= date <= to
func (r *TransactionRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Transaction, error) {
	return r.filter(ctx, func(tx *domain.Transaction) bool {
		return !tx.Date.Before(from) && !tx.Date.After(to)
	})
}

// ListByFuelType retrieves all transactions for a fuel type
func (r *TransactionRepository) ListByFuelType(ctx context.Context, fuelTypeID int64) ([]*domain.Transaction, error) {
	return r.filter(ctx, func(tx *domain.Transaction) bool { return tx.FuelTypeID == fuelTypeID })
}

func (r *TransactionRepository) filter(ctx context.Context, keep func(*domain.Transaction) bool) ([]*domain.Transaction, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	transactions := make([]*domain.Transaction, 0)
	for _, tx := range r.data {
		if keep(tx) {
			clone := *tx
			transactions = append(transactions, &clone)
		}
	}
	return transactions, nil
}

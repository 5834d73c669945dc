package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zaripovich/fuelstation-backend/internal/domain"
)

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

// Create persists a new transaction and assigns its ID. A single INSERT is
// the commit point of a dispense: it either lands whole or not at all, so no
// partial transaction is ever visible to a reader.
func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (number, station_id, fuel_type_id, quantity, unit_price, total_price, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		tx.Number,
		tx.StationID,
		tx.FuelTypeID,
		tx.Quantity.String(),
		tx.UnitPrice.String(),
		tx.TotalPrice.String(),
		tx.Date,
	).Scan(&tx.ID)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a transaction by its ID
func (r *transactionRepository) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	query := selectTransactions + ` WHERE id = $1`

	tx, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction by ID: %w", err)
	}

	return tx, nil
}

// List retrieves all transactions ordered by ID
func (r *transactionRepository) List(ctx context.Context) ([]*domain.Transaction, error) {
	return r.queryMany(ctx, selectTransactions+` ORDER BY id`)
}

// ListByStation retrieves all transactions recorded against a station
func (r *transactionRepository) ListByStation(ctx context.Context, stationID int64) ([]*domain.Transaction, error) {
	return r.queryMany(ctx, selectTransactions+` WHERE station_id = $1 ORDER BY id`, stationID)
}

// ListByDateRange retrieves all transactions with from <= date <= to
func (r *transactionRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Transaction, error) {
	return r.queryMany(ctx, selectTransactions+` WHERE date >= $1 AND date <= $2 ORDER BY id`, from, to)
}

// ListByFuelType retrieves all transactions for a fuel type
func (r *transactionRepository) ListByFuelType(ctx context.Context, fuelTypeID int64) ([]*domain.Transaction, error) {
	return r.queryMany(ctx, selectTransactions+` WHERE fuel_type_id = $1 ORDER BY id`, fuelTypeID)
}

const selectTransactions = `
	SELECT id, number, station_id, fuel_type_id, quantity, unit_price, total_price, date
	FROM transactions
`

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var tx domain.Transaction
	var quantityStr, unitPriceStr, totalPriceStr string

	err := row.Scan(
		&tx.ID,
		&tx.Number,
		&tx.StationID,
		&tx.FuelTypeID,
		&quantityStr,
		&unitPriceStr,
		&totalPriceStr,
		&tx.Date,
	)
	if err != nil {
		return nil, err
	}

	if tx.Quantity, err = decimal.NewFromString(quantityStr); err != nil {
		return nil, fmt.Errorf("failed to parse quantity: %w", err)
	}
	if tx.UnitPrice, err = decimal.NewFromString(unitPriceStr); err != nil {
		return nil, fmt.Errorf("failed to parse unit_price: %w", err)
	}
	if tx.TotalPrice, err = decimal.NewFromString(totalPriceStr); err != nil {
		return nil, fmt.Errorf("failed to parse total_price: %w", err)
	}

	return &tx, nil
}

func (r *transactionRepository) queryMany(ctx context.Context, query string, args ...any) ([]*domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]*domain.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}

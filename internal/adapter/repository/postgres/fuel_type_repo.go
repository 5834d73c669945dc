package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/zaripovich/fuelstation-backend/internal/domain"
)

// fuelTypeRepository implements domain.FuelTypeRepository
type fuelTypeRepository struct {
	db *DB
}

// NewFuelTypeRepository creates a new fuel type repository
func NewFuelTypeRepository(db *DB) domain.FuelTypeRepository {
	return &fuelTypeRepository{db: db}
}

// GetByID retrieves a fuel type by its ID
func (r *fuelTypeRepository) GetByID(ctx context.Context, id int64) (*domain.FuelType, error) {
	query := `
		SELECT id, fuel_name, price
		FROM fuel_types
		WHERE id = $1
	`

	var fuelType domain.FuelType
	var priceStr string

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&fuelType.ID,
		&fuelType.Name,
		&priceStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFuelTypeNotFound
		}
		return nil, fmt.Errorf("failed to get fuel type by ID: %w", err)
	}

	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price: %w", err)
	}
	fuelType.Price = price

	return &fuelType, nil
}

// List retrieves all fuel types ordered by ID
func (r *fuelTypeRepository) List(ctx context.Context) ([]*domain.FuelType, error) {
	query := `
		SELECT id, fuel_name, price
		FROM fuel_types
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list fuel types: %w", err)
	}
	defer rows.Close()

	fuelTypes := make([]*domain.FuelType, 0)
	for rows.Next() {
		var fuelType domain.FuelType
		var priceStr string

		if err := rows.Scan(&fuelType.ID, &fuelType.Name, &priceStr); err != nil {
			return nil, fmt.Errorf("failed to scan fuel type: %w", err)
		}

		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse price: %w", err)
		}
		fuelType.Price = price

		fuelTypes = append(fuelTypes, &fuelType)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate fuel types: %w", err)
	}

	return fuelTypes, nil
}

// Create creates a new fuel type and assigns its ID
func (r *fuelTypeRepository) Create(ctx context.Context, fuelType *domain.FuelType) error {
	query := `
		INSERT INTO fuel_types (fuel_name, price)
		VALUES ($1, $2)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		fuelType.Name,
		fuelType.Price.String(),
	).Scan(&fuelType.ID)
	if err != nil {
		return fmt.Errorf("failed to create fuel type: %w", err)
	}

	return nil
}

// SetPrice updates the unit price of a fuel type in place
func (r *fuelTypeRepository) SetPrice(ctx context.Context, id int64, price decimal.Decimal) error {
	query := `
		UPDATE fuel_types
		SET price = $2
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, price.String())
	if err != nil {
		return fmt.Errorf("failed to update fuel price: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrFuelTypeNotFound
	}

	return nil
}

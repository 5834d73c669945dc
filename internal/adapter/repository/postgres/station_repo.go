package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/zaripovich/fuelstation-backend/internal/domain"
)

// stationRepository implements domain.StationRepository
type stationRepository struct {
	db *DB
}

// NewStationRepository creates a new station repository
func NewStationRepository(db *DB) domain.StationRepository {
	return &stationRepository{db: db}
}

// GetByID retrieves a station by its ID
func (r *stationRepository) GetByID(ctx context.Context, id int64) (*domain.Station, error) {
	query := `
		SELECT id, fuel_type_id, fuel_quantity, active
		FROM stations
		WHERE id = $1
	`

	var station domain.Station
	var quantityStr string

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&station.ID,
		&station.FuelTypeID,
		&quantityStr,
		&station.Active,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStationNotFound
		}
		return nil, fmt.Errorf("failed to get station by ID: %w", err)
	}

	quantity, err := decimal.NewFromString(quantityStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fuel_quantity: %w", err)
	}
	station.FuelQuantity = quantity

	return &station, nil
}

// List retrieves all stations ordered by ID
func (r *stationRepository) List(ctx context.Context) ([]*domain.Station, error) {
	query := `
		SELECT id, fuel_type_id, fuel_quantity, active
		FROM stations
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list stations: %w", err)
	}
	defer rows.Close()

	stations := make([]*domain.Station, 0)
	for rows.Next() {
		var station domain.Station
		var quantityStr string

		if err := rows.Scan(&station.ID, &station.FuelTypeID, &quantityStr, &station.Active); err != nil {
			return nil, fmt.Errorf("failed to scan station: %w", err)
		}

		quantity, err := decimal.NewFromString(quantityStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse fuel_quantity: %w", err)
		}
		station.FuelQuantity = quantity

		stations = append(stations, &station)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stations: %w", err)
	}

	return stations, nil
}

// Create creates a new station and assigns its ID
func (r *stationRepository) Create(ctx context.Context, station *domain.Station) error {
	query := `
		INSERT INTO stations (fuel_type_id, fuel_quantity, active)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		station.FuelTypeID,
		station.FuelQuantity.String(),
		station.Active,
	).Scan(&station.ID)
	if err != nil {
		return fmt.Errorf("failed to create station: %w", err)
	}

	return nil
}

// AdjustStock atomically applies fuel_quantity += delta and returns the
// resulting quantity. The WHERE clause guards the invariant at the row level:
// an adjustment that would take the stock below zero matches no row and the
// stock stays untouched, even against writers that bypass the in-process
// per-station lock.
func (r *stationRepository) AdjustStock(ctx context.Context, id int64, delta decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE stations
		SET fuel_quantity = fuel_quantity + $2
		WHERE id = $1 AND fuel_quantity + $2 >= 0
		RETURNING fuel_quantity
	`

	var quantityStr string
	err := r.db.QueryRowContext(ctx, query, id, delta.String()).Scan(&quantityStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Disambiguate: missing station vs. would-be-negative stock
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return decimal.Zero, getErr
			}
			return decimal.Zero, domain.ErrInsufficientStock
		}
		return decimal.Zero, fmt.Errorf("failed to adjust stock: %w", err)
	}

	quantity, err := decimal.NewFromString(quantityStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse fuel_quantity: %w", err)
	}

	return quantity, nil
}

// SetStock overwrites a station's stock quantity
func (r *stationRepository) SetStock(ctx context.Context, id int64, quantity decimal.Decimal) error {
	query := `
		UPDATE stations
		SET fuel_quantity = $2
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, quantity.String())
	if err != nil {
		return fmt.Errorf("failed to set stock: %w", err)
	}

	return requireAffected(result)
}

// SetActive toggles a station's availability flag
func (r *stationRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query := `
		UPDATE stations
		SET active = $2
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, active)
	if err != nil {
		return fmt.Errorf("failed to set active flag: %w", err)
	}

	return requireAffected(result)
}

// Delete removes a station
func (r *stationRepository) Delete(ctx context.Context, id int64) error {
	query := `
		DELETE FROM stations
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete station: %w", err)
	}

	return requireAffected(result)
}

// requireAffected maps a zero-row write to ErrStationNotFound
func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrStationNotFound
	}
	return nil
}

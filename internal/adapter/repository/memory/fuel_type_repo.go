package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/zaripovich/fuelstation-backend/internal/domain"
)

// FuelTypeRepository is an in-memory implementation of
// domain.FuelTypeRepository, used by tests and local runs without Postgres.
type FuelTypeRepository struct {
	mu     sync.RWMutex
	data   map[int64]*domain.FuelType
	nextID int64
}

// NewFuelTypeRepository constructs an empty repository
func NewFuelTypeRepository() *FuelTypeRepository {
	return &FuelTypeRepository{data: make(map[int64]*domain.FuelType)}
}

// GetByID retrieves a fuel type by its ID
func (r *FuelTypeRepository) GetByID(ctx context.Context, id int64) (*domain.FuelType, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	fuelType, ok := r.data[id]
	if !ok {
		return nil, domain.ErrFuelTypeNotFound
	}
	clone := *fuelType
	return &clone, nil
}

// List retrieves all fuel types ordered by ID
func (r *FuelTypeRepository) List(ctx context.Context) ([]*domain.FuelType, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	fuelTypes := make([]*domain.FuelType, 0, len(r.data))
	for id := int64(1); id <= r.nextID; id++ {
		if fuelType, ok := r.data[id]; ok {
			clone := *fuelType
			fuelTypes = append(fuelTypes, &clone)
		}
	}
	return fuelTypes, nil
}

// Create creates a new fuel type and assigns its ID
func (r *FuelTypeRepository) Create(ctx context.Context, fuelType *domain.FuelType) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	fuelType.ID = r.nextID
	clone := *fuelType
	r.data[fuelType.ID] = &clone
	return nil
}

// SetPrice updates the unit price of a fuel type in place
func (r *FuelTypeRepository) SetPrice(ctx context.Context, id int64, price decimal.Decimal) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	fuelType, ok := r.data[id]
	if !ok {
		return domain.ErrFuelTypeNotFound
	}
	fuelType.Price = price
	return nil
}

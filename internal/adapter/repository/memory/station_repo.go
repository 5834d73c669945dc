package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/zaripovich/fuelstation-backend/internal/domain"
)

// StationRepository is an in-memory implementation of
// domain.StationRepository. AdjustStock applies the same never-below-zero
// guard the Postgres adapter enforces with its conditional UPDATE.
type StationRepository struct {
	mu     sync.RWMutex
	data   map[int64]*domain.Station
	nextID int64
}

// NewStationRepository constructs an empty repository
func NewStationRepository() *StationRepository {
	return &StationRepository{data: make(map[int64]*domain.Station)}
}

// GetByID retrieves a station by its ID
func (r *StationRepository) GetByID(ctx context.Context, id int64) (*domain.Station, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	station, ok := r.data[id]
	if !ok {
		return nil, domain.ErrStationNotFound
	}
	clone := *station
	return &clone, nil
}

// List retrieves all stations ordered by ID
func (r *StationRepository) List(ctx context.Context) ([]*domain.Station, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	stations := make([]*domain.Station, 0, len(r.data))
	for id := int64(1); id <= r.nextID; id++ {
		if station, ok := r.data[id]; ok {
			clone := *station
			stations = append(stations, &clone)
		}
	}
	return stations, nil
}

// Create creates a new station and assigns its ID
func (r *StationRepository) Create(ctx context.Context, station *domain.Station) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	station.ID = r.nextID
	clone := *station
	r.data[station.ID] = &clone
	return nil
}

// AdjustStock atomically applies fuel_quantity += delta
func (r *StationRepository) AdjustStock(ctx context.Context, id int64, delta decimal.Decimal) (decimal.Decimal, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	station, ok := r.data[id]
	if !ok {
		return decimal.Zero, domain.ErrStationNotFound
	}

	newQuantity := station.FuelQuantity.Add(delta)
	if newQuantity.IsNegative() {
		return decimal.Zero, domain.ErrInsufficientStock
	}
	station.FuelQuantity = newQuantity
	return newQuantity, nil
}

// SetStock overwrites a station's stock quantity
func (r *StationRepository) SetStock(ctx context.Context, id int64, quantity decimal.Decimal) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	station, ok := r.data[id]
	if !ok {
		return domain.ErrStationNotFound
	}
	station.FuelQuantity = quantity
	return nil
}

// SetActive toggles a station's availability flag
func (r *StationRepository) SetActive(ctx context.Context, id int64, active bool) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	station, ok := r.data[id]
	if !ok {
		return domain.ErrStationNotFound
	}
	station.Active = active
	return nil
}

// Delete removes a station
func (r *StationRepository) Delete(ctx context.Context, id int64) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.data[id]; !ok {
		return domain.ErrStationNotFound
	}
	delete(r.data, id)
	return nil
}

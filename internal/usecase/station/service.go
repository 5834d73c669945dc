package station

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/zaripovich/fuelstation-backend/internal/domain"
)

// ReactivationCanceler cancels a pending reactivation for a station.
// Implemented by the reactivation scheduler; wired after construction to
// avoid a constructor cycle between the ledger and the scheduler.
type ReactivationCanceler interface {
	Cancel(stationID int64)
}

// LedgerService owns station state: stock level, availability flag and fuel
// type assignment. All station writes go through the per-station lock so
// concurrent draws against the same station cannot race past zero.
type LedgerService struct {
	StationRepo  domain.StationRepository
	FuelTypeRepo domain.FuelTypeRepository
	InitialStock decimal.Decimal
	Logger       *slog.Logger

	locks    *stationLocks
	canceler ReactivationCanceler
}

// NewLedgerService creates a new LedgerService instance
func NewLedgerService(
	stationRepo domain.StationRepository,
	fuelTypeRepo domain.FuelTypeRepository,
	initialStock decimal.Decimal,
	logger *slog.Logger,
) *LedgerService {
	return &LedgerService{
		StationRepo:  stationRepo,
		FuelTypeRepo: fuelTypeRepo,
		InitialStock: initialStock,
		Logger:       logger,
		locks:        newStationLocks(),
	}
}

// SetReactivationCanceler wires the scheduler so station removal can cancel
// a pending reactivation. Must be called during startup, before requests flow.
func (s *LedgerService) SetReactivationCanceler(c ReactivationCanceler) {
	s.canceler = c
}

// WithStationLock runs fn while holding the serialization lock for the given
// station. The dispensing workflow and the reactivation scheduler both apply
// their station writes inside this lock.
func (s *LedgerService) WithStationLock(stationID int64, fn func() error) error {
	m := s.locks.get(stationID)
	m.Lock()
	defer m.Unlock()
	return fn()
}

// Get retrieves a station by its ID
func (s *LedgerService) Get(ctx context.Context, id int64) (*domain.Station, error) {
	return s.StationRepo.GetByID(ctx, id)
}

// List retrieves all stations ordered by ID
func (s *LedgerService) List(ctx context.Context) ([]*domain.Station, error) {
	return s.StationRepo.List(ctx)
}

// Create creates a new station assigned to an existing fuel type.
// The station starts with the configured initial stock and Active=true.
func (s *LedgerService) Create(ctx context.Context, fuelTypeID int64) (*domain.Station, error) {
	// The fuel type must exist for the station to ever be dispensable
	if _, err := s.FuelTypeRepo.GetByID(ctx, fuelTypeID); err != nil {
		return nil, err
	}

	station := &domain.Station{
		FuelTypeID:   fuelTypeID,
		FuelQuantity: s.InitialStock,
		Active:       true,
	}

	if err := station.Validate(); err != nil {
		return nil, err
	}

	if err := s.StationRepo.Create(ctx, station); err != nil {
		return nil, err
	}

	s.Logger.InfoContext(ctx, "station created",
		"station_id", station.ID, "fuel_type_id", fuelTypeID, "stock", station.FuelQuantity)

	return station, nil
}

// AdjustStock atomically applies stock += delta under the station lock.
// Returns the resulting quantity. A delta that would take the stock below
// zero is rejected with ErrInsufficientStock and leaves the stock unchanged.
func (s *LedgerService) AdjustStock(ctx context.Context, id int64, delta decimal.Decimal) (decimal.Decimal, error) {
	var newQuantity decimal.Decimal
	err := s.WithStationLock(id, func() error {
		var err error
		newQuantity, err = s.StationRepo.AdjustStock(ctx, id, delta)
		return err
	})
	return newQuantity, err
}

// SetActive toggles a station's availability flag under the station lock
func (s *LedgerService) SetActive(ctx context.Context, id int64, active bool) error {
	return s.WithStationLock(id, func() error {
		return s.StationRepo.SetActive(ctx, id, active)
	})
}

// Remove deletes a station and cancels any pending reactivation for it.
// A reactivation timer that already fired races harmlessly: reactivating a
// removed station is a no-op.
func (s *LedgerService) Remove(ctx context.Context, id int64) error {
	err := s.WithStationLock(id, func() error {
		return s.StationRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	if s.canceler != nil {
		s.canceler.Cancel(id)
	}

	s.Logger.InfoContext(ctx, "station removed", "station_id", id)
	return nil
}

// Reactivate flips a station back to Active after its cooldown. Called by
// the reactivation scheduler only. The station may have been removed while
// the cooldown ran, in which case reactivation is a silent no-op, not an
// error.
func (s *LedgerService) Reactivate(ctx context.Context, id int64) error {
	err := s.WithStationLock(id, func() error {
		return s.StationRepo.SetActive(ctx, id, true)
	})
	if errors.Is(err, domain.ErrStationNotFound) {
		s.Logger.DebugContext(ctx, "reactivation skipped, station removed", "station_id", id)
		return nil
	}
	return err
}

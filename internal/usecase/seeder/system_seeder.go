package seeder

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/zaripovich/fuelstation-backend/internal/domain"
)

// ReferenceFuel defines a fuel type to be seeded at startup
type ReferenceFuel struct {
	Name  string
	Price decimal.Decimal
}

// referenceFuels is the standard catalog the system boots with
var referenceFuels = []ReferenceFuel{
	{Name: "АИ-92", Price: decimal.NewFromInt(43)},
	{Name: "АИ-95", Price: decimal.NewFromInt(45)},
	{Name: "АИ-100", Price: decimal.NewFromInt(47)},
	{Name: "Дизель", Price: decimal.NewFromInt(55)},
}

// initialFleetStock computes the staggered boot stock for the i-th seeded
// station (10000, 9877, 9754, ...)
func initialFleetStock(i int) decimal.Decimal {
	return decimal.NewFromInt(10000 - 123*int64(i))
}

// SystemSeeder ensures the reference catalog and an initial fleet exist
type SystemSeeder struct {
	fuelTypeRepo domain.FuelTypeRepository
	stationRepo  domain.StationRepository
}

// NewSystemSeeder creates a new SystemSeeder instance
func NewSystemSeeder(fuelTypeRepo domain.FuelTypeRepository, stationRepo domain.StationRepository) *SystemSeeder {
	return &SystemSeeder{
		fuelTypeRepo: fuelTypeRepo,
		stationRepo:  stationRepo,
	}
}

// Seed ensures the reference fuel types exist and, on a fresh store, creates
// one station per reference fuel with staggered stock. Idempotent: fuel
// types are matched by name and stations are only seeded into an empty
// fleet, so repeated startups do not duplicate anything.
func (s *SystemSeeder) Seed(ctx context.Context) error {
	existing, err := s.fuelTypeRepo.List(ctx)
	if err != nil {
		return err
	}
	byName := make(map[string]*domain.FuelType, len(existing))
	for _, ft := range existing {
		byName[ft.Name] = ft
	}

	seeded := make([]*domain.FuelType, 0, len(referenceFuels))
	for _, ref := range referenceFuels {
		if ft, ok := byName[ref.Name]; ok {
			seeded = append(seeded, ft)
			continue
		}

		fuelType := &domain.FuelType{
			Name:  ref.Name,
			Price: ref.Price,
		}
		if err := fuelType.Validate(); err != nil {
			return err
		}
		if err := s.fuelTypeRepo.Create(ctx, fuelType); err != nil {
			return err
		}
		seeded = append(seeded, fuelType)
	}

	stations, err := s.stationRepo.List(ctx)
	if err != nil {
		return err
	}
	if len(stations) > 0 {
		// Fleet already provisioned, nothing to do
		return nil
	}

	for i, fuelType := range seeded {
		station := &domain.Station{
			FuelTypeID:   fuelType.ID,
			FuelQuantity: initialFleetStock(i),
			Active:       true,
		}
		if err := station.Validate(); err != nil {
			return err
		}
		if err := s.stationRepo.Create(ctx, station); err != nil {
			return err
		}
	}

	return nil
}

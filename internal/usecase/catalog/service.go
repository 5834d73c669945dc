package catalog

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/zaripovich/fuelstation-backend/internal/domain"
)

// CatalogService handles fuel catalog operations
type CatalogService struct {
	FuelTypeRepo domain.FuelTypeRepository
	Logger       *slog.Logger
}

// NewCatalogService creates a new CatalogService instance
func NewCatalogService(fuelTypeRepo domain.FuelTypeRepository, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		FuelTypeRepo: fuelTypeRepo,
		Logger:       logger,
	}
}

// GetFuelType retrieves a fuel type by its ID
func (s *CatalogService) GetFuelType(ctx context.Context, id int64) (*domain.FuelType, error) {
	return s.FuelTypeRepo.GetByID(ctx, id)
}

// ListFuelTypes retrieves all fuel types ordered by ID
func (s *CatalogService) ListFuelTypes(ctx context.Context) ([]*domain.FuelType, error) {
	return s.FuelTypeRepo.List(ctx)
}

// AddFuelType registers a new fuel type in the catalog
// Logic:
//  1. Validate name and price
//  2. Persist; the store assigns the ID
func (s *CatalogService) AddFuelType(ctx context.Context, name string, price decimal.Decimal) (*domain.FuelType, error) {
	fuelType := &domain.FuelType{
		Name:  name,
		Price: price,
	}

	if err := fuelType.Validate(); err != nil {
		return nil, err
	}

	if err := s.FuelTypeRepo.Create(ctx, fuelType); err != nil {
		return nil, err
	}

	s.Logger.InfoContext(ctx, "fuel type added",
		"fuel_type_id", fuelType.ID, "name", fuelType.Name, "price", fuelType.Price)

	return fuelType, nil
}

// SetPrice updates the unit price of a fuel type in place.
// The new price must be non-negative; the change is immediately visible to
// subsequent reads. Committed transactions keep the price they were stamped
// with and are unaffected.
func (s *CatalogService) SetPrice(ctx context.Context, id int64, newPrice decimal.Decimal) error {
	if newPrice.IsNegative() {
		return domain.ErrInvalidPrice
	}

	if err := s.FuelTypeRepo.SetPrice(ctx, id, newPrice); err != nil {
		return err
	}

	s.Logger.InfoContext(ctx, "fuel price updated", "fuel_type_id", id, "price", newPrice)
	return nil
}

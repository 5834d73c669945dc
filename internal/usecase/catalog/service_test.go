package catalog

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/zaripovich/fuelstation-backend/internal/domain"
)

// MockFuelTypeRepository is a mock implementation of FuelTypeRepository for testing
type MockFuelTypeRepository struct {
	mock.Mock
}

func (m *MockFuelTypeRepository) GetByID(ctx context.Context, id int64) (*domain.FuelType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FuelType), args.Error(1)
}

func (m *MockFuelTypeRepository) List(ctx context.Context) ([]*domain.FuelType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.FuelType), args.Error(1)
}

func (m *MockFuelTypeRepository) Create(ctx context.Context, ft *domain.FuelType) error {
	args := m.Called(ctx, ft)
	return args.Error(0)
}

func (m *MockFuelTypeRepository) SetPrice(ctx context.Context, id int64, price decimal.Decimal) error {
	args := m.Called(ctx, id, price)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSetPrice_UpdatesCatalog(t *testing.T) {
	ctx := context.Background()
	repo := new(MockFuelTypeRepository)
	service := NewCatalogService(repo, testLogger())

	newPrice := decimal.NewFromInt(48)
	repo.On("SetPrice", ctx, int64(1), newPrice).Return(nil)

	err := service.SetPrice(ctx, 1, newPrice)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestSetPrice_RejectsNegativePrice(t *testing.T) {
	ctx := context.Background()
	repo := new(MockFuelTypeRepository)
	service := NewCatalogService(repo, testLogger())

	err := service.SetPrice(ctx, 1, decimal.NewFromInt(-1))

	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
	repo.AssertNotCalled(t, "SetPrice", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetPrice_FuelTypeNotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(MockFuelTypeRepository)
	service := NewCatalogService(repo, testLogger())

	repo.On("SetPrice", ctx, int64(99), mock.Anything).Return(domain.ErrFuelTypeNotFound)

	err := service.SetPrice(ctx, 99, decimal.NewFromInt(50))

	assert.ErrorIs(t, err, domain.ErrFuelTypeNotFound)
}

func TestAddFuelType_AssignsID(t *testing.T) {
	ctx := context.Background()
	repo := new(MockFuelTypeRepository)
	service := NewCatalogService(repo, testLogger())

	repo.On("Create", ctx, mock.MatchedBy(func(ft *domain.FuelType) bool {
		return ft.Name == "АИ-98" && ft.Price.Equal(decimal.NewFromInt(52))
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.FuelType).ID = 5
	}).Return(nil)

	fuelType, err := service.AddFuelType(ctx, "АИ-98", decimal.NewFromInt(52))

	assert.NoError(t, err)
	assert.Equal(t, int64(5), fuelType.ID)
	repo.AssertExpectations(t)
}

func TestAddFuelType_RejectsEmptyName(t *testing.T) {
	ctx := context.Background()
	repo := new(MockFuelTypeRepository)
	service := NewCatalogService(repo, testLogger())

	fuelType, err := service.AddFuelType(ctx, "", decimal.NewFromInt(10))

	assert.ErrorIs(t, err, domain.ErrInvalidFuelName)
	assert.Nil(t, fuelType)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetFuelType_PassThrough(t *testing.T) {
	ctx := context.Background()
	repo := new(MockFuelTypeRepository)
	service := NewCatalogService(repo, testLogger())

	fuelType := &domain.FuelType{ID: 2, Name: "АИ-95", Price: decimal.NewFromInt(45)}
	repo.On("GetByID", ctx, int64(2)).Return(fuelType, nil)

	got, err := service.GetFuelType(ctx, 2)

	assert.NoError(t, err)
	assert.Equal(t, fuelType, got)
}

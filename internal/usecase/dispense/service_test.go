package dispense

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/zaripovich/fuelstation-backend/internal/domain"
	"github.com/zaripovich/fuelstation-backend/internal/usecase/station"
)

// MockStationRepository is a mock implementation of StationRepository for testing
type MockStationRepository struct {
	mock.Mock
}

func (m *MockStationRepository) GetByID(ctx context.Context, id int64) (*domain.Station, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Station), args.Error(1)
}

func (m *MockStationRepository) List(ctx context.Context) ([]*domain.Station, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Station), args.Error(1)
}

func (m *MockStationRepository) Create(ctx context.Context, st *domain.Station) error {
	args := m.Called(ctx, st)
	return args.Error(0)
}

func (m *MockStationRepository) AdjustStock(ctx context.Context, id int64, delta decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, id, delta)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockStationRepository) SetStock(ctx context.Context, id int64, quantity decimal.Decimal) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

func (m *MockStationRepository) SetActive(ctx context.Context, id int64, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockStationRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

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

// MockTransactionRepository is a mock implementation of TransactionRepository for testing
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) List(ctx context.Context) ([]*domain.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListByStation(ctx context.Context, stationID int64) ([]*domain.Transaction, error) {
	args := m.Called(ctx, stationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Transaction, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListByFuelType(ctx context.Context, fuelTypeID int64) ([]*domain.Transaction, error) {
	args := m.Called(ctx, fuelTypeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

// fakeScheduler records which stations were handed off for reactivation
type fakeScheduler struct {
	scheduled []int64
}

func (f *fakeScheduler) Schedule(stationID int64) {
	f.scheduled = append(f.scheduled, stationID)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(
	stationRepo *MockStationRepository,
	fuelTypeRepo *MockFuelTypeRepository,
	txRepo *MockTransactionRepository,
	sched *fakeScheduler,
) *DispenseService {
	ledger := station.NewLedgerService(stationRepo, fuelTypeRepo, decimal.NewFromInt(1000), testLogger())
	return NewDispenseService(ledger, stationRepo, fuelTypeRepo, txRepo, sched, RestockPolicy{
		Threshold:   decimal.NewFromInt(1000),
		RefillLevel: decimal.NewFromInt(1000),
	}, testLogger())
}

func TestDispense_SuccessWithRestock(t *testing.T) {
	ctx := context.Background()
	stationRepo := new(MockStationRepository)
	fuelTypeRepo := new(MockFuelTypeRepository)
	txRepo := new(MockTransactionRepository)
	sched := new(fakeScheduler)

	service := newTestService(stationRepo, fuelTypeRepo, txRepo, sched)

	// Station S1: fuel type F1 at price 45, stock 1000, active
	st := &domain.Station{ID: 1, FuelTypeID: 1, FuelQuantity: decimal.NewFromInt(1000), Active: true}
	fuelType := &domain.FuelType{ID: 1, Name: "АИ-95", Price: decimal.NewFromInt(45)}

	stationRepo.On("GetByID", ctx, int64(1)).Return(st, nil)
	fuelTypeRepo.On("GetByID", ctx, int64(1)).Return(fuelType, nil)

	txRepo.On("Create", ctx, mock.MatchedBy(func(tx *domain.Transaction) bool {
		if tx.Number != "T1" || tx.StationID != 1 || tx.FuelTypeID != 1 {
			return false
		}
		if !tx.Quantity.Equal(decimal.NewFromInt(30)) {
			return false
		}
		if !tx.UnitPrice.Equal(decimal.NewFromInt(45)) {
			return false
		}
		// 30 * 45 = 1350
		if !tx.TotalPrice.Equal(decimal.NewFromInt(1350)) {
			return false
		}
		// Server-stamped date, recent
		return time.Since(tx.Date) < time.Minute
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Transaction).ID = 7
	}).Return(nil)

	// 1000 - 30 = 970, below the threshold of 1000 -> restock to 1000
	stationRepo.On("AdjustStock", ctx, int64(1), decimal.NewFromInt(-30)).
		Return(decimal.NewFromInt(970), nil)
	stationRepo.On("SetStock", ctx, int64(1), decimal.NewFromInt(1000)).Return(nil)
	stationRepo.On("SetActive", ctx, int64(1), false).Return(nil)

	tx, err := service.Dispense(ctx, DispenseInput{StationID: 1, Quantity: decimal.NewFromInt(30), Number: "T1"})

	assert.NoError(t, err)
	assert.NotNil(t, tx)
	assert.Equal(t, int64(7), tx.ID)
	assert.True(t, tx.TotalPrice.Equal(decimal.NewFromInt(1350)))
	assert.Equal(t, []int64{1}, sched.scheduled)

	stationRepo.AssertExpectations(t)
	fuelTypeRepo.AssertExpectations(t)
	txRepo.AssertExpectations(t)
}

func TestDispense_NoRestockAboveThreshold(t *testing.T) {
	ctx := context.Background()
	stationRepo := new(MockStationRepository)
	fuelTypeRepo := new(MockFuelTypeRepository)
	txRepo := new(MockTransactionRepository)
	sched := new(fakeScheduler)

	service := newTestService(stationRepo, fuelTypeRepo, txRepo, sched)

	st := &domain.Station{ID: 2, FuelTypeID: 1, FuelQuantity: decimal.NewFromInt(5000), Active: true}
	fuelType := &domain.FuelType{ID: 1, Name: "АИ-92", Price: decimal.NewFromInt(43)}

	stationRepo.On("GetByID", ctx, int64(2)).Return(st, nil)
	fuelTypeRepo.On("GetByID", ctx, int64(1)).Return(fuelType, nil)
	txRepo.On("Create", ctx, mock.Anything).Return(nil)
	// 5000 - 10 = 4990, at or above the threshold -> no restock
	stationRepo.On("AdjustStock", ctx, int64(2), decimal.NewFromInt(-10)).
		Return(decimal.NewFromInt(4990), nil)
	stationRepo.On("SetActive", ctx, int64(2), false).Return(nil)

	_, err := service.Dispense(ctx, DispenseInput{StationID: 2, Quantity: decimal.NewFromInt(10), Number: "T2"})

	assert.NoError(t, err)
	stationRepo.AssertNotCalled(t, "SetStock", mock.Anything, mock.Anything, mock.Anything)
	stationRepo.AssertExpectations(t)
}

func TestDispense_RestockBoundary(t *testing.T) {
	ctx := context.Background()
	stationRepo := new(MockStationRepository)
	fuelTypeRepo := new(MockFuelTypeRepository)
	txRepo := new(MockTransactionRepository)
	sched := new(fakeScheduler)

	service := newTestService(stationRepo, fuelTypeRepo, txRepo, sched)

	// Start stock 1005, draw 10 -> 995 < 1000, refilled to 1000 rather than left at 995
	st := &domain.Station{ID: 3, FuelTypeID: 2, FuelQuantity: decimal.NewFromInt(1005), Active: true}
	fuelType := &domain.FuelType{ID: 2, Name: "АИ-95", Price: decimal.NewFromInt(45)}

	stationRepo.On("GetByID", ctx, int64(3)).Return(st, nil)
	fuelTypeRepo.On("GetByID", ctx, int64(2)).Return(fuelType, nil)
	txRepo.On("Create", ctx, mock.Anything).Return(nil)
	stationRepo.On("AdjustStock", ctx, int64(3), decimal.NewFromInt(-10)).
		Return(decimal.NewFromInt(995), nil)
	stationRepo.On("SetStock", ctx, int64(3), decimal.NewFromInt(1000)).Return(nil)
	stationRepo.On("SetActive", ctx, int64(3), false).Return(nil)

	_, err := service.Dispense(ctx, DispenseInput{StationID: 3, Quantity: decimal.NewFromInt(10), Number: "T3"})

	assert.NoError(t, err)
	stationRepo.AssertExpectations(t)
}

func TestDispense_InsufficientStock(t *testing.T) {
	ctx := context.Background()
	stationRepo := new(MockStationRepository)
	fuelTypeRepo := new(MockFuelTypeRepository)
	txRepo := new(MockTransactionRepository)
	sched := new(fakeScheduler)

	service := newTestService(stationRepo, fuelTypeRepo, txRepo, sched)

	st := &domain.Station{ID: 1, FuelTypeID: 1, FuelQuantity: decimal.NewFromInt(20), Active: true}
	stationRepo.On("GetByID", ctx, int64(1)).Return(st, nil)

	tx, err := service.Dispense(ctx, DispenseInput{StationID: 1, Quantity: decimal.NewFromInt(30), Number: "T1"})

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Nil(t, tx)
	// A rejected dispense mutates nothing and schedules nothing
	txRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	stationRepo.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything)
	stationRepo.AssertNotCalled(t, "SetActive", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, sched.scheduled)
}

func TestDispense_StationInactive(t *testing.T) {
	ctx := context.Background()
	stationRepo := new(MockStationRepository)
	fuelTypeRepo := new(MockFuelTypeRepository)
	txRepo := new(MockTransactionRepository)
	sched := new(fakeScheduler)

	service := newTestService(stationRepo, fuelTypeRepo, txRepo, sched)

	// Plenty of stock, but the station is cooling down
	st := &domain.Station{ID: 1, FuelTypeID: 1, FuelQuantity: decimal.NewFromInt(1000), Active: false}
	stationRepo.On("GetByID", ctx, int64(1)).Return(st, nil)

	tx, err := service.Dispense(ctx, DispenseInput{StationID: 1, Quantity: decimal.NewFromInt(30), Number: "T1"})

	assert.ErrorIs(t, err, domain.ErrStationInactive)
	assert.Nil(t, tx)
	// The rejection does not reset or extend the cooldown
	assert.Empty(t, sched.scheduled)
	txRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDispense_StationNotFound(t *testing.T) {
	ctx := context.Background()
	stationRepo := new(MockStationRepository)
	fuelTypeRepo := new(MockFuelTypeRepository)
	txRepo := new(MockTransactionRepository)
	sched := new(fakeScheduler)

	service := newTestService(stationRepo, fuelTypeRepo, txRepo, sched)

	stationRepo.On("GetByID", ctx, int64(42)).Return(nil, domain.ErrStationNotFound)

	tx, err := service.Dispense(ctx, DispenseInput{StationID: 42, Quantity: decimal.NewFromInt(1), Number: "T1"})

	assert.ErrorIs(t, err, domain.ErrStationNotFound)
	assert.Nil(t, tx)
}

func TestDispense_FuelTypeMissing(t *testing.T) {
	ctx := context.Background()
	stationRepo := new(MockStationRepository)
	fuelTypeRepo := new(MockFuelTypeRepository)
	txRepo := new(MockTransactionRepository)
	sched := new(fakeScheduler)

	service := newTestService(stationRepo, fuelTypeRepo, txRepo, sched)

	st := &domain.Station{ID: 1, FuelTypeID: 9, FuelQuantity: decimal.NewFromInt(1000), Active: true}
	stationRepo.On("GetByID", ctx, int64(1)).Return(st, nil)
	fuelTypeRepo.On("GetByID", ctx, int64(9)).Return(nil, domain.ErrFuelTypeNotFound)

	tx, err := service.Dispense(ctx, DispenseInput{StationID: 1, Quantity: decimal.NewFromInt(30), Number: "T1"})

	assert.ErrorIs(t, err, domain.ErrFuelTypeNotFound)
	assert.Nil(t, tx)
	txRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDispense_InvalidQuantity(t *testing.T) {
	ctx := context.Background()
	stationRepo := new(MockStationRepository)
	fuelTypeRepo := new(MockFuelTypeRepository)
	txRepo := new(MockTransactionRepository)
	sched := new(fakeScheduler)

	service := newTestService(stationRepo, fuelTypeRepo, txRepo, sched)

	tx, err := service.Dispense(ctx, DispenseInput{StationID: 1, Quantity: decimal.Zero, Number: "T1"})

	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.Nil(t, tx)
	stationRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestDispense_PersistenceFailureLeavesStationUntouched(t *testing.T) {
	ctx := context.Background()
	stationRepo := new(MockStationRepository)
	fuelTypeRepo := new(MockFuelTypeRepository)
	txRepo := new(MockTransactionRepository)
	sched := new(fakeScheduler)

	service := newTestService(stationRepo, fuelTypeRepo, txRepo, sched)

	st := &domain.Station{ID: 1, FuelTypeID: 1, FuelQuantity: decimal.NewFromInt(1000), Active: true}
	fuelType := &domain.FuelType{ID: 1, Name: "Дизель", Price: decimal.NewFromInt(55)}

	stationRepo.On("GetByID", ctx, int64(1)).Return(st, nil)
	fuelTypeRepo.On("GetByID", ctx, int64(1)).Return(fuelType, nil)

	storageErr := errors.New("connection reset")
	txRepo.On("Create", ctx, mock.Anything).Return(storageErr)

	tx, err := service.Dispense(ctx, DispenseInput{StationID: 1, Quantity: decimal.NewFromInt(30), Number: "T1"})

	assert.ErrorIs(t, err, storageErr)
	assert.Nil(t, tx)
	// The commit failed, so stock and availability stay untouched
	stationRepo.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything)
	stationRepo.AssertNotCalled(t, "SetActive", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, sched.scheduled)
}

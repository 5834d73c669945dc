package dispense

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/zaripovich/fuelstation-backend/internal/domain"
	"github.com/zaripovich/fuelstation-backend/internal/observability/metrics"
	"github.com/zaripovich/fuelstation-backend/internal/usecase/station"
)

// Scheduler arms the cooldown timer for a station after a successful
// dispense. Implemented by the reactivation scheduler.
type Scheduler interface {
	Schedule(stationID int64)
}

// RestockPolicy configures automatic replenishment: when the post-dispense
// stock falls below Threshold the station is refilled to RefillLevel as part
// of the same logical update. This is a policy decision, not a simulation of
// physical fuel delivery.
type RestockPolicy struct {
	Threshold   decimal.Decimal
	RefillLevel decimal.Decimal
}

// DispenseInput represents the input for dispensing fuel from a station
type DispenseInput struct {
	StationID int64
	Quantity  decimal.Decimal
	Number    string // Client-supplied receipt number
}

// DispenseService handles the station dispensing workflow
type DispenseService struct {
	Ledger          *station.LedgerService
	StationRepo     domain.StationRepository
	FuelTypeRepo    domain.FuelTypeRepository
	TransactionRepo domain.TransactionRepository
	Scheduler       Scheduler
	Restock         RestockPolicy
	Logger          *slog.Logger
}

// NewDispenseService creates a new DispenseService instance
func NewDispenseService(
	ledger *station.LedgerService,
	stationRepo domain.StationRepository,
	fuelTypeRepo domain.FuelTypeRepository,
	transactionRepo domain.TransactionRepository,
	scheduler Scheduler,
	restock RestockPolicy,
	logger *slog.Logger,
) *DispenseService {
	return &DispenseService{
		Ledger:          ledger,
		StationRepo:     stationRepo,
		FuelTypeRepo:    fuelTypeRepo,
		TransactionRepo: transactionRepo,
		Scheduler:       scheduler,
		Restock:         restock,
		Logger:          logger,
	}
}

// Dispense draws fuel from a station and records the draw as a transaction.
// Logic (all station reads and writes run under the station's lock so that
// check-then-decrement is atomic against concurrent draws):
//  1. Load the station; reject if absent
//  2. Reject an over-draw (quantity > stock), then an inactive station;
//     a rejected dispense mutates nothing and does not extend a cooldown
//  3. Load the station's fuel type; stamp the server clock and the catalog
//     price into the transaction (client-supplied dates are not accepted)
//  4. Persist the transaction — the commit point; a storage failure here
//     surfaces to the caller and leaves the station untouched
//  5. Decrement the stock, apply the restock policy, set Active=false
//  6. Hand the station to the reactivation scheduler and return the
//     committed transaction without waiting for the cooldown
//
// Failures after the commit point never fail the already-committed
// transaction; they are logged and left to the ledger's retry paths.
func (s *DispenseService) Dispense(ctx context.Context, input DispenseInput) (*domain.Transaction, error) {
	timer := prometheus.NewTimer(metrics.DispenseDuration)
	defer timer.ObserveDuration()

	if input.Quantity.LessThanOrEqual(decimal.Zero) {
		metrics.DispensesTotal.WithLabelValues("invalid_input").Inc()
		return nil, domain.ErrInvalidQuantity
	}

	var tx *domain.Transaction
	err := s.Ledger.WithStationLock(input.StationID, func() error {
		var err error
		tx, err = s.dispenseLocked(ctx, input)
		return err
	})
	if err != nil {
		metrics.DispensesTotal.WithLabelValues(outcomeLabel(err)).Inc()
		return nil, err
	}

	// The caller does not wait for reactivation; the timer survives this
	// request and fires with no caller to report back to.
	s.Scheduler.Schedule(input.StationID)

	metrics.DispensesTotal.WithLabelValues("success").Inc()
	metrics.FuelDispensed.WithLabelValues(strconv.FormatInt(tx.FuelTypeID, 10)).
		Add(tx.Quantity.InexactFloat64())

	s.Logger.InfoContext(ctx, "fuel dispensed",
		"transaction_id", tx.ID, "number", tx.Number, "station_id", tx.StationID,
		"quantity", tx.Quantity, "total_price", tx.TotalPrice)

	return tx, nil
}

// dispenseLocked runs the workflow body while the station lock is held
func (s *DispenseService) dispenseLocked(ctx context.Context, input DispenseInput) (*domain.Transaction, error) {
	// 1. Load the station
	st, err := s.StationRepo.GetByID(ctx, input.StationID)
	if err != nil {
		return nil, err
	}

	// 2. Admissibility: over-draw first, then availability
	if err := st.CanDispense(input.Quantity); err != nil {
		return nil, err
	}

	// 3. Fuel type derived from the station, never from the client.
	// Missing catalog entry here means a broken referential invariant.
	fuelType, err := s.FuelTypeRepo.GetByID(ctx, st.FuelTypeID)
	if err != nil {
		return nil, err
	}

	tx := &domain.Transaction{
		Number:     input.Number,
		StationID:  st.ID,
		FuelTypeID: fuelType.ID,
		Quantity:   input.Quantity,
		UnitPrice:  fuelType.Price,
		TotalPrice: input.Quantity.Mul(fuelType.Price),
		Date:       time.Now().UTC(),
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	// 4. Commit point. Nothing before this mutated state, so a failure here
	// is all-or-nothing: no partial transaction is ever visible.
	if err := s.TransactionRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	// 5. Post-commit station update. Errors from here on are stale-state
	// inconsistencies to repair, never a failure of the committed draw.
	newQuantity, err := s.StationRepo.AdjustStock(ctx, st.ID, input.Quantity.Neg())
	if err != nil {
		s.Logger.ErrorContext(ctx, "stock decrement failed after commit",
			"transaction_id", tx.ID, "station_id", st.ID, "error", err)
	} else if newQuantity.LessThan(s.Restock.Threshold) {
		if err := s.StationRepo.SetStock(ctx, st.ID, s.Restock.RefillLevel); err != nil {
			s.Logger.ErrorContext(ctx, "restock failed after commit",
				"transaction_id", tx.ID, "station_id", st.ID, "error", err)
		} else {
			s.Logger.InfoContext(ctx, "station restocked",
				"station_id", st.ID, "from", newQuantity, "to", s.Restock.RefillLevel)
		}
	}

	if err := s.StationRepo.SetActive(ctx, st.ID, false); err != nil {
		s.Logger.ErrorContext(ctx, "station deactivation failed after commit",
			"transaction_id", tx.ID, "station_id", st.ID, "error", err)
	}

	return tx, nil
}

// outcomeLabel maps a workflow error to its metrics label
func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrStationInactive):
		return "station_inactive"
	case errors.Is(err, domain.ErrStationNotFound),
		errors.Is(err, domain.ErrFuelTypeNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidQuantity):
		return "invalid_input"
	default:
		return "persistence_error"
	}
}

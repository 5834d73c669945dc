package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zaripovich/fuelstation-backend/internal/domain"
)

// StatsService computes aggregate figures over the transaction log
type StatsService struct {
	TransactionRepo domain.TransactionRepository
}

// NewStatsService creates a new StatsService instance
func NewStatsService(transactionRepo domain.TransactionRepository) *StatsService {
	return &StatsService{
		TransactionRepo: transactionRepo,
	}
}

// TotalFuelDispensed sums the fuel volume dispensed by a station within
// [from, to]. Returns zero when the station has no transactions in range.
func (s *StatsService) TotalFuelDispensed(ctx context.Context, stationID int64, from, to time.Time) (decimal.Decimal, error) {
	transactions, err := s.TransactionRepo.ListByStation(ctx, stationID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to list station transactions: %w", err)
	}

	total := decimal.Zero
	for _, tx := range transactions {
		if tx.Date.Before(from) || tx.Date.After(to) {
			continue
		}
		total = total.Add(tx.Quantity)
	}
	return total, nil
}

// AverageTransactionPrice returns the mean total price of a station's
// transactions, zero when the station has none.
func (s *StatsService) AverageTransactionPrice(ctx context.Context, stationID int64) (decimal.Decimal, error) {
	transactions, err := s.TransactionRepo.ListByStation(ctx, stationID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to list station transactions: %w", err)
	}

	if len(transactions) == 0 {
		return decimal.Zero, nil
	}

	sum := decimal.Zero
	for _, tx := range transactions {
		sum = sum.Add(tx.TotalPrice)
	}
	return sum.Div(decimal.NewFromInt(int64(len(transactions)))), nil
}

package reactivation

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zaripovich/fuelstation-backend/internal/observability/metrics"
)

// Ledger is the slice of the station ledger the scheduler writes through.
// Reactivate treats a removed station as a no-op, so the scheduler never has
// to distinguish "removed while cooling down" from success.
type Ledger interface {
	Reactivate(ctx context.Context, stationID int64) error
}

// Config holds scheduler tuning knobs
type Config struct {
	// Cooldown is the delay between a successful dispense and the station
	// becoming available again.
	Cooldown time.Duration

	// MaxRetries bounds how many times a failed reactivation write is
	// retried before the scheduler gives up and logs at error level.
	MaxRetries int

	// RetryBackoff is the initial wait before the first retry; it doubles
	// after every failed attempt.
	RetryBackoff time.Duration
}

// Scheduler reactivates stations after their cooldown. Each successful
// dispense arms one timer; the timer outlives the request that armed it,
// holds no station lock while waiting, and is cancellable only by station
// removal or process shutdown.
//
// A station stuck inactive is a stuck resource, so the reactivation write is
// retried with exponential backoff rather than dropped on a transient
// storage error.
type Scheduler struct {
	ledger Ledger
	cfg    Config
	logger *slog.Logger

	mu      sync.Mutex
	pending map[int64]*time.Timer
	closed  bool

	wg   sync.WaitGroup
	done chan struct{}
}

// NewScheduler creates a new Scheduler instance
func NewScheduler(ledger Ledger, cfg Config, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		ledger:  ledger,
		cfg:     cfg,
		pending: make(map[int64]*time.Timer),
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// Schedule arms the cooldown timer for a station. It returns immediately;
// the flag flip happens out-of-band once the cooldown elapses. Scheduling a
// station that already has a pending timer replaces the pending timer.
func (s *Scheduler) Schedule(stationID int64) {
	jobID := uuid.New()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.logger.Warn("scheduler stopped, reactivation not armed", "station_id", stationID)
		return
	}

	if old, ok := s.pending[stationID]; ok && old.Stop() {
		s.wg.Done()
		metrics.PendingReactivations.Dec()
	}

	s.wg.Add(1)
	metrics.PendingReactivations.Inc()
	s.pending[stationID] = time.AfterFunc(s.cfg.Cooldown, func() {
		s.fire(jobID, stationID)
	})

	s.logger.Debug("reactivation armed",
		"job_id", jobID, "station_id", stationID, "cooldown", s.cfg.Cooldown)
}

// Cancel drops the pending reactivation for a station, if any. Called by
// station removal. A timer that already fired is left to run; reactivating
// a removed station is a no-op on the ledger side.
func (s *Scheduler) Cancel(stationID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.pending[stationID]
	if !ok {
		return
	}
	delete(s.pending, stationID)

	if t.Stop() {
		s.wg.Done()
		metrics.PendingReactivations.Dec()
		metrics.ReactivationsTotal.WithLabelValues("skipped").Inc()
		s.logger.Debug("reactivation cancelled", "station_id", stationID)
	}
}

// Stop cancels all pending timers and waits for in-flight reactivations to
// finish. After Stop, Schedule becomes a logged no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.done)
	for stationID, t := range s.pending {
		delete(s.pending, stationID)
		if t.Stop() {
			s.wg.Done()
			metrics.PendingReactivations.Dec()
		}
	}
	s.mu.Unlock()

	s.wg.Wait()
}

// fire applies the reactivation once the cooldown has elapsed, retrying
// transient failures with exponential backoff.
func (s *Scheduler) fire(jobID uuid.UUID, stationID int64) {
	defer s.wg.Done()
	defer metrics.PendingReactivations.Dec()

	s.mu.Lock()
	delete(s.pending, stationID)
	s.mu.Unlock()

	ctx := context.Background()
	backoff := s.cfg.RetryBackoff

	for attempt := 0; ; attempt++ {
		err := s.ledger.Reactivate(ctx, stationID)
		if err == nil {
			metrics.ReactivationsTotal.WithLabelValues("success").Inc()
			s.logger.Info("station reactivated",
				"job_id", jobID, "station_id", stationID, "attempt", attempt+1)
			return
		}

		if attempt >= s.cfg.MaxRetries {
			metrics.ReactivationsTotal.WithLabelValues("gave_up").Inc()
			s.logger.Error("reactivation failed permanently, station stuck inactive",
				"job_id", jobID, "station_id", stationID, "attempts", attempt+1, "error", err)
			return
		}

		metrics.ReactivationRetriesTotal.Inc()
		s.logger.Warn("reactivation failed, retrying",
			"job_id", jobID, "station_id", stationID, "attempt", attempt+1,
			"backoff", backoff, "error", err)

		select {
		case <-time.After(backoff):
		case <-s.done:
			s.logger.Warn("reactivation abandoned on shutdown",
				"job_id", jobID, "station_id", stationID)
			return
		}
		backoff *= 2
	}
}

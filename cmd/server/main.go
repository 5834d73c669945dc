package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/zaripovich/fuelstation-backend/internal/adapter/repository/postgres"
	"github.com/zaripovich/fuelstation-backend/internal/platform/config"
	"github.com/zaripovich/fuelstation-backend/internal/platform/logger"
	"github.com/zaripovich/fuelstation-backend/internal/usecase/catalog"
	"github.com/zaripovich/fuelstation-backend/internal/usecase/dispense"
	"github.com/zaripovich/fuelstation-backend/internal/usecase/reactivation"
	"github.com/zaripovich/fuelstation-backend/internal/usecase/seeder"
	"github.com/zaripovich/fuelstation-backend/internal/usecase/station"
	"github.com/zaripovich/fuelstation-backend/internal/usecase/stats"
)

// application bundles the services an API transport mounts. The transport
// itself (HTTP routing, auth, request envelopes) is not part of this
// repository; this process owns wiring, seeding, the reactivation scheduler
// and the metrics endpoint.
type application struct {
	Catalog  *catalog.CatalogService
	Ledger   *station.LedgerService
	Dispense *dispense.DispenseService
	Stats    *stats.StatsService
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// 1. Configuration and logging
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)
	log.Info("Starting fuel station backend")

	// 2. Setup database
	db, err := postgres.NewDB(cfg.PostgresDSN)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.ReinitDB {
		if err := db.InitSchema(ctx); err != nil {
			log.Error("Failed to initialize schema", "error", err)
			os.Exit(1)
		}
		log.Info("Database schema initialized")
	}

	// 3. Initialize repositories (Postgres)
	fuelTypeRepo := postgres.NewFuelTypeRepository(db)
	stationRepo := postgres.NewStationRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)

	// 4. Initialize services (use cases)
	ledgerService := station.NewLedgerService(
		stationRepo, fuelTypeRepo, decimal.NewFromFloat(cfg.InitialStock), log)

	scheduler := reactivation.NewScheduler(ledgerService, reactivation.Config{
		Cooldown:     cfg.Cooldown,
		MaxRetries:   cfg.ReactivationMaxRetries,
		RetryBackoff: cfg.ReactivationBackoff,
	}, log)
	ledgerService.SetReactivationCanceler(scheduler)

	app := &application{
		Catalog: catalog.NewCatalogService(fuelTypeRepo, log),
		Ledger:  ledgerService,
		Dispense: dispense.NewDispenseService(
			ledgerService, stationRepo, fuelTypeRepo, transactionRepo, scheduler,
			dispense.RestockPolicy{
				Threshold:   decimal.NewFromFloat(cfg.RestockThreshold),
				RefillLevel: decimal.NewFromFloat(cfg.RefillLevel),
			}, log),
		Stats: stats.NewStatsService(transactionRepo),
	}

	// Seed the reference catalog and initial fleet on a reinitialized store
	if cfg.ReinitDB {
		systemSeeder := seeder.NewSystemSeeder(fuelTypeRepo, stationRepo)
		if err := systemSeeder.Seed(ctx); err != nil {
			log.Error("Failed to seed reference data", "error", err)
			os.Exit(1)
		}
		log.Info("Reference catalog and fleet seeded")
	}

	// Boot-state summary
	fuelTypes, err := app.Catalog.ListFuelTypes(ctx)
	if err != nil {
		log.Error("Failed to read fuel catalog", "error", err)
		os.Exit(1)
	}
	stations, err := app.Ledger.List(ctx)
	if err != nil {
		log.Error("Failed to read station fleet", "error", err)
		os.Exit(1)
	}
	log.Info("Ready", "fuel_types", len(fuelTypes), "stations", len(stations),
		"cooldown", cfg.Cooldown)

	// 5. Metrics endpoint
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{Addr: cfg.MetricsAddr, Handler: metricsMux}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Metrics server listening", "addr", cfg.MetricsAddr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Info("Shutting down gracefully")

		// Pending cooldowns are abandoned on shutdown; stations that were
		// mid-cooldown stay inactive until an operator flips them back.
		scheduler.Stop()
		return metricsServer.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil {
		log.Error("Service terminated with error", "error", err)
		os.Exit(1)
	}
	log.Info("Service stopped")
}

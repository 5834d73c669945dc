package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DispensesTotal counts dispense attempts by outcome.
	// status is one of: success, insufficient_stock, station_inactive,
	// not_found, invalid_input, persistence_error.
	DispensesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fuelstation",
			Name:      "dispenses_total",
			Help:      "Total number of dispense attempts by outcome.",
		},
		[]string{"status"},
	)

	// DispenseDuration observes the latency of the dispense workflow.
	DispenseDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "fuelstation",
			Name:      "dispense_duration_seconds",
			Help:      "Duration of the dispense workflow.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// FuelDispensed accumulates dispensed fuel volume per fuel type.
	FuelDispensed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fuelstation",
			Name:      "fuel_dispensed_units_total",
			Help:      "Total fuel volume dispensed, labelled by fuel type.",
		},
		[]string{"fuel_type"},
	)

	// ReactivationsTotal counts reactivation outcomes.
	// status is one of: success, skipped, gave_up.
	ReactivationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fuelstation",
			Name:      "reactivations_total",
			Help:      "Total number of station reactivations by outcome.",
		},
		[]string{"status"},
	)

	// ReactivationRetriesTotal counts reactivation write retries.
	ReactivationRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fuelstation",
			Name:      "reactivation_retries_total",
			Help:      "Total number of retried reactivation writes.",
		},
	)

	// PendingReactivations tracks cooldown timers currently armed.
	PendingReactivations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "fuelstation",
			Name:      "pending_reactivations",
			Help:      "Number of stations currently in cooldown.",
		},
	)
)

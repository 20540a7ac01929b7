package logger

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// StatusEvaluations counts status engine verdicts by status
	StatusEvaluations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetfix_status_evaluations_total",
			Help: "Total number of record status evaluations",
		},
		[]string{"status"},
	)

	// SyncRuns counts telemetry synchronization attempts
	SyncRuns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fleetfix_sync_runs_total",
			Help: "Total number of telemetry sync runs started",
		},
	)

	// SyncFailures counts aborted telemetry synchronizations
	SyncFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fleetfix_sync_failures_total",
			Help: "Total number of telemetry sync runs that aborted",
		},
	)

	// VehiclesUpdated counts committed odometer updates
	VehiclesUpdated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fleetfix_vehicles_updated_total",
			Help: "Total number of vehicle odometer commits",
		},
	)

	// TelemetryPages counts pages fetched from the fueling API
	TelemetryPages = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fleetfix_telemetry_pages_total",
			Help: "Total number of telemetry pages fetched",
		},
	)

	// DatabaseQueryDuration measures store query latency
	DatabaseQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fleetfix_database_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// InitMetrics registers Prometheus metrics
func InitMetrics() {
	prometheus.MustRegister(StatusEvaluations)
	prometheus.MustRegister(SyncRuns)
	prometheus.MustRegister(SyncFailures)
	prometheus.MustRegister(VehiclesUpdated)
	prometheus.MustRegister(TelemetryPages)
	prometheus.MustRegister(DatabaseQueryDuration)
}

// MetricsHandler returns the HTTP handler for Prometheus metrics
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

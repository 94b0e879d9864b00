// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Ingestion metrics
	PricePointsIngested *prometheus.CounterVec
	RowsRejected        *prometheus.CounterVec
	IngestionErrors     *prometheus.CounterVec

	// Pipeline metrics
	PipelineRunsTotal  *prometheus.CounterVec
	PipelineDuration   *prometheus.HistogramVec
	ReturnsDropped     *prometheus.CounterVec
	LagsScanned        prometheus.Counter
	RegressionFailures prometheus.Counter
	ReportsGenerated   prometheus.Counter
	BestLag            prometheus.Gauge
	BestLagRSquared    prometheus.Gauge

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "volatility_shock_lab"
	}

	return &Metrics{
		// Ingestion metrics
		PricePointsIngested: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "price_points_ingested_total",
			Help:      "Total number of daily closes ingested by symbol",
		}, []string{"symbol"}),
		RowsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "rows_rejected_total",
			Help:      "Total number of malformed CSV rows rejected by symbol",
		}, []string{"symbol"}),
		IngestionErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "errors_total",
			Help:      "Total number of ingestion errors by type",
		}, []string{"error_type"}),

		// Pipeline metrics
		PipelineRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline phase executions by status",
		}, []string{"phase", "status"}),
		PipelineDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Pipeline phase duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"phase"}),
		ReturnsDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "returns_dropped_total",
			Help:      "Total number of undefined monthly returns dropped by symbol",
		}, []string{"symbol"}),
		LagsScanned: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "lags_scanned_total",
			Help:      "Total number of lags scanned",
		}),
		RegressionFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "regression_failures_total",
			Help:      "Total number of per-lag regression failures",
		}),
		ReportsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "reports_generated_total",
			Help:      "Total number of reports generated",
		}),
		BestLag: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "best_lag",
			Help:      "Best lag by R-squared from the most recent scan",
		}),
		BestLagRSquared: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "best_lag_r_squared",
			Help:      "R-squared at the best lag from the most recent scan",
		}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Health metrics
		LastSuccessfulRun: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of last successful pipeline run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordIngested increments the ingested points counter for a symbol.
func RecordIngested(symbol string, points, rejected int) {
	DefaultMetrics.PricePointsIngested.WithLabelValues(symbol).Add(float64(points))
	DefaultMetrics.RowsRejected.WithLabelValues(symbol).Add(float64(rejected))
}

// RecordIngestionError records an ingestion error.
func RecordIngestionError(errorType string) {
	DefaultMetrics.IngestionErrors.WithLabelValues(errorType).Inc()
}

// RecordPhase records one pipeline phase execution.
func RecordPhase(phase, status string, durationSeconds float64) {
	DefaultMetrics.PipelineRunsTotal.WithLabelValues(phase, status).Inc()
	DefaultMetrics.PipelineDuration.WithLabelValues(phase).Observe(durationSeconds)
}

// RecordReturnsDropped counts undefined monthly returns dropped for a symbol.
func RecordReturnsDropped(symbol string, n int) {
	DefaultMetrics.ReturnsDropped.WithLabelValues(symbol).Add(float64(n))
}

// RecordScan records scan totals and the best-lag outcome.
func RecordScan(lags, failures, bestLag int, bestRSquared float64) {
	DefaultMetrics.LagsScanned.Add(float64(lags))
	DefaultMetrics.RegressionFailures.Add(float64(failures))
	if bestLag >= 0 {
		DefaultMetrics.BestLag.Set(float64(bestLag))
		DefaultMetrics.BestLagRSquared.Set(bestRSquared)
	}
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// RecordReportGenerated increments the reports generated counter.
func RecordReportGenerated() {
	DefaultMetrics.ReportsGenerated.Inc()
}

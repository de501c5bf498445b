// Package metrics provides Prometheus metrics for the contest roster service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	namespace              = "contest"
	subsystem              = "roster"
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the contest service.
type Manager struct {
	enabled         bool
	refreshInterval time.Duration
	registry        prometheus.Registerer

	// Roster metrics
	rosterMutations *prometheus.CounterVec
	scoresSubmitted prometheus.Counter
	scoresDuplicate prometheus.Counter

	// Aggregation metrics
	aggregations       prometheus.Counter
	aggregationLatency prometheus.Histogram

	// Session metrics
	sessionsActive  prometheus.Gauge
	sessionsOpened  prometheus.Counter
	sessionsEvicted *prometheus.CounterVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager. Without WithPrometheusRegistry
// the manager registers on a private registry of its own.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		enabled:         true,
		refreshInterval: defaultRefreshInterval,
		registry:        prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// RefreshInterval reports how often gauge updaters should run.
func (m *Manager) RefreshInterval() time.Duration {
	return m.refreshInterval
}

// Enabled reports whether recorders on this manager take effect.
func (m *Manager) Enabled() bool {
	return m.enabled
}

func counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: namespace, Subsystem: subsystem, Name: name, Help: help}
}

func gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: namespace, Subsystem: subsystem, Name: name, Help: help}
}

func histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
		Buckets:   prometheus.DefBuckets,
	}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.rosterMutations = auto.NewCounterVec(
		counterOpts("mutations_total", "Roster mutations by entity and action"),
		[]string{"entity", "action"},
	)
	m.scoresSubmitted = auto.NewCounter(counterOpts("scores_submitted_total", "Score entries appended to session logs"))
	m.scoresDuplicate = auto.NewCounter(counterOpts("scores_duplicate_total", "Score submissions dropped as repeats"))

	m.aggregations = auto.NewCounter(counterOpts("aggregations_total", "Total number of tally computations"))
	m.aggregationLatency = auto.NewHistogram(histogramOpts("aggregation_latency_milliseconds", "Tally computation latency in milliseconds"))

	m.sessionsActive = auto.NewGauge(gaugeOpts("sessions_active", "Sessions currently held in memory"))
	m.sessionsOpened = auto.NewCounter(counterOpts("sessions_opened_total", "Sessions opened"))
	m.sessionsEvicted = auto.NewCounterVec(
		counterOpts("sessions_evicted_total", "Sessions removed by reason"),
		[]string{"reason"},
	)

	m.httpRequests = auto.NewCounterVec(
		counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByType = auto.NewCounterVec(
		counterOpts("errors_by_type_total", "Total number of errors by type and severity"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorLatency = auto.NewHistogramVec(
		histogramOpts("error_latency_milliseconds", "Latency of operations that resulted in errors"),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(gaugeOpts("system_memory_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(gaugeOpts("system_goroutines", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(histogramOpts("system_gc_pause_milliseconds", "Average GC pause in milliseconds"))
}

// Roster Metrics Functions.

// RecordRosterMutation counts an add/update/remove/set on a roster table.
func RecordRosterMutation(entity, action string) {
	if !globalManager.enabled {
		return
	}
	globalManager.rosterMutations.WithLabelValues(entity, action).Inc()
}

// RecordScoreSubmitted increments the appended score counter.
func RecordScoreSubmitted() {
	if !globalManager.enabled {
		return
	}
	globalManager.scoresSubmitted.Inc()
}

// RecordScoreDuplicate increments the repeated submission counter.
func RecordScoreDuplicate() {
	if !globalManager.enabled {
		return
	}
	globalManager.scoresDuplicate.Inc()
}

// Aggregation Metrics Functions.

// RecordAggregation records one tally computation and its latency.
func RecordAggregation(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.aggregations.Inc()
	globalManager.aggregationLatency.Observe(latencyMs)
}

// Session Metrics Functions.

// UpdateActiveSessions sets the number of live sessions.
func UpdateActiveSessions(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.sessionsActive.Set(float64(count))
}

// RecordSessionOpened increments the opened session counter.
func RecordSessionOpened() {
	if !globalManager.enabled {
		return
	}
	globalManager.sessionsOpened.Inc()
}

// RecordSessionEvicted counts a session removal by reason
// ("closed", "idle", "capacity", "shutdown").
func RecordSessionEvicted(reason string) {
	if !globalManager.enabled {
		return
	}
	globalManager.sessionsEvicted.WithLabelValues(reason).Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest increments the request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// Error Metrics Functions.

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// RefreshInterval reports how often the global manager's gauges should be
// refreshed.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

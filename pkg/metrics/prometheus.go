// Package metrics provides Prometheus metrics for the club ranking service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the club service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Ranking metrics
	rankingComputations *prometheus.CounterVec
	rankingLatency      prometheus.Histogram
	rankingEntries      *prometheus.GaugeVec
	rankingQualified    *prometheus.GaugeVec

	// Record store metrics
	storeOperations *prometheus.CounterVec
	storeLatency    *prometheus.HistogramVec
	recordsTotal    *prometheus.GaugeVec

	// Auth metrics
	signInAttempts *prometheus.CounterVec
	signOuts       prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec

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

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "club",
		subsystem:        "ranking",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	constLabels := prometheus.Labels(m.customLabels)

	m.rankingComputations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("computations_total"),
		Help:        "Total number of ranking computations by season",
		ConstLabels: constLabels,
	}, []string{"season"})

	m.rankingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("computation_duration_milliseconds"),
		Help:        "Time to fetch the snapshot and compute a ranking, in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	})

	m.rankingEntries = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("entries"),
		Help:        "Number of entries in the last computed ranking by season",
		ConstLabels: constLabels,
	}, []string{"season"})

	m.rankingQualified = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("qualified_entries"),
		Help:        "Number of qualifying entries in the last computed ranking by season",
		ConstLabels: constLabels,
	}, []string{"season"})

	m.storeOperations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("store_operations_total"),
		Help:        "Record store operations by operation and outcome",
		ConstLabels: constLabels,
	}, []string{"operation", "outcome"})

	m.storeLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("store_operation_duration_milliseconds"),
		Help:        "Record store operation latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	}, []string{"operation"})

	m.recordsTotal = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("records"),
		Help:        "Number of stored records by kind",
		ConstLabels: constLabels,
	}, []string{"kind"})

	m.signInAttempts = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("sign_in_attempts_total"),
		Help:        "Admin sign-in attempts by outcome",
		ConstLabels: constLabels,
	}, []string{"outcome"})

	m.signOuts = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("sign_outs_total"),
		Help:        "Admin sign-outs",
		ConstLabels: constLabels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_requests_total"),
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_request_duration_milliseconds"),
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("errors_by_endpoint_total"),
		Help:        "HTTP errors by endpoint, method and error type",
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "error_type"})

	m.errorRateByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("errors_by_type_total"),
		Help:        "Errors by type and severity",
		ConstLabels: constLabels,
	}, []string{"error_type", "severity"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_memory_usage_bytes"),
		Help:        "System memory usage in bytes",
		ConstLabels: constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_goroutine_count"),
		Help:        "Number of goroutines",
		ConstLabels: constLabels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_gc_pause_time_milliseconds"),
		Help:        "GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: constLabels,
	})
}

// seasonLabel renders a season for use as a label value; 0 means every season.
func seasonLabel(season int) string {
	if season <= 0 {
		return "all"
	}
	return strconv.Itoa(season)
}

// RecordRankingComputation counts one ranking computation and its latency.
func (m *Manager) RecordRankingComputation(season int, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.rankingComputations.WithLabelValues(seasonLabel(season)).Inc()
	m.rankingLatency.Observe(latencyMs)
}

// UpdateRankingSize records the size of the last computed ranking.
func (m *Manager) UpdateRankingSize(season, entries, qualified int) {
	if !m.enabled {
		return
	}
	label := seasonLabel(season)
	m.rankingEntries.WithLabelValues(label).Set(float64(entries))
	m.rankingQualified.WithLabelValues(label).Set(float64(qualified))
}

// RecordStoreOperation records a store call outcome ("ok", "not_found", "conflict", "error") and latency.
func (m *Manager) RecordStoreOperation(operation, outcome string, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.storeOperations.WithLabelValues(operation, outcome).Inc()
	m.storeLatency.WithLabelValues(operation).Observe(latencyMs)
}

// UpdateRecordCount sets the number of stored records of a kind.
func (m *Manager) UpdateRecordCount(kind string, count int) {
	if !m.enabled {
		return
	}
	m.recordsTotal.WithLabelValues(kind).Set(float64(count))
}

// RecordSignIn counts an admin sign-in attempt by outcome.
func (m *Manager) RecordSignIn(outcome string) {
	if !m.enabled {
		return
	}
	m.signInAttempts.WithLabelValues(outcome).Inc()
}

// RecordSignOut counts an admin sign-out.
func (m *Manager) RecordSignOut() {
	if !m.enabled {
		return
	}
	m.signOuts.Inc()
}

// RecordHTTPRequest counts an HTTP request.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPError counts an HTTP error by endpoint and by type.
func (m *Manager) RecordHTTPError(endpoint, method, errorType, severity string) {
	if !m.enabled {
		return
	}
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	m.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RefreshInterval is how often system gauges should be sampled.
func (m *Manager) RefreshInterval() time.Duration {
	return m.refreshInterval
}

// UpdateSystem records memory usage, goroutine count and average GC pause.
func (m *Manager) UpdateSystem(memBytes uint64, goroutines int, gcPauseMs float64) {
	if !m.enabled {
		return
	}
	m.systemMemoryUsage.Set(float64(memBytes))
	m.systemGoroutineCount.Set(float64(goroutines))
	if gcPauseMs > 0 {
		m.systemGCPauseTime.Observe(gcPauseMs)
	}
}

// Package-level helpers delegate to the global manager.

// RefreshInterval returns the global manager's system sampling interval.
func RefreshInterval() time.Duration {
	return globalManager.RefreshInterval()
}

// RecordRankingComputation counts one ranking computation on the global manager.
func RecordRankingComputation(season int, latencyMs float64) {
	globalManager.RecordRankingComputation(season, latencyMs)
}

// UpdateRankingSize records the size of the last computed ranking on the global manager.
func UpdateRankingSize(season, entries, qualified int) {
	globalManager.UpdateRankingSize(season, entries, qualified)
}

// RecordStoreOperation records a store call on the global manager.
func RecordStoreOperation(operation, outcome string, latencyMs float64) {
	globalManager.RecordStoreOperation(operation, outcome, latencyMs)
}

// UpdateRecordCount sets a record count on the global manager.
func UpdateRecordCount(kind string, count int) {
	globalManager.UpdateRecordCount(kind, count)
}

// RecordSignIn counts a sign-in attempt on the global manager.
func RecordSignIn(outcome string) {
	globalManager.RecordSignIn(outcome)
}

// RecordSignOut counts a sign-out on the global manager.
func RecordSignOut() {
	globalManager.RecordSignOut()
}

// RecordHTTPRequest counts an HTTP request on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordHTTPError counts an HTTP error on the global manager.
func RecordHTTPError(endpoint, method, errorType, severity string) {
	globalManager.RecordHTTPError(endpoint, method, errorType, severity)
}

// UpdateSystem records system metrics on the global manager.
func UpdateSystem(memBytes uint64, goroutines int, gcPauseMs float64) {
	globalManager.UpdateSystem(memBytes, goroutines, gcPauseMs)
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

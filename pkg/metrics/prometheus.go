// Package metrics provides Prometheus metrics for the interview analytics
// pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the pipeline.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Session analysis metrics
	sessionsAnalyzed  prometheus.Counter
	sessionsDuplicate prometheus.Counter
	analysisFailures  *prometheus.CounterVec
	analysisLatency   prometheus.Histogram

	// Aggregation metrics
	refreshRuns        prometheus.Counter
	refreshErrors      prometheus.Counter
	refreshLatency     prometheus.Histogram
	snapshotsPublished prometheus.Counter
	watcherCount       prometheus.Gauge

	// Record store metrics
	storeWrites       prometheus.Counter
	storeErrors       prometheus.Counter
	storeQueryLatency prometheus.Histogram
	changesPublished  prometheus.Counter
	changesCoalesced  prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "mockinterview",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.sessionsAnalyzed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_analyzed_total",
		Help:      "Total number of interview sessions analyzed successfully",
	})

	m.sessionsDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_duplicate_total",
		Help:      "Total number of duplicate session submissions detected",
	})

	m.analysisFailures = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "analysis_failures_total",
			Help:      "Total number of failed session analyses by reason",
		},
		[]string{"reason"},
	)

	m.analysisLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "analysis_latency_milliseconds",
		Help:      "Histogram of full session analysis latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.refreshRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_runs_total",
		Help:      "Total number of analytics recomputations",
	})

	m.refreshErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_errors_total",
		Help:      "Total number of analytics recomputations that failed",
	})

	m.refreshLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_latency_milliseconds",
		Help:      "Histogram of analytics recomputation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.snapshotsPublished = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshots_published_total",
		Help:      "Total number of analytics snapshots delivered to observers",
	})

	m.watcherCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "watcher_count",
		Help:      "Current number of record-store watchers",
	})

	m.storeWrites = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_writes_total",
		Help:      "Total number of record-store writes",
	})

	m.storeErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_errors_total",
		Help:      "Total number of record-store operation failures",
	})

	m.storeQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_query_latency_milliseconds",
		Help:      "Record-store window query latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.changesPublished = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "changes_published_total",
		Help:      "Total number of change events delivered to watchers",
	})

	m.changesCoalesced = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "changes_coalesced_total",
		Help:      "Total number of change events merged into a pending one",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current heap allocation in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})
}

// Session analysis metric functions.

// RecordSessionAnalyzed increments the analyzed-session counter.
func RecordSessionAnalyzed() {
	globalManager.sessionsAnalyzed.Inc()
}

// RecordSessionDuplicate increments the duplicate-submission counter.
func RecordSessionDuplicate() {
	globalManager.sessionsDuplicate.Inc()
}

// RecordAnalysisFailure increments the failure counter for a reason.
func RecordAnalysisFailure(reason string) {
	globalManager.analysisFailures.WithLabelValues(reason).Inc()
}

// RecordAnalysisLatency records one full analysis duration.
func RecordAnalysisLatency(latencyMs float64) {
	globalManager.analysisLatency.Observe(latencyMs)
}

// Aggregation metric functions.

// RecordRefreshRun increments the recomputation counter.
func RecordRefreshRun() {
	globalManager.refreshRuns.Inc()
}

// RecordRefreshError increments the failed-recomputation counter.
func RecordRefreshError() {
	globalManager.refreshErrors.Inc()
}

// RecordRefreshLatency records one recomputation duration.
func RecordRefreshLatency(latencyMs float64) {
	globalManager.refreshLatency.Observe(latencyMs)
}

// RecordSnapshotPublished increments the published-snapshot counter.
func RecordSnapshotPublished() {
	globalManager.snapshotsPublished.Inc()
}

// UpdateWatcherCount sets the current number of store watchers.
func UpdateWatcherCount(count int) {
	globalManager.watcherCount.Set(float64(count))
}

// Record store metric functions.

// RecordStoreWrite increments the store write counter.
func RecordStoreWrite() {
	globalManager.storeWrites.Inc()
}

// RecordStoreError increments the store error counter.
func RecordStoreError() {
	globalManager.storeErrors.Inc()
}

// RecordStoreQueryLatency records one window query duration.
func RecordStoreQueryLatency(latencyMs float64) {
	globalManager.storeQueryLatency.Observe(latencyMs)
}

// RecordChangePublished increments the delivered-change counter.
func RecordChangePublished() {
	globalManager.changesPublished.Inc()
}

// RecordChangeCoalesced increments the merged-change counter.
func RecordChangeCoalesced() {
	globalManager.changesCoalesced.Inc()
}

// HTTP metric functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// System metric functions.

// UpdateSystemMemoryUsage sets the heap allocation in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

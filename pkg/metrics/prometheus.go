// Package metrics provides Prometheus metrics for the peloton league service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Evaluation Metrics - what the league is made of
	ridersEvaluated   *prometheus.CounterVec
	evaluationLatency prometheus.Histogram
	evaluationErrors  prometheus.Counter
	ridersTotal       prometheus.Gauge
	ridersUnrated     prometheus.Gauge
	ridersByArchetype *prometheus.GaugeVec

	// Dataset Metrics - table loading and reloads
	datasetReloads      *prometheus.CounterVec
	datasetLoadDuration prometheus.Histogram
	datasetLastLoadUnix prometheus.Gauge
	duplicatesDropped   *prometheus.CounterVec

	// Archive Metrics - news and signups
	archiveWrites *prometheus.CounterVec
	rateLimited   *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Repository Metrics - ranking store
	repositoryRecordsTotal  prometheus.Gauge
	repositoryRankedTotal   prometheus.Gauge
	repositoryUpdateLatency prometheus.Histogram
	repositoryQueryLatency  prometheus.Histogram

	// Queue Metrics
	queueSize              prometheus.Gauge
	queueCapacity          prometheus.Gauge
	queueUtilization       prometheus.Gauge
	queueEnqueueTotal      prometheus.Counter
	queueEnqueueErrors     prometheus.Counter
	queueProcessingLatency prometheus.Histogram

	// Worker Metrics
	workerActiveCount       prometheus.Gauge
	workerIdleCount         prometheus.Gauge
	workerMessagesPerSecond prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Error Metrics
	errorsByComponent *prometheus.CounterVec
	errorsByType      *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "peloton",
		subsystem:        "league",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	msBuckets := []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}

	// Evaluation Metrics
	m.ridersEvaluated = auto.NewCounterVec(
		m.counterOpts("riders_evaluated_total", "Total number of riders evaluated by archetype"),
		[]string{"archetype"},
	)
	m.evaluationLatency = auto.NewHistogram(
		m.histogramOpts("evaluation_latency_seconds", "Histogram of rider evaluation latency in seconds", m.histogramBuckets),
	)
	m.evaluationErrors = auto.NewCounter(
		m.counterOpts("evaluation_errors_total", "Total number of rider evaluations that failed"),
	)
	m.ridersTotal = auto.NewGauge(
		m.gaugeOpts("riders", "Number of riders in the loaded dataset"),
	)
	m.ridersUnrated = auto.NewGauge(
		m.gaugeOpts("riders_unrated", "Number of riders without a single numeric stat"),
	)
	m.ridersByArchetype = auto.NewGaugeVec(
		m.gaugeOpts("riders_by_archetype", "Number of riders per archetype in the loaded dataset"),
		[]string{"archetype"},
	)

	// Dataset Metrics
	m.datasetReloads = auto.NewCounterVec(
		m.counterOpts("dataset_reloads_total", "Total number of dataset reloads by result"),
		[]string{"result"},
	)
	m.datasetLoadDuration = auto.NewHistogram(
		m.histogramOpts("dataset_load_duration_seconds", "Time spent reading the league tables", m.histogramBuckets),
	)
	m.datasetLastLoadUnix = auto.NewGauge(
		m.gaugeOpts("dataset_last_load_unix", "Unix timestamp of the last successful dataset load"),
	)
	m.duplicatesDropped = auto.NewCounterVec(
		m.counterOpts("duplicates_dropped_total", "Total number of rows dropped for a repeated id"),
		[]string{"table"},
	)

	// Archive Metrics
	m.archiveWrites = auto.NewCounterVec(
		m.counterOpts("archive_writes_total", "Total number of news and signup writes by result"),
		[]string{"kind", "result"},
	)
	m.rateLimited = auto.NewCounterVec(
		m.counterOpts("rate_limited_total", "Total number of requests refused by the rate limiter"),
		[]string{"endpoint"},
	)

	// HTTP Performance Metrics
	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", msBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	// Repository Metrics
	m.repositoryRecordsTotal = auto.NewGauge(
		m.gaugeOpts("repository_records_total", "Number of riders held by the ranking store"),
	)
	m.repositoryRankedTotal = auto.NewGauge(
		m.gaugeOpts("repository_ranked_total", "Number of rated riders on the leaderboard"),
	)
	m.repositoryUpdateLatency = auto.NewHistogram(
		m.histogramOpts("repository_update_latency_milliseconds", "Ranking store update latency in milliseconds", msBuckets),
	)
	m.repositoryQueryLatency = auto.NewHistogram(
		m.histogramOpts("repository_query_latency_milliseconds", "Ranking store query latency in milliseconds", msBuckets),
	)

	// Queue Metrics
	m.queueSize = auto.NewGauge(
		m.gaugeOpts("queue_size", "Current number of riders waiting for evaluation"),
	)
	m.queueCapacity = auto.NewGauge(
		m.gaugeOpts("queue_capacity", "Maximum queue capacity"),
	)
	m.queueUtilization = auto.NewGauge(
		m.gaugeOpts("queue_utilization_ratio", "Queue utilization ratio (current size / capacity)"),
	)
	m.queueEnqueueTotal = auto.NewCounter(
		m.counterOpts("queue_enqueue_total", "Total number of jobs enqueued"),
	)
	m.queueEnqueueErrors = auto.NewCounter(
		m.counterOpts("queue_enqueue_errors_total", "Total number of jobs the queue refused"),
	)
	m.queueProcessingLatency = auto.NewHistogram(
		m.histogramOpts("queue_processing_latency_milliseconds", "Enqueue latency in milliseconds", msBuckets),
	)

	// Worker Metrics
	m.workerActiveCount = auto.NewGauge(
		m.gaugeOpts("worker_active_count", "Number of running workers"),
	)
	m.workerIdleCount = auto.NewGauge(
		m.gaugeOpts("worker_idle_count", "Number of idle workers"),
	)
	m.workerMessagesPerSecond = auto.NewGauge(
		m.gaugeOpts("worker_messages_per_second", "Riders evaluated per second across the pool"),
	)
	m.workerProcessingLatency = auto.NewHistogram(
		m.histogramOpts("worker_processing_latency_milliseconds", "Worker job latency in milliseconds", msBuckets),
	)
	m.workerErrors = auto.NewCounter(
		m.counterOpts("worker_errors_total", "Total number of worker job failures"),
	)

	// Error Metrics
	m.errorsByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Errors by component and type"),
		[]string{"component", "error_type"},
	)
	m.errorsByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"},
	)
	m.errorsByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by endpoint, method and type"),
		[]string{"endpoint", "method", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(
		m.gaugeOpts("system_memory_usage_bytes", "Heap memory in use in bytes"),
	)
	m.systemGoroutineCount = auto.NewGauge(
		m.gaugeOpts("system_goroutine_count", "Number of goroutines"),
	)
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_milliseconds", "Last GC pause in milliseconds", msBuckets),
	)
}

// Evaluation Metrics Functions.

// RecordRiderEvaluated counts an evaluated rider under its archetype.
func RecordRiderEvaluated(archetype string) {
	globalManager.ridersEvaluated.WithLabelValues(archetype).Inc()
}

// RecordEvaluationLatency records the time spent evaluating one rider.
func RecordEvaluationLatency(seconds float64) {
	globalManager.evaluationLatency.Observe(seconds)
}

// RecordEvaluationError increments the failed evaluation counter.
func RecordEvaluationError() {
	globalManager.evaluationErrors.Inc()
}

// UpdateRidersTotal sets the number of riders in the dataset.
func UpdateRidersTotal(count int) {
	globalManager.ridersTotal.Set(float64(count))
}

// UpdateRidersUnrated sets the number of unrated riders.
func UpdateRidersUnrated(count int) {
	globalManager.ridersUnrated.Set(float64(count))
}

// UpdateRidersByArchetype sets the number of riders of one archetype.
func UpdateRidersByArchetype(archetype string, count int) {
	globalManager.ridersByArchetype.WithLabelValues(archetype).Set(float64(count))
}

// Dataset Metrics Functions.

// RecordDatasetReload counts a reload; result is "success" or "error".
func RecordDatasetReload(result string) {
	globalManager.datasetReloads.WithLabelValues(result).Inc()
}

// RecordDatasetLoadDuration records the time spent reading the tables.
func RecordDatasetLoadDuration(seconds float64) {
	globalManager.datasetLoadDuration.Observe(seconds)
}

// UpdateDatasetLastLoad stamps the time of the last successful load.
func UpdateDatasetLastLoad(t time.Time) {
	globalManager.datasetLastLoadUnix.Set(float64(t.Unix()))
}

// RecordDuplicatesDropped adds n dropped rows for table.
func RecordDuplicatesDropped(table string, n int) {
	if n > 0 {
		globalManager.duplicatesDropped.WithLabelValues(table).Add(float64(n))
	}
}

// Archive Metrics Functions.

// RecordArchiveWrite counts a news or signup write.
func RecordArchiveWrite(kind, result string) {
	globalManager.archiveWrites.WithLabelValues(kind, result).Inc()
}

// RecordRateLimited counts a request refused by the rate limiter.
func RecordRateLimited(endpoint string) {
	globalManager.rateLimited.WithLabelValues(endpoint).Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Repository Metrics Functions.

// UpdateRepositoryRecordsTotal sets the number of stored riders.
func UpdateRepositoryRecordsTotal(count int) {
	globalManager.repositoryRecordsTotal.Set(float64(count))
}

// UpdateRepositoryRankedTotal sets the number of ranked riders.
func UpdateRepositoryRankedTotal(count int) {
	globalManager.repositoryRankedTotal.Set(float64(count))
}

// RecordRepositoryUpdateLatency records update latency in milliseconds.
func RecordRepositoryUpdateLatency(latencyMs float64) {
	globalManager.repositoryUpdateLatency.Observe(latencyMs)
}

// RecordRepositoryQueryLatency records query latency in milliseconds.
func RecordRepositoryQueryLatency(latencyMs float64) {
	globalManager.repositoryQueryLatency.Observe(latencyMs)
}

// Queue Metrics Functions.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueueTotal.Inc()
}

// RecordQueueEnqueueError increments the refused enqueue counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordQueueProcessingLatency records enqueue latency in milliseconds.
func RecordQueueProcessingLatency(latencyMs float64) {
	globalManager.queueProcessingLatency.Observe(latencyMs)
}

// Worker Metrics Functions.

// UpdateWorkerActiveCount sets the number of running workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// UpdateWorkerIdleCount sets the number of idle workers.
func UpdateWorkerIdleCount(count int) {
	globalManager.workerIdleCount.Set(float64(count))
}

// UpdateWorkerMessagesPerSecond sets the pool throughput.
func UpdateWorkerMessagesPerSecond(rate float64) {
	globalManager.workerMessagesPerSecond.Set(rate)
}

// RecordWorkerProcessingLatency records job latency in milliseconds.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// Error Metrics Functions.

// RecordErrorByComponent records an error by component and type.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorsByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error by endpoint and method.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System Metrics Functions.

// UpdateSystemMemoryUsage sets heap memory in use.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records a GC pause in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

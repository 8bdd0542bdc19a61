// Package metrics provides Prometheus metrics for the growthdash service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Latency buckets in milliseconds. The predictor is in-process, so most
// calls land well under a millisecond; the upper buckets catch timeouts.
var defaultLatencyBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500} //nolint:gochecknoglobals // read-only defaults

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Forecast metrics
	predictions      *prometheus.CounterVec
	predictorCalls   *prometheus.CounterVec
	predictorLatency prometheus.Histogram
	sweepLatency     prometheus.Histogram
	outlooks         *prometheus.CounterVec
	headlineGrowth   prometheus.Histogram

	// Recommendation metrics
	recommendations *prometheus.CounterVec

	// Cache metrics
	cacheRequests *prometheus.CounterVec

	// Reference data and model
	referenceSkills     prometheus.Gauge
	referenceIndustries prometheus.Gauge
	modelInfo           *prometheus.GaugeVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec

	// System Performance Metrics
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
		namespace:        "growthdash",
		subsystem:        "api",
		histogramBuckets: defaultLatencyBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.constLabels)

	m.predictions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "predictions_total",
		Help:        "Prediction requests by outcome (ok, invalid_input, failed)",
		ConstLabels: labels,
	}, []string{"outcome"})

	m.predictorCalls = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "predictor_calls_total",
		Help:        "Individual predictor invocations by outcome",
		ConstLabels: labels,
	}, []string{"outcome"})

	m.predictorLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "predictor_latency_milliseconds",
		Help:        "Latency of a single predictor invocation in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.sweepLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "sweep_latency_milliseconds",
		Help:        "Latency of a full four-quarter sweep in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.outlooks = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "outlooks_total",
		Help:        "Forecast outlooks by level (promising, moderate)",
		ConstLabels: labels,
	}, []string{"level"})

	m.headlineGrowth = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "headline_growth_rate_percent",
		Help:        "Distribution of headline predicted growth rates",
		Buckets:     prometheus.LinearBuckets(-10, 2, 16),
		ConstLabels: labels,
	})

	m.recommendations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "recommendations_total",
		Help:        "Skill recommendation requests by outcome (matched, empty_industry, empty_field)",
		ConstLabels: labels,
	}, []string{"outcome"})

	m.cacheRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "prediction_cache_requests_total",
		Help:        "Prediction cache lookups by result (hit, miss, error)",
		ConstLabels: labels,
	}, []string{"result"})

	m.referenceSkills = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "reference_skills",
		Help:        "Number of skill rows loaded into the reference store",
		ConstLabels: labels,
	})

	m.referenceIndustries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "reference_industries",
		Help:        "Number of distinct industries in the reference store",
		ConstLabels: labels,
	})

	m.modelInfo = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "model_info",
		Help:        "Loaded prediction pipeline; value is always 1",
		ConstLabels: labels,
	}, []string{"name", "version"})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_request_duration_milliseconds",
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "errors_by_type_total",
			Help:        "Total errors by type and severity",
			ConstLabels: labels,
		},
		[]string{"error_type", "severity"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "errors_by_endpoint_total",
			Help:        "Total errors by HTTP endpoint",
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_memory_usage_bytes",
		Help:        "System memory usage in bytes",
		ConstLabels: labels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_goroutine_count",
		Help:        "Number of goroutines",
		ConstLabels: labels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_gc_pause_time_milliseconds",
		Help:        "GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: labels,
	})
}

// RecordPrediction counts a prediction request by outcome.
func RecordPrediction(outcome string) {
	globalManager.predictions.WithLabelValues(outcome).Inc()
}

// RecordPredictorCall counts one predictor invocation and its latency.
func RecordPredictorCall(outcome string, latencyMs float64) {
	globalManager.predictorCalls.WithLabelValues(outcome).Inc()
	globalManager.predictorLatency.Observe(latencyMs)
}

// RecordSweepLatency records the latency of a full sweep in milliseconds.
func RecordSweepLatency(latencyMs float64) {
	globalManager.sweepLatency.Observe(latencyMs)
}

// RecordOutlook counts a forecast outlook and observes its headline value.
func RecordOutlook(level string, headline float64) {
	globalManager.outlooks.WithLabelValues(level).Inc()
	globalManager.headlineGrowth.Observe(headline)
}

// RecordRecommendation counts a recommendation request by outcome.
func RecordRecommendation(outcome string) {
	globalManager.recommendations.WithLabelValues(outcome).Inc()
}

// RecordCacheResult counts a prediction cache lookup.
func RecordCacheResult(result string) {
	globalManager.cacheRequests.WithLabelValues(result).Inc()
}

// UpdateReferenceData sets the reference store gauges.
func UpdateReferenceData(skills, industries int) {
	globalManager.referenceSkills.Set(float64(skills))
	globalManager.referenceIndustries.Set(float64(industries))
}

// SetModelInfo publishes the loaded pipeline identity.
func SetModelInfo(name, version string) {
	globalManager.modelInfo.Reset()
	globalManager.modelInfo.WithLabelValues(name, version).Set(1)
}

// RecordHTTPRequest increments the HTTP requests counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error by HTTP endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage updates the system memory usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount updates the goroutine count gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom registry for metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

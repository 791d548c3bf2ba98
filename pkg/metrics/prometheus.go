// Package metrics provides Prometheus metrics for the senstune analysis pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for a senstune run.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Index Metrics - level discovery and archive handling
	levelsIndexed      prometheus.Counter
	duplicateLevels    prometheus.Counter
	archiveExtractions prometheus.Counter
	indexErrors        prometheus.Counter

	// Batch Metrics - replay throughput and data yield
	replaysAnalyzed prometheus.Counter
	replaysSkipped  *prometheus.CounterVec
	radialSamples   prometheus.Counter
	biasSamples     prometheus.Counter
	analyzeDuration prometheus.Histogram
	bucketCount     prometheus.Gauge
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
		namespace:        "senstune",
		subsystem:        "analysis",
		histogramBuckets: prometheus.DefBuckets,
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
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	m.levelsIndexed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "levels_indexed_total",
		Help:      "Total number of distinct level fingerprints indexed",
	})

	m.duplicateLevels = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "levels_duplicate_total",
		Help:      "Total number of level candidates ignored because their fingerprint was already indexed",
	})

	m.archiveExtractions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "archive_extractions_total",
		Help:      "Total number of archive members materialized to the extraction cache",
	})

	m.indexErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "index_errors_total",
		Help:      "Total number of unreadable files or corrupt archives skipped during indexing",
	})

	m.replaysAnalyzed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "replays_analyzed_total",
		Help:      "Total number of replays analyzed to completion",
	})

	m.replaysSkipped = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "replays_skipped_total",
			Help:      "Total number of replays skipped, by reason",
		},
		[]string{"reason"},
	)

	m.radialSamples = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "radial_samples_total",
		Help:      "Total number of radial-error samples collected",
	})

	m.biasSamples = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "bias_samples_total",
		Help:      "Total number of directional-bias samples collected",
	})

	m.analyzeDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "analyze_duration_milliseconds",
		Help:      "Histogram of per-replay analysis duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.bucketCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sensitivity_buckets",
		Help:      "Number of distinct sensitivity values accumulating samples",
	})
}

// RecordLevelIndexed increments the indexed levels counter.
func RecordLevelIndexed() {
	globalManager.levelsIndexed.Inc()
}

// RecordDuplicateLevel increments the duplicate fingerprint counter.
func RecordDuplicateLevel() {
	globalManager.duplicateLevels.Inc()
}

// RecordArchiveExtraction increments the extraction counter.
func RecordArchiveExtraction() {
	globalManager.archiveExtractions.Inc()
}

// RecordIndexError increments the indexing error counter.
func RecordIndexError() {
	globalManager.indexErrors.Inc()
}

// RecordReplayAnalyzed increments the analyzed replays counter.
func RecordReplayAnalyzed() {
	globalManager.replaysAnalyzed.Inc()
}

// RecordReplaySkipped increments the skipped replays counter for a reason.
func RecordReplaySkipped(reason string) {
	globalManager.replaysSkipped.WithLabelValues(reason).Inc()
}

// RecordSamples adds one replay's sample yield to the counters.
func RecordSamples(radial, bias int) {
	globalManager.radialSamples.Add(float64(radial))
	globalManager.biasSamples.Add(float64(bias))
}

// RecordAnalyzeDuration records one replay's analysis duration in milliseconds.
func RecordAnalyzeDuration(ms float64) {
	globalManager.analyzeDuration.Observe(ms)
}

// UpdateBucketCount sets the number of active sensitivity buckets.
func UpdateBucketCount(count int) {
	globalManager.bucketCount.Set(float64(count))
}

// GetRegistry returns the custom registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package metrics provides Prometheus metrics for the roster pipeline.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run outcomes used as the "outcome" label of runs_total.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Manager owns the Prometheus collectors for one registry.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         *prometheus.Registry

	// Loader
	recordsLoaded prometheus.Counter
	parseErrors   *prometheus.CounterVec
	loadDuration  prometheus.Histogram

	// Pipeline
	runs             *prometheus.CounterVec
	pipelineDuration prometheus.Histogram

	// Last computed aggregates
	scoreAverage prometheus.Gauge
	scoreMaximum prometheus.Gauge
	scoreMinimum prometheus.Gauge
	scoreStdDev  prometheus.Gauge
	topN         prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Initialize global metrics on a private registry so Go runtime collectors stay out.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager()
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "roster",
		subsystem:        "pipeline",
		histogramBuckets: []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500, 1000, 5000},
		constLabels:      map[string]string{},
		registry:         prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.recordsLoaded = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "records_loaded_total",
		Help:        "Total number of student records parsed from input",
		ConstLabels: m.constLabels,
	})

	m.parseErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "parse_errors_total",
		Help:        "Total number of input failures by kind (io, parse)",
		ConstLabels: m.constLabels,
	}, []string{"kind"})

	m.loadDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "load_duration_milliseconds",
		Help:        "Time spent reading and parsing the input file",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.runs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "runs_total",
		Help:        "Total number of pipeline runs by outcome",
		ConstLabels: m.constLabels,
	}, []string{"outcome"})

	m.pipelineDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "duration_milliseconds",
		Help:        "End-to-end pipeline duration",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.scoreAverage = m.gauge(auto, "score_average", "Average score of the last run")
	m.scoreMaximum = m.gauge(auto, "score_maximum", "Highest score of the last run")
	m.scoreMinimum = m.gauge(auto, "score_minimum", "Lowest score of the last run")
	m.scoreStdDev = m.gauge(auto, "score_standard_deviation", "Sample standard deviation of scores in the last run")
	m.topN = m.gauge(auto, "top_performers", "Number of top performers reported by the last run")
}

func (m *Manager) gauge(auto promauto.Factory, name, help string) prometheus.Gauge {
	return auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

// RecordRecordsLoaded adds n parsed records.
func (m *Manager) RecordRecordsLoaded(n int) { m.recordsLoaded.Add(float64(n)) }

// RecordParseError counts an input failure of the given kind.
func (m *Manager) RecordParseError(kind string) { m.parseErrors.WithLabelValues(kind).Inc() }

// RecordLoadDuration observes load latency in milliseconds.
func (m *Manager) RecordLoadDuration(ms float64) { m.loadDuration.Observe(ms) }

// RecordRun counts a finished run and observes its latency in milliseconds.
func (m *Manager) RecordRun(outcome string, ms float64) {
	m.runs.WithLabelValues(outcome).Inc()
	m.pipelineDuration.Observe(ms)
}

// UpdateSummary publishes the aggregates of the last run.
func (m *Manager) UpdateSummary(avg, maxScore, minScore, stddev float64, top int) {
	m.scoreAverage.Set(avg)
	m.scoreMaximum.Set(maxScore)
	m.scoreMinimum.Set(minScore)
	m.scoreStdDev.Set(stddev)
	m.topN.Set(float64(top))
}

// Registry returns the registry backing this manager.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// WriteTextfile writes every metric in text exposition format to path,
// for pickup by the node_exporter textfile collector.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	return nil
}

// Default returns the process-wide manager.
func Default() *Manager { return globalManager }

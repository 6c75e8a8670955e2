package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Defaults applied by NewManager.
const (
	DefaultNamespace = "kudos"
	DefaultSubsystem = "engine"
)

// DefaultStageBuckets are the stage duration buckets in milliseconds.
var DefaultStageBuckets = []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500, 1000, 5000}

// Pipeline stages observed by StageDuration.
const (
	StageParse      = "parse"
	StageAggregate  = "aggregate"
	StageViews      = "views"
	StagePopulation = "population"
	StageAnalyze    = "analyze"
	StageCompare    = "compare"
)

// Manager manages all Prometheus metrics for the engine.
type Manager struct {
	namespace    string
	subsystem    string
	stageBuckets []float64
	enabled      bool
	constLabels  prometheus.Labels
	registry     *prometheus.Registry

	// Award records
	recordsParsed    prometheus.Counter
	recordsDiscarded prometheus.Counter
	uniqueTitles     *prometheus.GaugeVec
	populationPoint  prometheus.Gauge

	// Classification runs
	runsAnalyzed       prometheus.Counter
	classifications    *prometheus.CounterVec
	subcategoryFormats *prometheus.CounterVec
	runMalformedRate   *prometheus.GaugeVec
	runSuccessRate     *prometheus.GaugeVec
	taxonomyFallbacks  prometheus.Counter
	comparisonsCreated prometheus.Counter

	// Execution
	stageDuration        *prometheus.HistogramVec
	workerCount          prometheus.Gauge
	workerActive         prometheus.Gauge
	errorRateByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager. Without a registry option the
// metrics go to a fresh private registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:    DefaultNamespace,
		subsystem:    DefaultSubsystem,
		stageBuckets: DefaultStageBuckets,
		enabled:      true,
	}

	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.recordsParsed = auto.NewCounter(m.counterOpts("records_parsed_total",
		"Total number of award records accepted by the parser"))
	m.recordsDiscarded = auto.NewCounter(m.counterOpts("records_discarded_total",
		"Total number of blank award rows discarded by the parser"))
	m.uniqueTitles = auto.NewGaugeVec(m.gaugeOpts("unique_titles",
		"Unique job titles seen in the last award report by role"), []string{"role"})
	m.populationPoint = auto.NewGauge(m.gaugeOpts("population_estimate",
		"Chapman point estimate of the last award report"))

	m.runsAnalyzed = auto.NewCounter(m.counterOpts("runs_analyzed_total",
		"Total number of classification runs analyzed"))
	m.classifications = auto.NewCounterVec(m.counterOpts("classifications_total",
		"Classifications analyzed by validity"), []string{"validity"})
	m.subcategoryFormats = auto.NewCounterVec(m.counterOpts("subcategory_formats_total",
		"Subcategory values by detected format"), []string{"format"})
	m.runMalformedRate = auto.NewGaugeVec(m.gaugeOpts("run_malformed_percent",
		"Malformed classification percentage per run"), []string{"run"})
	m.runSuccessRate = auto.NewGaugeVec(m.gaugeOpts("run_success_percent",
		"Classification success percentage per run"), []string{"run"})
	m.taxonomyFallbacks = auto.NewCounter(m.counterOpts("taxonomy_fallbacks_total",
		"Runs analyzed against the default taxonomy"))
	m.comparisonsCreated = auto.NewCounter(m.counterOpts("comparisons_total",
		"Cross-run comparisons produced"))

	m.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stage_duration_milliseconds",
		Help:        "Duration of each pipeline stage in milliseconds",
		Buckets:     m.stageBuckets,
		ConstLabels: m.constLabels,
	}, []string{"stage"})
	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count",
		"Configured number of run-analysis workers"))
	m.workerActive = auto.NewGauge(m.gaugeOpts("worker_active",
		"Run analyses currently in progress"))
	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts("errors_total",
		"Errors by component and type"), []string{"component", "error_type"})
}

// Registry returns the registry the manager's metrics live in.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// RecordParse adds one parse outcome.
func (m *Manager) RecordParse(accepted, discarded int) {
	if !m.enabled {
		return
	}
	m.recordsParsed.Add(float64(accepted))
	m.recordsDiscarded.Add(float64(discarded))
}

// UpdateUniqueTitles sets the unique title gauge for a role.
func (m *Manager) UpdateUniqueTitles(role string, n int) {
	if !m.enabled {
		return
	}
	m.uniqueTitles.WithLabelValues(role).Set(float64(n))
}

// UpdatePopulationEstimate sets the latest point estimate.
func (m *Manager) UpdatePopulationEstimate(n int) {
	if !m.enabled {
		return
	}
	m.populationPoint.Set(float64(n))
}

// RecordRunAnalyzed records the outcome of one run analysis.
func (m *Manager) RecordRunAnalyzed(run string, valid, malformed int, successRate, malformedRate float64, fallback bool) {
	if !m.enabled {
		return
	}
	m.runsAnalyzed.Inc()
	m.classifications.WithLabelValues("valid").Add(float64(valid))
	m.classifications.WithLabelValues("malformed").Add(float64(malformed))
	m.runSuccessRate.WithLabelValues(run).Set(successRate)
	m.runMalformedRate.WithLabelValues(run).Set(malformedRate)
	if fallback {
		m.taxonomyFallbacks.Inc()
	}
}

// RecordSubcategoryFormat adds n values to a subcategory format bucket.
func (m *Manager) RecordSubcategoryFormat(format string, n int) {
	if !m.enabled {
		return
	}
	m.subcategoryFormats.WithLabelValues(format).Add(float64(n))
}

// RecordComparison increments the comparison counter.
func (m *Manager) RecordComparison() {
	if !m.enabled {
		return
	}
	m.comparisonsCreated.Inc()
}

// ObserveStage records how long a stage took.
func (m *Manager) ObserveStage(stage string, d time.Duration) {
	if !m.enabled {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(float64(d) / float64(time.Millisecond))
}

// UpdateWorkerCount sets the configured worker count.
func (m *Manager) UpdateWorkerCount(n int) {
	if !m.enabled {
		return
	}
	m.workerCount.Set(float64(n))
}

// AddWorkerActive moves the in-progress gauge by delta.
func (m *Manager) AddWorkerActive(delta int) {
	if !m.enabled {
		return
	}
	m.workerActive.Add(float64(delta))
}

// RecordErrorByComponent records an error with component and type labels.
func (m *Manager) RecordErrorByComponent(component, errorType string) {
	if !m.enabled {
		return
	}
	m.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// WriteTextfile writes the registry in the Prometheus text format to path,
// suitable for the node exporter textfile collector.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	return nil
}

// Default returns the global manager.
func Default() *Manager { return globalManager }

// RecordParse records a parse outcome on the global manager.
func RecordParse(accepted, discarded int) { globalManager.RecordParse(accepted, discarded) }

// UpdateUniqueTitles sets a unique title gauge on the global manager.
func UpdateUniqueTitles(role string, n int) { globalManager.UpdateUniqueTitles(role, n) }

// UpdatePopulationEstimate sets the point estimate on the global manager.
func UpdatePopulationEstimate(n int) { globalManager.UpdatePopulationEstimate(n) }

// RecordRunAnalyzed records a run analysis on the global manager.
func RecordRunAnalyzed(run string, valid, malformed int, successRate, malformedRate float64, fallback bool) {
	globalManager.RecordRunAnalyzed(run, valid, malformed, successRate, malformedRate, fallback)
}

// RecordSubcategoryFormat adds to a format bucket on the global manager.
func RecordSubcategoryFormat(format string, n int) { globalManager.RecordSubcategoryFormat(format, n) }

// RecordComparison increments the comparison counter on the global manager.
func RecordComparison() { globalManager.RecordComparison() }

// ObserveStage records a stage duration on the global manager.
func ObserveStage(stage string, d time.Duration) { globalManager.ObserveStage(stage, d) }

// UpdateWorkerCount sets the worker count on the global manager.
func UpdateWorkerCount(n int) { globalManager.UpdateWorkerCount(n) }

// AddWorkerActive moves the in-progress gauge on the global manager.
func AddWorkerActive(delta int) { globalManager.AddWorkerActive(delta) }

// RecordErrorByComponent records an error on the global manager.
func RecordErrorByComponent(component, errorType string) {
	globalManager.RecordErrorByComponent(component, errorType)
}

// WriteTextfile exports the global registry to path.
func WriteTextfile(path string) error { return globalManager.WriteTextfile(path) }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

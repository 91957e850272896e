package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the engine
type Registry struct {
	// Build Metrics
	GraphsBuiltTotal  *prometheus.CounterVec
	BuildDuration     *prometheus.HistogramVec
	GraphStopsTotal   *prometheus.GaugeVec
	GraphEdgesTotal   *prometheus.GaugeVec

	// Evaluation Metrics
	CandidatesGeneratedTotal *prometheus.CounterVec
	EvaluationsTotal         *prometheus.CounterVec
	EvaluationDuration       *prometheus.HistogramVec
	BaselineScoreSeconds     *prometheus.GaugeVec
	EvaluationWorkers        *prometheus.GaugeVec

	// Export Metrics
	ExportsTotal   *prometheus.CounterVec
	SnapshotsTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initBuildMetrics()
	r.initEvaluationMetrics()
	r.initExportMetrics()

	return r
}

// PrometheusRegistry exposes the underlying registry for gathering
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.registry
}

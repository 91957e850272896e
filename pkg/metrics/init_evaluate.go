package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initEvaluationMetrics() {
	r.CandidatesGeneratedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "linescout_candidates_generated_total",
			Help: "Total number of candidate connections generated",
		},
		[]string{"mode"},
	)

	r.EvaluationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "linescout_evaluations_total",
			Help: "Total number of candidate evaluations executed",
		},
		[]string{"mode", "status"},
	)

	r.EvaluationDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "linescout_evaluation_duration_seconds",
			Help:    "Duration of a full candidate batch evaluation in seconds",
			Buckets: []float64{0.1, 0.5, 1.0, 5.0, 30.0, 120.0, 600.0},
		},
		[]string{"mode"},
	)

	r.BaselineScoreSeconds = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "linescout_baseline_score_seconds",
			Help: "Baseline mean shortest-path travel time per mode",
		},
		[]string{"mode"},
	)

	r.EvaluationWorkers = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "linescout_evaluation_workers",
			Help: "Worker pool size used for the mode's candidate batch",
		},
		[]string{"mode"},
	)
}

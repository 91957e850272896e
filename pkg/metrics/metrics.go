package metrics

import (
	"time"
)

// RecordGraphBuild records a graph build with its outcome and duration
func (r *Registry) RecordGraphBuild(mode, status string, stops, edges int, duration time.Duration) {
	r.GraphsBuiltTotal.WithLabelValues(mode, status).Inc()
	r.BuildDuration.WithLabelValues(mode).Observe(duration.Seconds())
	if status == "ok" {
		r.GraphStopsTotal.WithLabelValues(mode).Set(float64(stops))
		r.GraphEdgesTotal.WithLabelValues(mode).Set(float64(edges))
	}
}

// RecordCandidates records the size of a generated candidate batch
func (r *Registry) RecordCandidates(mode string, count int) {
	r.CandidatesGeneratedTotal.WithLabelValues(mode).Add(float64(count))
}

// RecordEvaluation records one candidate batch evaluation
func (r *Registry) RecordEvaluation(mode, status string, candidates int, baselineSeconds float64, duration time.Duration) {
	r.EvaluationsTotal.WithLabelValues(mode, status).Add(float64(candidates))
	r.EvaluationDuration.WithLabelValues(mode).Observe(duration.Seconds())
	if status == "ok" {
		r.BaselineScoreSeconds.WithLabelValues(mode).Set(baselineSeconds)
	}
}

// RecordWorkers records the worker pool size serving a mode's batch
func (r *Registry) RecordWorkers(mode string, workers int) {
	r.EvaluationWorkers.WithLabelValues(mode).Set(float64(workers))
}

// RecordExport records one sink write
func (r *Registry) RecordExport(sink, status string) {
	r.ExportsTotal.WithLabelValues(sink, status).Inc()
}

// RecordSnapshot records a snapshot save or load
func (r *Registry) RecordSnapshot(operation, status string) {
	r.SnapshotsTotal.WithLabelValues(operation, status).Inc()
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initExportMetrics() {
	r.ExportsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "linescout_exports_total",
			Help: "Total number of result exports written",
		},
		[]string{"sink", "status"},
	)

	r.SnapshotsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "linescout_snapshots_total",
			Help: "Total number of graph snapshots saved or loaded",
		},
		[]string{"operation", "status"},
	)
}

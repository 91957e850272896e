package metrics

import (
	"testing"
	"time"
)

func TestNewRegistryInitializesAllMetrics(t *testing.T) {
	r := NewRegistry()

	if r.GraphsBuiltTotal == nil || r.BuildDuration == nil {
		t.Error("build metrics not initialized")
	}
	if r.CandidatesGeneratedTotal == nil || r.EvaluationsTotal == nil || r.EvaluationDuration == nil {
		t.Error("evaluation metrics not initialized")
	}
	if r.ExportsTotal == nil || r.SnapshotsTotal == nil {
		t.Error("export metrics not initialized")
	}
}

func TestRecordHelpersDoNotPanic(t *testing.T) {
	r := NewRegistry()

	r.RecordGraphBuild("metro", "ok", 302, 720, 150*time.Millisecond)
	r.RecordGraphBuild("tram", "error", 0, 0, 10*time.Millisecond)
	r.RecordCandidates("metro", 200)
	r.RecordEvaluation("metro", "ok", 200, 840.5, 12*time.Second)
	r.RecordWorkers("metro", 8)
	r.RecordExport("json", "ok")
	r.RecordSnapshot("load", "error")
}

func TestGatherExposesMetrics(t *testing.T) {
	r := NewRegistry()
	r.RecordGraphBuild("metro", "ok", 10, 20, time.Second)

	families, err := r.PrometheusRegistry().Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "linescout_graphs_built_total" {
			found = true
		}
	}
	if !found {
		t.Error("linescout_graphs_built_total not gathered")
	}
}

func TestDefaultRegistryIsSingleton(t *testing.T) {
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry returned different instances")
	}
}

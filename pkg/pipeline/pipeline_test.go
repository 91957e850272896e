package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/urbanmesh/linescout/pkg/config"
	"github.com/urbanmesh/linescout/pkg/export"
	"github.com/urbanmesh/linescout/pkg/logging"
	"github.com/urbanmesh/linescout/pkg/metrics"
	"github.com/urbanmesh/linescout/pkg/network"
)

// memorySink collects outputs for inspection.
type memorySink struct {
	outputs []*export.RankedOutput
	fail    bool
}

func (s *memorySink) Name() string { return "memory" }

func (s *memorySink) Write(ctx context.Context, out *export.RankedOutput) error {
	if s.fail {
		return errors.New("sink unavailable")
	}
	s.outputs = append(s.outputs, out)
	return nil
}

// writeFeed lays down a U-shaped metro line over four stops. The endpoints
// sit close to each other across the bend, so a direct endpoint connection
// is an obvious shortcut.
func writeFeed(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"stops.txt": "stop_id,stop_name,stop_lat,stop_lon\n" +
			"a,Alpha,48.80,2.20\n" +
			"b,Bravo,48.90,2.20\n" +
			"c,Charlie,48.90,2.35\n" +
			"d,Delta,48.80,2.35\n",
		"routes.txt": "route_id,route_short_name,route_type\nr1,M1,1\n",
		"trips.txt":  "route_id,trip_id\nr1,t1\nr1,t2\n",
		"stop_times.txt": "trip_id,stop_id,stop_sequence,arrival_time,departure_time\n" +
			"t1,a,1,08:00:00,08:00:00\n" +
			"t1,b,2,08:10:00,08:10:00\n" +
			"t1,c,3,08:20:00,08:20:00\n" +
			"t1,d,4,08:30:00,08:30:00\n" +
			"t2,d,1,09:00:00,09:00:00\n" +
			"t2,c,2,09:10:00,09:10:00\n" +
			"t2,b,3,09:20:00,09:20:00\n" +
			"t2,a,4,09:30:00,09:30:00\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Ingest.GTFSPath = writeFeed(t)
	cfg.Ingest.Modes = []string{"metro"}
	cfg.Candidates.MinDistanceKM = 1
	cfg.Ranking.TopK = 3
	return cfg
}

func TestRunProducesRankedOutput(t *testing.T) {
	cfg := testConfig(t)
	sink := &memorySink{}
	r, err := NewRunner(cfg, logging.NewNopLogger(), metrics.NewRegistry(), sink)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}

	results, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	res := results[0]
	if res.Err != nil {
		t.Fatalf("mode error: %v", res.Err)
	}
	if res.Mode != network.ModeMetro {
		t.Errorf("mode = %s, want metro", res.Mode)
	}
	if res.Diagnostics == nil || res.Diagnostics.StopCount != 4 {
		t.Errorf("diagnostics missing or wrong stop count: %+v", res.Diagnostics)
	}

	if len(sink.outputs) != 1 {
		t.Fatalf("sink outputs = %d, want 1", len(sink.outputs))
	}
	out := sink.outputs[0]
	if out.BaselineSeconds <= 0 {
		t.Errorf("baseline = %v, want positive", out.BaselineSeconds)
	}
	if len(out.Results) == 0 {
		t.Fatal("expected ranked candidates on a line graph")
	}
	// On a chain the endpoint shortcut Alpha-Delta is the clear winner.
	best := out.Results[0]
	if best.FromID != "M1 - Alpha" || best.ToID != "M1 - Delta" {
		t.Errorf("top candidate = %s -> %s, want M1 - Alpha -> M1 - Delta",
			best.FromID, best.ToID)
	}
	if best.GainSeconds <= 0 {
		t.Errorf("top gain = %v, want positive", best.GainSeconds)
	}
	for i := 1; i < len(out.Results); i++ {
		if out.Results[i].GainSeconds > out.Results[i-1].GainSeconds {
			t.Fatal("results not sorted by gain")
		}
	}
}

func TestRunMissingFeed(t *testing.T) {
	cfg := config.Default()
	cfg.Ingest.GTFSPath = filepath.Join(t.TempDir(), "nowhere")
	cfg.Ingest.Modes = []string{"metro"}

	r, err := NewRunner(cfg, logging.NewNopLogger(), metrics.NewRegistry(), &memorySink{})
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	if _, err := r.Run(context.Background()); err == nil {
		t.Fatal("expected error for missing feed directory")
	}
}

func TestRunSinkFailureIsolatedPerMode(t *testing.T) {
	cfg := testConfig(t)
	sink := &memorySink{fail: true}
	r, err := NewRunner(cfg, logging.NewNopLogger(), metrics.NewRegistry(), sink)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}

	results, err := r.Run(context.Background())
	if !errors.Is(err, ErrAllModesFailed) {
		t.Fatalf("err = %v, want ErrAllModesFailed", err)
	}
	if len(results) != 1 || results[0].Err == nil {
		t.Fatalf("expected the mode to carry its export error, got %+v", results)
	}
}

func TestRunSnapshotRoundTrip(t *testing.T) {
	cfg := testConfig(t)
	cfg.Snapshot.Dir = t.TempDir()
	cfg.Snapshot.Save = true

	first := &memorySink{}
	r, err := NewRunner(cfg, logging.NewNopLogger(), metrics.NewRegistry(), first)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}

	// Second run reloads from snapshots; point ingestion nowhere to prove
	// the feed is not touched.
	cfg.Snapshot.Save = false
	cfg.Snapshot.Load = true
	cfg.Ingest.GTFSPath = filepath.Join(t.TempDir(), "nowhere")

	second := &memorySink{}
	r2, err := NewRunner(cfg, logging.NewNopLogger(), metrics.NewRegistry(), second)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	if _, err := r2.Run(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(second.outputs) != 1 {
		t.Fatalf("snapshot run outputs = %d, want 1", len(second.outputs))
	}
	if second.outputs[0].BaselineSeconds != first.outputs[0].BaselineSeconds {
		t.Errorf("baseline changed across snapshot reload: %v vs %v",
			second.outputs[0].BaselineSeconds, first.outputs[0].BaselineSeconds)
	}
}

func TestRunContextCancelled(t *testing.T) {
	cfg := testConfig(t)
	r, err := NewRunner(cfg, logging.NewNopLogger(), metrics.NewRegistry(), &memorySink{})
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestBuildSinks(t *testing.T) {
	cfg := config.Default()
	cfg.Export.Format = "json"
	sinks, err := BuildSinks(cfg)
	if err != nil {
		t.Fatalf("BuildSinks: %v", err)
	}
	if len(sinks) != 1 || sinks[0].Name() != "json" {
		t.Fatalf("sinks = %v, want one json sink", sinks)
	}

	cfg.Export.Format = "table"
	sinks, err = BuildSinks(cfg)
	if err != nil {
		t.Fatalf("BuildSinks: %v", err)
	}
	if len(sinks) != 1 || sinks[0].Name() != "console" {
		t.Fatalf("sinks = %v, want one console sink", sinks)
	}
}

// Package pipeline runs the full evaluation sequence for every configured
// mode: ingest or reload graphs, generate candidates, score them, rank the
// winners and hand them to the configured sinks.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/urbanmesh/linescout/pkg/candidates"
	"github.com/urbanmesh/linescout/pkg/config"
	"github.com/urbanmesh/linescout/pkg/diagnostics"
	"github.com/urbanmesh/linescout/pkg/efficiency"
	"github.com/urbanmesh/linescout/pkg/export"
	"github.com/urbanmesh/linescout/pkg/gtfs"
	"github.com/urbanmesh/linescout/pkg/logging"
	"github.com/urbanmesh/linescout/pkg/metrics"
	"github.com/urbanmesh/linescout/pkg/network"
	"github.com/urbanmesh/linescout/pkg/ranking"
	"github.com/urbanmesh/linescout/pkg/snapshot"
)

// ErrAllModesFailed is returned when no mode produced a result.
var ErrAllModesFailed = errors.New("all modes failed")

// ModeResult is one mode's outcome. A failed mode carries its error and nil
// output; other modes are unaffected.
type ModeResult struct {
	Mode        network.Mode
	Output      *export.RankedOutput
	Diagnostics *diagnostics.Report
	Err         error
}

// Runner executes the pipeline for one configuration.
type Runner struct {
	cfg     *config.Config
	log     logging.Logger
	metrics *metrics.Registry
	sinks   []export.Sink
}

// NewRunner wires a pipeline from its parts. A nil logger or registry falls
// back to the defaults; sinks default to the configuration's export section.
func NewRunner(cfg *config.Config, log logging.Logger, reg *metrics.Registry, sinks ...export.Sink) (*Runner, error) {
	if log == nil {
		log = logging.DefaultLogger()
	}
	if reg == nil {
		reg = metrics.DefaultRegistry()
	}
	if len(sinks) == 0 {
		var err error
		sinks, err = BuildSinks(cfg)
		if err != nil {
			return nil, err
		}
	}
	return &Runner{cfg: cfg, log: log, metrics: reg, sinks: sinks}, nil
}

// BuildSinks constructs the sinks the export configuration asks for.
func BuildSinks(cfg *config.Config) ([]export.Sink, error) {
	var sinks []export.Sink
	switch cfg.Export.Format {
	case "json":
		sinks = append(sinks, export.NewJSONSink(cfg.Export.OutputDir))
	case "csv":
		sinks = append(sinks, export.NewCSVSink(cfg.Export.OutputDir))
	default:
		sinks = append(sinks, export.NewConsoleSink(os.Stdout))
	}
	if cfg.Export.MySQLDSN != "" {
		mysqlSink, err := export.NewMySQLSink(cfg.Export.MySQLDSN)
		if err != nil {
			return nil, fmt.Errorf("mysql sink: %w", err)
		}
		sinks = append(sinks, mysqlSink)
	}
	return sinks, nil
}

// Run evaluates every configured mode. A mode that fails is reported in its
// ModeResult and does not stop the others; Run itself errors only when graph
// acquisition fails or no mode succeeds.
func (r *Runner) Run(ctx context.Context) ([]ModeResult, error) {
	modes := r.cfg.ModeList()

	graphs, err := r.acquireGraphs(ctx, modes)
	if err != nil {
		return nil, err
	}

	results := make([]ModeResult, 0, len(modes))
	failed := 0
	for _, mode := range modes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := r.runMode(ctx, mode, graphs[mode])
		if res.Err != nil {
			failed++
			r.log.Error("mode evaluation failed",
				logging.Mode(string(mode)), logging.Err(res.Err))
		}
		results = append(results, res)
	}
	if failed == len(modes) {
		return results, ErrAllModesFailed
	}
	return results, nil
}

// acquireGraphs reloads snapshots when configured and they cover every
// requested mode, otherwise ingests the GTFS feed and rebuilds from scratch.
func (r *Runner) acquireGraphs(ctx context.Context, modes []network.Mode) (map[network.Mode]*network.NetworkGraph, error) {
	if r.cfg.Snapshot.Load {
		graphs, err := r.loadSnapshots(modes)
		if err == nil {
			return graphs, nil
		}
		r.log.Warn("snapshot reload failed, rebuilding from feed", logging.Err(err))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started := time.Now()
	ds, err := gtfs.Load(r.cfg.Ingest.GTFSPath)
	if err != nil {
		return nil, fmt.Errorf("ingest feed: %w", err)
	}
	r.log.Info("feed ingested",
		logging.Path(r.cfg.Ingest.GTFSPath),
		logging.Int("stops", len(ds.Stops)),
		logging.Int("trips", len(ds.Trips)))

	graphs, err := gtfs.BuildNetworks(ds, modes, gtfs.AssembleOptions{
		TransferTimeSeconds:    r.cfg.Build.TransferTimeSeconds,
		TransferPenaltySeconds: r.cfg.Build.TransferPenaltySeconds,
	})
	if err != nil {
		r.metrics.RecordGraphBuild("all", "error", 0, 0, time.Since(started))
		return nil, fmt.Errorf("build networks: %w", err)
	}
	for mode, g := range graphs {
		r.metrics.RecordGraphBuild(string(mode), "ok", g.StopCount(), g.EdgeCount(), time.Since(started))
		r.log.Info("graph built",
			logging.Mode(string(mode)),
			logging.Int("stops", g.StopCount()),
			logging.Int("edges", g.EdgeCount()))
	}

	if r.cfg.Snapshot.Save {
		r.saveSnapshots(graphs)
	}
	return graphs, nil
}

func (r *Runner) loadSnapshots(modes []network.Mode) (map[network.Mode]*network.NetworkGraph, error) {
	graphs := make(map[network.Mode]*network.NetworkGraph, len(modes))
	for _, mode := range modes {
		path := snapshot.SnapshotPath(r.cfg.Snapshot.Dir, mode)
		g, err := snapshot.Load(path)
		if err != nil {
			r.metrics.RecordSnapshot("load", "error")
			return nil, fmt.Errorf("load snapshot %s: %w", path, err)
		}
		r.metrics.RecordSnapshot("load", "ok")
		graphs[mode] = g
	}
	r.log.Info("graphs reloaded from snapshots", logging.Path(r.cfg.Snapshot.Dir))
	return graphs, nil
}

func (r *Runner) saveSnapshots(graphs map[network.Mode]*network.NetworkGraph) {
	for mode, g := range graphs {
		path := snapshot.SnapshotPath(r.cfg.Snapshot.Dir, mode)
		if err := snapshot.Save(path, g); err != nil {
			r.metrics.RecordSnapshot("save", "error")
			r.log.Warn("snapshot save failed",
				logging.Mode(string(mode)), logging.Path(path), logging.Err(err))
			continue
		}
		r.metrics.RecordSnapshot("save", "ok")
	}
}

// runMode takes one mode's graph through generation, evaluation, ranking and
// export. Every error is folded into the ModeResult.
func (r *Runner) runMode(ctx context.Context, mode network.Mode, g *network.NetworkGraph) ModeResult {
	res := ModeResult{Mode: mode}
	if g == nil {
		res.Err = fmt.Errorf("no graph built for mode %s", mode)
		return res
	}
	log := r.log.With(logging.Mode(string(mode)))

	res.Diagnostics = diagnostics.Analyze(g, r.cfg.Evaluate.OriginSample)
	log.Info("topology analyzed",
		logging.Int("components", res.Diagnostics.ComponentCount),
		logging.Bool("tree", res.Diagnostics.IsTree))

	cands, err := candidates.Generate(g, candidates.Options{
		MinDistanceKM: r.cfg.Candidates.MinDistanceKM,
		MaxCandidates: r.cfg.Candidates.Budget,
		AverageSpeed:  r.cfg.Candidates.FallbackSpeeds[string(mode)],
	})
	if err != nil {
		res.Err = fmt.Errorf("generate candidates: %w", err)
		return res
	}
	r.metrics.RecordCandidates(string(mode), len(cands))
	log.Info("candidates generated", logging.CandidateCount(len(cands)))

	workers := r.cfg.Evaluate.Parallelism
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	r.metrics.RecordWorkers(string(mode), workers)

	started := time.Now()
	batch, err := efficiency.EvaluateAll(ctx, g, cands, efficiency.Options{
		OriginSample: r.cfg.Evaluate.OriginSample,
		Parallelism:  r.cfg.Evaluate.Parallelism,
	})
	if err != nil {
		r.metrics.RecordEvaluation(string(mode), "error", len(cands), 0, time.Since(started))
		res.Err = fmt.Errorf("evaluate candidates: %w", err)
		return res
	}
	r.metrics.RecordEvaluation(string(mode), "ok", len(cands), batch.BaselineSeconds, time.Since(started))
	log.Info("candidates evaluated",
		logging.CandidateCount(len(batch.Evaluations)),
		logging.Score(batch.BaselineSeconds),
		logging.Latency(time.Since(started)))

	top := ranking.SelectTop(batch.Evaluations, r.cfg.Ranking.TopK)
	res.Output = export.NewRankedOutput(mode, batch.BaselineSeconds, top)

	for _, sink := range r.sinks {
		if err := sink.Write(ctx, res.Output); err != nil {
			r.metrics.RecordExport(sink.Name(), "error")
			res.Err = fmt.Errorf("export via %s: %w", sink.Name(), err)
			return res
		}
		r.metrics.RecordExport(sink.Name(), "ok")
	}
	return res
}

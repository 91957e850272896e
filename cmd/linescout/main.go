package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urbanmesh/linescout/pkg/config"
	"github.com/urbanmesh/linescout/pkg/logging"
	"github.com/urbanmesh/linescout/pkg/metrics"
	"github.com/urbanmesh/linescout/pkg/pipeline"
)

func main() {
	configPath := flag.String("config", "", "Config file path (default: linescout.yaml)")
	gtfsPath := flag.String("gtfs", "", "GTFS feed directory (overrides config)")
	modesFlag := flag.String("mode", "", "Comma-separated modes to evaluate (overrides config)")
	budget := flag.Int("n", 0, "Candidate budget per mode (overrides config)")
	topK := flag.Int("k", 0, "Top connections to report per mode (overrides config)")
	outDir := flag.String("out", "", "Output directory for file sinks (overrides config)")
	format := flag.String("format", "", "Output format: table, json or csv (overrides config)")
	snapLoad := flag.Bool("snapshot-load", false, "Reload graphs from snapshots instead of ingesting")
	snapSave := flag.Bool("snapshot-save", false, "Save built graphs as snapshots")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyFlags(cfg, *gtfsPath, *modesFlag, *budget, *topK, *outDir, *format, *snapLoad, *snapSave)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.Ingest.GTFSPath == "" && !cfg.Snapshot.Load {
		log.Fatal("No GTFS feed configured: pass -gtfs or set ingest.gtfs_path")
	}

	logger := logging.NewJSONLogger(os.Stderr, logging.ParseLevel(cfg.Logging.Level))
	logging.SetDefaultLogger(logger)

	runner, err := pipeline.NewRunner(cfg, logger, metrics.DefaultRegistry())
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("🚀 LineScout starting (modes: %v)", cfg.ModeList())
	results, err := runner.Run(ctx)
	if err != nil {
		log.Fatalf("Pipeline failed: %v", err)
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "mode %s failed: %v\n", res.Mode, res.Err)
		}
	}
	log.Printf("✅ Done: %d/%d modes evaluated", len(results)-failed, len(results))
	if failed > 0 {
		os.Exit(1)
	}
}

func applyFlags(cfg *config.Config, gtfs, modes string, budget, topK int, outDir, format string, snapLoad, snapSave bool) {
	if gtfs != "" {
		cfg.Ingest.GTFSPath = gtfs
	}
	if modes != "" {
		cfg.Ingest.Modes = splitModes(modes)
	}
	if budget > 0 {
		cfg.Candidates.Budget = budget
	}
	if topK > 0 {
		cfg.Ranking.TopK = topK
	}
	if outDir != "" {
		cfg.Export.OutputDir = outDir
	}
	if format != "" {
		cfg.Export.Format = format
	}
	if snapLoad {
		cfg.Snapshot.Load = true
	}
	if snapSave {
		cfg.Snapshot.Save = true
	}
}

func splitModes(s string) []string {
	var modes []string
	for _, m := range strings.Split(s, ",") {
		if m = strings.TrimSpace(m); m != "" {
			modes = append(modes, m)
		}
	}
	return modes
}

package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// JSONSink writes one pretty-printed JSON file per mode under a directory.
type JSONSink struct {
	dir string
}

// NewJSONSink creates a JSON file sink rooted at dir.
func NewJSONSink(dir string) *JSONSink {
	return &JSONSink{dir: dir}
}

// Name implements Sink.
func (s *JSONSink) Name() string { return "json" }

// Write implements Sink.
func (s *JSONSink) Write(ctx context.Context, out *RankedOutput) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ranked output: %w", err)
	}
	path := filepath.Join(s.dir, fmt.Sprintf("linescout_%s.json", out.Mode))
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// CSVSink writes one CSV file per mode under a directory.
type CSVSink struct {
	dir string
}

// NewCSVSink creates a CSV file sink rooted at dir.
func NewCSVSink(dir string) *CSVSink {
	return &CSVSink{dir: dir}
}

// Name implements Sink.
func (s *CSVSink) Name() string { return "csv" }

// Write implements Sink.
func (s *CSVSink) Write(ctx context.Context, out *RankedOutput) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	path := filepath.Join(s.dir, fmt.Sprintf("linescout_%s.csv", out.Mode))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"run_id", "mode", "rank", "from_stop", "to_stop",
		"gain_seconds", "travel_seconds", "distance_km",
		"baseline_seconds", "post_seconds", "newly_reachable",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range out.Results {
		row := []string{
			out.RunID,
			string(out.Mode),
			strconv.Itoa(r.Rank),
			r.FromID,
			r.ToID,
			strconv.FormatFloat(r.GainSeconds, 'f', 3, 64),
			strconv.FormatFloat(r.WeightSeconds, 'f', 1, 64),
			strconv.FormatFloat(r.DistanceKM, 'f', 3, 64),
			strconv.FormatFloat(r.BaselineSeconds, 'f', 3, 64),
			strconv.FormatFloat(r.PostSeconds, 'f', 3, 64),
			strconv.Itoa(r.NewlyReachable),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// Package config loads and validates the engine's YAML configuration.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/urbanmesh/linescout/pkg/network"
)

// EnvConfigPath overrides the config search path when set.
const EnvConfigPath = "LINESCOUT_CONFIG"

// Config is the full run configuration.
type Config struct {
	Ingest     IngestConfig     `yaml:"ingest"`
	Build      BuildConfig      `yaml:"build"`
	Candidates CandidatesConfig `yaml:"candidates"`
	Evaluate   EvaluateConfig   `yaml:"evaluate"`
	Ranking    RankingConfig    `yaml:"ranking"`
	Export     ExportConfig     `yaml:"export"`
	Snapshot   SnapshotConfig   `yaml:"snapshot"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// IngestConfig locates the GTFS feed and selects modes.
type IngestConfig struct {
	GTFSPath string   `yaml:"gtfs_path"`
	Modes    []string `yaml:"modes" validate:"omitempty,dive,oneof=heavy_rail metro tram combined"`
}

// BuildConfig tunes graph construction.
type BuildConfig struct {
	// TransferPenaltySeconds is added to every transfer edge's weight,
	// modelling the cost of changing lines inside a station.
	TransferPenaltySeconds float64 `yaml:"transfer_penalty_seconds" validate:"gte=0"`
	// TransferTimeSeconds is the base walking time between co-located stops.
	TransferTimeSeconds float64 `yaml:"transfer_time_seconds" validate:"gte=0"`
}

// CandidatesConfig bounds candidate generation.
type CandidatesConfig struct {
	// Budget is N: the maximum candidates evaluated per mode.
	Budget        int     `yaml:"budget" validate:"gt=0"`
	MinDistanceKM float64 `yaml:"min_distance_km" validate:"gte=0"`
	// FallbackSpeeds maps mode name to an assumed speed in meters per
	// second, overriding the speed derived from the graph's service edges.
	FallbackSpeeds map[string]float64 `yaml:"fallback_speeds"`
}

// EvaluateConfig tunes the efficiency evaluator.
type EvaluateConfig struct {
	// OriginSample restricts shortest-path sources to the first S stops in
	// lexical order. Zero uses every stop.
	OriginSample int `yaml:"origin_sample" validate:"gte=0"`
	Parallelism  int `yaml:"parallelism" validate:"gte=0"`
}

// RankingConfig bounds the report.
type RankingConfig struct {
	// TopK is K: the number of top connections reported per mode.
	TopK int `yaml:"top_k" validate:"gt=0"`
}

// ExportConfig selects result sinks.
type ExportConfig struct {
	Format    string `yaml:"format" validate:"omitempty,oneof=json csv table"`
	OutputDir string `yaml:"output_dir"`
	// MySQLDSN enables the database sink when non-empty.
	MySQLDSN string `yaml:"mysql_dsn"`
}

// SnapshotConfig controls graph snapshot reuse.
type SnapshotConfig struct {
	Dir  string `yaml:"dir"`
	Load bool   `yaml:"load"`
	Save bool   `yaml:"save"`
}

// LoggingConfig selects the log level.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Ingest: IngestConfig{
			Modes: []string{"heavy_rail", "metro", "tram"},
		},
		Build: BuildConfig{
			TransferPenaltySeconds: 300,
			TransferTimeSeconds:    60,
		},
		Candidates: CandidatesConfig{
			Budget:        200,
			MinDistanceKM: 5,
		},
		Evaluate: EvaluateConfig{},
		Ranking:  RankingConfig{TopK: 5},
		Export: ExportConfig{
			Format:    "table",
			OutputDir: "results",
		},
		Snapshot: SnapshotConfig{Dir: "snapshots"},
		Logging:  LoggingConfig{Level: "info"},
	}
}

// Load reads configuration from path. An empty path searches the
// LINESCOUT_CONFIG environment variable, then linescout.yaml in the working
// directory and under config/. A missing file yields defaults; a malformed or
// invalid file is an error.
func Load(path string) (*Config, error) {
	paths := []string{path}
	if path == "" {
		if env := os.Getenv(EnvConfigPath); env != "" {
			paths = []string{env}
		} else {
			paths = []string{"linescout.yaml", "config/linescout.yaml"}
		}
	}

	var data []byte
	var err error
	found := false
	for _, p := range paths {
		if p == "" {
			continue
		}
		data, err = os.ReadFile(p)
		if err == nil {
			found = true
			break
		}
	}
	if !found {
		if path != "" || os.Getenv(EnvConfigPath) != "" {
			// An explicitly named file must exist
			return nil, fmt.Errorf("read config: %w", err)
		}
		return Default(), nil
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration's struct tags.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ModeList converts the configured mode names to typed modes.
func (c *Config) ModeList() []network.Mode {
	if len(c.Ingest.Modes) == 0 {
		return network.Modes()
	}
	modes := make([]network.Mode, 0, len(c.Ingest.Modes))
	for _, m := range c.Ingest.Modes {
		modes = append(modes, network.Mode(m))
	}
	return modes
}

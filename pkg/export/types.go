// Package export hands ranked results to their consumers: console tables,
// JSON/CSV files, and an optional MySQL sink.
package export

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/urbanmesh/linescout/pkg/network"
	"github.com/urbanmesh/linescout/pkg/ranking"
)

// RankedOutput is the terminal artifact for one mode: the top-K candidate
// connections by efficiency gain, in rank order. It is stable and
// serializable; nothing downstream needs access to graph internals.
type RankedOutput struct {
	RunID           string                 `json:"run_id"`
	GeneratedAt     time.Time              `json:"generated_at"`
	Mode            network.Mode           `json:"mode"`
	BaselineSeconds float64                `json:"baseline_seconds"`
	Results         []ranking.RankedResult `json:"results"`
}

// NewRankedOutput wraps one mode's ranked results in an export envelope.
// An empty result set is a valid envelope, not an error.
func NewRankedOutput(mode network.Mode, baselineSeconds float64, results []ranking.RankedResult) *RankedOutput {
	return &RankedOutput{
		RunID:           uuid.NewString(),
		GeneratedAt:     time.Now().UTC(),
		Mode:            mode,
		BaselineSeconds: baselineSeconds,
		Results:         results,
	}
}

// Sink writes one mode's ranked output somewhere.
type Sink interface {
	// Name identifies the sink in logs and metrics.
	Name() string
	// Write exports the output. Implementations must tolerate an empty
	// results array.
	Write(ctx context.Context, out *RankedOutput) error
}

package export

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
)

// ConsoleSink renders ranked results as an aligned text table.
type ConsoleSink struct {
	writer io.Writer
}

// NewConsoleSink creates a console sink writing to w.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{writer: w}
}

// Name implements Sink.
func (s *ConsoleSink) Name() string { return "console" }

// Write implements Sink.
func (s *ConsoleSink) Write(ctx context.Context, out *RankedOutput) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fmt.Fprintf(s.writer, "\nMode %s: baseline mean travel time %.1f s\n", out.Mode, out.BaselineSeconds)
	if len(out.Results) == 0 {
		fmt.Fprintln(s.writer, "  no candidates evaluated")
		return nil
	}

	tw := tabwriter.NewWriter(s.writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tCONNECTION\tGAIN (s)\tTRAVEL (s)\tDISTANCE (km)")
	for _, r := range out.Results {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.0f\t%.1f\n",
			r.Rank, r.Candidate, r.GainSeconds, r.WeightSeconds, r.DistanceKM)
	}
	return tw.Flush()
}

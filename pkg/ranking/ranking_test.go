package ranking

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/urbanmesh/linescout/pkg/candidates"
	"github.com/urbanmesh/linescout/pkg/efficiency"
	"github.com/urbanmesh/linescout/pkg/network"
)

func eval(from, to string, gain float64) efficiency.Evaluation {
	return efficiency.Evaluation{
		Candidate: candidates.Candidate{
			Mode:   network.ModeMetro,
			FromID: from,
			ToID:   to,
			Weight: 120,
		},
		BaselineSeconds: 600,
		PostSeconds:     600 - gain,
		GainSeconds:     gain,
	}
}

func TestSelectTopOrdersByGainDescending(t *testing.T) {
	evals := []efficiency.Evaluation{
		eval("M1 - A", "M1 - B", 10),
		eval("M1 - C", "M1 - D", 30),
		eval("M1 - E", "M1 - F", 20),
	}

	got := SelectTop(evals, 3)
	wantGains := []float64{30, 20, 10}
	for i, w := range wantGains {
		if got[i].GainSeconds != w {
			t.Errorf("rank %d gain = %v, want %v", i+1, got[i].GainSeconds, w)
		}
		if got[i].Rank != i+1 {
			t.Errorf("entry %d has Rank %d", i, got[i].Rank)
		}
	}
}

func TestSelectTopTieBreaksLexically(t *testing.T) {
	evals := []efficiency.Evaluation{
		eval("M1 - Z", "M1 - Q", 5),
		eval("M1 - A", "M1 - C", 5),
		eval("M1 - A", "M1 - B", 5),
	}

	got := SelectTop(evals, 3)
	wantOrder := [][2]string{
		{"M1 - A", "M1 - B"},
		{"M1 - A", "M1 - C"},
		{"M1 - Z", "M1 - Q"},
	}
	for i, w := range wantOrder {
		if got[i].FromID != w[0] || got[i].ToID != w[1] {
			t.Errorf("rank %d = %s -> %s, want %s -> %s",
				i+1, got[i].FromID, got[i].ToID, w[0], w[1])
		}
	}
}

// TestSelectTopDegenerateK: asking for more results than the batch holds
// returns the whole batch ranked, without error.
func TestSelectTopDegenerateK(t *testing.T) {
	evals := []efficiency.Evaluation{
		eval("M1 - A", "M1 - B", 3),
		eval("M1 - C", "M1 - D", 1),
		eval("M1 - E", "M1 - F", 2),
	}

	got := SelectTop(evals, 5)
	if len(got) != 3 {
		t.Fatalf("got %d results, want all 3", len(got))
	}
	if got[0].GainSeconds != 3 || got[2].GainSeconds != 1 {
		t.Errorf("not ranked: %+v", got)
	}
}

func TestSelectTopEmptyAndZeroK(t *testing.T) {
	if got := SelectTop(nil, 5); got != nil {
		t.Errorf("SelectTop(nil) = %v, want nil", got)
	}
	evals := []efficiency.Evaluation{eval("M1 - A", "M1 - B", 1)}
	if got := SelectTop(evals, 0); got != nil {
		t.Errorf("SelectTop(k=0) = %v, want nil", got)
	}
	if got := SelectTop(evals, -2); got != nil {
		t.Errorf("SelectTop(k<0) = %v, want nil", got)
	}
}

func TestSelectTopDoesNotMutateInput(t *testing.T) {
	evals := []efficiency.Evaluation{
		eval("M1 - A", "M1 - B", 1),
		eval("M1 - C", "M1 - D", 9),
	}
	SelectTop(evals, 2)
	if evals[0].GainSeconds != 1 || evals[1].GainSeconds != 9 {
		t.Error("input slice was reordered")
	}
}

// TestTopKSelectionLaw: every omitted gain is <= the last selected gain, over
// arbitrary gain vectors.
func TestTopKSelectionLaw(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("omitted gains never exceed the k-th selected gain", prop.ForAll(
		func(gains []float64, k int) bool {
			evals := make([]efficiency.Evaluation, len(gains))
			for i, gn := range gains {
				evals[i] = eval(
					"M1 - S"+string(rune('A'+i%26)),
					"M1 - T"+string(rune('A'+i/26)),
					gn,
				)
			}
			selected := SelectTop(evals, k)

			if k <= 0 || len(evals) == 0 {
				return selected == nil
			}
			want := k
			if want > len(evals) {
				want = len(evals)
			}
			if len(selected) != want {
				return false
			}
			for i := 1; i < len(selected); i++ {
				if selected[i].GainSeconds > selected[i-1].GainSeconds {
					return false
				}
			}
			threshold := selected[len(selected)-1].GainSeconds
			chosen := make(map[string]int)
			for _, s := range selected {
				chosen[s.FromID+"|"+s.ToID]++
			}
			for _, e := range evals {
				key := e.Candidate.FromID + "|" + e.Candidate.ToID
				if chosen[key] > 0 {
					chosen[key]--
					continue
				}
				if e.GainSeconds > threshold {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(0, 1000)),
		gen.IntRange(-1, 20),
	))

	properties.TestingRun(t)
}

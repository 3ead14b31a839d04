package eval

import (
	"math"
	"testing"
	"time"

	"github.com/danielpatrickdp/formcheck/internal/plan"
	"github.com/danielpatrickdp/formcheck/internal/reps"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// makeRecords builds back-to-back reps with the given durations in seconds.
func makeRecords(quality []string, secs ...float64) []reps.Record {
	out := make([]reps.Record, len(secs))
	at := t0
	for i, s := range secs {
		d := time.Duration(s * float64(time.Second))
		q := "Good"
		if i < len(quality) {
			q = quality[i]
		}
		out[i] = reps.Record{
			Exercise:    "squat",
			Index:       i + 1,
			Duration:    d,
			Quality:     q,
			StartedAt:   at,
			CompletedAt: at.Add(d),
		}
		at = at.Add(d)
	}
	return out
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, plan.Default())

	if s.Reps != 0 || s.Sets != 0 {
		t.Fatalf("expected zero counts, got reps=%d sets=%d", s.Reps, s.Sets)
	}
	if s.PlanComplete {
		t.Fatal("empty session cannot complete a 3x10 plan")
	}
	if !s.Passed {
		t.Fatalf("expected pass, got %s", s.Reason)
	}
	if s.Tempo != 0 {
		t.Fatalf("expected zero tempo, got %f", s.Tempo)
	}
}

func TestSummarizeDurations(t *testing.T) {
	s := Summarize(makeRecords(nil, 2, 2, 2, 2), plan.Plan{Sets: 1, RepsPerSet: 4})

	if s.Durations.Mean != 2 || s.Durations.StdDev != 0 {
		t.Fatalf("expected mean 2 stddev 0, got %+v", s.Durations)
	}
	if s.Durations.Median != 2 || s.Durations.Min != 2 || s.Durations.Max != 2 {
		t.Fatalf("unexpected durations %+v", s.Durations)
	}
	if !s.PlanComplete || s.Sets != 1 {
		t.Fatalf("expected 1 complete set, got sets=%d complete=%v", s.Sets, s.PlanComplete)
	}
	// 4 reps over 8 seconds
	if math.Abs(s.Tempo-30) > 1e-9 {
		t.Fatalf("expected 30 reps/min, got %f", s.Tempo)
	}
}

func TestSummarizeSingleRep(t *testing.T) {
	s := Summarize(makeRecords(nil, 3), plan.Plan{})

	if s.Durations.Mean != 3 || s.Durations.StdDev != 0 {
		t.Fatalf("expected mean 3 stddev 0, got %+v", s.Durations)
	}
	if math.IsNaN(s.Durations.StdDev) {
		t.Fatal("stddev must not be NaN for a single rep")
	}
}

func TestSummarizeQualities(t *testing.T) {
	labels := []string{"Good", "Excellent", "Good", "Shallow"}
	s := Summarize(makeRecords(labels, 2, 2, 2, 2), plan.Plan{})

	if s.Qualities["Good"] != 2 || s.Qualities["Excellent"] != 1 || s.Qualities["Shallow"] != 1 {
		t.Fatalf("unexpected histogram %v", s.Qualities)
	}
	if s.TopQuality != "Good" {
		t.Fatalf("expected top Good, got %s", s.TopQuality)
	}
}

func TestTopQualityTieBreak(t *testing.T) {
	got := topLabel(map[string]int{"b": 2, "a": 2, "c": 1})
	if got != "a" {
		t.Fatalf("expected alphabetical tie break, got %s", got)
	}
}

func TestSummarizeFailsOnInconsistentTempo(t *testing.T) {
	s := Summarize(makeRecords(nil, 1, 4, 1, 4), plan.Plan{})

	if s.Passed {
		t.Fatal("expected fail on uneven durations")
	}
	for _, m := range s.Metrics {
		if m.Name == "duration_cv" && m.Pass {
			t.Fatalf("expected duration_cv to fail, value %f", m.Value)
		}
	}
}

func TestSummarizeFailsOnRushedReps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDurationCV = 10
	s := NewHarness(cfg).Summarize(makeRecords(nil, 0.2, 2, 2), plan.Plan{})

	if s.Rushed != 1 {
		t.Fatalf("expected 1 rushed rep, got %d", s.Rushed)
	}
	if s.Passed {
		t.Fatal("expected fail on rushed rep")
	}
}

func TestSummarizeCountsMultipleFailures(t *testing.T) {
	s := Summarize(makeRecords(nil, 0.1, 4, 0.1, 4), plan.Plan{})

	if s.Passed {
		t.Fatal("expected fail")
	}
	want := "eval failed: 2 checks: "
	if len(s.Reason) < len(want) || s.Reason[:len(want)] != want {
		t.Fatalf("unexpected reason %q", s.Reason)
	}
}

func TestPlanMetricIsInformational(t *testing.T) {
	s := Summarize(makeRecords(nil, 2, 2), plan.Plan{Sets: 3, RepsPerSet: 10})

	if !s.Passed {
		t.Fatalf("partial plan should not fail the session: %s", s.Reason)
	}
	if s.Metrics[0].Name != "plan_reps" || s.Metrics[0].Pass {
		t.Fatalf("expected failing plan_reps metric, got %+v", s.Metrics[0])
	}
}

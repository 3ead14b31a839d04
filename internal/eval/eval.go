package eval

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/danielpatrickdp/formcheck/internal/plan"
	"github.com/danielpatrickdp/formcheck/internal/reps"
)

// #region eval-harness
// Harness evaluates sessions against a Config.
type Harness struct {
	config Config
}

// NewHarness creates a harness with the given configuration.
func NewHarness(config Config) *Harness {
	return &Harness{config: config}
}

// Summarize evaluates records with DefaultConfig.
func Summarize(records []reps.Record, p plan.Plan) Summary {
	return NewHarness(DefaultConfig()).Summarize(records, p)
}

// Summarize computes the session summary. Records are expected in completion
// order; an empty slice yields a zero summary that passes every check except
// plan completion.
func (h *Harness) Summarize(records []reps.Record, p plan.Plan) Summary {
	s := Summary{
		Reps:      len(records),
		Sets:      p.CompletedSets(len(records)),
		Plan:      p,
		Qualities: make(map[string]int),
	}
	if len(records) > 0 {
		s.Exercise = records[0].Exercise
	}
	total := p.TotalReps()
	s.PlanComplete = total > 0 && s.Reps >= total

	secs := make([]float64, len(records))
	for i, r := range records {
		secs[i] = r.Seconds()
		s.Qualities[r.Quality]++
		if secs[i] < h.config.MinRepSeconds {
			s.Rushed++
		}
	}
	s.TopQuality = topLabel(s.Qualities)
	s.Durations = durationStats(secs)
	s.Tempo = tempo(records)

	var failReasons []string

	// 1. Plan volume: informational, a partial session is still valid
	s.Metrics = append(s.Metrics, Metric{
		Name:  "plan_reps",
		Value: float64(s.Reps),
		Pass:  total == 0 || s.PlanComplete,
	})

	// 2. Tempo consistency
	cv := 0.0
	if s.Durations.Mean > 0 {
		cv = s.Durations.StdDev / s.Durations.Mean
	}
	cvPass := cv <= h.config.MaxDurationCV
	s.Metrics = append(s.Metrics, Metric{Name: "duration_cv", Value: cv, Pass: cvPass})
	if !cvPass {
		failReasons = append(failReasons, fmt.Sprintf("duration cv %.2f exceeds %.2f", cv, h.config.MaxDurationCV))
	}

	// 3. Rushed reps
	rushedPass := s.Rushed <= h.config.MaxRushed
	s.Metrics = append(s.Metrics, Metric{Name: "rushed_reps", Value: float64(s.Rushed), Pass: rushedPass})
	if !rushedPass {
		failReasons = append(failReasons, fmt.Sprintf("%d reps under %.1fs", s.Rushed, h.config.MinRepSeconds))
	}

	s.Passed = len(failReasons) == 0
	s.Reason = "all checks passed"
	if !s.Passed {
		s.Reason = fmt.Sprintf("eval failed: %s", failReasons[0])
		if len(failReasons) > 1 {
			s.Reason = fmt.Sprintf("eval failed: %d checks: %s", len(failReasons), failReasons[0])
		}
	}
	return s
}

// #endregion eval-harness

// #region helpers
func durationStats(secs []float64) Durations {
	if len(secs) == 0 {
		return Durations{}
	}
	sorted := append([]float64(nil), secs...)
	sort.Float64s(sorted)

	d := Durations{
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Min:    floats.Min(sorted),
		Max:    floats.Max(sorted),
	}
	if len(sorted) == 1 {
		d.Mean = sorted[0]
		return d
	}
	d.Mean, d.StdDev = stat.MeanStdDev(sorted, nil)
	return d
}

// tempo is reps per minute from the first entry to the last completion.
func tempo(records []reps.Record) float64 {
	if len(records) == 0 {
		return 0
	}
	span := records[len(records)-1].CompletedAt.Sub(records[0].StartedAt)
	if span <= 0 {
		return 0
	}
	return float64(len(records)) / span.Minutes()
}

// topLabel picks the most frequent label, ties broken alphabetically.
func topLabel(counts map[string]int) string {
	best, n := "", 0
	for label, c := range counts {
		if c > n || (c == n && label < best) {
			best, n = label, c
		}
	}
	return best
}

// #endregion helpers

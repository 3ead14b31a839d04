// Package eval grades a finished (or in-progress) session from its completed
// repetitions: rep and set counts against the plan, duration statistics,
// tempo, and the distribution of quality labels.
package eval

import (
	"github.com/danielpatrickdp/formcheck/internal/plan"
)

// #region eval-config
// Config holds thresholds for session checks.
type Config struct {
	MaxDurationCV float64 // fail if stddev/mean of rep durations exceeds this
	MinRepSeconds float64 // reps shorter than this count as rushed
	MaxRushed     int     // fail if more reps than this are rushed
}

// DefaultConfig returns thresholds suited to controlled strength work.
func DefaultConfig() Config {
	return Config{
		MaxDurationCV: 0.35,
		MinRepSeconds: 0.5,
		MaxRushed:     0,
	}
}

// #endregion eval-config

// #region eval-metric
// Metric captures a single check result.
type Metric struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Pass  bool    `json:"pass"`
}

// #endregion eval-metric

// #region summary
// Durations holds per-rep duration statistics in seconds.
type Durations struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summary is the evaluation of one session.
type Summary struct {
	Exercise     string         `json:"exercise"`
	Reps         int            `json:"reps"`
	Sets         int            `json:"sets"`
	Plan         plan.Plan      `json:"plan"`
	PlanComplete bool           `json:"plan_complete"`
	Qualities    map[string]int `json:"qualities"`
	TopQuality   string         `json:"top_quality,omitempty"` // most frequent label
	Durations    Durations      `json:"durations"`
	Tempo        float64        `json:"reps_per_minute"`
	Rushed       int            `json:"rushed"`
	Metrics      []Metric       `json:"metrics"`
	Passed       bool           `json:"passed"`
	Reason       string         `json:"reason"`
}

// #endregion summary

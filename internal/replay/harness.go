// Package replay drives the repetition engine over recorded frames entirely
// in memory, with a fake clock advanced at a fixed frame interval.
package replay

import (
	"log/slog"
	"time"

	"github.com/danielpatrickdp/formcheck/internal/joints"
	"github.com/danielpatrickdp/formcheck/internal/profile"
	"github.com/danielpatrickdp/formcheck/internal/reps"
	"github.com/danielpatrickdp/formcheck/internal/timeutil"
)

// #region types
// Config controls a replay run.
type Config struct {
	FrameInterval time.Duration // clock advance per frame
	Start         time.Time
	Cooldown      *int // overrides the profile cooldown when set
	Suppress      reps.SuppressPolicy
	Logger        *slog.Logger
}

// DefaultConfig replays at 30 frames per second.
func DefaultConfig() Config {
	return Config{
		FrameInterval: time.Second / 30,
		Start:         time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Logger:        slog.Default(),
	}
}

// FrameResult captures the engine's outcome for one frame.
type FrameResult struct {
	Index      uint64
	Status     reps.Status
	Reps       int
	Skipped    bool         // a required joint was undetected
	Suppressed bool         // a return was reached before the cooldown elapsed
	Record     *reps.Record // set on the frame a repetition completed
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	TotalFrames   int
	SkippedFrames int
	Reps          int
	Suppressed    int
	Records       []reps.Record
	FinalStatus   reps.Status
}

// #endregion types

// #region replay
// Replay feeds frames through a fresh detector for p. The only error is a
// configuration error from the detector constructor.
func Replay(p *profile.Profile, frames []joints.Frame, config Config) ([]FrameResult, error) {
	clock := timeutil.NewFakeClock(config.Start)

	var suppressed bool
	det, err := reps.New(p, reps.Options{
		Clock:    clock,
		Logger:   config.Logger,
		Suppress: config.Suppress,
		Cooldown: config.Cooldown,
		Observer: reps.ObserverFuncs{
			OnSuppressed: func(string, int, profile.Snapshot) { suppressed = true },
		},
	})
	if err != nil {
		return nil, err
	}

	results := make([]FrameResult, 0, len(frames))
	for _, f := range frames {
		clock.Advance(config.FrameInterval)
		suppressed = false
		before := det.Stats().SkippedFrames

		// No sink is attached, so Process cannot fail.
		rec, _ := det.Process(f)

		after := det.Stats()
		results = append(results, FrameResult{
			Index:      f.Index,
			Status:     after.Status,
			Reps:       after.Reps,
			Skipped:    after.SkippedFrames > before,
			Suppressed: suppressed,
			Record:     rec,
		})
	}
	return results, nil
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []FrameResult) Summary {
	s := Summary{
		TotalFrames: len(results),
		FinalStatus: reps.StatusReady,
	}
	for _, r := range results {
		if r.Skipped {
			s.SkippedFrames++
		}
		if r.Suppressed {
			s.Suppressed++
		}
		if r.Record != nil {
			s.Records = append(s.Records, *r.Record)
		}
		s.Reps = r.Reps
		s.FinalStatus = r.Status
	}
	return s
}

// #endregion replay

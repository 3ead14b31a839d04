package replay

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/danielpatrickdp/formcheck/internal/joints"
	"github.com/danielpatrickdp/formcheck/internal/pose"
	"github.com/danielpatrickdp/formcheck/internal/profile"
	"github.com/danielpatrickdp/formcheck/internal/reps"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture. Frames come
// either inline or as a sequence of named poses; both may be present, inline
// frames first.
type Fixture struct {
	Description string                   `json:"description"`
	Exercise    string                   `json:"exercise"`
	Config      FixtureConfig            `json:"config"`
	Poses       map[string]joints.Sample `json:"poses,omitempty"`
	Sequence    []string                 `json:"sequence,omitempty"`
	Frames      []FixtureFrame           `json:"frames,omitempty"`
	Expected    FixtureExpected          `json:"expected"`
}

// FixtureConfig mirrors Config plus profile threshold overrides.
type FixtureConfig struct {
	FrameMillis int                `json:"frame_ms"`
	Cooldown    *int               `json:"cooldown,omitempty"`
	Suppress    string             `json:"suppress,omitempty"` // "discard" | "count"
	Thresholds  profile.Thresholds `json:"thresholds,omitempty"`
}

// FixtureFrame is one recorded frame, in the recording line format.
type FixtureFrame struct {
	Index     uint64        `json:"index"`
	Landmarks joints.Sample `json:"landmarks"`
}

// FixtureExpected captures the expected outcome of the run.
type FixtureExpected struct {
	Reps        []FixtureRep `json:"reps"`
	Suppressed  int          `json:"suppressed"`
	FinalStatus string       `json:"final_status"`
}

// FixtureRep is one expected completed repetition.
type FixtureRep struct {
	Index      int    `json:"index"`
	Quality    string `json:"quality"`
	DurationMS int64  `json:"duration_ms"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	for i, name := range f.Sequence {
		if _, ok := f.Poses[name]; !ok {
			return nil, fmt.Errorf("parse fixture %s: sequence[%d]: unknown pose %q", path, i, name)
		}
	}
	return &f, nil
}

// Profile resolves the fixture's exercise with its threshold overrides.
func (f *Fixture) Profile() (*profile.Profile, error) {
	return profile.LookupWith(f.Exercise, profile.Override{Thresholds: f.Config.Thresholds})
}

// ToFrames expands inline frames and the pose sequence into linked frames.
// Sequence frames are numbered after the last inline frame.
func (f *Fixture) ToFrames() []joints.Frame {
	out := make([]joints.Frame, 0, len(f.Frames)+len(f.Sequence))
	var next uint64
	for _, ff := range f.Frames {
		out = append(out, joints.Frame{Index: ff.Index, Current: ff.Landmarks})
		next = ff.Index + 1
	}
	for _, name := range f.Sequence {
		out = append(out, joints.Frame{Index: next, Current: f.Poses[name]})
		next++
	}
	pose.Link(out)
	return out
}

// ToReplayConfig converts a FixtureConfig to a replay Config.
func (fc *FixtureConfig) ToReplayConfig() Config {
	c := DefaultConfig()
	if fc.FrameMillis > 0 {
		c.FrameInterval = time.Duration(fc.FrameMillis) * time.Millisecond
	}
	c.Cooldown = fc.Cooldown
	if fc.Suppress == reps.SuppressCount.String() {
		c.Suppress = reps.SuppressCount
	}
	return c
}

// #endregion fixture-loader

// #region fixture-check

// Check compares a replay summary against the expectation and returns one
// line per mismatch.
func (e FixtureExpected) Check(s Summary) []string {
	var diffs []string
	if len(s.Records) != len(e.Reps) {
		diffs = append(diffs, fmt.Sprintf("reps: expected %d, got %d", len(e.Reps), len(s.Records)))
	}
	for i := 0; i < len(e.Reps) && i < len(s.Records); i++ {
		want, got := e.Reps[i], s.Records[i]
		if got.Index != want.Index {
			diffs = append(diffs, fmt.Sprintf("rep %d: expected index %d, got %d", i, want.Index, got.Index))
		}
		if got.Quality != want.Quality {
			diffs = append(diffs, fmt.Sprintf("rep %d: expected quality %q, got %q", want.Index, want.Quality, got.Quality))
		}
		if ms := millis(got.Duration); ms != want.DurationMS {
			diffs = append(diffs, fmt.Sprintf("rep %d: expected %dms, got %dms", want.Index, want.DurationMS, ms))
		}
	}
	if s.Suppressed != e.Suppressed {
		diffs = append(diffs, fmt.Sprintf("suppressed: expected %d, got %d", e.Suppressed, s.Suppressed))
	}
	if e.FinalStatus != "" && string(s.FinalStatus) != e.FinalStatus {
		diffs = append(diffs, fmt.Sprintf("status: expected %s, got %s", e.FinalStatus, s.FinalStatus))
	}
	return diffs
}

// ExpectationFrom builds the expectation a run produced, for fixture export.
func ExpectationFrom(s Summary) FixtureExpected {
	e := FixtureExpected{
		Reps:        make([]FixtureRep, len(s.Records)),
		Suppressed:  s.Suppressed,
		FinalStatus: string(s.FinalStatus),
	}
	for i, r := range s.Records {
		e.Reps[i] = FixtureRep{
			Index:      r.Index,
			Quality:    r.Quality,
			DurationMS: millis(r.Duration),
		}
	}
	return e
}

func millis(d time.Duration) int64 {
	return int64(math.Round(float64(d) / float64(time.Millisecond)))
}

// #endregion fixture-check

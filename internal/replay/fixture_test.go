package replay

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/danielpatrickdp/formcheck/internal/joints"
	"github.com/danielpatrickdp/formcheck/internal/reps"
)

// #region fixture-tests

// TestFixture_SquatSession is the regression baseline for the squat profile:
// it replays the recorded pose sequence and checks every counted rep.
func TestFixture_SquatSession(t *testing.T) {
	f, err := LoadFixture(filepath.Join("testdata", "squat_session.json"))
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	p, err := f.Profile()
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}

	frames := f.ToFrames()
	if len(frames) != len(f.Sequence) {
		t.Fatalf("expected %d frames, got %d", len(f.Sequence), len(frames))
	}

	results, err := Replay(p, frames, f.Config.ToReplayConfig())
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	s := Summarize(results)

	for _, d := range f.Expected.Check(s) {
		t.Error(d)
	}
	if s.SkippedFrames != 1 {
		t.Errorf("expected 1 skipped frame, got %d", s.SkippedFrames)
	}
}

func TestFixture_ToFramesNumbersAndLinks(t *testing.T) {
	f := &Fixture{
		Frames:   []FixtureFrame{{Index: 7, Landmarks: stand}},
		Poses:    map[string]joints.Sample{"b": bottom},
		Sequence: []string{"b", "b"},
	}
	frames := f.ToFrames()

	if got := []uint64{frames[0].Index, frames[1].Index, frames[2].Index}; !cmp.Equal(got, []uint64{7, 8, 9}) {
		t.Fatalf("unexpected indices %v", got)
	}
	if frames[0].Previous != nil {
		t.Error("first frame must have no previous sample")
	}
	if frames[1].Previous == nil || *frames[1].Previous != stand {
		t.Error("second frame must link to the first")
	}
}

func TestFixture_ToReplayConfig(t *testing.T) {
	fc := FixtureConfig{FrameMillis: 50, Cooldown: cooldown(4), Suppress: "count"}
	c := fc.ToReplayConfig()

	if c.FrameInterval != 50*time.Millisecond {
		t.Errorf("expected 50ms, got %s", c.FrameInterval)
	}
	if c.Cooldown == nil || *c.Cooldown != 4 {
		t.Errorf("expected cooldown 4, got %v", c.Cooldown)
	}
	if c.Suppress != reps.SuppressCount {
		t.Errorf("expected SuppressCount, got %s", c.Suppress)
	}

	d := (&FixtureConfig{}).ToReplayConfig()
	if d.FrameInterval != DefaultConfig().FrameInterval || d.Suppress != reps.SuppressDiscard {
		t.Errorf("expected defaults, got %+v", d)
	}
}

func TestLoadFixture_UnknownPose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"exercise":"squat","poses":{},"sequence":["nope"]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFixture(path)
	if err == nil || !strings.Contains(err.Error(), `unknown pose "nope"`) {
		t.Fatalf("expected unknown pose error, got %v", err)
	}
}

func TestExpectationFrom_MatchesItsRun(t *testing.T) {
	config := DefaultConfig()
	config.Cooldown = cooldown(1)
	results, err := Replay(squat(t), framesOf(stand, bottom, bottom, stand, bottom, stand), config)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	s := Summarize(results)
	e := ExpectationFrom(s)

	if len(e.Reps) != 2 {
		t.Fatalf("expected 2 reps, got %d", len(e.Reps))
	}
	if diffs := e.Check(s); len(diffs) != 0 {
		t.Fatalf("expected no diffs, got %v", diffs)
	}
}

func TestCheck_ReportsMismatches(t *testing.T) {
	e := FixtureExpected{
		Reps:        []FixtureRep{{Index: 1, Quality: "Good", DurationMS: 100}},
		Suppressed:  1,
		FinalStatus: "ready",
	}
	s := Summary{
		Records:     []reps.Record{{Index: 1, Quality: "Fair", Duration: 300 * time.Millisecond}},
		FinalStatus: reps.StatusActive,
	}
	diffs := e.Check(s)
	if len(diffs) != 4 {
		t.Fatalf("expected 4 diffs (quality, duration, suppressed, status), got %v", diffs)
	}
}

// #endregion fixture-tests

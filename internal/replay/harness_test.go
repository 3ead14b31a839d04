package replay

import (
	"testing"
	"time"

	"github.com/danielpatrickdp/formcheck/internal/errs"
	"github.com/danielpatrickdp/formcheck/internal/joints"
	"github.com/danielpatrickdp/formcheck/internal/profile"
	"github.com/danielpatrickdp/formcheck/internal/reps"
)

// helper: both legs at the given hip/knee/ankle, right side shifted by 0.1.
func legs(hip, knee, ankle joints.Position) joints.Sample {
	var s joints.Sample
	shift := func(p joints.Position) joints.Position { return joints.Position{X: p.X + 0.1, Y: p.Y, Z: p.Z} }
	s.Set(joints.LeftHip, hip)
	s.Set(joints.LeftKnee, knee)
	s.Set(joints.LeftAnkle, ankle)
	s.Set(joints.RightHip, shift(hip))
	s.Set(joints.RightKnee, shift(knee))
	s.Set(joints.RightAnkle, shift(ankle))
	return s
}

var (
	stand  = legs(joints.Position{X: 0.45, Y: 0.55}, joints.Position{X: 0.45, Y: 0.82}, joints.Position{X: 0.45, Y: 0.95})
	bottom = legs(joints.Position{X: 0.30, Y: 0.82}, joints.Position{X: 0.45, Y: 0.80}, joints.Position{X: 0.45, Y: 0.95})
)

func framesOf(samples ...joints.Sample) []joints.Frame {
	out := make([]joints.Frame, len(samples))
	for i, s := range samples {
		out[i] = joints.Frame{Index: uint64(i), Current: s}
	}
	return out
}

func squat(t *testing.T) *profile.Profile {
	t.Helper()
	p, err := profile.Lookup("squat")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	return p
}

func cooldown(n int) *int { return &n }

// 1. One full cycle counts exactly one rep on the return frame.
func TestReplay_SingleRep(t *testing.T) {
	config := DefaultConfig()
	config.Cooldown = cooldown(2)
	config.FrameInterval = 100 * time.Millisecond

	results, err := Replay(squat(t), framesOf(stand, stand, bottom, bottom, stand), config)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	for i, r := range results[:4] {
		if r.Record != nil {
			t.Errorf("frame %d: unexpected record", i)
		}
	}
	last := results[4]
	if last.Record == nil {
		t.Fatal("expected a record on the return frame")
	}
	if last.Record.Index != 1 || last.Reps != 1 {
		t.Errorf("expected rep 1, got index=%d reps=%d", last.Record.Index, last.Reps)
	}
	if last.Record.Duration != 200*time.Millisecond {
		t.Errorf("expected 200ms, got %s", last.Record.Duration)
	}
	if results[2].Status != reps.StatusActive {
		t.Errorf("expected active on entry frame, got %s", results[2].Status)
	}
}

// 2. Missing joints mark the frame skipped without changing status.
func TestReplay_SkippedFrame(t *testing.T) {
	var partial joints.Sample
	partial.Set(joints.LeftHip, joints.Position{X: 0.3, Y: 0.82})

	results, err := Replay(squat(t), framesOf(stand, bottom, partial, stand), DefaultConfig())
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if !results[2].Skipped {
		t.Fatal("expected frame 2 skipped")
	}
	if results[2].Status != results[1].Status {
		t.Errorf("skipped frame changed status %s -> %s", results[1].Status, results[2].Status)
	}
	s := Summarize(results)
	if s.SkippedFrames != 1 || s.Reps != 1 {
		t.Errorf("expected 1 skipped 1 rep, got %+v", s)
	}
}

// 3. A return inside the cooldown is flagged and not counted.
func TestReplay_SuppressedReturn(t *testing.T) {
	config := DefaultConfig()
	config.Cooldown = cooldown(3)

	results, err := Replay(squat(t), framesOf(stand, bottom, stand, bottom, stand), config)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	s := Summarize(results)
	if s.Reps != 1 || s.Suppressed != 1 {
		t.Fatalf("expected 1 rep 1 suppressed, got reps=%d suppressed=%d", s.Reps, s.Suppressed)
	}
	if !results[4].Suppressed {
		t.Error("expected the last frame flagged suppressed")
	}
}

// 4. SuppressCount counts the early return.
func TestReplay_SuppressCount(t *testing.T) {
	config := DefaultConfig()
	config.Cooldown = cooldown(3)
	config.Suppress = reps.SuppressCount

	results, err := Replay(squat(t), framesOf(stand, bottom, stand, bottom, stand), config)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	s := Summarize(results)
	if s.Reps != 2 || s.Suppressed != 0 || len(s.Records) != 2 {
		t.Fatalf("expected 2 counted reps, got %+v", s)
	}
}

// 5. Configuration errors surface from Replay.
func TestReplay_RejectsNegativeCooldown(t *testing.T) {
	config := DefaultConfig()
	config.Cooldown = cooldown(-1)

	_, err := Replay(squat(t), nil, config)
	if !errs.IsInvalidConfig(err) {
		t.Fatalf("expected InvalidConfig, got %v", err)
	}
}

// 6. Summary of an empty run.
func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.TotalFrames != 0 || s.Reps != 0 || s.FinalStatus != reps.StatusReady {
		t.Fatalf("unexpected summary %+v", s)
	}
}

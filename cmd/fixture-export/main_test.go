package main

import (
	"path/filepath"
	"testing"

	"github.com/danielpatrickdp/formcheck/internal/joints"
	"github.com/danielpatrickdp/formcheck/internal/pose"
	"github.com/danielpatrickdp/formcheck/internal/replay"
)

func legs(hipX, hipY, kneeY float64) joints.Sample {
	var s joints.Sample
	for _, side := range []struct {
		hip, knee, ankle joints.JointID
		dx               float64
	}{
		{joints.LeftHip, joints.LeftKnee, joints.LeftAnkle, 0},
		{joints.RightHip, joints.RightKnee, joints.RightAnkle, 0.1},
	} {
		s.Set(side.hip, joints.Position{X: hipX + side.dx, Y: hipY})
		s.Set(side.knee, joints.Position{X: 0.45 + side.dx, Y: kneeY})
		s.Set(side.ankle, joints.Position{X: 0.45 + side.dx, Y: 0.95})
	}
	return s
}

func writeRecording(t *testing.T, samples ...joints.Sample) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "frames.jsonl")
	rec, err := pose.CreateRecording(path)
	if err != nil {
		t.Fatalf("CreateRecording: %v", err)
	}
	for i, s := range samples {
		if err := rec.Record(joints.Frame{Index: uint64(i), Current: s}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return path
}

func TestExportRoundTrip(t *testing.T) {
	stand := legs(0.45, 0.55, 0.82)
	bottom := legs(0.30, 0.82, 0.80)
	in := writeRecording(t, stand, stand, bottom, bottom, stand)
	out := filepath.Join(t.TempDir(), "fixture.json")

	cooldown := 2
	if err := run(in, out, exportOptions{exercise: "squat", cooldown: &cooldown, frameMS: 100}); err != nil {
		t.Fatalf("run: %v", err)
	}

	f, err := replay.LoadFixture(out)
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	if len(f.Frames) != 5 {
		t.Fatalf("expected 5 frames, got %d", len(f.Frames))
	}
	if len(f.Expected.Reps) != 1 || f.Expected.Reps[0].DurationMS != 200 {
		t.Fatalf("unexpected expectation %+v", f.Expected)
	}

	p, err := f.Profile()
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	results, err := replay.Replay(p, f.ToFrames(), f.Config.ToReplayConfig())
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if diffs := f.Expected.Check(replay.Summarize(results)); len(diffs) != 0 {
		t.Fatalf("exported fixture does not replay cleanly: %v", diffs)
	}
}

func TestExportLastFrames(t *testing.T) {
	stand := legs(0.45, 0.55, 0.82)
	in := writeRecording(t, stand, stand, stand, stand)
	out := filepath.Join(t.TempDir(), "fixture.json")

	if err := run(in, out, exportOptions{exercise: "squat", last: 2, frameMS: 33}); err != nil {
		t.Fatalf("run: %v", err)
	}
	f, err := replay.LoadFixture(out)
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	if len(f.Frames) != 2 || f.Frames[0].Index != 2 {
		t.Fatalf("expected frames 2..3, got %+v", f.Frames)
	}
}

func TestExportUnknownExercise(t *testing.T) {
	in := writeRecording(t, legs(0.45, 0.55, 0.82))
	err := run(in, filepath.Join(t.TempDir(), "f.json"), exportOptions{exercise: "burpee"})
	if err == nil {
		t.Fatal("expected error for unknown exercise")
	}
}

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/formcheck/internal/joints"
	"github.com/danielpatrickdp/formcheck/internal/pose"
	"github.com/danielpatrickdp/formcheck/internal/profile"
	"github.com/danielpatrickdp/formcheck/internal/replay"
)

// #region main

func main() {
	recordingPath := flag.String("recording", "", "path to a JSONL frame recording")
	exercise := flag.String("exercise", "squat", "exercise id to replay the recording against")
	last := flag.Int("last", 0, "export only the N most recent frames (0 = all)")
	cooldown := flag.Int("cooldown", -1, "cooldown override in frames (-1 = profile default)")
	frameMS := flag.Int("frame-ms", 33, "frame interval in milliseconds")
	outPath := flag.String("out", "", "output fixture JSON path")
	flag.Parse()

	if *recordingPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --recording frames.jsonl --out path/to/fixture.json [--exercise id] [--last N] [--cooldown N] [--frame-ms N]")
		os.Exit(2)
	}

	opts := exportOptions{exercise: *exercise, last: *last, frameMS: *frameMS}
	if *cooldown >= 0 {
		opts.cooldown = cooldown
	}
	if err := run(*recordingPath, *outPath, opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region extract

type exportOptions struct {
	exercise string
	last     int
	cooldown *int
	frameMS  int
}

func run(recordingPath, outPath string, opts exportOptions) error {
	frames, err := pose.LoadRecording(recordingPath)
	if err != nil {
		return fmt.Errorf("load recording: %w", err)
	}
	if opts.last > 0 && len(frames) > opts.last {
		frames = frames[len(frames)-opts.last:]
	}
	if len(frames) == 0 {
		return fmt.Errorf("no frames in %s", recordingPath)
	}

	fmt.Printf("Found %d frames\n", len(frames))

	fixture, err := buildFixture(frames, opts)
	if err != nil {
		return err
	}
	return writeFixture(fixture, outPath)
}

// #endregion extract

// #region output

// buildFixture replays frames through the current engine and records what it
// produced as the expectation.
func buildFixture(frames []joints.Frame, opts exportOptions) (replay.Fixture, error) {
	fixture := replay.Fixture{
		Description: fmt.Sprintf("Recorded session export: %d frames of %s", len(frames), opts.exercise),
		Exercise:    opts.exercise,
		Config: replay.FixtureConfig{
			FrameMillis: opts.frameMS,
			Cooldown:    opts.cooldown,
		},
		Frames: make([]replay.FixtureFrame, len(frames)),
	}
	for i, f := range frames {
		fixture.Frames[i] = replay.FixtureFrame{Index: f.Index, Landmarks: f.Current}
	}

	p, err := profile.Lookup(opts.exercise)
	if err != nil {
		return replay.Fixture{}, err
	}
	results, err := replay.Replay(p, fixture.ToFrames(), fixture.Config.ToReplayConfig())
	if err != nil {
		return replay.Fixture{}, fmt.Errorf("replay: %w", err)
	}
	fixture.Expected = replay.ExpectationFrom(replay.Summarize(results))
	return fixture, nil
}

func writeFixture(fixture replay.Fixture, outPath string) error {
	data, err := json.MarshalIndent(fixture, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}

	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	fmt.Printf("Wrote fixture to %s (%d bytes, %d frames, %d reps)\n", outPath, len(data), len(fixture.Frames), len(fixture.Expected.Reps))
	return nil
}

// #endregion output

package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/danielpatrickdp/formcheck/internal/eval"
	"github.com/danielpatrickdp/formcheck/internal/plan"
	"github.com/danielpatrickdp/formcheck/internal/pose"
	"github.com/danielpatrickdp/formcheck/internal/profile"
	"github.com/danielpatrickdp/formcheck/internal/replay"
	"github.com/danielpatrickdp/formcheck/internal/reps"
	"github.com/danielpatrickdp/formcheck/internal/store"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to fixture JSON (fixture mode)")
	recordingPath := flag.String("recording", "", "path to a JSONL frame recording (session mode)")
	dbPath := flag.String("db", "", "path to formcheck.db (session mode)")
	sessionID := flag.String("session", "", "session id the recording belongs to (session mode)")
	frameMS := flag.Int("frame-ms", 33, "frame interval in milliseconds (session mode)")
	flag.Parse()

	fixtureMode := *fixturePath != ""
	sessionMode := *recordingPath != "" && *dbPath != "" && *sessionID != ""
	if fixtureMode == sessionMode {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json")
		fmt.Fprintln(os.Stderr, "       replay --recording frames.jsonl --db formcheck.db --session id [--frame-ms N]")
		os.Exit(2)
	}

	var exitCode int
	if fixtureMode {
		exitCode = runFixtureMode(*fixturePath)
	} else {
		exitCode = runSessionMode(*recordingPath, *dbPath, *sessionID, *frameMS)
	}
	os.Exit(exitCode)
}

// #endregion main

// #region modes

func runFixtureMode(path string) int {
	f, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}
	p, err := f.Profile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "resolve exercise: %v\n", err)
		return 2
	}

	results, err := replay.Replay(p, f.ToFrames(), f.Config.ToReplayConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		return 2
	}
	summary := replay.Summarize(results)

	expected := make([]string, len(f.Expected.Reps))
	for i, r := range f.Expected.Reps {
		expected[i] = r.Quality
	}
	code := printComparison(summary.Records, expected)

	for _, d := range f.Expected.Check(summary) {
		fmt.Printf("  diff: %s\n", d)
		code = 1
	}
	printEval(summary.Records, plan.Plan{})
	return code
}

func runSessionMode(recordingPath, dbPath, sessionID string, frameMS int) int {
	st, err := store.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		return 2
	}
	defer st.Close()

	sess, err := st.GetSession(sessionID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "get session: %v\n", err)
		return 2
	}
	stored, err := st.ListReps(sessionID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "list reps: %v\n", err)
		return 2
	}

	frames, err := pose.LoadRecording(recordingPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load recording: %v\n", err)
		return 2
	}
	p, err := profile.Lookup(sess.Exercise)
	if err != nil {
		fmt.Fprintf(os.Stderr, "resolve exercise: %v\n", err)
		return 2
	}

	config := replay.DefaultConfig()
	config.FrameInterval = time.Duration(frameMS) * time.Millisecond
	results, err := replay.Replay(p, frames, config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		return 2
	}
	summary := replay.Summarize(results)

	expected := make([]string, len(stored))
	for i, r := range stored {
		expected[i] = r.Quality
	}
	code := printComparison(summary.Records, expected)
	printEval(summary.Records, sess.Plan)
	return code
}

// #endregion modes

// #region output

// printComparison outputs a per-rep quality table and returns the exit code.
// A rep present on only one side counts as a divergence.
func printComparison(replayed []reps.Record, expected []string) int {
	fmt.Printf("%-6s| %-34s| %-34s| %s\n", "Rep", "Expected", "Replayed", "Match")
	fmt.Printf("%-6s+%-35s+%-35s+%s\n", "------", "-----------------------------------", "-----------------------------------", "------")

	total := len(expected)
	if len(replayed) > total {
		total = len(replayed)
	}

	matches := 0
	for i := 0; i < total; i++ {
		exp, got := "-", "-"
		if i < len(expected) {
			exp = expected[i]
		}
		if i < len(replayed) {
			got = replayed[i].Quality
		}
		match := "DIFF"
		if i < len(expected) && i < len(replayed) && exp == got {
			match = "OK"
			matches++
		}
		fmt.Printf("#%03d  | %-34s| %-34s| %s\n", i+1, exp, got, match)
	}

	diverge := total - matches
	fmt.Printf("\nSummary: %d total, %d match, %d diverge\n", total, matches, diverge)
	if diverge > 0 {
		return 1
	}
	return 0
}

func printEval(records []reps.Record, p plan.Plan) {
	s := eval.Summarize(records, p)
	fmt.Printf("Eval: %d reps, %d sets, mean %.2fs (sd %.2fs), %.1f reps/min: %s\n",
		s.Reps, s.Sets, s.Durations.Mean, s.Durations.StdDev, s.Tempo, s.Reason)
}

// #endregion output

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/danielpatrickdp/formcheck/internal/config"
	"github.com/danielpatrickdp/formcheck/internal/edge"
	"github.com/danielpatrickdp/formcheck/internal/joints"
	"github.com/danielpatrickdp/formcheck/internal/pose"
	"github.com/danielpatrickdp/formcheck/internal/profile"
	"github.com/danielpatrickdp/formcheck/internal/reps"
	"github.com/danielpatrickdp/formcheck/internal/store"
	"github.com/danielpatrickdp/formcheck/internal/telemetry"
	"github.com/danielpatrickdp/formcheck/internal/tracker"
)

// version is set at build time via -ldflags.
var version = "dev"

// #region main
type flags struct {
	playback      string
	edges         []string
	edgeCooldown  int
	statsInterval time.Duration
}

func main() {
	os.Exit(run0())
}

func run0() int {
	// Load .env file if present (non-fatal).
	_ = godotenv.Load()

	var fl flags
	flag.StringVar(&fl.playback, "playback", "", "replay a JSONL recording instead of the pose service")
	flag.Func("edge", "edge detector, e.g. proximity:LEFT_WRIST,RIGHT_WRIST:0.1 (repeatable)", func(s string) error {
		fl.edges = append(fl.edges, s)
		return nil
	})
	flag.IntVar(&fl.edgeCooldown, "edge-cooldown", 30, "cooldown in frames for -edge detectors")
	flag.DurationVar(&fl.statsInterval, "stats-interval", 10*time.Second, "how often to log progress")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 2
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, fl, logger); err != nil {
		slog.Error("fatal error", "error", err)
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg config.Config, fl flags, logger *slog.Logger) error {
	slog.Info("formcheck tracker starting", "version", version, "exercise", cfg.Exercise, "db", cfg.DBPath)

	otelShutdown, err := telemetry.Init(ctx, cfg.OTELEndpoint, cfg.ServiceName, version, cfg.OTELInsecure)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() { _ = otelShutdown(context.Background()) }()

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer db.Close()

	var overrides profile.Overrides
	if cfg.ThresholdsPath != "" {
		if overrides, err = profile.LoadOverrides(cfg.ThresholdsPath); err != nil {
			return err
		}
	}

	src, closeSrc, err := openSource(cfg, fl.playback)
	if err != nil {
		return err
	}
	defer closeSrc()

	tcfg := tracker.DefaultConfig()
	tcfg.Exercise = cfg.Exercise
	tcfg.Overrides = overrides
	tcfg.Plan = cfg.Plan
	tcfg.Store = db
	tcfg.LogDir = cfg.LogDir
	tcfg.Cooldown = cfg.Cooldown
	tcfg.Logger = logger
	tcfg.Counters = telemetry.NewCounters(telemetry.Meter("formcheck/tracker"))
	if cfg.Suppress == reps.SuppressCount.String() {
		tcfg.Suppress = reps.SuppressCount
	}
	if tcfg.Render, err = tracker.ParseRenderMode(cfg.Render); err != nil {
		return err
	}
	if tcfg.Render == tracker.Overlay {
		tcfg.Renderer = newTerminalOverlay(os.Stderr)
	}
	if cfg.RecordPath != "" {
		rec, err := pose.CreateRecording(cfg.RecordPath)
		if err != nil {
			return err
		}
		defer rec.Close()
		tcfg.Recorder = rec
	}

	sess, err := tracker.Start(ctx, tcfg)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	for _, spec := range fl.edges {
		d, err := edge.Parse(spec, fl.edgeCooldown, nil)
		if err != nil {
			return err
		}
		if err := sess.Register(d); err != nil {
			return err
		}
		slog.Info("edge detector registered", "detector", d.Name())
	}

	loopCtx, stopLoop := context.WithCancel(ctx)
	defer stopLoop()
	g, gctx := errgroup.WithContext(loopCtx)
	g.Go(func() error {
		defer stopLoop()
		return frameLoop(gctx, src, sess, cfg.FrameTimeout)
	})
	g.Go(func() error {
		reportLoop(gctx, sess, fl.statsInterval)
		return nil
	})
	loopErr := g.Wait()

	summary, stopErr := sess.Stop()
	if err := errors.Join(loopErr, stopErr); err != nil {
		return err
	}

	if err := printSummary(os.Stdout, summary); err != nil {
		return err
	}
	slog.Info("formcheck tracker stopped", "session", sess.ID())
	return nil
}

func printSummary(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// #endregion main

// #region loops
func openSource(cfg config.Config, playback string) (pose.Source, func(), error) {
	if playback != "" {
		frames, err := pose.LoadRecording(playback)
		if err != nil {
			return nil, nil, err
		}
		return pose.NewPlayback(frames), func() {}, nil
	}
	client, err := pose.NewClient(cfg.PoseAddr)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to pose service at %s: %w", cfg.PoseAddr, err)
	}
	return client, func() { _ = client.Close() }, nil
}

// frameLoop pulls frames until the source ends or ctx is cancelled. Sink
// failures are logged by the session and do not stop tracking.
func frameLoop(ctx context.Context, src pose.Source, sess *tracker.Session, timeout time.Duration) error {
	for {
		fctx, cancel := context.WithTimeout(ctx, timeout)
		f, err := src.Next(fctx)
		cancel()
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case ctx.Err() != nil:
			return nil
		case err != nil:
			return fmt.Errorf("next frame: %w", err)
		}

		if _, err := sess.Process(f); errors.Is(err, tracker.ErrStopped) {
			return err
		}
	}
}

func reportLoop(ctx context.Context, sess *tracker.Session, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st := sess.Stats()
			slog.Info("progress",
				"reps", st.Reps,
				"sets", st.Sets,
				"status", st.Status,
				"instruction", st.Instruction,
				"frames", st.Frames,
				"skipped", st.SkippedFrames)
		}
	}
}

// #endregion loops

// #region overlay
// terminalOverlay prints the instruction line whenever it changes.
type terminalOverlay struct {
	w    io.Writer
	last string
}

func newTerminalOverlay(w io.Writer) *terminalOverlay {
	return &terminalOverlay{w: w}
}

func (o *terminalOverlay) Draw(_ joints.Frame, st tracker.Stats) {
	line := fmt.Sprintf("%s | reps %d (sets %d/%d) | %s", st.Name, st.Reps, st.Sets, st.Plan.Sets, st.Instruction)
	if line == o.last {
		return
	}
	o.last = line
	fmt.Fprintln(o.w, line)
}

func (o *terminalOverlay) RepCompleted(rec reps.Record) {
	fmt.Fprintf(o.w, "rep %d: %s (%.1fs)\n", rec.Index, rec.Quality, rec.Seconds())
}

// #endregion overlay

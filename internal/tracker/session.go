package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/formcheck/internal/edge"
	"github.com/danielpatrickdp/formcheck/internal/errs"
	"github.com/danielpatrickdp/formcheck/internal/eval"
	"github.com/danielpatrickdp/formcheck/internal/joints"
	"github.com/danielpatrickdp/formcheck/internal/profile"
	"github.com/danielpatrickdp/formcheck/internal/replog"
	"github.com/danielpatrickdp/formcheck/internal/reps"
	"github.com/danielpatrickdp/formcheck/internal/store"
	"github.com/danielpatrickdp/formcheck/internal/timeutil"
)

// ErrStopped is returned by operations on a stopped session.
var ErrStopped = errors.New("tracker: session stopped")

// #region session
// Session is safe for concurrent use: Stats may be called while another
// goroutine drives Process.
type Session struct {
	mu sync.Mutex

	ctx       context.Context
	id        string
	cfg       Config
	profile   *profile.Profile
	detector  *reps.Detector
	edges     []edge.Detector
	textLog   *replog.TextSink
	startedAt time.Time
	records   []reps.Record
	events    int
	skipped   uint64
	stopped   bool
}

// Start resolves the exercise, opens the configured sinks and returns a
// running session. ctx scopes telemetry recorded by the session.
func Start(ctx context.Context, cfg Config) (*Session, error) {
	if cfg.Clock == nil {
		cfg.Clock = timeutil.RealClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if err := cfg.Plan.Validate(); err != nil {
		return nil, err
	}
	if cfg.Render == Overlay && cfg.Renderer == nil {
		return nil, errs.New(errs.MissingCapability, "tracker.Start", "renderer", nil)
	}

	p := cfg.Profile
	if p == nil {
		var err error
		if p, err = cfg.Overrides.Lookup(cfg.Exercise); err != nil {
			return nil, err
		}
	}

	s := &Session{
		ctx:       ctx,
		cfg:       cfg,
		profile:   p,
		startedAt: cfg.Clock.Now(),
	}

	var sinks []reps.Sink
	if cfg.Store != nil {
		rec, err := cfg.Store.StartSession(p.ID, cfg.Plan, s.startedAt)
		if err != nil {
			return nil, errs.New(errs.SinkUnavailable, "tracker.Start", "store", err)
		}
		s.id = rec.SessionID
		sinks = append(sinks, cfg.Store.SessionSink(s.id))
	} else {
		s.id = uuid.New().String()
	}
	if cfg.LogDir != "" {
		tl, err := replog.Open(replog.DefaultPath(cfg.LogDir, p.ID), p, cfg.Clock)
		if err != nil {
			s.abandon()
			return nil, err
		}
		s.textLog = tl
		sinks = append(sinks, tl)
	}

	logger := cfg.Logger.With("session", s.id[:8])
	det, err := reps.New(p, reps.Options{
		Clock:    cfg.Clock,
		Logger:   logger,
		Sink:     replog.Multi(sinks...),
		Suppress: cfg.Suppress,
		Cooldown: cfg.Cooldown,
		Observer: reps.ObserverFuncs{
			OnSuppressed: func(exercise string, _ int, _ profile.Snapshot) {
				cfg.Counters.RepSuppressed(ctx, exercise)
			},
		},
	})
	if err != nil {
		s.abandon()
		return nil, err
	}
	s.detector = det
	s.cfg.Logger = logger

	logger.Info("session started",
		"exercise", p.ID,
		"plan", cfg.Plan.String(),
		"render", cfg.Render.String(),
		"cooldown", det.Cooldown())
	return s, nil
}

// abandon removes the stored session row of a Start that failed part way.
func (s *Session) abandon() {
	if s.cfg.Store == nil {
		return
	}
	if err := s.cfg.Store.DeleteSession(s.id); err != nil {
		s.cfg.Logger.Warn("remove abandoned session failed", "session", s.id, "error", err)
	}
}

// ID returns the session id, shared with the store when one is configured.
func (s *Session) ID() string { return s.id }

// Profile returns the tracked exercise.
func (s *Session) Profile() *profile.Profile { return s.profile }

// TextLogPath returns the text rep log path, or "" when disabled.
func (s *Session) TextLogPath() string {
	if s.textLog == nil {
		return ""
	}
	return s.textLog.Path()
}

// Register adds an edge detector. Detectors run after the repetition
// detector, in registration order.
func (s *Session) Register(d edge.Detector) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ErrStopped
	}
	s.edges = append(s.edges, d)
	return nil
}

// #endregion session

// #region process
// Process feeds one frame to every detector and returns the repetition it
// completed, if any. Persistence failures are logged and returned joined;
// they never undo the count.
func (s *Session) Process(f joints.Frame) (*reps.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil, ErrStopped
	}

	var failures []error
	if s.cfg.Recorder != nil {
		if err := s.cfg.Recorder.Record(f); err != nil {
			s.cfg.Logger.Warn("frame recording failed", "frame", f.Index, "error", err)
			failures = append(failures, err)
		}
	}

	rec, err := s.detector.Process(f)
	if err != nil {
		s.cfg.Logger.Warn("rep sink failed", "frame", f.Index, "error", err)
		failures = append(failures, err)
	}
	st := s.detector.Stats()
	if st.SkippedFrames > s.skipped {
		s.cfg.Counters.FramesSkipped(s.ctx, s.profile.ID, int64(st.SkippedFrames-s.skipped))
		s.skipped = st.SkippedFrames
	}
	if rec != nil {
		s.records = append(s.records, *rec)
		s.cfg.Counters.RepCompleted(s.ctx, rec.Exercise, rec.Quality, rec.Seconds())
	}

	for _, d := range s.edges {
		ev, fired := d.Process(f)
		if !fired {
			continue
		}
		s.events++
		s.cfg.Counters.DetectorFired(s.ctx, d.Name(), string(ev.Kind))
		s.cfg.Logger.Debug("edge event", "detector", d.Name(), "kind", ev.Kind, "frame", ev.Frame, "value", ev.Value)
		if s.cfg.Store != nil {
			err := s.cfg.Store.LogEvent(store.EventEntry{
				SessionID: s.id,
				Detector:  d.Name(),
				Kind:      string(ev.Kind),
				Frame:     ev.Frame,
				Value:     ev.Value,
				Direction: ev.Direction,
				CreatedAt: s.cfg.Clock.Now(),
			})
			if err != nil {
				s.cfg.Logger.Warn("event log failed", "detector", d.Name(), "error", err)
				failures = append(failures, errs.New(errs.SinkUnavailable, "tracker.Process", d.Name(), err))
			}
		}
	}

	if s.cfg.Render == Overlay {
		if rec != nil {
			s.cfg.Renderer.RepCompleted(*rec)
		}
		s.cfg.Renderer.Draw(f, s.statsLocked())
	}
	return rec, errors.Join(failures...)
}

// #endregion process

// #region stats
// Stats returns the current session snapshot.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statsLocked()
}

func (s *Session) statsLocked() Stats {
	st := s.detector.Stats()
	return Stats{
		Stats:     st,
		SessionID: s.id,
		Sets:      s.cfg.Plan.CompletedSets(st.Reps),
		Plan:      s.cfg.Plan,
		Duration:  s.cfg.Clock.Since(s.startedAt),
		Events:    s.events,
		Stopped:   s.stopped,
	}
}

// Records returns the repetitions completed so far.
func (s *Session) Records() []reps.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]reps.Record(nil), s.records...)
}

// Summary evaluates the repetitions completed so far against the plan.
func (s *Session) Summary() eval.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return eval.Summarize(s.records, s.cfg.Plan)
}

// #endregion stats

// #region stop
// Stop closes the session: the store row is ended and the recorder flushed.
// Calling Stop twice returns ErrStopped.
func (s *Session) Stop() (eval.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return eval.Summary{}, ErrStopped
	}
	s.stopped = true

	st := s.detector.Stats()
	var failures []error
	if s.cfg.Store != nil {
		if err := s.cfg.Store.EndSession(s.id, s.cfg.Clock.Now(), st.Reps, st.Suppressed); err != nil {
			failures = append(failures, fmt.Errorf("end session: %w", err))
		}
	}
	if s.cfg.Recorder != nil {
		if err := s.cfg.Recorder.Flush(); err != nil {
			failures = append(failures, fmt.Errorf("flush recording: %w", err))
		}
	}

	summary := eval.Summarize(s.records, s.cfg.Plan)
	s.cfg.Logger.Info("session stopped",
		"reps", st.Reps,
		"sets", summary.Sets,
		"suppressed", st.Suppressed,
		"skipped_frames", st.SkippedFrames,
		"duration_s", s.cfg.Clock.Since(s.startedAt).Seconds(),
		"eval", summary.Reason)
	return summary, errors.Join(failures...)
}

// #endregion stop

// Package tracker owns one tracking session: the repetition detector for an
// exercise, any registered edge detectors, and the sinks they report to.
// A Session is created by Start and discarded after Stop; there is no
// process-wide tracker.
package tracker

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/danielpatrickdp/formcheck/internal/joints"
	"github.com/danielpatrickdp/formcheck/internal/plan"
	"github.com/danielpatrickdp/formcheck/internal/pose"
	"github.com/danielpatrickdp/formcheck/internal/profile"
	"github.com/danielpatrickdp/formcheck/internal/reps"
	"github.com/danielpatrickdp/formcheck/internal/store"
	"github.com/danielpatrickdp/formcheck/internal/telemetry"
	"github.com/danielpatrickdp/formcheck/internal/timeutil"
)

// #region render-mode
// RenderMode decides whether the session drives an Overlay.
type RenderMode int

const (
	Headless RenderMode = iota
	Overlay
)

// ParseRenderMode accepts "headless" or "overlay".
func ParseRenderMode(s string) (RenderMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "headless":
		return Headless, nil
	case "overlay":
		return Overlay, nil
	}
	return Headless, fmt.Errorf("unknown render mode %q", s)
}

func (m RenderMode) String() string {
	if m == Overlay {
		return "overlay"
	}
	return "headless"
}

// Renderer draws session state for an operator. It is only called when the
// session runs in Overlay mode.
type Renderer interface {
	Draw(f joints.Frame, stats Stats)
	RepCompleted(rec reps.Record)
}

// #endregion render-mode

// #region config
// Config describes a session. Exercise is required unless Profile is set.
type Config struct {
	Exercise  string
	Profile   *profile.Profile  // takes precedence over Exercise
	Overrides profile.Overrides // applied when resolving Exercise
	Plan      plan.Plan

	Store    *store.Store // optional session history
	LogDir   string       // optional text rep log directory
	Recorder *pose.Recorder

	Render   RenderMode
	Renderer Renderer // required in Overlay mode

	Suppress reps.SuppressPolicy
	Cooldown *int

	Clock    timeutil.Clock
	Logger   *slog.Logger
	Counters *telemetry.Counters
}

// DefaultConfig tracks squats headless with the default plan.
func DefaultConfig() Config {
	return Config{
		Exercise: "squat",
		Plan:     plan.Default(),
		Render:   Headless,
		Clock:    timeutil.RealClock{},
		Logger:   slog.Default(),
	}
}

// #endregion config

// #region stats
// Stats extends the detector snapshot with session-level progress.
type Stats struct {
	reps.Stats
	SessionID string        `json:"session_id"`
	Sets      int           `json:"sets"`
	Plan      plan.Plan     `json:"expected_plan"`
	Duration  time.Duration `json:"duration_ns"`
	Events    int           `json:"events"`
	Stopped   bool          `json:"stopped"`
}

// #endregion stats

// Package reps is the repetition-counting state machine: a hysteresis cycle
// between a profile's start and target positions that counts and grades one
// repetition per physical repetition.
package reps

import (
	"log/slog"
	"time"

	"github.com/danielpatrickdp/formcheck/internal/profile"
	"github.com/danielpatrickdp/formcheck/internal/timeutil"
)

// #region status
// Status is the externally visible phase of a detector.
type Status string

const (
	StatusReady      Status = "ready"       // waiting for the target position
	StatusActive     Status = "active"      // inside the target position envelope
	StatusMustReturn Status = "must-return" // left the target without reaching start
)

// #endregion status

// #region suppress-policy
// SuppressPolicy decides what happens when the start position is reached
// before the cooldown has elapsed.
type SuppressPolicy int

const (
	// SuppressDiscard drops the repetition and its best metrics.
	SuppressDiscard SuppressPolicy = iota
	// SuppressCount counts it anyway.
	SuppressCount
)

func (p SuppressPolicy) String() string {
	if p == SuppressCount {
		return "count"
	}
	return "discard"
}

// #endregion suppress-policy

// #region record
// Record is one completed repetition.
type Record struct {
	Exercise    string           `json:"exercise"`
	Index       int              `json:"index"` // 1-based
	Duration    time.Duration    `json:"duration_ns"`
	Quality     string           `json:"quality"`
	Best        profile.Snapshot `json:"best"`
	StartedAt   time.Time        `json:"started_at"`
	CompletedAt time.Time        `json:"completed_at"`
}

// Seconds returns the duration in seconds.
func (r Record) Seconds() float64 {
	return r.Duration.Seconds()
}

// #endregion record

// #region sink
// Sink persists completed repetitions. Append is called synchronously from
// Process.
type Sink interface {
	Append(rec Record) error
}

// #endregion sink

// #region observer
// Observer receives state machine notifications. Calls happen inline on the
// processing goroutine.
type Observer interface {
	RepStarted(exercise string, at time.Time, metrics profile.Snapshot)
	RepCompleted(rec Record)
	RepSuppressed(exercise string, framesSinceLast int, best profile.Snapshot)
}

// ObserverFuncs adapts optional callbacks to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnStarted    func(exercise string, at time.Time, metrics profile.Snapshot)
	OnCompleted  func(rec Record)
	OnSuppressed func(exercise string, framesSinceLast int, best profile.Snapshot)
}

func (o ObserverFuncs) RepStarted(exercise string, at time.Time, m profile.Snapshot) {
	if o.OnStarted != nil {
		o.OnStarted(exercise, at, m)
	}
}

func (o ObserverFuncs) RepCompleted(rec Record) {
	if o.OnCompleted != nil {
		o.OnCompleted(rec)
	}
}

func (o ObserverFuncs) RepSuppressed(exercise string, n int, best profile.Snapshot) {
	if o.OnSuppressed != nil {
		o.OnSuppressed(exercise, n, best)
	}
}

// #endregion observer

// #region stats
// Stats is a point-in-time view of a detector.
type Stats struct {
	Exercise      string           `json:"exercise"`
	Name          string           `json:"name"`
	Reps          int              `json:"reps"`
	Status        Status           `json:"status"`
	Instruction   string           `json:"instruction"`
	Best          profile.Snapshot `json:"best,omitempty"` // only while active
	Last          profile.Snapshot `json:"last,omitempty"` // most recent evaluated frame
	Frames        uint64           `json:"frames"`
	SkippedFrames uint64           `json:"skipped_frames"`
	OverlapFrames uint64           `json:"overlap_frames"`
	Suppressed    int              `json:"suppressed"`
	LastRep       *Record          `json:"last_rep,omitempty"`
}

// #endregion stats

// #region options
// Options configures a Detector. The zero value is usable.
type Options struct {
	Clock    timeutil.Clock
	Logger   *slog.Logger
	Observer Observer
	Sink     Sink
	Suppress SuppressPolicy
	Cooldown *int // overrides the profile's cooldown when set
}

// DefaultOptions uses the real clock and the default logger.
func DefaultOptions() Options {
	return Options{
		Clock:  timeutil.RealClock{},
		Logger: slog.Default(),
	}
}

// #endregion options

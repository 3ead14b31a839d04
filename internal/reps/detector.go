package reps

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/formcheck/internal/errs"
	"github.com/danielpatrickdp/formcheck/internal/joints"
	"github.com/danielpatrickdp/formcheck/internal/profile"
	"github.com/danielpatrickdp/formcheck/internal/timeutil"
)

// #region detector
// Detector owns one exercise's repetition state. It is not safe for
// concurrent use.
type Detector struct {
	id       string
	profile  *profile.Profile
	cooldown int
	suppress SuppressPolicy
	clock    timeutil.Clock
	logger   *slog.Logger
	observer Observer
	sink     Sink

	active    bool
	inTarget  bool // last evaluated frame satisfied the target predicate
	returned  bool // reached the start position since the last entry
	sinceLast int  // frames since the last counted rep
	startedAt time.Time
	best      profile.Snapshot
	last      profile.Snapshot

	reps       int
	frames     uint64
	skipped    uint64
	overlap    uint64
	suppressed int
	lastRep    *Record
}

// New validates p and returns a detector in the Ready state.
func New(p *profile.Profile, opts Options) (*Detector, error) {
	if p == nil {
		return nil, errs.New(errs.MissingCapability, "reps.New", "profile", nil)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	cooldown := p.Cooldown
	if opts.Cooldown != nil {
		if *opts.Cooldown < 0 {
			return nil, errs.New(errs.InvalidConfig, "reps.New", p.ID+".cooldown", nil)
		}
		cooldown = *opts.Cooldown
	}
	if opts.Clock == nil {
		opts.Clock = timeutil.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Observer == nil {
		opts.Observer = ObserverFuncs{}
	}

	id := uuid.New().String()
	d := &Detector{
		id:       id,
		profile:  p,
		cooldown: cooldown,
		suppress: opts.Suppress,
		clock:    opts.Clock,
		logger:   opts.Logger.With("exercise", p.ID, "detector", id[:8]),
		observer: opts.Observer,
		sink:     opts.Sink,
	}
	d.Reset()
	return d, nil
}

// ID identifies this detector instance.
func (d *Detector) ID() string { return d.id }

// Profile returns the exercise definition.
func (d *Detector) Profile() *profile.Profile { return d.profile }

// Cooldown returns the effective cooldown in frames.
func (d *Detector) Cooldown() int { return d.cooldown }

// Reset discards all progress, including the rep count.
func (d *Detector) Reset() {
	d.active = false
	d.inTarget = false
	d.returned = true
	d.sinceLast = d.cooldown
	d.startedAt = time.Time{}
	d.best = nil
	d.last = nil
	d.reps = 0
	d.frames = 0
	d.skipped = 0
	d.overlap = 0
	d.suppressed = 0
	d.lastRep = nil
}

// #endregion detector

// #region process
// Process advances the state machine by one frame and returns the completed
// repetition, if any. The only error is SinkUnavailable, returned together
// with the record after the count has already advanced.
func (d *Detector) Process(f joints.Frame) (*Record, error) {
	d.frames++
	d.sinceLast++

	p := d.profile
	if !f.Current.Has(p.Joints...) {
		d.skipped++
		d.logger.Debug("frame skipped", "frame", f.Index, "missing", joints.Names(f.Current.Missing(p.Joints...)))
		return nil, nil
	}

	m := p.Metrics(f.Current)
	d.last = m
	inPos, atStart := p.InPosition(m), p.AtStart(m)
	d.inTarget = inPos
	if inPos && atStart {
		d.overlap++
		d.logger.Debug("start and target positions both hold", "frame", f.Index, "metrics", m.String())
	}

	switch {
	case atStart && d.active:
		d.active = false
		d.returned = true
		if d.sinceLast >= d.cooldown || d.suppress == SuppressCount {
			return d.finalize()
		}
		d.discard()

	case inPos && !d.active && d.returned:
		d.active = true
		d.returned = false
		d.startedAt = d.clock.Now()
		d.best = m.Finite()
		d.logger.Info("rep started", "frame", f.Index, "metrics", m.String())
		d.observer.RepStarted(p.ID, d.startedAt, m.Clone())

	case d.active:
		d.best = p.Merge(m, d.best)
	}
	return nil, nil
}

func (d *Detector) finalize() (*Record, error) {
	p := d.profile
	d.reps++
	d.sinceLast = 0

	now := d.clock.Now()
	rec := Record{
		Exercise:    p.ID,
		Index:       d.reps,
		Duration:    now.Sub(d.startedAt),
		Quality:     p.Classify(d.best),
		Best:        d.best,
		StartedAt:   d.startedAt,
		CompletedAt: now,
	}
	d.best = nil
	last := rec
	last.Best = rec.Best.Clone()
	d.lastRep = &last

	d.logger.Info("rep completed",
		"rep", rec.Index,
		"quality", rec.Quality,
		"duration_s", rec.Seconds(),
		"best", rec.Best.String())

	var sinkErr error
	if d.sink != nil {
		if err := d.sink.Append(rec); err != nil {
			sinkErr = errs.New(errs.SinkUnavailable, "reps.Process", p.ID, err)
		}
	}
	d.observer.RepCompleted(rec)
	return &rec, sinkErr
}

func (d *Detector) discard() {
	d.suppressed++
	d.logger.Info("rep suppressed",
		"frames_since_last", d.sinceLast,
		"cooldown", d.cooldown,
		"best", d.best.String())
	d.observer.RepSuppressed(d.profile.ID, d.sinceLast, d.best)
	d.best = nil
}

// #endregion process

// #region stats
// Status reports the logical phase. An active repetition that has left the
// target envelope reports StatusMustReturn until the start position is reached.
func (d *Detector) Status() Status {
	switch {
	case d.active && d.inTarget:
		return StatusActive
	case d.active || !d.returned:
		return StatusMustReturn
	}
	return StatusReady
}

// Reps returns the number of counted repetitions.
func (d *Detector) Reps() int { return d.reps }

// Stats returns a snapshot safe to retain.
func (d *Detector) Stats() Stats {
	s := Stats{
		Exercise:      d.profile.ID,
		Name:          d.profile.DisplayName(),
		Reps:          d.reps,
		Status:        d.Status(),
		Instruction:   d.instruction(),
		Last:          d.last.Finite(),
		Frames:        d.frames,
		SkippedFrames: d.skipped,
		OverlapFrames: d.overlap,
		Suppressed:    d.suppressed,
	}
	if d.active {
		s.Best = d.best.Clone()
	}
	if d.lastRep != nil {
		rep := *d.lastRep
		rep.Best = rep.Best.Clone()
		s.LastRep = &rep
	}
	return s
}

func (d *Detector) instruction() string {
	st := d.Status()
	return d.profile.Instruction(st == StatusActive, st == StatusMustReturn, d.last)
}

// #endregion stats

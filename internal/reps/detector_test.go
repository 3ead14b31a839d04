package reps

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/formcheck/internal/errs"
	"github.com/danielpatrickdp/formcheck/internal/joints"
	"github.com/danielpatrickdp/formcheck/internal/profile"
	"github.com/danielpatrickdp/formcheck/internal/timeutil"
)

// #region helpers

// metricProfile wraps the squat catalogue entry but reads knee_angle and
// squat_depth straight from LEFT_KNEE's x and y, so tests drive metrics directly.
func metricProfile(t *testing.T) *profile.Profile {
	t.Helper()
	squat, err := profile.Lookup("squat")
	require.NoError(t, err)
	p := *squat
	p.Joints = []joints.JointID{joints.LeftKnee}
	p.Metrics = func(s joints.Sample) profile.Snapshot {
		k, _ := s.Get(joints.LeftKnee)
		return profile.Snapshot{"knee_angle": k.X, "squat_depth": k.Y}
	}
	return &p
}

type metric struct{ knee, depth float64 }

var (
	standing = metric{170, 0.30}
	bottom   = metric{95, 0.10}
	between  = metric{130, 0.20}
)

func frame(i int, m metric) joints.Frame {
	var s joints.Sample
	s.Set(joints.LeftKnee, joints.Position{X: m.knee, Y: m.depth})
	return joints.Frame{Index: uint64(i), Current: s}
}

func missing(i int) joints.Frame {
	return joints.Frame{Index: uint64(i)}
}

type recorder struct {
	started    int
	completed  []Record
	suppressed int
}

func (r *recorder) observer() Observer {
	return ObserverFuncs{
		OnStarted:    func(string, time.Time, profile.Snapshot) { r.started++ },
		OnCompleted:  func(rec Record) { r.completed = append(r.completed, rec) },
		OnSuppressed: func(string, int, profile.Snapshot) { r.suppressed++ },
	}
}

type memSink struct {
	records []Record
	err     error
}

func (s *memSink) Append(rec Record) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, rec)
	return nil
}

func newDetector(t *testing.T, cooldown int, opts Options) (*Detector, *timeutil.FakeClock) {
	t.Helper()
	clock := timeutil.NewFakeClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	opts.Clock = clock
	opts.Cooldown = &cooldown
	d, err := New(metricProfile(t), opts)
	require.NoError(t, err)
	return d, clock
}

// run feeds frames, advancing the clock 100ms before each, and collects records.
func run(t *testing.T, d *Detector, clock *timeutil.FakeClock, frames ...joints.Frame) []Record {
	t.Helper()
	var out []Record
	for _, f := range frames {
		clock.Advance(100 * time.Millisecond)
		rec, err := d.Process(f)
		require.NoError(t, err)
		if rec != nil {
			out = append(out, *rec)
		}
	}
	return out
}

func seq(ms ...metric) []joints.Frame {
	out := make([]joints.Frame, len(ms))
	for i, m := range ms {
		out[i] = frame(i, m)
	}
	return out
}

// #endregion helpers

func TestProcess_SquatScenario(t *testing.T) {
	obs := &recorder{}
	sink := &memSink{}
	d, clock := newDetector(t, 2, Options{Observer: obs.observer(), Sink: sink})

	recs := run(t, d, clock, seq(
		standing, standing,
		metric{95, 0.10}, metric{90, 0.08}, metric{95, 0.10},
		standing,
	)...)

	require.Len(t, recs, 1)
	rec := recs[0]
	assert.Equal(t, 1, rec.Index)
	assert.Equal(t, "squat", rec.Exercise)
	assert.Equal(t, 0.08, rec.Best["squat_depth"])
	assert.Equal(t, 90.0, rec.Best["knee_angle"])
	assert.Equal(t, "Excellent - ATG (Ass to Grass)", rec.Quality)
	assert.Equal(t, 300*time.Millisecond, rec.Duration)

	assert.Equal(t, 1, obs.started)
	assert.Len(t, obs.completed, 1)
	assert.Len(t, sink.records, 1)
	assert.Equal(t, 1, d.Reps())
	assert.Equal(t, StatusReady, d.Status())
}

func TestProcess_NoDoubleCounting(t *testing.T) {
	d, clock := newDetector(t, 0, Options{})

	frames := []metric{standing, bottom}
	for i := 0; i < 20; i++ {
		// oscillate inside the rep without touching the start position
		if i%2 == 0 {
			frames = append(frames, between)
		} else {
			frames = append(frames, bottom)
		}
	}
	frames = append(frames, standing, standing, standing)

	recs := run(t, d, clock, seq(frames...)...)
	assert.Len(t, recs, 1)
	assert.Equal(t, 1, d.Reps())
}

func TestProcess_CooldownSuppression(t *testing.T) {
	obs := &recorder{}
	d, clock := newDetector(t, 10, Options{Observer: obs.observer()})

	recs := run(t, d, clock, seq(standing, bottom, standing)...)
	require.Len(t, recs, 1)

	// second cycle returns after only two frames
	recs = run(t, d, clock, seq(bottom, standing)...)
	assert.Empty(t, recs)
	assert.Equal(t, 1, d.Reps())
	assert.Equal(t, StatusReady, d.Status())
	assert.Equal(t, 1, obs.suppressed)

	st := d.Stats()
	assert.Equal(t, 1, st.Suppressed)
	assert.Nil(t, st.Best)
}

func TestProcess_SuppressCountPolicy(t *testing.T) {
	d, clock := newDetector(t, 10, Options{Suppress: SuppressCount})
	recs := run(t, d, clock, seq(standing, bottom, standing, bottom, standing)...)
	assert.Len(t, recs, 2)
	assert.Equal(t, 0, d.Stats().Suppressed)
}

func TestProcess_FirstRepNeverSuppressed(t *testing.T) {
	d, clock := newDetector(t, 30, Options{})
	recs := run(t, d, clock, seq(bottom, standing)...)
	assert.Len(t, recs, 1)
}

func TestProcess_ReentryRequiresReturn(t *testing.T) {
	obs := &recorder{}
	d, clock := newDetector(t, 0, Options{Observer: obs.observer()})

	run(t, d, clock, seq(standing, bottom, between, bottom, between, bottom)...)
	assert.Equal(t, 1, obs.started)
	assert.Equal(t, 0, d.Reps())

	run(t, d, clock, seq(standing, bottom)...)
	assert.Equal(t, 2, obs.started)
	assert.Equal(t, 1, d.Reps())
}

func TestProcess_MissingJointRobustness(t *testing.T) {
	d, clock := newDetector(t, 0, Options{})

	run(t, d, clock, frame(0, standing), frame(1, metric{90, 0.08}))
	before := d.Stats()
	require.Equal(t, StatusActive, before.Status)

	run(t, d, clock, missing(2), missing(3))
	after := d.Stats()
	assert.Equal(t, before.Status, after.Status)
	assert.Equal(t, before.Best, after.Best)
	assert.Equal(t, uint64(2), after.SkippedFrames)

	recs := run(t, d, clock, frame(4, bottom), frame(5, standing))
	require.Len(t, recs, 1)
	assert.Equal(t, 0.08, recs[0].Best["squat_depth"])
}

func TestProcess_SkippedFramesAdvanceCooldown(t *testing.T) {
	d, clock := newDetector(t, 5, Options{})

	require.Len(t, run(t, d, clock, seq(standing, bottom, standing)...), 1)
	// five skipped frames satisfy the cooldown for the next return
	run(t, d, clock, missing(3), missing(4), missing(5), missing(6), missing(7))
	recs := run(t, d, clock, frame(8, bottom), frame(9, standing))
	assert.Len(t, recs, 1)
}

func TestProcess_SinkFailureStillCounts(t *testing.T) {
	sink := &memSink{err: errors.New("disk full")}
	d, clock := newDetector(t, 0, Options{Sink: sink})

	run(t, d, clock, frame(0, standing), frame(1, bottom))
	clock.Advance(100 * time.Millisecond)
	rec, err := d.Process(frame(2, standing))
	require.Error(t, err)
	assert.True(t, errs.IsSinkUnavailable(err))
	assert.ErrorContains(t, err, "disk full")
	require.NotNil(t, rec)
	assert.Equal(t, 1, rec.Index)
	assert.Equal(t, 1, d.Reps())
	assert.Equal(t, StatusReady, d.Status())
}

func TestProcess_OverlapPrefersReturn(t *testing.T) {
	p := metricProfile(t)
	p.InPosition = func(m profile.Snapshot) bool { return m.Get("knee_angle") < 100 }
	p.AtStart = func(m profile.Snapshot) bool { return m.Get("squat_depth") > 0.25 }
	zero := 0
	d, err := New(p, Options{Cooldown: &zero, Clock: timeutil.NewFakeClock(time.Unix(0, 0))})
	require.NoError(t, err)

	both := metric{90, 0.30}
	_, _ = d.Process(frame(0, bottom))
	rec, err := d.Process(frame(1, both))
	require.NoError(t, err)
	require.NotNil(t, rec, "return must win when both predicates hold")
	assert.Equal(t, StatusReady, d.Status())

	// earliest re-entry is the next frame
	_, _ = d.Process(frame(2, bottom))
	assert.Equal(t, StatusActive, d.Status())
	assert.Equal(t, uint64(1), d.Stats().OverlapFrames)
}

func TestProcess_UndefinedMetricsLeftOutOfBest(t *testing.T) {
	p := metricProfile(t)
	p.Metrics = func(s joints.Sample) profile.Snapshot {
		k, _ := s.Get(joints.LeftKnee)
		return profile.Snapshot{"knee_angle": k.X, "squat_depth": k.Y, "hip_angle": math.NaN()}
	}
	zero := 0
	clock := timeutil.NewFakeClock(time.Unix(0, 0))
	d, err := New(p, Options{Cooldown: &zero, Clock: clock})
	require.NoError(t, err)

	recs := run(t, d, clock, seq(standing, bottom)...)
	require.Empty(t, recs)
	_, hasHip := d.Stats().Best["hip_angle"]
	assert.False(t, hasHip)
	_, hasHip = d.Stats().Last["hip_angle"]
	assert.False(t, hasHip)

	recs = run(t, d, clock, frame(2, standing))
	require.Len(t, recs, 1)
	assert.Equal(t, profile.Snapshot{"knee_angle": 95, "squat_depth": 0.10}, recs[0].Best)
}

func TestProcess_ReturnedRecordIsIndependent(t *testing.T) {
	d, clock := newDetector(t, 0, Options{})
	run(t, d, clock, seq(standing, bottom)...)
	clock.Advance(100 * time.Millisecond)
	rec, err := d.Process(frame(2, standing))
	require.NoError(t, err)
	require.NotNil(t, rec)

	rec.Best["squat_depth"] = 99
	rec.Quality = "edited"

	last := d.Stats().LastRep
	require.NotNil(t, last)
	assert.Equal(t, 0.10, last.Best["squat_depth"])
	assert.Equal(t, "Good - Full depth / Parallel", last.Quality)
}

func TestStats_StatusAndInstruction(t *testing.T) {
	d, clock := newDetector(t, 0, Options{})

	st := d.Stats()
	assert.Equal(t, StatusReady, st.Status)
	assert.Equal(t, "READY - Squat down", st.Instruction)

	run(t, d, clock, frame(0, standing), frame(1, bottom))
	st = d.Stats()
	assert.Equal(t, StatusActive, st.Status)
	assert.Equal(t, "FULL SQUAT - Hold at bottom", st.Instruction)
	assert.Equal(t, profile.Snapshot{"knee_angle": 95, "squat_depth": 0.10}, st.Best)

	run(t, d, clock, frame(2, between))
	st = d.Stats()
	assert.Equal(t, StatusMustReturn, st.Status)
	assert.Equal(t, "STAND UP - Return to top", st.Instruction)

	run(t, d, clock, frame(3, standing))
	st = d.Stats()
	assert.Equal(t, StatusReady, st.Status)
	assert.Equal(t, 1, st.Reps)
	require.NotNil(t, st.LastRep)
	assert.Equal(t, "Good - Full depth / Parallel", st.LastRep.Quality)
}

func TestReset(t *testing.T) {
	d, clock := newDetector(t, 0, Options{})
	run(t, d, clock, seq(standing, bottom, standing, bottom)...)
	require.Equal(t, 1, d.Reps())

	d.Reset()
	st := d.Stats()
	assert.Equal(t, 0, st.Reps)
	assert.Equal(t, StatusReady, st.Status)
	assert.Zero(t, st.Frames)
}

func TestNew_RejectsBadProfiles(t *testing.T) {
	_, err := New(nil, Options{})
	assert.True(t, errs.IsMissingCapability(err))

	p := metricProfile(t)
	p.Classify = nil
	_, err = New(p, Options{})
	assert.True(t, errs.IsMissingCapability(err))

	neg := -1
	_, err = New(metricProfile(t), Options{Cooldown: &neg})
	assert.True(t, errs.IsInvalidConfig(err))
	assert.False(t, errs.IsMissingCapability(err))
}

func TestNew_DefaultsToProfileCooldown(t *testing.T) {
	d, err := New(metricProfile(t), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 30, d.Cooldown())
	assert.NotEmpty(t, d.ID())
}

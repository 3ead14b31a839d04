package edge

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/formcheck/internal/errs"
	"github.com/danielpatrickdp/formcheck/internal/geometry"
	"github.com/danielpatrickdp/formcheck/internal/joints"
)

// #region debounce
// debounce counts frames since the owning detector last fired. It starts
// elapsed so the first qualifying edge may fire immediately.
type debounce struct {
	cooldown int
	since    int
}

func newDebounce(cooldown int) debounce {
	if cooldown < 0 {
		cooldown = 0
	}
	return debounce{cooldown: cooldown, since: cooldown}
}

func (d *debounce) tick()       { d.since++ }
func (d *debounce) ready() bool { return d.since >= d.cooldown }
func (d *debounce) fire()       { d.since = 0 }

// #endregion debounce

// #region crossing
// CrossingDetector fires when the signed offset between two joints along an
// axis changes sign.
type CrossingDetector struct {
	cfg     CrossingConfig
	axis    Axis
	deb     debounce
	last    float64
	hasLast bool
	onEvent Handler
}

// NewCrossingDetector validates the axis and returns a detector. onEvent may be nil.
func NewCrossingDetector(cfg CrossingConfig, onEvent Handler) (*CrossingDetector, error) {
	axis, err := ParseAxis(cfg.Axis)
	if err != nil {
		return nil, err
	}
	return &CrossingDetector{cfg: cfg, axis: axis, deb: newDebounce(cfg.Cooldown), onEvent: onEvent}, nil
}

// Name identifies the detector in logs and stats.
func (d *CrossingDetector) Name() string {
	return fmt.Sprintf("crossing(%s,%s,%s)", d.cfg.Joint1, d.cfg.Joint2, d.axis)
}

// Process advances the detector by one frame.
func (d *CrossingDetector) Process(f joints.Frame) (Event, bool) {
	d.deb.tick()

	p1, ok1 := f.Current.Get(d.cfg.Joint1)
	p2, ok2 := f.Current.Get(d.cfg.Joint2)
	if !ok1 || !ok2 {
		return Event{}, false
	}

	signal := d.axis.of(p1) - d.axis.of(p2)
	prev, hadPrev := d.last, d.hasLast
	d.last, d.hasLast = signal, true

	if !hadPrev || sign(prev) == sign(signal) || !d.deb.ready() {
		return Event{}, false
	}

	direction := fmt.Sprintf("%s crossed over %s", d.cfg.Joint2, d.cfg.Joint1)
	if signal > 0 {
		direction = fmt.Sprintf("%s crossed over %s", d.cfg.Joint1, d.cfg.Joint2)
	}
	d.deb.fire()
	return d.onEvent.emit(Event{
		Kind:      KindCrossing,
		Frame:     f.Index,
		Joints:    []joints.JointID{d.cfg.Joint1, d.cfg.Joint2},
		Positions: []joints.Position{p1, p2},
		Value:     signal,
		Direction: direction,
	}), true
}

// #endregion crossing

// #region proximity
// ProximityDetector fires on the transition from apart to within threshold.
type ProximityDetector struct {
	cfg      ProximityConfig
	deb      debounce
	wasClose bool
	onEvent  Handler
}

// NewProximityDetector returns a detector. A non-positive threshold is a
// configuration error.
func NewProximityDetector(cfg ProximityConfig, onEvent Handler) (*ProximityDetector, error) {
	if cfg.Threshold <= 0 || math.IsNaN(cfg.Threshold) {
		return nil, errs.New(errs.InvalidConfig, "edge.NewProximityDetector", "threshold", nil)
	}
	return &ProximityDetector{cfg: cfg, deb: newDebounce(cfg.Cooldown), onEvent: onEvent}, nil
}

// Name identifies the detector in logs and stats.
func (d *ProximityDetector) Name() string {
	return fmt.Sprintf("proximity(%s,%s<%.3f)", d.cfg.Joint1, d.cfg.Joint2, d.cfg.Threshold)
}

// Process advances the detector by one frame.
func (d *ProximityDetector) Process(f joints.Frame) (Event, bool) {
	d.deb.tick()

	p1, ok1 := f.Current.Get(d.cfg.Joint1)
	p2, ok2 := f.Current.Get(d.cfg.Joint2)
	if !ok1 || !ok2 {
		return Event{}, false
	}

	dist := geometry.Distance3D(p1, p2)
	near := dist < d.cfg.Threshold
	rising := near && !d.wasClose
	d.wasClose = near

	if !rising || !d.deb.ready() {
		return Event{}, false
	}
	d.deb.fire()
	return d.onEvent.emit(Event{
		Kind:      KindProximity,
		Frame:     f.Index,
		Joints:    []joints.JointID{d.cfg.Joint1, d.cfg.Joint2},
		Positions: []joints.Position{p1, p2},
		Value:     dist,
	}), true
}

// #endregion proximity

// #region angle
// AngleDetector fires on the rising edge of "angle is past the threshold".
// Frames with a degenerate angle are skipped like frames with missing joints.
type AngleDetector struct {
	cfg     AngleConfig
	deb     debounce
	crossed bool
	onEvent Handler
}

// NewAngleDetector returns a detector. Comparison defaults to Less.
func NewAngleDetector(cfg AngleConfig, onEvent Handler) (*AngleDetector, error) {
	switch cfg.Comparison {
	case "":
		cfg.Comparison = Less
	case Less, Greater:
	default:
		return nil, errs.New(errs.InvalidConfig, "edge.NewAngleDetector", "comparison "+string(cfg.Comparison), nil)
	}
	return &AngleDetector{cfg: cfg, deb: newDebounce(cfg.Cooldown), onEvent: onEvent}, nil
}

// Name identifies the detector in logs and stats.
func (d *AngleDetector) Name() string {
	return fmt.Sprintf("angle(%s,%s,%s %s %.0f)", d.cfg.Joint1, d.cfg.Joint2, d.cfg.Joint3, d.cfg.Comparison, d.cfg.Threshold)
}

// Process advances the detector by one frame.
func (d *AngleDetector) Process(f joints.Frame) (Event, bool) {
	d.deb.tick()

	a, ok1 := f.Current.Get(d.cfg.Joint1)
	b, ok2 := f.Current.Get(d.cfg.Joint2)
	c, ok3 := f.Current.Get(d.cfg.Joint3)
	if !ok1 || !ok2 || !ok3 {
		return Event{}, false
	}
	angle := geometry.Angle(a, b, c)
	if math.IsNaN(angle) {
		return Event{}, false
	}

	crossed := d.cfg.Comparison.holds(angle, d.cfg.Threshold)
	rising := crossed && !d.crossed
	d.crossed = crossed

	if !rising || !d.deb.ready() {
		return Event{}, false
	}
	d.deb.fire()
	return d.onEvent.emit(Event{
		Kind:      KindAngle,
		Frame:     f.Index,
		Joints:    []joints.JointID{d.cfg.Joint1, d.cfg.Joint2, d.cfg.Joint3},
		Positions: []joints.Position{a, b, c},
		Value:     angle,
	}), true
}

// #endregion angle

// #region helpers
func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// #endregion helpers

// Package edge implements debounced edge and threshold detectors over pairs
// and triples of landmarks: sign crossing, proximity and angle threshold.
package edge

import (
	"strings"

	"github.com/danielpatrickdp/formcheck/internal/errs"
	"github.com/danielpatrickdp/formcheck/internal/joints"
)

// #region detector
// Detector is a per-frame stateful event source. Process reports at most
// one event per frame.
type Detector interface {
	Name() string
	Process(f joints.Frame) (Event, bool)
}

// Handler receives fired events.
type Handler func(Event)

// emit passes ev to h when set and returns it.
func (h Handler) emit(ev Event) Event {
	if h != nil {
		h(ev)
	}
	return ev
}

// #endregion detector

// #region event
// Kind identifies which detector fired.
type Kind string

const (
	KindCrossing  Kind = "crossing"
	KindProximity Kind = "proximity"
	KindAngle     Kind = "angle"
)

// Event describes a single firing.
type Event struct {
	Kind      Kind
	Frame     uint64
	Joints    []joints.JointID
	Positions []joints.Position
	Value     float64 // signed offset, distance or angle in degrees
	Direction string  // crossing only: which joint crossed over which
}

// #endregion event

// #region axis
// Axis selects one coordinate of a position.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// ParseAxis accepts "x", "y" or "z".
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return 0, errs.New(errs.InvalidAxis, "edge.ParseAxis", s, nil)
}

func (a Axis) of(p joints.Position) float64 {
	switch a {
	case AxisY:
		return p.Y
	case AxisZ:
		return p.Z
	default:
		return p.X
	}
}

func (a Axis) String() string {
	return [...]string{"x", "y", "z"}[a]
}

// #endregion axis

// #region comparison
// Comparison selects which side of an angle threshold counts as crossed.
type Comparison string

const (
	Less    Comparison = "less"
	Greater Comparison = "greater"
)

func (c Comparison) holds(v, threshold float64) bool {
	if c == Greater {
		return v > threshold
	}
	return v < threshold
}

// #endregion comparison

// #region configs
// CrossingConfig parameterizes a CrossingDetector.
type CrossingConfig struct {
	Joint1   joints.JointID
	Joint2   joints.JointID
	Axis     string // "x" | "y" | "z"
	Cooldown int    // minimum frames between firings
}

// DefaultCrossingConfig watches the wrists crossing horizontally.
func DefaultCrossingConfig() CrossingConfig {
	return CrossingConfig{
		Joint1:   joints.LeftWrist,
		Joint2:   joints.RightWrist,
		Axis:     "x",
		Cooldown: 30,
	}
}

// ProximityConfig parameterizes a ProximityDetector.
type ProximityConfig struct {
	Joint1    joints.JointID
	Joint2    joints.JointID
	Threshold float64 // normalized distance
	Cooldown  int
}

// DefaultProximityConfig watches the wrists touching.
func DefaultProximityConfig() ProximityConfig {
	return ProximityConfig{
		Joint1:    joints.LeftWrist,
		Joint2:    joints.RightWrist,
		Threshold: 0.1,
		Cooldown:  30,
	}
}

// AngleConfig parameterizes an AngleDetector. Joint2 is the vertex.
type AngleConfig struct {
	Joint1     joints.JointID
	Joint2     joints.JointID
	Joint3     joints.JointID
	Threshold  float64 // degrees
	Comparison Comparison
	Cooldown   int
}

// DefaultAngleConfig watches the left elbow bending below 90 degrees.
func DefaultAngleConfig() AngleConfig {
	return AngleConfig{
		Joint1:     joints.LeftShoulder,
		Joint2:     joints.LeftElbow,
		Joint3:     joints.LeftWrist,
		Threshold:  90,
		Comparison: Less,
		Cooldown:   30,
	}
}

// #endregion configs

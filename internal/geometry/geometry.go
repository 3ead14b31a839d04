// Package geometry provides pure metric functions over landmark positions.
// Undefined results (degenerate angles, absent sides) are NaN, never panics.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/danielpatrickdp/formcheck/internal/joints"
)

// #region angle
// Angle returns the angle in degrees at vertex b formed by a-b-c.
// The cosine is clamped to [-1, 1] before arccos. A zero-length arm
// yields NaN.
func Angle(a, b, c joints.Position) float64 {
	ba := r3.Sub(a, b)
	bc := r3.Sub(c, b)
	denom := r3.Norm(ba) * r3.Norm(bc)
	if denom == 0 {
		return math.NaN()
	}
	cos := r3.Dot(ba, bc) / denom
	return math.Acos(Clamp(cos, -1, 1)) * 180 / math.Pi
}

// TorsoAngle returns the shoulder→hip line's angle from vertical in degrees:
// 0 upright, 90 horizontal, 180 inverted.
func TorsoAngle(shoulder, hip joints.Position) float64 {
	below := shoulder
	below.Y += 1
	return Angle(below, shoulder, hip)
}

// #endregion angle

// #region distance
// Distance2D is the Euclidean distance on the image plane, ignoring depth.
func Distance2D(a, b joints.Position) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Distance3D is the Euclidean distance including depth.
func Distance3D(a, b joints.Position) float64 {
	return r3.Norm(r3.Sub(a, b))
}

// VerticalOffset is a.Y - b.Y; positive means a is below b in image coordinates.
func VerticalOffset(a, b joints.Position) float64 {
	return a.Y - b.Y
}

// HorizontalOffset is |a.X - b.X|.
func HorizontalOffset(a, b joints.Position) float64 {
	return math.Abs(a.X - b.X)
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b joints.Position) joints.Position {
	return r3.Scale(0.5, r3.Add(a, b))
}

// #endregion distance

// #region bilateral
// NoValue is the absent-measurement marker.
func NoValue() float64 { return math.NaN() }

// BilateralAverage combines a left and right measurement, NaN meaning the
// side is absent. One present side is returned as-is; both absent reports false.
func BilateralAverage(left, right float64) (float64, bool) {
	lok, rok := !math.IsNaN(left), !math.IsNaN(right)
	switch {
	case lok && rok:
		return (left + right) / 2, true
	case lok:
		return left, true
	case rok:
		return right, true
	default:
		return math.NaN(), false
	}
}

// #endregion bilateral

// #region predicates
// IsAbove reports whether a sits above b by more than threshold (smaller Y is higher).
func IsAbove(a, b joints.Position, threshold float64) bool {
	return a.Y < b.Y-threshold
}

// IsBelow reports whether a sits below b by more than threshold.
func IsBelow(a, b joints.Position, threshold float64) bool {
	return a.Y > b.Y+threshold
}

// IsAlignedVertically reports whether a and b share an x coordinate within tolerance.
func IsAlignedVertically(a, b joints.Position, tolerance float64) bool {
	return math.Abs(a.X-b.X) < tolerance
}

// IsAlignedHorizontally reports whether a and b share a y coordinate within tolerance.
func IsAlignedHorizontally(a, b joints.Position, tolerance float64) bool {
	return math.Abs(a.Y-b.Y) < tolerance
}

// IsExtended reports a nearly straight joint.
func IsExtended(angle, threshold float64) bool { return angle > threshold }

// IsFlexed reports a bent joint.
func IsFlexed(angle, threshold float64) bool { return angle < threshold }

// #endregion predicates

// #region scalar
// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// MapRange linearly maps v from [fromLo, fromHi] to [toLo, toHi].
// A zero-width source range yields NaN.
func MapRange(v, fromLo, fromHi, toLo, toHi float64) float64 {
	if fromHi == fromLo {
		return math.NaN()
	}
	return toLo + (v-fromLo)*(toHi-toLo)/(fromHi-fromLo)
}

// #endregion scalar

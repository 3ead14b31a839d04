package profile

import (
	"math"

	"github.com/danielpatrickdp/formcheck/internal/geometry"
	"github.com/danielpatrickdp/formcheck/internal/joints"
)

// #region limb
// limb is one body side's landmarks. Undetected joints read as the zero
// position; profiles only run metrics once their required joints are present.
type limb struct {
	shoulder, elbow, wrist joints.Position
	hip, knee, ankle       joints.Position
	heel, foot             joints.Position
}

func sides(s joints.Sample) (left, right limb) {
	at := func(id joints.JointID) joints.Position {
		p, _ := s.Get(id)
		return p
	}
	left = limb{
		shoulder: at(joints.LeftShoulder), elbow: at(joints.LeftElbow), wrist: at(joints.LeftWrist),
		hip: at(joints.LeftHip), knee: at(joints.LeftKnee), ankle: at(joints.LeftAnkle),
		heel: at(joints.LeftHeel), foot: at(joints.LeftFootIndex),
	}
	right = limb{
		shoulder: at(joints.RightShoulder), elbow: at(joints.RightElbow), wrist: at(joints.RightWrist),
		hip: at(joints.RightHip), knee: at(joints.RightKnee), ankle: at(joints.RightAnkle),
		heel: at(joints.RightHeel), foot: at(joints.RightFootIndex),
	}
	return left, right
}

// bilateral averages f over both sides, tolerating a NaN side.
func bilateral(s joints.Sample, f func(l limb) float64) float64 {
	l, r := sides(s)
	v, _ := geometry.BilateralAverage(f(l), f(r))
	return v
}

func mid(s joints.Sample, p joints.Pair) joints.Position {
	l, _ := s.Get(p.Left)
	r, _ := s.Get(p.Right)
	return geometry.Midpoint(l, r)
}

func bilateralJoints(pairs ...joints.Pair) []joints.JointID {
	out := make([]joints.JointID, 0, 2*len(pairs))
	for _, p := range pairs {
		out = append(out, p.Left)
	}
	for _, p := range pairs {
		out = append(out, p.Right)
	}
	return out
}

// #endregion limb

// #region angles
func kneeAngle(l limb) float64     { return geometry.Angle(l.hip, l.knee, l.ankle) }
func hipAngle(l limb) float64      { return geometry.Angle(l.shoulder, l.hip, l.knee) }
func elbowAngle(l limb) float64    { return geometry.Angle(l.shoulder, l.elbow, l.wrist) }
func ankleAngle(l limb) float64    { return geometry.Angle(l.knee, l.ankle, l.foot) }
func wristReach(l limb) float64    { return geometry.Distance2D(l.wrist, l.shoulder) }
func wristHeight(l limb) float64   { return geometry.VerticalOffset(l.wrist, l.shoulder) }
func hipKneeOffset(l limb) float64 { return math.Abs(geometry.VerticalOffset(l.hip, l.knee)) }

// #endregion angles

// #region merge
// mergeFunc is Profile.Merge's signature.
type mergeFunc = func(current, best Snapshot) Snapshot

// keepMin replaces best[key] (and the carried metrics) when current[key] is lower.
func keepMin(key string, carry ...string) mergeFunc {
	return keepIf(key, func(cur, best float64) bool { return cur < best }, carry...)
}

// keepMax replaces best[key] (and the carried metrics) when current[key] is higher.
func keepMax(key string, carry ...string) mergeFunc {
	return keepIf(key, func(cur, best float64) bool { return cur > best }, carry...)
}

func keepIf(key string, better func(cur, best float64) bool, carry ...string) mergeFunc {
	return func(current, best Snapshot) Snapshot {
		cur, ok := current[key]
		if !ok || math.IsNaN(cur) {
			return best
		}
		if b, seen := best[key]; seen && !math.IsNaN(b) && !better(cur, b) {
			return best
		}
		out := best.Clone()
		if out == nil {
			out = Snapshot{}
		}
		out[key] = cur
		for _, c := range carry {
			if v, ok := current[c]; ok && !math.IsNaN(v) {
				out[c] = v
			} else {
				delete(out, c)
			}
		}
		return out
	}
}

// mergeAll applies each rule in turn.
func mergeAll(rules ...mergeFunc) mergeFunc {
	return func(current, best Snapshot) Snapshot {
		for _, r := range rules {
			best = r(current, best)
		}
		return best
	}
}

// #endregion merge

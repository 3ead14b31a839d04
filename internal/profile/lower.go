package profile

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/formcheck/internal/geometry"
	"github.com/danielpatrickdp/formcheck/internal/joints"
)

// #region squat
var squatDefaults = Thresholds{
	"knee_angle":     100,  // below: full squat
	"depth":          0.15, // hip-knee vertical gap below: full squat
	"standing_angle": 160,
	"standing_depth": 0.25,
}

func newSquat(t Thresholds) *Profile {
	return &Profile{
		ID:          "squat",
		Name:        "Squat",
		Description: "Track full depth squats with hip-knee alignment",
		Category:    LowerBody,
		Joints:      bilateralJoints(joints.Hips, joints.Knees, joints.Ankles),
		Cooldown:    30,
		Thresholds:  t,
		Metrics: func(s joints.Sample) Snapshot {
			return Snapshot{
				"knee_angle":  bilateral(s, kneeAngle),
				"squat_depth": bilateral(s, hipKneeOffset),
			}
		},
		InPosition: func(m Snapshot) bool {
			return m.Get("knee_angle") < t["knee_angle"] && m.Get("squat_depth") < t["depth"]
		},
		AtStart: func(m Snapshot) bool {
			return m.Get("knee_angle") > t["standing_angle"] && m.Get("squat_depth") > t["standing_depth"]
		},
		Classify: func(b Snapshot) string {
			d := b.Get("squat_depth")
			switch {
			case d < 0.10:
				return "Excellent - ATG (Ass to Grass)"
			case d < 0.15:
				return "Good - Full depth / Parallel"
			case d < 0.20:
				return "Fair - Just below parallel"
			}
			return "Shallow - Go deeper"
		},
		Merge: keepMin("squat_depth", "knee_angle"),
		Instructions: Instructions{
			InPosition: "FULL SQUAT - Hold at bottom",
			Return:     "STAND UP - Return to top",
			Ready:      "READY - Squat down",
			ReadyHint: func(last Snapshot) string {
				if !(last.Get("knee_angle") < t["knee_angle"]) {
					return ""
				}
				if last.Get("squat_depth") >= t["depth"] {
					return " - GO DEEPER!"
				}
				return " - FULL DEPTH!"
			},
		},
		LogColumns: []Column{
			{Header: "Angle", Format: func(b Snapshot) string { return fmt.Sprintf("%5.1f°", b.Get("knee_angle")) }},
			{Header: "Depth", Format: func(b Snapshot) string { return fmt.Sprintf("Depth: %.3f", b.Get("squat_depth")) }},
		},
	}
}

// #endregion squat

// #region deadlift
var hingeJoints = bilateralJoints(joints.Shoulders, joints.Hips, joints.Knees, joints.Ankles)

func torsoAngle(s joints.Sample) float64 {
	return geometry.TorsoAngle(mid(s, joints.Shoulders), mid(s, joints.Hips))
}

var deadliftDefaults = Thresholds{
	"lockout_hip_angle": 160,
	"bottom_hip_angle":  100,
	"bottom_knee_angle": 160,
	"upright_torso":     30,
}

func newDeadlift(t Thresholds) *Profile {
	return &Profile{
		ID:          "deadlift",
		Name:        "Deadlift",
		Description: "Track hip hinge and lockout position",
		Category:    LowerBody,
		Joints:      hingeJoints,
		Cooldown:    20,
		Thresholds:  t,
		Metrics: func(s joints.Sample) Snapshot {
			return Snapshot{
				"hip_angle":   bilateral(s, hipAngle),
				"torso_angle": torsoAngle(s),
				"knee_angle":  bilateral(s, kneeAngle),
			}
		},
		InPosition: func(m Snapshot) bool {
			return m.Get("hip_angle") < t["bottom_hip_angle"] && m.Get("knee_angle") < t["bottom_knee_angle"]
		},
		AtStart: func(m Snapshot) bool {
			return m.Get("hip_angle") > t["lockout_hip_angle"] && m.Get("torso_angle") < t["upright_torso"]
		},
		Classify: func(b Snapshot) string {
			h := b.Get("hip_angle")
			switch {
			case h > 165:
				return "Excellent - Full lockout"
			case h > 160:
				return "Good - Nearly locked"
			}
			return "Incomplete lockout"
		},
		Merge: mergeAll(keepMax("hip_angle"), keepMin("torso_angle")),
		Instructions: Instructions{
			InPosition: "PULLING - Drive through heels",
			Return:     "LOCKOUT - Stand fully upright",
			Ready:      "READY - Hinge and grip bar",
		},
	}
}

// #endregion deadlift

// #region romanian-deadlift
var romanianDeadliftDefaults = Thresholds{
	"lockout_hip_angle": 165,
	"bottom_hip_angle":  100,
	"straight_knee":     160,
	"bottom_torso":      80,
	"upright_torso":     30,
}

func newRomanianDeadlift(t Thresholds) *Profile {
	return &Profile{
		ID:          "romanian_deadlift",
		Name:        "Romanian Deadlift",
		Description: "Track straight-leg hip hinge for hamstrings",
		Category:    LowerBody,
		Joints:      hingeJoints,
		Cooldown:    20,
		Thresholds:  t,
		Metrics: func(s joints.Sample) Snapshot {
			torso := torsoAngle(s)
			knee := bilateral(s, kneeAngle)
			stretch := 0.0
			if knee > t["straight_knee"] {
				stretch = torso
			}
			return Snapshot{
				"hip_angle":     bilateral(s, hipAngle),
				"torso_angle":   torso,
				"knee_angle":    knee,
				"stretch_depth": stretch,
			}
		},
		InPosition: func(m Snapshot) bool {
			return m.Get("hip_angle") < t["bottom_hip_angle"] &&
				m.Get("knee_angle") > t["straight_knee"] &&
				m.Get("torso_angle") > t["bottom_torso"]
		},
		AtStart: func(m Snapshot) bool {
			return m.Get("hip_angle") > t["lockout_hip_angle"] && m.Get("torso_angle") < t["upright_torso"]
		},
		Classify: func(b Snapshot) string {
			stretch, knee := b.Get("stretch_depth"), b.Get("knee_angle")
			switch {
			case stretch > 85 && knee > 165:
				return "Excellent - Deep stretch, straight legs"
			case stretch > 75:
				return "Good - Good hamstring stretch"
			case knee < 160:
				return "Knees bent - Keep legs straighter"
			}
			return "Shallow - Go deeper"
		},
		Merge: keepMax("stretch_depth", "hip_angle", "knee_angle"),
		Instructions: Instructions{
			InPosition: "HINGING - Feel hamstring stretch",
			Return:     "STAND UP - Drive hips forward",
			Ready:      "READY - Hinge at hips, keep legs straight",
		},
	}
}

// #endregion romanian-deadlift

// #region calf-raise
var calfRaiseDefaults = Thresholds{
	"heel_lift":      0.08,
	"ankle_extended": 135,
	"ankle_flexed":   100,
}

func newCalfRaise(t Thresholds) *Profile {
	return &Profile{
		ID:          "calf_raise",
		Name:        "Calf Raise",
		Description: "Track ankle extension and heel lift",
		Category:    LowerBody,
		Joints:      bilateralJoints(joints.Knees, joints.Ankles, joints.Heels, joints.FootTips),
		Cooldown:    15,
		Thresholds:  t,
		Metrics: func(s joints.Sample) Snapshot {
			l, r := sides(s)
			lift := (geometry.VerticalOffset(l.heel, l.ankle) + geometry.VerticalOffset(r.heel, r.ankle)) / 2
			return Snapshot{
				"ankle_angle": bilateral(s, ankleAngle),
				"heel_height": math.Abs(lift),
			}
		},
		InPosition: func(m Snapshot) bool {
			return m.Get("ankle_angle") > t["ankle_extended"] || m.Get("heel_height") > t["heel_lift"]
		},
		AtStart: func(m Snapshot) bool {
			return m.Get("ankle_angle") < t["ankle_flexed"] && m.Get("heel_height") < t["heel_lift"]*0.5
		},
		Classify: func(b Snapshot) string {
			h := b.Get("heel_height")
			switch {
			case h > 0.12:
				return "Excellent - Full extension"
			case h > 0.08:
				return "Good - Adequate height"
			}
			return "Shallow - Raise higher"
		},
		Merge: keepMax("heel_height", "ankle_angle"),
		Instructions: Instructions{
			InPosition: "RAISED - Hold at top",
			Return:     "LOWER - Control descent",
			Ready:      "READY - Push up on toes",
		},
	}
}

// #endregion calf-raise

package profile

import (
	"math"

	"github.com/danielpatrickdp/formcheck/internal/geometry"
	"github.com/danielpatrickdp/formcheck/internal/joints"
)

var armJoints = bilateralJoints(joints.Shoulders, joints.Elbows, joints.Wrists)

// #region shoulder-press
var shoulderPressDefaults = Thresholds{
	"lockout_elbow":   160,
	"overhead_height": 0.3, // wrists this far above shoulders
	"start_elbow":     140,
	"start_height":    -0.15,
}

func newShoulderPress(t Thresholds) *Profile {
	return &Profile{
		ID:          "shoulder_press",
		Name:        "Shoulder Press",
		Description: "Track overhead press with full lockout",
		Category:    UpperBody,
		Joints:      armJoints,
		Cooldown:    15,
		Thresholds:  t,
		Metrics: func(s joints.Sample) Snapshot {
			l, r := sides(s)
			return Snapshot{
				"elbow_angle":  bilateral(s, elbowAngle),
				"wrist_height": (wristHeight(l) + wristHeight(r)) / 2,
			}
		},
		InPosition: func(m Snapshot) bool {
			return m.Get("elbow_angle") > t["lockout_elbow"] && m.Get("wrist_height") < -t["overhead_height"]
		},
		AtStart: func(m Snapshot) bool {
			return m.Get("elbow_angle") < t["start_elbow"] && m.Get("wrist_height") > t["start_height"]
		},
		Classify: func(b Snapshot) string {
			e, h := b.Get("elbow_angle"), math.Abs(b.Get("wrist_height"))
			switch {
			case e > 170 && h > 0.35:
				return "Excellent - Full lockout"
			case e > 165 && h > 0.30:
				return "Good - Nearly full"
			case e > 160:
				return "Fair - Partial lockout"
			}
			return "Incomplete - Extend more"
		},
		Merge: mergeAll(keepMax("elbow_angle"), keepMin("wrist_height")),
		Instructions: Instructions{
			InPosition: "OVERHEAD - Locked out",
			Return:     "LOWER - Control descent",
			Ready:      "READY - Press overhead",
			ReadyHint: func(last Snapshot) string {
				hint := ""
				if last.Get("elbow_angle") < t["lockout_elbow"] {
					hint += " - EXTEND ARMS"
				}
				if last.Get("wrist_height") >= -t["overhead_height"] {
					hint += " - RAISE HIGHER"
				}
				return hint
			},
		},
		LogColumns: []Column{
			{Header: "Angle", Format: func(b Snapshot) string { return formatAngle(b.Get("elbow_angle")) }},
		},
	}
}

// #endregion shoulder-press

// #region barbell-row
var barbellRowDefaults = Thresholds{
	"pulled_elbow":   90,
	"extended_elbow": 160,
	"torso_min":      45,
	"torso_max":      80,
}

func newBarbellRow(t Thresholds) *Profile {
	bentOver := func(m Snapshot) bool {
		torso := m.Get("torso_angle")
		return t["torso_min"] < torso && torso < t["torso_max"]
	}
	return &Profile{
		ID:          "barbell_row",
		Name:        "Barbell Row",
		Description: "Track bent-over row with elbow pull",
		Category:    UpperBody,
		Joints:      bilateralJoints(joints.Shoulders, joints.Elbows, joints.Wrists, joints.Hips, joints.Knees),
		Cooldown:    15,
		Thresholds:  t,
		Metrics: func(s joints.Sample) Snapshot {
			l, r := sides(s)
			return Snapshot{
				"elbow_angle":   bilateral(s, elbowAngle),
				"torso_angle":   torsoAngle(s),
				"pull_distance": (wristReach(l) + wristReach(r)) / 2,
			}
		},
		InPosition: func(m Snapshot) bool {
			return m.Get("elbow_angle") < t["pulled_elbow"] && bentOver(m)
		},
		AtStart: func(m Snapshot) bool {
			return m.Get("elbow_angle") > t["extended_elbow"] && bentOver(m)
		},
		Classify: func(b Snapshot) string {
			e := b.Get("elbow_angle")
			switch {
			case e < 80 && b.Get("pull_distance") < 0.15:
				return "Excellent - Full contraction"
			case e < 90:
				return "Good - Solid pull"
			}
			return "Partial - Pull higher"
		},
		Merge: keepMin("elbow_angle", "pull_distance"),
		Instructions: Instructions{
			InPosition: "PULLING - Squeeze shoulder blades",
			Return:     "EXTEND - Lower with control",
			Ready:      "READY - Hinge and pull to chest",
		},
	}
}

// #endregion barbell-row

// #region bicep-curl
var bicepCurlDefaults = Thresholds{
	"curled_elbow":   50,
	"extended_elbow": 160,
}

func newBicepCurl(t Thresholds) *Profile {
	return &Profile{
		ID:          "bicep_curl",
		Name:        "Bicep Curl",
		Description: "Track elbow flexion and full extension",
		Category:    UpperBody,
		Joints:      armJoints,
		Cooldown:    15,
		Thresholds:  t,
		Metrics: func(s joints.Sample) Snapshot {
			l, r := sides(s)
			return Snapshot{
				"elbow_angle": bilateral(s, elbowAngle),
				"curl_height": math.Abs((wristHeight(l) + wristHeight(r)) / 2),
			}
		},
		InPosition: func(m Snapshot) bool { return m.Get("elbow_angle") < t["curled_elbow"] },
		AtStart:    func(m Snapshot) bool { return m.Get("elbow_angle") > t["extended_elbow"] },
		Classify: func(b Snapshot) string {
			e := b.Get("elbow_angle")
			switch {
			case e < 40:
				return "Excellent - Full contraction"
			case e < 50:
				return "Good - Full curl"
			}
			return "Partial - Curl higher"
		},
		Merge: keepMin("elbow_angle", "curl_height"),
		Instructions: Instructions{
			InPosition: "CURLED - Squeeze biceps",
			Return:     "LOWER - Control descent",
			Ready:      "READY - Curl weights to shoulders",
		},
		LogColumns: []Column{
			{Header: "Angle", Format: func(b Snapshot) string { return formatAngle(b.Get("elbow_angle")) }},
		},
	}
}

// #endregion bicep-curl

// #region bench-press
var benchPressDefaults = Thresholds{
	"lockout_elbow": 165,
	"bottom_elbow":  90,
	"chest_reach":   0.12, // wrist-shoulder distance at the chest
}

func newBenchPress(t Thresholds) *Profile {
	return &Profile{
		ID:          "bench_press",
		Name:        "Bench Press",
		Description: "Track chest press with full lockout",
		Category:    UpperBody,
		Joints:      armJoints,
		Cooldown:    20,
		Thresholds:  t,
		Metrics: func(s joints.Sample) Snapshot {
			l, r := sides(s)
			return Snapshot{
				"elbow_angle": bilateral(s, elbowAngle),
				"press_depth": (wristReach(l) + wristReach(r)) / 2,
			}
		},
		InPosition: func(m Snapshot) bool { return m.Get("elbow_angle") > t["lockout_elbow"] },
		AtStart: func(m Snapshot) bool {
			return m.Get("elbow_angle") < t["bottom_elbow"] && m.Get("press_depth") < t["chest_reach"]
		},
		Classify: func(b Snapshot) string {
			e := b.Get("elbow_angle")
			switch {
			case e > 170:
				return "Excellent - Full lockout"
			case e > 165:
				return "Good - Nearly locked"
			}
			return "Incomplete - Lock arms"
		},
		Merge: keepMax("elbow_angle"),
		Instructions: Instructions{
			InPosition: "LOCKED OUT - Hold",
			Return:     "LOWER - Touch chest",
			Ready:      "READY - Press to lockout",
		},
	}
}

// #endregion bench-press

// #region front-raise
var frontRaiseDefaults = Thresholds{
	"raised_height": -0.2,
	"raised_arm":    100,
	"rest_height":   0,
	"rest_arm":      160,
}

func newFrontRaise(t Thresholds) *Profile {
	return &Profile{
		ID:          "front_raise",
		Name:        "Front Raise",
		Description: "Track forward arm raise to shoulder height",
		Category:    UpperBody,
		Joints:      bilateralJoints(joints.Shoulders, joints.Elbows, joints.Wrists, joints.Hips),
		Cooldown:    15,
		Thresholds:  t,
		Metrics: func(s joints.Sample) Snapshot {
			l, r := sides(s)
			return Snapshot{
				"wrist_height": (wristHeight(l) + wristHeight(r)) / 2,
				"arm_angle":    geometry.Angle(mid(s, joints.Hips), mid(s, joints.Shoulders), mid(s, joints.Wrists)),
			}
		},
		InPosition: func(m Snapshot) bool {
			return m.Get("wrist_height") < t["raised_height"] || m.Get("arm_angle") < t["raised_arm"]
		},
		AtStart: func(m Snapshot) bool {
			return m.Get("wrist_height") > t["rest_height"] && m.Get("arm_angle") > t["rest_arm"]
		},
		Classify: func(b Snapshot) string {
			h := b.Get("wrist_height")
			switch {
			case h < -0.25:
				return "Excellent - Above shoulders"
			case h < -0.15:
				return "Good - Shoulder height"
			}
			return "Low - Raise higher"
		},
		Merge: keepMin("wrist_height", "arm_angle"),
		Instructions: Instructions{
			InPosition: "RAISED - Hold at top",
			Return:     "LOWER - Control descent",
			Ready:      "READY - Raise arms forward",
		},
	}
}

// #endregion front-raise

// #region dumbbell-fly
var dumbbellFlyDefaults = Thresholds{
	"closed_distance": 0.15,
	"open_distance":   0.5,
	"min_elbow":       150,
}

func newDumbbellFly(t Thresholds) *Profile {
	widest := keepMax("wrist_distance", "elbow_angle")
	return &Profile{
		ID:          "dumbbell_fly",
		Name:        "Dumbbell Fly",
		Description: "Track chest fly with wide arm spread",
		Category:    UpperBody,
		Joints:      armJoints,
		Cooldown:    15,
		Thresholds:  t,
		Metrics: func(s joints.Sample) Snapshot {
			l, r := sides(s)
			return Snapshot{
				"wrist_distance": geometry.Distance2D(l.wrist, r.wrist),
				"elbow_angle":    bilateral(s, elbowAngle),
				"arm_length":     (wristReach(l) + wristReach(r)) / 2,
			}
		},
		InPosition: func(m Snapshot) bool { return m.Get("wrist_distance") < t["closed_distance"] },
		AtStart: func(m Snapshot) bool {
			return m.Get("wrist_distance") > t["open_distance"] && m.Get("elbow_angle") > t["min_elbow"]
		},
		Classify: func(b Snapshot) string {
			d, e := b.Get("wrist_distance"), b.Get("elbow_angle")
			switch {
			case d > 0.6 && e > 150:
				return "Excellent - Full chest stretch"
			case d > 0.5:
				return "Good - Good stretch"
			case e < 140:
				return "Bent elbows - Keep arms straighter"
			}
			return "Shallow - Open wider"
		},
		// only a straight-armed opening counts as the widest
		Merge: func(current, best Snapshot) Snapshot {
			if !(current.Get("elbow_angle") > t["min_elbow"]) {
				return best
			}
			return widest(current, best)
		},
		Instructions: Instructions{
			InPosition: "CLOSED - Squeeze chest",
			Return:     "OPEN - Stretch chest wide",
			Ready:      "READY - Bring dumbbells together",
		},
	}
}

// #endregion dumbbell-fly

package edge

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/danielpatrickdp/formcheck/internal/errs"
	"github.com/danielpatrickdp/formcheck/internal/joints"
)

// #region parse
// Parse builds a detector from a compact description:
//
//	crossing:LEFT_WRIST,RIGHT_WRIST:x
//	proximity:LEFT_WRIST,RIGHT_WRIST:0.1
//	angle:LEFT_SHOULDER,LEFT_ELBOW,LEFT_WRIST:less:90
//
// Every detector gets the given cooldown.
func Parse(spec string, cooldown int, onEvent Handler) (Detector, error) {
	const op = "edge.Parse"
	parts := strings.Split(strings.TrimSpace(spec), ":")
	if len(parts) < 3 {
		return nil, errs.New(errs.InvalidConfig, op, spec, fmt.Errorf("want kind:joints:params"))
	}
	ids, err := parseJoints(parts[1])
	if err != nil {
		return nil, errs.New(errs.InvalidConfig, op, spec, err)
	}

	switch Kind(strings.ToLower(parts[0])) {
	case KindCrossing:
		if len(ids) != 2 || len(parts) != 3 {
			return nil, errs.New(errs.InvalidConfig, op, spec, fmt.Errorf("crossing takes 2 joints and an axis"))
		}
		d, err := NewCrossingDetector(CrossingConfig{Joint1: ids[0], Joint2: ids[1], Axis: parts[2], Cooldown: cooldown}, onEvent)
		if err != nil {
			return nil, err
		}
		return d, nil

	case KindProximity:
		if len(ids) != 2 || len(parts) != 3 {
			return nil, errs.New(errs.InvalidConfig, op, spec, fmt.Errorf("proximity takes 2 joints and a distance"))
		}
		th, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return nil, errs.New(errs.InvalidConfig, op, spec, err)
		}
		d, err := NewProximityDetector(ProximityConfig{Joint1: ids[0], Joint2: ids[1], Threshold: th, Cooldown: cooldown}, onEvent)
		if err != nil {
			return nil, err
		}
		return d, nil

	case KindAngle:
		if len(ids) != 3 || len(parts) != 4 {
			return nil, errs.New(errs.InvalidConfig, op, spec, fmt.Errorf("angle takes 3 joints, a comparison and degrees"))
		}
		th, err := strconv.ParseFloat(parts[3], 64)
		if err != nil {
			return nil, errs.New(errs.InvalidConfig, op, spec, err)
		}
		d, err := NewAngleDetector(AngleConfig{
			Joint1: ids[0], Joint2: ids[1], Joint3: ids[2],
			Threshold:  th,
			Comparison: Comparison(strings.ToLower(parts[2])),
			Cooldown:   cooldown,
		}, onEvent)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	return nil, errs.New(errs.InvalidConfig, op, spec, fmt.Errorf("unknown detector kind %q", parts[0]))
}

func parseJoints(s string) ([]joints.JointID, error) {
	names := strings.Split(s, ",")
	ids := make([]joints.JointID, len(names))
	for i, n := range names {
		id, err := joints.Parse(n)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

// #endregion parse

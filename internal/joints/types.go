// Package joints holds per-frame body landmark samples produced by the
// external pose-estimation service.
package joints

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// #region joint-id
// JointID identifies one of the 33 pose landmarks, in the pose model's index order.
type JointID uint8

const (
	Nose JointID = iota
	LeftEyeInner
	LeftEye
	LeftEyeOuter
	RightEyeInner
	RightEye
	RightEyeOuter
	LeftEar
	RightEar
	MouthLeft
	MouthRight
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftPinky
	RightPinky
	LeftIndex
	RightIndex
	LeftThumb
	RightThumb
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
	LeftHeel
	RightHeel
	LeftFootIndex
	RightFootIndex

	// Count is the number of landmarks.
	Count int = iota
)

var names = [Count]string{
	"NOSE",
	"LEFT_EYE_INNER", "LEFT_EYE", "LEFT_EYE_OUTER",
	"RIGHT_EYE_INNER", "RIGHT_EYE", "RIGHT_EYE_OUTER",
	"LEFT_EAR", "RIGHT_EAR",
	"MOUTH_LEFT", "MOUTH_RIGHT",
	"LEFT_SHOULDER", "RIGHT_SHOULDER",
	"LEFT_ELBOW", "RIGHT_ELBOW",
	"LEFT_WRIST", "RIGHT_WRIST",
	"LEFT_PINKY", "RIGHT_PINKY",
	"LEFT_INDEX", "RIGHT_INDEX",
	"LEFT_THUMB", "RIGHT_THUMB",
	"LEFT_HIP", "RIGHT_HIP",
	"LEFT_KNEE", "RIGHT_KNEE",
	"LEFT_ANKLE", "RIGHT_ANKLE",
	"LEFT_HEEL", "RIGHT_HEEL",
	"LEFT_FOOT_INDEX", "RIGHT_FOOT_INDEX",
}

// #endregion joint-id

// #region position
// Position is a landmark location in normalized image coordinates:
// X and Y roughly in [0, 1] with Y growing downward, Z relative depth.
type Position = r3.Vec

// #endregion position

// #region pair
// Pair names the left and right instance of a bilateral landmark.
type Pair struct {
	Left  JointID
	Right JointID
}

var (
	Shoulders = Pair{LeftShoulder, RightShoulder}
	Elbows    = Pair{LeftElbow, RightElbow}
	Wrists    = Pair{LeftWrist, RightWrist}
	Hips      = Pair{LeftHip, RightHip}
	Knees     = Pair{LeftKnee, RightKnee}
	Ankles    = Pair{LeftAnkle, RightAnkle}
	Heels     = Pair{LeftHeel, RightHeel}
	FootTips  = Pair{LeftFootIndex, RightFootIndex}
)

// Both returns the pair as a slice, left first.
func (p Pair) Both() []JointID {
	return []JointID{p.Left, p.Right}
}

// #endregion pair

// #region frame
// Frame is the per-call context handed to detectors: the current sample,
// the previous frame's sample when there was one, and a monotonic index.
type Frame struct {
	Index    uint64
	Current  Sample
	Previous *Sample
}

// #endregion frame

// Package vision provides hand keypoint types, the detector interface and
// the geometric mapping from a hand pose to joint-angle targets.
package vision

import "math"

// Hand landmark indices following the MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	WristPoint   = 0
	ThumbTip     = 4
	IndexTip     = 8
	MiddleMCP    = 9
	MiddleTip    = 12
	RingTip      = 16
	PinkyTip     = 20
	NumKeypoints = 21
)

// FingerTips lists the five fingertip landmark indices.
var FingerTips = [5]int{ThumbTip, IndexTip, MiddleTip, RingTip, PinkyTip}

// Keypoint is one normalized hand landmark. X and Y are in frame
// coordinates (roughly 0..1), Z is unconstrained depth relative to the
// wrist.
type Keypoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// Handedness labels which hand the detector believes it saw.
type Handedness string

const (
	LeftHand    Handedness = "Left"
	RightHand   Handedness = "Right"
	UnknownHand Handedness = "Unknown"
)

// HandPose is one detection: a full set of 21 keypoints plus handedness
// and detection confidence. A nil *HandPose means no hand was found.
type HandPose struct {
	Keypoints  [NumKeypoints]Keypoint `json:"keypoints"`
	Handedness Handedness             `json:"handedness"`
	Confidence float64                `json:"confidence"`
}

// Wellformed reports whether every keypoint carries finite coordinates.
// Detections that fail this are treated as if no hand was seen, so
// garbage never propagates into angle commands.
func (p *HandPose) Wellformed() bool {
	if p == nil {
		return false
	}
	for i := range p.Keypoints {
		kp := &p.Keypoints[i]
		if !finite(kp.X) || !finite(kp.Y) || !finite(kp.Z) {
			return false
		}
	}
	return true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func dist2D(a, b Keypoint) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

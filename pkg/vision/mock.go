package vision

import "math"

// MockDetector is a test implementation of the Detector interface. It
// replays a scripted sequence of poses, repeating the last entry once the
// script runs out.
type MockDetector struct {
	poses []*HandPose
	err   error
	calls int
}

// NewMockDetector creates a MockDetector with no scripted poses; Detect
// reports no hand until SetPoses is called.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetPoses sets the sequence of poses returned by successive Detect calls.
// A nil entry means "no hand in this frame".
func (m *MockDetector) SetPoses(poses ...*HandPose) {
	m.poses = poses
	m.calls = 0
}

// SetError makes every Detect call return err.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	return m.calls
}

// Detect returns the next scripted pose or the configured error.
func (m *MockDetector) Detect() (*HandPose, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.poses) == 0 {
		return nil, nil
	}
	i := m.calls - 1
	if i >= len(m.poses) {
		i = len(m.poses) - 1
	}
	return m.poses[i], nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// CenteredHandPose returns a hand with the wrist at the frame center, the
// middle finger pointing straight up and all fingertips at the given
// distance from the wrist. Useful as a neutral fixture: with default
// bands it maps shoulder and elbow to mid-range.
func CenteredHandPose(tipDistance float64) *HandPose {
	pose := &HandPose{
		Handedness: RightHand,
		Confidence: 0.95,
	}
	pose.Keypoints[WristPoint] = Keypoint{X: 0.5, Y: 0.5}
	// Middle MCP straight above the wrist (toward the top of the frame).
	pose.Keypoints[MiddleMCP] = Keypoint{X: 0.5, Y: 0.5 - 0.1}
	for i, tip := range FingerTips {
		// Fan the tips out around straight-up so they are distinct
		// points at exactly the requested distance.
		theta := math.Pi/2 + float64(i-2)*0.2
		pose.Keypoints[tip] = Keypoint{
			X: 0.5 + tipDistance*math.Cos(theta),
			Y: 0.5 - tipDistance*math.Sin(theta),
		}
	}
	return pose
}

// OpenPalmPose returns a centered hand with fingers spread a full grip
// span apart, i.e. a fully open hand.
func OpenPalmPose() *HandPose {
	return CenteredHandPose(0.4)
}

// FistPose returns a centered hand with every fingertip collapsed onto
// the wrist, i.e. a fully closed hand.
func FistPose() *HandPose {
	return CenteredHandPose(0)
}

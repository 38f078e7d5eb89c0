package vision

import (
	"math"
	"testing"

	"github.com/tkrish/gesturearm/pkg/arm"
)

const tol = 1e-9

func defaultMapper() *Mapper {
	cfg := arm.DefaultConfig()
	return NewMapper(&cfg)
}

func poseWithWrist(x, y float64) *HandPose {
	pose := CenteredHandPose(0.2)
	pose.Keypoints[WristPoint] = Keypoint{X: x, Y: y}
	return pose
}

func TestMapper_CenteredHandMapsToMidRange(t *testing.T) {
	m := defaultMapper()

	targets, ok := m.Map(CenteredHandPose(0.2))
	if !ok {
		t.Fatal("centered hand should map")
	}

	// Wrist at (0.5, 0.5) is the midpoint of both default bands, so
	// shoulder and elbow land exactly mid-range.
	if math.Abs(targets[arm.Shoulder]-90) > tol {
		t.Errorf("shoulder = %f, want 90", targets[arm.Shoulder])
	}
	if math.Abs(targets[arm.Elbow]-90) > tol {
		t.Errorf("elbow = %f, want 90", targets[arm.Elbow])
	}
}

func TestMapper_BandCornerMapsToLowLimits(t *testing.T) {
	m := defaultMapper()

	targets, ok := m.Map(poseWithWrist(0.2, 0.2))
	if !ok {
		t.Fatal("pose should map")
	}
	if math.Abs(targets[arm.Shoulder]) > tol {
		t.Errorf("shoulder = %f, want 0", targets[arm.Shoulder])
	}
	if math.Abs(targets[arm.Elbow]) > tol {
		t.Errorf("elbow = %f, want 0", targets[arm.Elbow])
	}
}

func TestMapper_SaturatesOutsideBand(t *testing.T) {
	cfg := arm.DefaultConfig()
	cfg.Limits[arm.Shoulder] = arm.Range{Min: 30, Max: 150}
	m := NewMapper(&cfg)

	tests := []struct {
		x        float64
		expected float64
	}{
		{0.0, 30},   // far left of band -> saturate at min
		{0.19, 30},  // just outside -> still min, no extrapolation
		{0.2, 30},   // band edge -> min
		{0.8, 150},  // band edge -> max
		{0.95, 150}, // outside -> max
		{1.0, 150},
	}

	for _, tt := range tests {
		targets, ok := m.Map(poseWithWrist(tt.x, 0.5))
		if !ok {
			t.Fatalf("pose at x=%f should map", tt.x)
		}
		if math.Abs(targets[arm.Shoulder]-tt.expected) > tol {
			t.Errorf("shoulder at x=%f = %f, want %f", tt.x, targets[arm.Shoulder], tt.expected)
		}
	}
}

func TestMapper_ElbowTopOfFrameIsLowEnd(t *testing.T) {
	m := defaultMapper()

	top, _ := m.Map(poseWithWrist(0.5, 0.0))
	bottom, _ := m.Map(poseWithWrist(0.5, 1.0))

	if top[arm.Elbow] != 0 {
		t.Errorf("elbow at top = %f, want 0", top[arm.Elbow])
	}
	if bottom[arm.Elbow] != 180 {
		t.Errorf("elbow at bottom = %f, want 180", bottom[arm.Elbow])
	}
}

func TestMapper_HandOpenness(t *testing.T) {
	m := defaultMapper()

	// All fingertips a full grip span from the wrist: fully open, 0 degrees.
	open, ok := m.Map(OpenPalmPose())
	if !ok {
		t.Fatal("open palm should map")
	}
	if math.Abs(open[arm.Hand]) > tol {
		t.Errorf("open hand = %f, want 0", open[arm.Hand])
	}

	// All fingertips on the wrist: fully closed, 180 degrees.
	closed, ok := m.Map(FistPose())
	if !ok {
		t.Fatal("fist should map")
	}
	if math.Abs(closed[arm.Hand]-180) > tol {
		t.Errorf("fist = %f, want 180", closed[arm.Hand])
	}

	// Half a grip span: halfway closed.
	half, _ := m.Map(CenteredHandPose(0.2))
	if math.Abs(half[arm.Hand]-90) > tol {
		t.Errorf("half-open hand = %f, want 90", half[arm.Hand])
	}
}

func TestHandRotation(t *testing.T) {
	tests := []struct {
		name     string
		middle   Keypoint
		expected float64
	}{
		// atan2(dy, dx) in degrees, +90, mod 180.
		{"pointing up", Keypoint{X: 0.5, Y: 0.4}, 0},
		{"pointing right", Keypoint{X: 0.6, Y: 0.5}, 90},
		{"pointing down", Keypoint{X: 0.5, Y: 0.6}, 0},
		{"pointing left", Keypoint{X: 0.4, Y: 0.5}, 90},
		{"diagonal up-right", Keypoint{X: 0.6, Y: 0.4}, 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pose := CenteredHandPose(0.2)
			pose.Keypoints[MiddleMCP] = tt.middle
			got := handRotation(pose)
			if math.Abs(got-tt.expected) > tol {
				t.Errorf("rotation = %f, want %f", got, tt.expected)
			}
		})
	}
}

func TestHandRotation_AlwaysInRange(t *testing.T) {
	pose := CenteredHandPose(0.2)
	for i := 0; i < 360; i++ {
		rad := float64(i) * math.Pi / 180
		pose.Keypoints[MiddleMCP] = Keypoint{
			X: 0.5 + 0.1*math.Cos(rad),
			Y: 0.5 + 0.1*math.Sin(rad),
		}
		got := handRotation(pose)
		if got < 0 || got >= 180 {
			t.Fatalf("rotation at %d deg = %f, outside [0, 180)", i, got)
		}
	}
}

func TestMapper_OutputsSelfBounding(t *testing.T) {
	m := defaultMapper()

	// With full-range limits, every mapped output lies in [0, 180]
	// before any external clamping.
	for xi := 0; xi <= 10; xi++ {
		for yi := 0; yi <= 10; yi++ {
			pose := poseWithWrist(float64(xi)/10, float64(yi)/10)
			targets, ok := m.Map(pose)
			if !ok {
				t.Fatalf("pose (%d, %d) should map", xi, yi)
			}
			for _, j := range arm.AllJoints() {
				if targets[j] < 0 || targets[j] > 180 {
					t.Errorf("%s at (%d, %d) = %f, outside [0, 180]", j, xi, yi, targets[j])
				}
			}
		}
	}
}

func TestMapper_AbsentPose(t *testing.T) {
	m := defaultMapper()
	if _, ok := m.Map(nil); ok {
		t.Error("absent pose should not map")
	}
}

func TestMapper_DegeneratePose(t *testing.T) {
	m := defaultMapper()

	nan := CenteredHandPose(0.2)
	nan.Keypoints[IndexTip].X = math.NaN()
	if _, ok := m.Map(nan); ok {
		t.Error("pose with NaN coordinate should not map")
	}

	inf := CenteredHandPose(0.2)
	inf.Keypoints[WristPoint].Y = math.Inf(1)
	if _, ok := m.Map(inf); ok {
		t.Error("pose with infinite coordinate should not map")
	}
}

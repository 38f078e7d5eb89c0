package vision

import (
	"math"

	"github.com/tkrish/gesturearm/pkg/arm"
)

// Band is an active interval in normalized frame coordinates. Wrist
// positions are clamped to the band before being rescaled, so positions
// outside it saturate at the nearest joint limit.
type Band struct {
	Lo, Hi float64
}

// Rescale clamps v to the band and maps it linearly onto [min, max].
func (b Band) Rescale(v, min, max float64) float64 {
	if v < b.Lo {
		v = b.Lo
	}
	if v > b.Hi {
		v = b.Hi
	}
	norm := (v - b.Lo) / (b.Hi - b.Lo)
	return min + norm*(max-min)
}

// Mapper converts a hand pose into per-joint angle targets. It is a pure
// geometric mapping: outputs are not clamped to the joint limits here,
// that happens in the smoothing stage so the raw geometry stays testable
// on its own.
type Mapper struct {
	horizontal Band
	vertical   Band
	gripSpan   float64
	limits     arm.Limits
}

// NewMapper builds a mapper from the session configuration.
func NewMapper(cfg *arm.Config) *Mapper {
	return &Mapper{
		horizontal: Band{Lo: cfg.BandLeft, Hi: cfg.BandRight},
		vertical:   Band{Lo: cfg.BandTop, Hi: cfg.BandBottom},
		gripSpan:   cfg.GripSpan,
		limits:     cfg.Limits,
	}
}

// Map converts a pose into joint-angle targets. ok is false when the pose
// is absent or malformed; the caller should hold its previous target.
func (m *Mapper) Map(pose *HandPose) (targets arm.Angles, ok bool) {
	if !pose.Wellformed() {
		return arm.Angles{}, false
	}

	targets[arm.Shoulder] = m.shoulderAngle(pose)
	targets[arm.Elbow] = m.elbowAngle(pose)
	targets[arm.Wrist] = handRotation(pose)
	targets[arm.Hand] = m.handOpenness(pose)
	return targets, true
}

// shoulderAngle maps the wrist X position onto the shoulder range.
// Left edge of the band is the low limit, right edge the high limit.
func (m *Mapper) shoulderAngle(pose *HandPose) float64 {
	r := m.limits[arm.Shoulder]
	return m.horizontal.Rescale(pose.Keypoints[WristPoint].X, r.Min, r.Max)
}

// elbowAngle maps the wrist Y position onto the elbow range. Top of the
// frame is the low limit (arm extended), bottom the high limit (bent).
func (m *Mapper) elbowAngle(pose *HandPose) float64 {
	r := m.limits[arm.Elbow]
	return m.vertical.Rescale(pose.Keypoints[WristPoint].Y, r.Min, r.Max)
}

// handRotation estimates wrist rotation from the wrist to middle-MCP
// direction: atan2 in degrees, shifted by +90 and reduced mod 180 so the
// result lands in [0, 180). The keypoints are 2-D projections, so
// out-of-plane rotation is not resolved; this is a sensing limitation of
// the landmark model, not something this formula can recover.
func handRotation(pose *HandPose) float64 {
	wrist := pose.Keypoints[WristPoint]
	middle := pose.Keypoints[MiddleMCP]

	deg := math.Atan2(middle.Y-wrist.Y, middle.X-wrist.X) * 180 / math.Pi

	deg = math.Mod(deg+90, 180)
	if deg < 0 {
		deg += 180
	}
	return deg
}

// handOpenness estimates grip closure from the mean wrist-to-fingertip
// distance: a full grip span reads as open (0 degrees), collapsed
// fingertips as closed (180 degrees).
func (m *Mapper) handOpenness(pose *HandPose) float64 {
	wrist := pose.Keypoints[WristPoint]

	var sum float64
	for _, tip := range FingerTips {
		sum += dist2D(pose.Keypoints[tip], wrist)
	}
	avg := sum / float64(len(FingerTips))

	norm := avg / m.gripSpan
	if norm > 1 {
		norm = 1
	}
	if norm < 0 {
		norm = 0
	}
	closedness := 1 - norm
	return closedness * 180
}

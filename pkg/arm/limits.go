package arm

import "fmt"

// Hardware bounds for this servo profile.
const (
	MinAngle = 0.0
	MaxAngle = 180.0
)

// Range is an inclusive angle range in degrees.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Clamp returns v limited to the range.
func (r Range) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Limits holds the allowed angle range per joint, indexed by Joint.
// Commands outside these ranges are clamped before they reach the wire.
type Limits [NumJoints]Range

// DefaultLimits returns the full 0-180 range for every joint.
func DefaultLimits() Limits {
	var l Limits
	for _, j := range AllJoints() {
		l[j] = Range{Min: MinAngle, Max: MaxAngle}
	}
	return l
}

// Validate checks that every range is ordered and within hardware bounds.
func (l Limits) Validate() error {
	for _, j := range AllJoints() {
		r := l[j]
		if r.Min > r.Max {
			return fmt.Errorf("%s limits: min %.1f > max %.1f", j, r.Min, r.Max)
		}
		if r.Min < MinAngle || r.Max > MaxAngle {
			return fmt.Errorf("%s limits: %.1f..%.1f outside hardware range %g..%g",
				j, r.Min, r.Max, MinAngle, MaxAngle)
		}
	}
	return nil
}

// ClampAll returns a copy of angles with every joint clamped to its limit.
func (l Limits) ClampAll(a Angles) Angles {
	var out Angles
	for _, j := range AllJoints() {
		out[j] = l[j].Clamp(a[j])
	}
	return out
}

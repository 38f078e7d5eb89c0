// Package arm provides joint identifiers, angle limits and configuration
// for the actuated limb.
package arm

// Joint identifies one controllable degree of freedom. The integer value
// is also the servo index on the wire, fixed by the firmware:
// S0=shoulder, S1=elbow, S2=wrist, S3=hand.
type Joint int

const (
	Shoulder Joint = iota // horizontal rotation
	Elbow                 // vertical bend
	Wrist                 // rotation
	Hand                  // open (0) to closed (180)

	NumJoints = 4
)

// AllJoints returns all joints in wire-index order.
func AllJoints() []Joint {
	return []Joint{Shoulder, Elbow, Wrist, Hand}
}

func (j Joint) String() string {
	switch j {
	case Shoulder:
		return "shoulder"
	case Elbow:
		return "elbow"
	case Wrist:
		return "wrist"
	case Hand:
		return "hand"
	}
	return "unknown"
}

// Valid reports whether j is one of the four known joints.
func (j Joint) Valid() bool {
	return j >= Shoulder && j < NumJoints
}

// Angles holds one angle in degrees per joint, indexed by Joint.
type Angles [NumJoints]float64

// Package control holds the commanded-angle state and the control loop
// that ties detector, mapper and actuator link together.
package control

import (
	"sync"

	"github.com/tkrish/gesturearm/pkg/arm"
)

// State owns the current commanded angles. All access is serialized by a
// single lock, held only for the update-plus-copy or the read; callers
// must do serial I/O with the returned snapshot, never under the lock.
//
// Update applies a first-order exponential low-pass toward the target and
// clamps to the joint limits, so nothing outside the limits ever leaves
// this type. The filter is stateful: convergence takes on the order of
// 1/alpha updates, and it never overshoots for alpha in (0, 1].
type State struct {
	alpha  float64
	limits arm.Limits

	mu      sync.Mutex
	current arm.Angles
}

// NewState creates a State resting at the given pose. The initial pose is
// clamped to the limits like everything else.
func NewState(alpha float64, limits arm.Limits, initial arm.Angles) *State {
	return &State{
		alpha:   alpha,
		limits:  limits,
		current: limits.ClampAll(initial),
	}
}

// Update moves every joint one filter step toward its target and returns
// the post-smoothing command set.
func (s *State) Update(targets arm.Angles) arm.Angles {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range arm.AllJoints() {
		s.stepLocked(j, targets[j])
	}
	return s.current
}

// UpdateJoint moves a single joint toward its target, leaving the rest
// untouched, and returns the resulting command set.
func (s *State) UpdateJoint(j arm.Joint, target float64) arm.Angles {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stepLocked(j, target)
	return s.current
}

func (s *State) stepLocked(j arm.Joint, target float64) {
	next := s.current[j] + s.alpha*(target-s.current[j])
	s.current[j] = s.limits[j].Clamp(next)
}

// Read returns a snapshot of the current commanded angles.
func (s *State) Read() arm.Angles {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Reset sets the commanded angles directly, bypassing the filter. Used
// for rest-position recovery; the next Update filters relative to the
// reset value rather than snapping to its target.
func (s *State) Reset(to arm.Angles) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = s.limits.ClampAll(to)
}

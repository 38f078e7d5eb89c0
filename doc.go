// Package gesturearm drives a multi-joint actuated limb from live hand
// gestures.
//
// A hand-landmark detector produces normalized keypoints for one hand per
// frame. Those are mapped to joint-angle targets, smoothed with an
// exponential filter so the servos do not chatter, and sent to a
// microcontroller over a serial line protocol.
//
// # Usage
//
// First, run setup to pick the actuator serial port and camera:
//
//	gesturearm setup
//
// Then start controlling the arm:
//
//	gesturearm run
//
// Use --dry-run to compute angles without an actuator attached.
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/gesturearm: CLI with run, setup and ports commands
//   - pkg/arm: joint identifiers, angle limits and configuration
//   - pkg/vision: hand keypoints, detector interface and pose mapping
//   - pkg/link: serial actuator link and wire encoding
//   - pkg/control: smoothing state and the control loop
//   - pkg/session: optional sqlite telemetry recording
package gesturearm

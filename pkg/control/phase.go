package control

// Phase is the control loop's lifecycle state. Transitions only move
// forward; Stopped is terminal.
type Phase int32

const (
	Idle Phase = iota
	Connecting
	Running
	Draining
	Stopped
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Connecting:
		return "connecting"
	case Running:
		return "running"
	case Draining:
		return "draining"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

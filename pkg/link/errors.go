package link

import (
	"errors"
	"fmt"

	"github.com/tkrish/gesturearm/pkg/arm"
)

// ErrNotConnected is returned when a command is attempted on a link that
// is not (or no longer) connected.
var ErrNotConnected = errors.New("actuator link not connected")

// ConnectError reports that the serial transport could not be opened.
// Non-fatal to the process: the caller may continue in dry-run mode.
type ConnectError struct {
	Port string
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect to %s: %v (check the port name and that you have permission to open it)", e.Port, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// SendError reports a failed write for a single joint on an open link.
// Recovered locally: the control loop continues with the next sample.
type SendError struct {
	Joint arm.Joint
	Err   error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send %s command: %v", e.Joint, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }

// Package link manages the serial connection to the actuator board and
// the line protocol spoken over it.
//
// Commands are fire-and-forget: the board sends no acknowledgment, so a
// successful write is the only delivery signal there is.
package link

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/tkrish/gesturearm/pkg/arm"
)

// OpenFunc opens the underlying transport. Tests substitute a fake.
type OpenFunc func(port string, baud int) (io.WriteCloser, error)

func openSerial(port string, baud int) (io.WriteCloser, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	return serial.Open(port, mode)
}

// Config holds the transport parameters for a Link.
type Config struct {
	Port        string
	BaudRate    int
	SettleDelay time.Duration // wait after open; the board resets on connect

	// Open overrides the transport opener. Nil means real serial.
	Open OpenFunc
}

// Link is the actuator side of the control loop: it owns the serial port
// and encodes joint commands onto it. Methods are safe for concurrent
// use, though the control loop is the only writer in practice.
type Link struct {
	cfg Config

	mu        sync.Mutex
	port      io.WriteCloser
	connected bool
}

// New creates a Link. No I/O happens until Connect.
func New(cfg Config) *Link {
	if cfg.Open == nil {
		cfg.Open = openSerial
	}
	return &Link{cfg: cfg}
}

// Connect opens the serial port and waits out the settle delay: the
// microcontroller resets when the port opens and drops anything sent
// before it is ready. The delay honors context cancellation.
//
// The open and the settle wait run without the lock held, so Connected
// and Send stay responsive while a connect is in flight. The lock is
// taken only to install the opened port.
func (l *Link) Connect(ctx context.Context) error {
	l.mu.Lock()
	if l.connected {
		l.mu.Unlock()
		return nil
	}
	l.mu.Unlock()

	port, err := l.cfg.Open(l.cfg.Port, l.cfg.BaudRate)
	if err != nil {
		return &ConnectError{Port: l.cfg.Port, Err: err}
	}

	if l.cfg.SettleDelay > 0 {
		t := time.NewTimer(l.cfg.SettleDelay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			port.Close()
			return &ConnectError{Port: l.cfg.Port, Err: ctx.Err()}
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.connected {
		// Lost a race with a concurrent Connect; keep the port that won.
		port.Close()
		return nil
	}
	l.port = port
	l.connected = true
	return nil
}

// Disconnect closes the port. Calling it on a closed link is a no-op.
func (l *Link) Disconnect() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closeLocked()
}

func (l *Link) closeLocked() error {
	if !l.connected {
		return nil
	}
	err := l.port.Close()
	l.port = nil
	l.connected = false
	if err != nil {
		return fmt.Errorf("close port: %w", err)
	}
	return nil
}

// Connected reports whether the link currently has an open port.
func (l *Link) Connected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.connected
}

// Send transmits one joint command. The encoded line goes out in a single
// write, so the wire never carries a partial command: either the whole
// line is handed to the driver or an error comes back with nothing sent
// for this call.
func (l *Link) Send(j arm.Joint, angle float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sendLocked(j, angle)
}

func (l *Link) sendLocked(j arm.Joint, angle float64) error {
	if !l.connected {
		return fmt.Errorf("send %s: %w", j, ErrNotConnected)
	}
	if !j.Valid() {
		return fmt.Errorf("send: invalid joint %d", int(j))
	}
	if angle < arm.MinAngle || angle > arm.MaxAngle {
		// Clamping upstream is the enforcement point; reaching here with
		// an unclamped value is a bug, not a runtime condition.
		return fmt.Errorf("send %s: angle %.2f outside %g..%g, refusing to transmit", j, angle, arm.MinAngle, arm.MaxAngle)
	}

	if _, err := l.port.Write(Encode(j, angle)); err != nil {
		return &SendError{Joint: j, Err: err}
	}
	return nil
}

// SendAll transmits a command for every joint. A failure on one joint
// does not stop the remaining joints from being attempted; all failures
// come back joined. When every joint fails to write, the link degrades to
// unconnected and stays that way until the next Connect.
func (l *Link) SendAll(angles arm.Angles) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var errs []error
	writeFailures := 0
	for _, j := range arm.AllJoints() {
		if err := l.sendLocked(j, angles[j]); err != nil {
			errs = append(errs, err)
			var se *SendError
			if errors.As(err, &se) {
				writeFailures++
			}
		}
	}

	if writeFailures == arm.NumJoints {
		// Device is gone, not glitching. Stop hammering a dead port.
		l.closeLocked()
	}

	return errors.Join(errs...)
}

package control

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tkrish/gesturearm/pkg/arm"
	"github.com/tkrish/gesturearm/pkg/vision"
)

// How often repeated send and detect failures make it into the log. The
// first failure is always logged; after that only every Nth, so a dead
// link or camera at 30 Hz does not flood the log box.
const failureLogEvery = 30

// Commander is the actuator side as seen by the control loop. Satisfied
// by *link.Link; tests substitute a fake.
type Commander interface {
	Connect(ctx context.Context) error
	Disconnect() error
	SendAll(angles arm.Angles) error
	Connected() bool
}

// Recorder receives one telemetry sample per tick. Optional; satisfied by
// *session.Recorder.
type Recorder interface {
	Record(t time.Time, angles arm.Angles, connected bool) error
}

// Snapshot is one state update pushed to observers (the TUI).
type Snapshot struct {
	Phase        Phase
	Angles       arm.Angles
	Connected    bool
	SendFailures uint64
	Timestamp    time.Time
	Err          error
}

// Config holds configuration for the controller.
type Config struct {
	Detector vision.Detector
	Link     Commander
	Mapper   *vision.Mapper

	Hz        int
	Alpha     float64
	Limits    arm.Limits
	RestPose  arm.Angles
	DryRun    bool          // never connect; compute and smooth angles only
	Reconnect time.Duration // retry cadence while degraded, 0 disables

	Recorder Recorder
}

// Controller runs the control loop: detect, map, smooth, send, at a fixed
// cadence, until its context is cancelled. On the way out it drains the
// arm back to the rest pose and disconnects exactly once.
type Controller struct {
	cfg   Config
	state *State

	phase         atomic.Int32
	everConnected bool
	sendFailures  uint64
	detectFails   uint64
	reconnecting  atomic.Bool
	nextReconnect time.Time

	mu      sync.Mutex
	running bool
	stateCh chan Snapshot
	logCh   chan string
}

// New creates a controller resting at the configured rest pose.
func New(cfg Config) (*Controller, error) {
	if cfg.Detector == nil {
		return nil, fmt.Errorf("controller needs a detector")
	}
	if cfg.Link == nil {
		return nil, fmt.Errorf("controller needs an actuator link")
	}
	if cfg.Mapper == nil {
		return nil, fmt.Errorf("controller needs a mapper")
	}
	if cfg.Hz <= 0 {
		cfg.Hz = 30
	}
	if cfg.Alpha <= 0 || cfg.Alpha > 1 {
		return nil, fmt.Errorf("alpha %g outside (0, 1]", cfg.Alpha)
	}

	return &Controller{
		cfg:     cfg,
		state:   NewState(cfg.Alpha, cfg.Limits, cfg.RestPose),
		stateCh: make(chan Snapshot, 1),
		logCh:   make(chan string, 10),
	}, nil
}

// States returns a channel that receives state updates. Latest wins:
// unread snapshots are replaced, never queued.
func (c *Controller) States() <-chan Snapshot {
	return c.stateCh
}

// Logs returns a channel that receives log messages.
func (c *Controller) Logs() <-chan string {
	return c.logCh
}

// Hz returns the control frequency.
func (c *Controller) Hz() int {
	return c.cfg.Hz
}

// Phase returns the current lifecycle phase.
func (c *Controller) Phase() Phase {
	return Phase(c.phase.Load())
}

// Angles returns the current commanded angles.
func (c *Controller) Angles() arm.Angles {
	return c.state.Read()
}

// ResetToRest snaps the commanded angles straight to the rest pose,
// bypassing the smoothing filter.
func (c *Controller) ResetToRest() {
	c.state.Reset(c.cfg.RestPose)
	c.log("Reset to rest pose")
}

func (c *Controller) log(format string, args ...any) {
	msg := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	select {
	case c.logCh <- msg:
	default:
		// Drop if channel full
	}
}

// Start runs the control loop until ctx is cancelled. It returns the
// connect error when the link cannot be opened and dry-run was not
// requested; after that the controller is Stopped and unusable.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running || c.Phase() == Stopped {
		c.mu.Unlock()
		return fmt.Errorf("controller already started")
	}
	c.running = true
	c.mu.Unlock()

	c.phase.Store(int32(Connecting))

	if c.cfg.DryRun {
		c.log("Dry run: not connecting, computing angles only")
	} else {
		if err := c.cfg.Link.Connect(ctx); err != nil {
			c.phase.Store(int32(Stopped))
			c.mu.Lock()
			c.running = false
			c.mu.Unlock()
			c.log("Connect failed: %v", err)
			return err
		}
		c.everConnected = true
		c.log("Actuator connected")
	}

	c.phase.Store(int32(Running))
	c.log("Control loop started at %d Hz (alpha %.2f)", c.cfg.Hz, c.cfg.Alpha)

	ticker := time.NewTicker(time.Second / time.Duration(c.cfg.Hz))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.shutdown()
			return ctx.Err()
		case <-ticker.C:
			c.step(ctx)
		}
	}
}

func (c *Controller) step(ctx context.Context) {
	pose, err := c.cfg.Detector.Detect()
	if err != nil {
		c.detectFails++
		if c.detectFails == 1 || c.detectFails%failureLogEvery == 0 {
			c.log("Detector error (%d so far): %v", c.detectFails, err)
		}
		c.publish(err)
		return
	}

	// Absent or degenerate poses hold the previous target; the filter
	// keeps converging toward wherever the hand last was.
	angles := c.state.Read()
	if targets, ok := c.cfg.Mapper.Map(pose); ok {
		angles = c.state.Update(targets)
	}

	// The state lock is released here; the serial write below works on
	// the snapshot.
	var sendErr error
	if c.cfg.Link.Connected() {
		if sendErr = c.cfg.Link.SendAll(angles); sendErr != nil {
			c.sendFailures++
			if c.sendFailures == 1 || c.sendFailures%failureLogEvery == 0 {
				c.log("Send failed (%d so far): %v", c.sendFailures, sendErr)
			}
		}
	} else if !c.cfg.DryRun && c.everConnected {
		c.maybeReconnect(ctx)
	}

	if c.cfg.Recorder != nil {
		if err := c.cfg.Recorder.Record(time.Now(), angles, c.cfg.Link.Connected()); err != nil {
			c.log("Telemetry record failed: %v", err)
		}
	}

	c.publish(sendErr)
}

// maybeReconnect kicks off a background connect attempt when the link is
// degraded and the configured cadence has elapsed. The attempt runs off
// the loop goroutine because Connect blocks for the settle delay.
func (c *Controller) maybeReconnect(ctx context.Context) {
	if c.cfg.Reconnect <= 0 {
		return
	}
	now := time.Now()
	if now.Before(c.nextReconnect) || !c.reconnecting.CompareAndSwap(false, true) {
		return
	}
	c.nextReconnect = now.Add(c.cfg.Reconnect)

	go func() {
		defer c.reconnecting.Store(false)
		if err := c.cfg.Link.Connect(ctx); err != nil {
			c.log("Reconnect failed: %v", err)
			return
		}
		c.log("Actuator reconnected")
	}()
}

func (c *Controller) publish(err error) {
	c.sendSnapshot(Snapshot{
		Phase:        c.Phase(),
		Angles:       c.state.Read(),
		Connected:    c.cfg.Link.Connected(),
		SendFailures: c.sendFailures,
		Timestamp:    time.Now(),
		Err:          err,
	})
}

func (c *Controller) sendSnapshot(s Snapshot) {
	select {
	case c.stateCh <- s:
	default:
		// Drop old state if channel full, replace with new
		select {
		case <-c.stateCh:
		default:
		}
		c.stateCh <- s
	}
}

// shutdown drains the arm to rest and releases the link. Runs once, on
// the loop goroutine, after the stop signal.
func (c *Controller) shutdown() {
	c.phase.Store(int32(Draining))

	c.state.Reset(c.cfg.RestPose)
	if c.cfg.Link.Connected() {
		if err := c.cfg.Link.SendAll(c.state.Read()); err != nil {
			c.log("Rest command failed: %v", err)
		} else {
			c.log("Arm returned to rest")
		}
	}

	if err := c.cfg.Link.Disconnect(); err != nil {
		c.log("Disconnect: %v", err)
	}

	c.phase.Store(int32(Stopped))

	c.mu.Lock()
	c.running = false
	c.mu.Unlock()

	c.log("Control loop stopped")
	c.publish(nil)
}

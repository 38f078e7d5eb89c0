package vision

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
)

// BridgeDetector implements Detector using a helper process that owns the
// camera and runs the MediaPipe hand landmarker. The helper writes one
// JSON line per processed frame on stdout; Detect blocks until the next
// frame arrives.
type BridgeDetector struct {
	config DetectorConfig

	mu      sync.Mutex
	cmd     *exec.Cmd
	stdout  *bufio.Reader
	stdin   io.WriteCloser
	started bool
}

// NewBridgeDetector creates a bridge detector. The helper process is
// started lazily on the first Detect call.
func NewBridgeDetector(config DetectorConfig) (*BridgeDetector, error) {
	if findBridgeScript() == "" {
		return nil, fmt.Errorf("hand_bridge.py not found")
	}
	return &BridgeDetector{config: config}, nil
}

// Detect returns the hand pose for the next frame, or (nil, nil) when the
// frame contained no hand above the confidence threshold.
func (d *BridgeDetector) Detect() (*HandPose, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureStarted(); err != nil {
		return nil, err
	}

	line, err := d.stdout.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read bridge frame: %w", err)
	}

	var frame struct {
		Hands []struct {
			Keypoints  []Keypoint `json:"keypoints"`
			Handedness string     `json:"handedness"`
			Confidence float64    `json:"confidence"`
		} `json:"hands"`
	}
	if err := json.Unmarshal([]byte(line), &frame); err != nil {
		return nil, fmt.Errorf("parse bridge frame: %w", err)
	}

	if len(frame.Hands) == 0 {
		return nil, nil
	}

	// Single-hand tracking: take the first reported hand.
	h := frame.Hands[0]
	if h.Confidence < d.config.MinConfidence {
		return nil, nil
	}
	if len(h.Keypoints) < NumKeypoints {
		return nil, nil
	}

	pose := &HandPose{
		Handedness: parseHandedness(h.Handedness),
		Confidence: h.Confidence,
	}
	copy(pose.Keypoints[:], h.Keypoints[:NumKeypoints])
	return pose, nil
}

// Close shuts down the helper process. Safe to call more than once.
func (d *BridgeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.started {
		return nil
	}
	if d.stdin != nil {
		d.stdin.Close()
	}
	err := d.cmd.Wait()
	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil
	return err
}

func (d *BridgeDetector) ensureStarted() error {
	if d.started {
		return nil
	}

	script := findBridgeScript()
	if script == "" {
		return fmt.Errorf("hand_bridge.py not found")
	}

	python := findVenvPython()
	if python == "" {
		python = "python3"
	}

	d.cmd = exec.Command(python, script, "--camera", strconv.Itoa(d.config.CameraID))

	stdin, err := d.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}
	stdout, err := d.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}
	d.cmd.Stderr = os.Stderr

	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("start hand bridge: %w", err)
	}

	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.started = true
	return nil
}

func parseHandedness(s string) Handedness {
	switch s {
	case "Left":
		return LeftHand
	case "Right":
		return RightHand
	}
	return UnknownHand
}

func findBridgeScript() string {
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"scripts/hand_bridge.py",
		"../scripts/hand_bridge.py",
		filepath.Join(execDir, "scripts/hand_bridge.py"),
		filepath.Join(os.Getenv("HOME"), ".gesturearm/scripts/hand_bridge.py"),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			if abs, err := filepath.Abs(path); err == nil {
				return abs
			}
			return path
		}
	}
	return ""
}

func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".gesturearm/venv/bin/python"),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			if abs, err := filepath.Abs(path); err == nil {
				return abs
			}
			return path
		}
	}
	return ""
}

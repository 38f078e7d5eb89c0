package arm

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

const DefaultConfigFile = "gesturearm.json"

// Config holds every tunable for a control session. All values are fixed
// at startup; there is no hot reload.
type Config struct {
	// Serial link to the actuator board.
	Port        string `json:"port"`
	BaudRate    int    `json:"baud_rate"`
	SettleMs    int    `json:"settle_ms"`    // wait after open, board resets on connect
	ReconnectMs int    `json:"reconnect_ms"` // 0 disables reconnect attempts

	// Control loop.
	Hz       int     `json:"hz"`
	Alpha    float64 `json:"alpha"` // smoothing factor in (0, 1], 1 = no smoothing
	Limits   Limits  `json:"limits"`
	RestPose Angles  `json:"rest_pose"`

	// Pose mapping: active bands in normalized frame coordinates, and
	// the wrist-to-fingertip span treated as a fully open hand.
	BandLeft   float64 `json:"band_left"`
	BandRight  float64 `json:"band_right"`
	BandTop    float64 `json:"band_top"`
	BandBottom float64 `json:"band_bottom"`
	GripSpan   float64 `json:"grip_span"`

	// Detector selection.
	CameraID int `json:"camera_id"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		BaudRate:   9600,
		SettleMs:   2000,
		Hz:         30,
		Alpha:      0.3,
		Limits:     DefaultLimits(),
		RestPose:   Angles{90, 90, 90, 0},
		BandLeft:   0.2,
		BandRight:  0.8,
		BandTop:    0.2,
		BandBottom: 0.8,
		GripSpan:   0.4,
	}
}

// SettleDelay returns the post-connect settle delay as a duration.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.SettleMs) * time.Millisecond
}

// ReconnectInterval returns the reconnect cadence, or zero when disabled.
func (c *Config) ReconnectInterval() time.Duration {
	return time.Duration(c.ReconnectMs) * time.Millisecond
}

// Validate checks the invariants the control loop relies on.
func (c *Config) Validate() error {
	if c.Alpha <= 0 || c.Alpha > 1 {
		return fmt.Errorf("alpha %g outside (0, 1]", c.Alpha)
	}
	if c.Hz <= 0 {
		return fmt.Errorf("hz must be positive, got %d", c.Hz)
	}
	if c.BaudRate <= 0 {
		return fmt.Errorf("baud rate must be positive, got %d", c.BaudRate)
	}
	if err := c.Limits.Validate(); err != nil {
		return err
	}
	for _, j := range AllJoints() {
		if !c.Limits[j].Contains(c.RestPose[j]) {
			return fmt.Errorf("rest pose %s=%.1f outside limits %.1f..%.1f",
				j, c.RestPose[j], c.Limits[j].Min, c.Limits[j].Max)
		}
	}
	if c.BandLeft >= c.BandRight {
		return fmt.Errorf("horizontal band [%g, %g] is empty", c.BandLeft, c.BandRight)
	}
	if c.BandTop >= c.BandBottom {
		return fmt.Errorf("vertical band [%g, %g] is empty", c.BandTop, c.BandBottom)
	}
	if c.GripSpan <= 0 {
		return fmt.Errorf("grip span must be positive, got %g", c.GripSpan)
	}
	return nil
}

// LoadConfig loads configuration from the default config file.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(DefaultConfigFile)
}

// LoadConfigFrom loads configuration from a specific file.
func LoadConfigFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigFile)
}

// SaveTo saves configuration to a specific file.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ConfigExists returns true if the default config file exists.
func ConfigExists() bool {
	_, err := os.Stat(DefaultConfigFile)
	return err == nil
}

package arm

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(path, contents string) error {
	return os.WriteFile(path, []byte(contents), 0644)
}

func TestDefaultConfig_Validates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"alpha zero", func(c *Config) { c.Alpha = 0 }},
		{"alpha above one", func(c *Config) { c.Alpha = 1.5 }},
		{"zero hz", func(c *Config) { c.Hz = 0 }},
		{"zero baud", func(c *Config) { c.BaudRate = 0 }},
		{"empty horizontal band", func(c *Config) { c.BandLeft, c.BandRight = 0.8, 0.2 }},
		{"empty vertical band", func(c *Config) { c.BandTop, c.BandBottom = 0.5, 0.5 }},
		{"zero grip span", func(c *Config) { c.GripSpan = 0 }},
		{"rest outside limits", func(c *Config) {
			c.Limits[Hand] = Range{Min: 10, Max: 170}
			c.RestPose[Hand] = 0
		}},
		{"inverted limits", func(c *Config) { c.Limits[Shoulder] = Range{Min: 100, Max: 50} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConfig_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gesturearm.json")

	cfg := DefaultConfig()
	cfg.Port = "/dev/ttyUSB0"
	cfg.Alpha = 0.5
	cfg.Limits[Elbow] = Range{Min: 20, Max: 160}
	cfg.RestPose = Angles{90, 90, 45, 0}
	cfg.CameraID = 1

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}

	if *loaded != cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", *loaded, cfg)
	}
}

func TestLoadConfigFrom_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gesturearm.json")
	if err := writeFile(path, `{"port": "/dev/ttyACM0"}`); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if cfg.Port != "/dev/ttyACM0" {
		t.Errorf("port = %q, want /dev/ttyACM0", cfg.Port)
	}
	if cfg.Alpha != 0.3 || cfg.Hz != 30 || cfg.BaudRate != 9600 {
		t.Errorf("defaults not preserved: %+v", cfg)
	}
}

func TestLoadConfigFrom_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gesturearm.json")
	if err := writeFile(path, `{"alpha": 7}`); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfigFrom(path); err == nil {
		t.Error("expected error for alpha outside (0, 1]")
	}
}

package vision

// Detector produces hand pose samples at its own cadence. Implementations
// track a single hand.
type Detector interface {
	// Detect returns the most recent hand pose, or (nil, nil) when no
	// hand is visible in the current frame.
	Detect() (*HandPose, error)

	// Close releases any resources held by the detector.
	Close() error
}

// DetectorConfig holds configuration options for hand detection.
type DetectorConfig struct {
	// CameraID selects the capture device (default 0).
	CameraID int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64
}

// DefaultDetectorConfig returns a DetectorConfig with sensible defaults.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		CameraID:      0,
		MinConfidence: 0.7,
	}
}

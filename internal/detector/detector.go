package detector

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// ErrInvalidConfig is returned when tracker options are out of range.
var ErrInvalidConfig = errors.New("invalid tracker config")

// Detector defines the interface for hand tracking implementations.
type Detector interface {
	// Detect analyzes a video frame and returns detected hand landmarks.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Configure applies new tracker options. Implementations may defer
	// the change until the next Detect call.
	Configure(config Config) error

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds the options passed to the hand tracking model.
type Config struct {
	// MaxHands is the maximum number of hands to report (at least 1).
	MaxHands int `json:"max_hands"`

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64 `json:"min_detection_confidence"`

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64 `json:"min_tracking_confidence"`
}

// DefaultConfig returns the tracker options used when none are stored.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.7,
		MinTrackingConf: 0.5,
	}
}

// Validate checks that every option is within its documented range.
func (c Config) Validate() error {
	if c.MaxHands < 1 {
		return fmt.Errorf("%w: max hands must be at least 1, got %d", ErrInvalidConfig, c.MaxHands)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("%w: detection confidence %v outside [0,1]", ErrInvalidConfig, c.MinConfidence)
	}
	if c.MinTrackingConf < 0 || c.MinTrackingConf > 1 {
		return fmt.Errorf("%w: tracking confidence %v outside [0,1]", ErrInvalidConfig, c.MinTrackingConf)
	}
	return nil
}

package detector

import (
	"errors"

	"gocv.io/x/gocv"
)

// ErrUnavailable is returned when no working detector backend could be
// initialized. The caller is expected to degrade gracefully (tracking off)
// rather than abort.
var ErrUnavailable = errors.New("hand detector unavailable")

// Detector is the interface to the hand landmark detection backend.
// The backend is treated as a black box: given a frame it returns zero or
// more per-hand observations.
type Detector interface {
	// Detect analyzes a video frame and returns the hands found in it.
	// An empty slice means no hands were visible.
	Detect(frame *gocv.Mat) ([]HandObservation, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds detection backend options.
type Config struct {
	// MaxHands is the maximum number of hands to track (default 2; the
	// arbiter only ever uses two).
	MaxHands int

	// MinConfidence is the minimum detection confidence (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxHands:        2,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
	}
}

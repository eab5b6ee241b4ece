package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// Tests either pin a fixed set of hands or queue a frame-by-frame script.
type MockDetector struct {
	mu     sync.Mutex
	hands  []HandObservation
	script [][]HandObservation
	err    error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands pins the hands returned by every subsequent Detect call.
func (m *MockDetector) SetHands(hands []HandObservation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// QueueFrames appends per-frame observation sets. Detect consumes one entry
// per call; once the script is exhausted it falls back to the pinned hands.
func (m *MockDetector) QueueFrames(frames ...[]HandObservation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, frames...)
}

// SetError makes every Detect call fail with err until cleared.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the next scripted frame, the pinned hands, or the error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandObservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	if len(m.script) > 0 {
		next := m.script[0]
		m.script = m.script[1:]
		return next, nil
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// OpenPalmObservation returns a preset observation with all five fingers
// extended, as seen from the camera.
func OpenPalmObservation(handedness string) HandObservation {
	obs := HandObservation{Handedness: handedness, Score: 0.95}

	obs.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	obs.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	obs.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	obs.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	obs.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	obs.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68}
	obs.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55}
	obs.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45}
	obs.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35}

	obs.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66}
	obs.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52}
	obs.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40}
	obs.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28}

	obs.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68}
	obs.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55}
	obs.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45}
	obs.Points[RingTip] = Point3D{X: 0.42, Y: 0.35}

	obs.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70}
	obs.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60}
	obs.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50}
	obs.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42}

	return obs
}

// ClosedFistObservation returns a preset observation with every fingertip
// curled back toward the palm.
func ClosedFistObservation(handedness string) HandObservation {
	obs := HandObservation{Handedness: handedness, Score: 0.95}

	obs.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	obs.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.76, Z: 0.01}
	obs.Points[ThumbMCP] = Point3D{X: 0.57, Y: 0.73, Z: 0.01}
	obs.Points[ThumbIP] = Point3D{X: 0.58, Y: 0.70, Z: 0.0}
	obs.Points[ThumbTip] = Point3D{X: 0.55, Y: 0.73, Z: -0.02}

	obs.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.70, Z: -0.02}
	obs.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.66, Z: -0.05}
	obs.Points[IndexDIP] = Point3D{X: 0.52, Y: 0.69, Z: -0.04}
	obs.Points[IndexTip] = Point3D{X: 0.48, Y: 0.74, Z: -0.02}

	obs.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.68, Z: -0.02}
	obs.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.64, Z: -0.05}
	obs.Points[MiddleDIP] = Point3D{X: 0.48, Y: 0.68, Z: -0.04}
	obs.Points[MiddleTip] = Point3D{X: 0.47, Y: 0.73, Z: -0.02}

	obs.Points[RingMCP] = Point3D{X: 0.46, Y: 0.70, Z: -0.02}
	obs.Points[RingPIP] = Point3D{X: 0.45, Y: 0.66, Z: -0.05}
	obs.Points[RingDIP] = Point3D{X: 0.44, Y: 0.70, Z: -0.04}
	obs.Points[RingTip] = Point3D{X: 0.44, Y: 0.74, Z: -0.02}

	obs.Points[PinkyMCP] = Point3D{X: 0.42, Y: 0.72, Z: -0.02}
	obs.Points[PinkyPIP] = Point3D{X: 0.41, Y: 0.68, Z: -0.05}
	obs.Points[PinkyDIP] = Point3D{X: 0.40, Y: 0.71, Z: -0.04}
	obs.Points[PinkyTip] = Point3D{X: 0.41, Y: 0.75, Z: -0.02}

	return obs
}

// PinchObservation returns a preset observation with thumb and index tips
// touching. The overall pose reads as Neutral; only the pinch flag fires.
func PinchObservation(handedness string) HandObservation {
	obs := NeutralObservation(handedness)

	// Bring the thumb tip onto the index tip.
	obs.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.70, Z: 0.02}
	obs.Points[ThumbIP] = Point3D{X: 0.60, Y: 0.65, Z: 0.02}
	obs.Points[ThumbTip] = Point3D{X: 0.55, Y: 0.55, Z: 0.01}
	obs.Points[IndexTip] = Point3D{X: 0.57, Y: 0.56, Z: 0.01}
	obs.Points[IndexDIP] = Point3D{X: 0.57, Y: 0.58}

	return obs
}

// NeutralObservation returns a preset observation with the thumb and index
// finger extended and the remaining fingers curled: neither open nor fist.
func NeutralObservation(handedness string) HandObservation {
	obs := HandObservation{Handedness: handedness, Score: 0.95}

	obs.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	obs.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	obs.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.71, Z: 0.02}
	obs.Points[ThumbIP] = Point3D{X: 0.62, Y: 0.66, Z: 0.02}
	obs.Points[ThumbTip] = Point3D{X: 0.68, Y: 0.60, Z: 0.02}

	obs.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68}
	obs.Points[IndexPIP] = Point3D{X: 0.56, Y: 0.62}
	obs.Points[IndexDIP] = Point3D{X: 0.57, Y: 0.58}
	obs.Points[IndexTip] = Point3D{X: 0.57, Y: 0.56}

	obs.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: -0.02}
	obs.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.64, Z: -0.05}
	obs.Points[MiddleDIP] = Point3D{X: 0.48, Y: 0.68, Z: -0.04}
	obs.Points[MiddleTip] = Point3D{X: 0.47, Y: 0.72, Z: -0.02}

	obs.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: -0.02}
	obs.Points[RingPIP] = Point3D{X: 0.45, Y: 0.65, Z: -0.05}
	obs.Points[RingDIP] = Point3D{X: 0.44, Y: 0.70, Z: -0.04}
	obs.Points[RingTip] = Point3D{X: 0.45, Y: 0.73, Z: -0.02}

	obs.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: -0.02}
	obs.Points[PinkyPIP] = Point3D{X: 0.40, Y: 0.66, Z: -0.05}
	obs.Points[PinkyDIP] = Point3D{X: 0.41, Y: 0.70, Z: -0.04}
	obs.Points[PinkyTip] = Point3D{X: 0.42, Y: 0.74, Z: -0.02}

	return obs
}

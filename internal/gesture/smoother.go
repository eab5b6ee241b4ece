package gesture

import "math"

// Smoothing constants for the continuous control channels.
const (
	// PositionAlpha is the low-pass factor for hand position channels.
	PositionAlpha = 0.15
	// RotationAlpha is the low-pass factor for hand roll. Rotation is
	// smoothed harder because rotational jitter is far more visible.
	RotationAlpha = 0.10
	// RotationDeadzone snaps small raw roll readings to zero so the
	// sculpture holds still around the upright pose.
	RotationDeadzone = 0.2
)

// Smoother is a single-channel exponential low-pass filter with an optional
// input deadzone. State persists across frames for the life of a session;
// frames without a control hand simply skip Update so the last value holds.
type Smoother struct {
	value    float64
	initial  float64
	alpha    float64
	deadzone float64
}

// NewSmoother creates a Smoother starting at initial. A deadzone of zero
// disables deadzone clamping.
func NewSmoother(initial, alpha, deadzone float64) *Smoother {
	return &Smoother{
		value:    initial,
		initial:  initial,
		alpha:    alpha,
		deadzone: deadzone,
	}
}

// NewPositionSmoother returns a smoother for a hand position channel,
// centered in the frame.
func NewPositionSmoother() *Smoother {
	return NewSmoother(0.5, PositionAlpha, 0)
}

// NewRotationSmoother returns a smoother for the hand roll channel.
func NewRotationSmoother() *Smoother {
	return NewSmoother(0, RotationAlpha, RotationDeadzone)
}

// Update blends one raw sample into the running value and returns the new
// smoothed value. Raw readings inside the deadzone are snapped to zero
// before blending.
func (s *Smoother) Update(raw float64) float64 {
	if s.deadzone > 0 && math.Abs(raw) < s.deadzone {
		raw = 0
	}
	s.value += (raw - s.value) * s.alpha
	return s.value
}

// Value returns the current smoothed value without updating it.
func (s *Smoother) Value() float64 {
	return s.value
}

// Reset returns the channel to its initial value. Called only when hand
// tracking is (re)initialized, never on transient tracking loss.
func (s *Smoother) Reset() {
	s.value = s.initial
}

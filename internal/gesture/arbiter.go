package gesture

import (
	"math"

	"github.com/ayusman/banyan/internal/detector"
)

// Signal is the unified per-frame gesture signal the phase machine
// consumes. It is derived deterministically from the current frame's
// observations and carries no memory of prior frames.
type Signal int

const (
	// SignalWaiting means no actionable gesture this frame.
	SignalWaiting Signal = iota
	// SignalOpenPalm asks the sculpture to spread into the nebula.
	SignalOpenPalm
	// SignalClosedFist asks the sculpture to gather back into the tree.
	SignalClosedFist
	// SignalPinch asks for a photo entity to be focused.
	SignalPinch
)

// String returns a human-readable label for the signal.
func (s Signal) String() string {
	switch s {
	case SignalOpenPalm:
		return "open_palm"
	case SignalClosedFist:
		return "closed_fist"
	case SignalPinch:
		return "pinch"
	default:
		return "waiting"
	}
}

// Reading is the arbiter's per-frame output: the unified signal plus the
// control hand's raw continuous readings, ready for the smoothers.
type Reading struct {
	Signal Signal

	// HasControl reports whether the control hand was observed this
	// frame. When false the continuous fields are undefined and the
	// smoothers must not be updated.
	HasControl bool
	PosX       float64
	PosY       float64
	Roll       float64
}

// Arbiter assigns the two trackable hands to their fixed roles and merges
// their poses into one Signal per frame.
//
// The role mapping comes from the detector's handedness label: the hand
// carrying the configured label is the control hand, the other one the grab
// hand. The labels are mirrored by the camera, so the mapping is a
// configuration constant and never inferred at runtime.
type Arbiter struct {
	controlLabel string
}

// NewArbiter creates an Arbiter whose control hand carries the given
// handedness label.
func NewArbiter(controlLabel string) *Arbiter {
	if controlLabel == "" {
		controlLabel = detector.HandednessRight
	}
	return &Arbiter{controlLabel: controlLabel}
}

// Resolve merges up to two hand observations into one Reading.
//
// Priority, highest first: control fist, grab pinch, control open palm,
// waiting. A gather fist from the control hand always preempts a grab so
// the two hands cannot fight when one is briefly misread. Zero observed
// hands resolve to Waiting immediately, with no hysteresis.
func (a *Arbiter) Resolve(hands []detector.HandObservation) Reading {
	var control, grab *detector.HandObservation
	for i := range hands {
		h := &hands[i]
		if h.Handedness == a.controlLabel {
			if control == nil {
				control = h
			}
		} else if grab == nil {
			grab = h
		}
	}

	if control == nil && grab == nil {
		return Reading{Signal: SignalWaiting}
	}

	controlPose := PoseNeutral
	if control != nil {
		controlPose, _ = Classify(control)
	}

	grabPinch := false
	if grab != nil {
		grabPose, pinch := Classify(grab)
		grabPinch = pinch || grabPose == PoseClosedFist
	}

	signal := SignalWaiting
	switch {
	case control != nil && controlPose == PoseClosedFist:
		signal = SignalClosedFist
	case grabPinch:
		signal = SignalPinch
	case control != nil && controlPose == PoseOpenPalm:
		signal = SignalOpenPalm
	}

	reading := Reading{Signal: signal}
	if control != nil {
		reading.HasControl = true
		reading.PosX = control.Points[detector.Wrist].X
		reading.PosY = control.Points[detector.Wrist].Y
		reading.Roll = handRoll(control)
	}
	return reading
}

// handRoll reads the roll of the knuckle line (index MCP to pinky MCP) and
// normalizes it to roughly [-1, 1], where 0 is an upright hand.
func handRoll(hand *detector.HandObservation) float64 {
	index := hand.Points[detector.IndexMCP]
	pinky := hand.Points[detector.PinkyMCP]
	angle := math.Atan2(index.Y-pinky.Y, index.X-pinky.X)
	return angle / (math.Pi / 2)
}

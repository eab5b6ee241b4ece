// Package session wires the per-frame gesture pipeline into one owned
// context object: classifier, arbiter, smoothers, and phase machine. Each
// Tick is a plain synchronous function of (previous state, new
// observations), so sessions run independently and tests drive them with a
// fake clock and scripted observations.
package session

import (
	"math/rand"
	"time"

	"github.com/ayusman/banyan/internal/detector"
	"github.com/ayusman/banyan/internal/gesture"
	"github.com/ayusman/banyan/internal/phase"
)

// Snapshot is the read-only control-signal bundle published to the
// renderer and the UI after every tick. Consumers never mutate pipeline
// state; they sample snapshots and the pure scene interpolation helpers.
type Snapshot struct {
	Phase         phase.Phase    `json:"phase"`
	PhaseLabel    string         `json:"phase_label"`
	FocusedEntity int            `json:"focused_entity"`
	Gesture       gesture.Signal `json:"gesture"`
	GestureLabel  string         `json:"gesture_label"`
	HandX         float64        `json:"hand_x"`
	HandY         float64        `json:"hand_y"`
	HandRotation  float64        `json:"hand_rotation"`
	Explosion     float64        `json:"explosion"`
	Focus         float64        `json:"focus"`
	Tracking      bool           `json:"tracking"`
	Timestamp     int64          `json:"timestamp"`
}

// Config holds session construction options.
type Config struct {
	// ControlHand is the handedness label of the control hand.
	ControlHand string
	// EntityCount is the number of focusable photo entities.
	EntityCount int
	// Phase holds the transition timings.
	Phase phase.Config
	// Rand drives pinch target selection; nil means time-seeded.
	Rand *rand.Rand
}

// Session owns all mutable pipeline state for one tracking session. It is
// not safe for concurrent use; the owner serializes Tick and the focus and
// reset calls.
type Session struct {
	arbiter *gesture.Arbiter
	posX    *gesture.Smoother
	posY    *gesture.Smoother
	roll    *gesture.Smoother
	machine *phase.Machine

	lastGesture gesture.Signal
	tracking    bool
}

// New creates a Session in the Tree phase with centered control values.
func New(config Config) *Session {
	return &Session{
		arbiter: gesture.NewArbiter(config.ControlHand),
		posX:    gesture.NewPositionSmoother(),
		posY:    gesture.NewPositionSmoother(),
		roll:    gesture.NewRotationSmoother(),
		machine: phase.NewMachine(config.Phase, config.EntityCount, config.Rand),
	}
}

// Machine exposes the phase machine for callback registration.
func (s *Session) Machine() *phase.Machine {
	return s.machine
}

// Tick runs one frame through the pipeline: classify and arbitrate the
// observed hands, blend the continuous channels, advance the phase machine,
// and publish the resulting snapshot. A nil or empty observation list is a
// valid frame meaning no hands were seen; smoothed values hold.
func (s *Session) Tick(hands []detector.HandObservation, now time.Time) Snapshot {
	reading := s.arbiter.Resolve(hands)

	if reading.HasControl {
		s.posX.Update(reading.PosX)
		s.posY.Update(reading.PosY)
		s.roll.Update(reading.Roll)
	}
	s.tracking = reading.HasControl

	s.lastGesture = reading.Signal
	s.machine.Observe(reading.Signal, now)

	return s.Snapshot(now)
}

// FocusEntity applies a direct click selection, the non-gesture focus path.
func (s *Session) FocusEntity(index int, now time.Time) bool {
	return s.machine.FocusEntity(index, now)
}

// ResetTracking recenters the smoothed channels. Called when hand tracking
// is (re)initialized, not on per-frame tracking loss.
func (s *Session) ResetTracking() {
	s.posX.Reset()
	s.posY.Reset()
	s.roll.Reset()
}

// Snapshot publishes the current control signals sampled at now without
// consuming a frame. The server uses this between camera ticks.
func (s *Session) Snapshot(now time.Time) Snapshot {
	s.machine.Update(now)
	return Snapshot{
		Phase:         s.machine.Phase(),
		PhaseLabel:    s.machine.Phase().String(),
		FocusedEntity: s.machine.Focused(),
		Gesture:       s.lastGesture,
		GestureLabel:  s.lastGesture.String(),
		HandX:         s.posX.Value(),
		HandY:         s.posY.Value(),
		HandRotation:  s.roll.Value(),
		Explosion:     s.machine.Explosion(now),
		Focus:         s.machine.Focus(now),
		Tracking:      s.tracking,
		Timestamp:     now.UnixMilli(),
	}
}

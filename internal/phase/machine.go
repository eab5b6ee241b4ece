// Package phase owns the sculpture's top-level mode and the timed
// transitions between the converged tree, the spread nebula, and the
// focused-photo sub-state.
package phase

import (
	"math/rand"
	"time"

	"github.com/ayusman/banyan/internal/anim"
	"github.com/ayusman/banyan/internal/gesture"
)

// Phase is the sculpture's top-level mode. Exactly one is active at a time.
type Phase int

const (
	// Tree is the converged initial state.
	Tree Phase = iota
	// Nebula is the fully spread state. A photo may be focused here.
	Nebula
	// Collapsing is the transient animation back from Nebula to Tree.
	Collapsing
)

// String returns a human-readable label for the phase.
func (p Phase) String() string {
	switch p {
	case Nebula:
		return "nebula"
	case Collapsing:
		return "collapsing"
	default:
		return "tree"
	}
}

// NoFocus marks the absence of a focused entity.
const NoFocus = -1

// Default transition durations.
const (
	DefaultSpreadDuration   = 2 * time.Second
	DefaultCollapseDuration = 1600 * time.Millisecond
	DefaultFocusDuration    = 800 * time.Millisecond
)

// Config holds the transition timings.
type Config struct {
	SpreadDuration   time.Duration
	CollapseDuration time.Duration
	FocusDuration    time.Duration
}

// DefaultConfig returns the standard transition timings.
func DefaultConfig() Config {
	return Config{
		SpreadDuration:   DefaultSpreadDuration,
		CollapseDuration: DefaultCollapseDuration,
		FocusDuration:    DefaultFocusDuration,
	}
}

// Machine is the gesture-driven phase state machine. It consumes one
// unified gesture signal per frame, drives the explosion and focus
// animations, and owns the focused-entity sub-state.
//
// Triggers are edge-sensitive: a transition fires once per signal change
// into the triggering value, and re-entrant signals while already in the
// target configuration are no-ops.
type Machine struct {
	config      Config
	phase       Phase
	focused     int
	entityCount int
	lastSignal  gesture.Signal

	explosion *anim.Tween
	focus     *anim.Tween

	rng          *rand.Rand
	onViewReset  func()
	onTransition func(from, to Phase)
}

// NewMachine creates a Machine in the Tree phase with entityCount focusable
// entities. A nil rng falls back to a time-seeded source; tests inject a
// fixed seed for deterministic pinch targeting.
func NewMachine(config Config, entityCount int, rng *rand.Rand) *Machine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Machine{
		config:      config,
		phase:       Tree,
		focused:     NoFocus,
		entityCount: entityCount,
		lastSignal:  gesture.SignalWaiting,
		explosion:   anim.NewTween(0),
		focus:       anim.NewTween(0),
		rng:         rng,
	}
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	return m.phase
}

// Focused returns the focused entity index, or NoFocus.
func (m *Machine) Focused() int {
	return m.focused
}

// Explosion samples the tree-to-nebula blend at now, in [0,1].
func (m *Machine) Explosion(now time.Time) float64 {
	return m.explosion.ValueAt(now)
}

// Focus samples the photo-focus blend at now, in [0,1].
func (m *Machine) Focus(now time.Time) float64 {
	return m.focus.ValueAt(now)
}

// SetEntityCount updates the number of focusable entities. A focused index
// that falls out of range is cleared.
func (m *Machine) SetEntityCount(n int) {
	m.entityCount = n
	if m.focused >= n {
		m.focused = NoFocus
	}
}

// OnViewReset registers the callback fired when a collapse completes and
// the camera framing should return to its initial target.
func (m *Machine) OnViewReset(fn func()) {
	m.onViewReset = fn
}

// OnTransition registers an observer for phase changes, used for the event
// log. It fires after the phase field has changed.
func (m *Machine) OnTransition(fn func(from, to Phase)) {
	m.onTransition = fn
}

// Observe feeds one frame's unified gesture signal into the machine and
// advances the animations to now.
func (m *Machine) Observe(sig gesture.Signal, now time.Time) {
	if sig != m.lastSignal {
		m.lastSignal = sig
		switch sig {
		case gesture.SignalOpenPalm:
			m.spread(now)
		case gesture.SignalClosedFist:
			m.collapse(now)
		case gesture.SignalPinch:
			m.pinchFocus(now)
		}
	}
	m.Update(now)
}

// Update advances the animations to now and fires any due completions.
// Each completion fires exactly once per triggered transition.
func (m *Machine) Update(now time.Time) {
	m.explosion.Tick(now)
	m.focus.Tick(now)
}

// FocusEntity focuses an entity through the direct click path, bypassing
// gesture selection. Valid only in Nebula; retargeting a focus animation
// already in flight is allowed. Returns whether the focus was applied.
func (m *Machine) FocusEntity(index int, now time.Time) bool {
	if m.phase != Nebula || index < 0 || index >= m.entityCount {
		return false
	}
	m.focused = index
	m.focus.Go(now, 1, m.config.FocusDuration, anim.EaseOutCubic, nil)
	return true
}

// spread handles an open palm: explode into the nebula, or drop an active
// photo focus when already spread. Already spread with nothing focused is a
// no-op so repeated palms cannot restart the animation.
func (m *Machine) spread(now time.Time) {
	if m.phase == Nebula && m.focused == NoFocus {
		return
	}
	from := m.phase
	m.phase = Nebula
	m.focused = NoFocus
	m.explosion.Go(now, 1, m.config.SpreadDuration, anim.EaseOutCubic, nil)
	m.focus.Go(now, 0, m.config.FocusDuration, anim.EaseOutCubic, nil)
	m.fireTransition(from, Nebula)
}

// collapse handles a closed fist: gather the nebula back into the tree.
// Only meaningful from Nebula; a fist while collapsing or already converged
// is a no-op.
func (m *Machine) collapse(now time.Time) {
	if m.phase != Nebula {
		return
	}
	m.phase = Collapsing
	m.focused = NoFocus
	m.focus.Go(now, 0, m.config.FocusDuration, anim.EaseOutCubic, nil)
	m.explosion.Go(now, 0, m.config.CollapseDuration, anim.EaseInOutCubic, func() {
		m.phase = Tree
		m.focused = NoFocus
		if m.onViewReset != nil {
			m.onViewReset()
		}
		m.fireTransition(Collapsing, Tree)
	})
	m.fireTransition(Nebula, Collapsing)
}

// pinchFocus handles a grab pinch: pick any available entity and focus it.
// Selection is an arbitrary draw; reliable gaze-based targeting would need
// world-space state this component does not have.
func (m *Machine) pinchFocus(now time.Time) {
	if m.phase != Nebula || m.entityCount <= 0 || m.focused != NoFocus {
		return
	}
	m.focused = m.rng.Intn(m.entityCount)
	m.focus.Go(now, 1, m.config.FocusDuration, anim.EaseOutCubic, nil)
}

func (m *Machine) fireTransition(from, to Phase) {
	if from != to && m.onTransition != nil {
		m.onTransition(from, to)
	}
}

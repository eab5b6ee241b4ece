// Package scene generates the sculpture's entity layout and provides the
// pure interpolation helpers the renderer samples every frame.
package scene

import (
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Layout geometry constants, in world units.
const (
	// trunkHeight is the vertical extent of the tree's canopy band.
	trunkHeight = 1.4
	// canopyBase is the height at which the canopy starts.
	canopyBase = 1.0
	// canopyRadius is the widest radius of the canopy spiral.
	canopyRadius = 0.9
	// shellInner and shellOuter bound the nebula shell entities scatter to.
	shellInner = 5.0
	shellOuter = 9.0
	// goldenAngle distributes entities evenly around the trunk.
	goldenAngle = 2.399963229728653
)

// Focus scale multipliers. The focused entity grows toward FocusedScale as
// the focus blend runs 0 to 1; every other entity dims toward DimmedScale.
const (
	FocusedScale = 3.0
	DimmedScale  = 0.4
)

// Vec3 is a world-space position.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b Vec3, t float64) Vec3 {
	return Vec3{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
	}
}

// Entity is one focusable photo card in the sculpture, with its two fixed
// anchor positions: gathered on the tree and scattered in the nebula.
type Entity struct {
	ID        string `json:"id"`
	Index     int    `json:"index"`
	Gathered  Vec3   `json:"gathered"`
	Scattered Vec3   `json:"scattered"`
	PhotoURL  string `json:"photo_url,omitempty"`
}

// Layout is a complete generated scene: the fixed geometry every session
// using the same seed reproduces exactly.
type Layout struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Seed      int64     `json:"seed"`
	Entities  []Entity  `json:"entities"`
	CreatedAt time.Time `json:"created_at"`
}

// Generate builds a layout of count entities from a seed. Gathered
// positions wind up the trunk on a golden-angle spiral; scattered positions
// land on a spherical nebula shell. Same seed, same geometry.
func Generate(name string, count int, seed int64) *Layout {
	rng := rand.New(rand.NewSource(seed))

	layout := &Layout{
		ID:        uuid.NewString(),
		Name:      name,
		Seed:      seed,
		Entities:  make([]Entity, count),
		CreatedAt: time.Now(),
	}

	for i := 0; i < count; i++ {
		frac := 0.0
		if count > 1 {
			frac = float64(i) / float64(count-1)
		}

		// Spiral up the canopy, narrowing toward the top.
		theta := float64(i) * goldenAngle
		radius := canopyRadius * (1 - 0.6*frac) * (0.7 + 0.3*rng.Float64())
		gathered := Vec3{
			X: radius * math.Cos(theta),
			Y: canopyBase + trunkHeight*frac,
			Z: radius * math.Sin(theta),
		}

		// Uniform direction onto the nebula shell.
		u := 2*rng.Float64() - 1
		phi := 2 * math.Pi * rng.Float64()
		sin := math.Sqrt(1 - u*u)
		r := shellInner + (shellOuter-shellInner)*rng.Float64()
		scattered := Vec3{
			X: r * sin * math.Cos(phi),
			Y: r * u,
			Z: r * sin * math.Sin(phi),
		}

		layout.Entities[i] = Entity{
			ID:        uuid.NewString(),
			Index:     i,
			Gathered:  gathered,
			Scattered: scattered,
		}
	}

	return layout
}

// EntityPosition interpolates entity index between its gathered and
// scattered anchors by the explosion blend. Pure and stateless: the
// renderer calls it every frame without touching the state machine.
func (l *Layout) EntityPosition(index int, explosion float64) Vec3 {
	if index < 0 || index >= len(l.Entities) {
		return Vec3{}
	}
	e := &l.Entities[index]
	return Lerp(e.Gathered, e.Scattered, clamp01(explosion))
}

// EntityScale returns the scale multiplier for an entity given the focus
// blend and whether this entity is the focused one. At focus 0 every entity
// is at scale 1; at focus 1 the focused entity is enlarged and the rest are
// dimmed out of the way.
func EntityScale(focus float64, focused bool) float64 {
	f := clamp01(focus)
	if focused {
		return 1 + (FocusedScale-1)*f
	}
	return 1 + (DimmedScale-1)*f
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

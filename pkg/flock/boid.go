// Package flock implements the per-frame flocking step of the boids clock.
//
// Boids is an artificial life program, developed by Craig Reynolds in 1986,
// which simulates the flocking behaviour of birds. Each boid steers using
// three local rules: separation, alignment and cohesion.
// https://en.wikipedia.org/wiki/Boids
package flock

import (
	"github.com/lao-tseu-is-alive/go-boids-clock/pkg/geometry"
)

// Tuning holds the fixed per-boid constants.
type Tuning struct {
	MaxSpeed float64 // Per-tick displacement cap
	MaxForce float64 // Cap on each steering delta

	SeparationDistance float64 // Personal space radius
	AlignmentDistance  float64 // Heading matching radius
	CohesionDistance   float64 // Centering radius

	SeparationWeight float64
	AlignmentWeight  float64
	CohesionWeight   float64
}

// DefaultTuning returns the constants used by the clock.
func DefaultTuning() Tuning {
	return Tuning{
		MaxSpeed:           2,
		MaxForce:           0.1,
		SeparationDistance: 30,
		AlignmentDistance:  50,
		CohesionDistance:   50,
		SeparationWeight:   1.5,
		AlignmentWeight:    1.0,
		CohesionWeight:     1.0,
	}
}

// Boid represents a single character of the clock.
// Pos and Vel are exported so the renderers can read them.
type Boid struct {
	Pos   geometry.Vector2D
	Vel   geometry.Vector2D
	Glyph rune
	Tuning
}

// New creates a boid at (x, y) with the given initial velocity.
func New(glyph rune, pos, vel geometry.Vector2D, t Tuning) *Boid {
	return &Boid{
		Pos:    pos,
		Vel:    vel,
		Glyph:  glyph,
		Tuning: t,
	}
}

// Speed returns the magnitude of the boid velocity.
func (b *Boid) Speed() float64 {
	return b.Vel.Len()
}

// Distance returns the Euclidean distance between the positions of a and b.
func Distance(a, b *Boid) float64 {
	return a.Pos.DistanceTo(b.Pos)
}

// Advance moves b forward by one tick.
// all is the whole current set, b included; it is read in its current state,
// so boids advanced earlier in the same pass are seen at their new position.
func Advance(b *Boid, all []*Boid, width, height float64) {
	separation := b.separate(all).Mul(b.SeparationWeight)
	alignment := b.align(all).Mul(b.AlignmentWeight)
	cohesion := b.cohere(all).Mul(b.CohesionWeight)

	b.Vel = b.Vel.Add(separation).Add(alignment).Add(cohesion)

	b.Pos = b.Pos.Add(b.Vel).Wrap(width, height)

	// Speed limit is applied after the move, so a tick can displace a boid by
	// more than MaxSpeed; the velocity left for the next tick never exceeds it.
	b.Vel = b.Vel.Limit(b.MaxSpeed)
}

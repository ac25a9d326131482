package flock

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lao-tseu-is-alive/go-boids-clock/pkg/geometry"
)

const (
	canvasW = 800.0
	canvasH = 600.0
)

func boidAt(x, y, vx, vy float64) *Boid {
	return New('0', geometry.Vector2D{X: x, Y: y}, geometry.Vector2D{X: vx, Y: vy}, DefaultTuning())
}

func TestAdvance_LoneBoidKeepsHeading(t *testing.T) {
	// Neighbour far outside every radius: all three forces are zero.
	me := boidAt(100, 100, 1, 0.5)
	far := boidAt(400, 400, -1, 0)
	before := me.Vel

	Advance(me, []*Boid{me, far}, canvasW, canvasH)

	assert.True(t, me.Vel.Eq(before), "velocity changed without neighbours: %v -> %v", before, me.Vel)
	assert.True(t, me.Pos.Eq(geometry.Vector2D{X: 101, Y: 100.5}))
}

func TestAdvance_LoneBoidDoesNotSpeedUp(t *testing.T) {
	me := boidAt(100, 100, 0.3, -0.4)
	before := me.Speed()

	Advance(me, []*Boid{me}, canvasW, canvasH)

	assert.LessOrEqual(t, me.Speed(), before)
	assert.InDelta(t, before, me.Speed(), 1e-12)
}

func TestAdvance_SpeedLimitHolds(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	flock := make(Flock, 40)
	for i := range flock {
		// Some boids start well above the limit.
		flock[i] = boidAt(
			rng.Float64()*canvasW, rng.Float64()*canvasH,
			(rng.Float64()-0.5)*20, (rng.Float64()-0.5)*20,
		)
	}

	for tick := 0; tick < 50; tick++ {
		for _, b := range flock {
			Advance(b, flock, canvasW, canvasH)
			require.LessOrEqual(t, b.Speed(), b.MaxSpeed+1e-9, "tick %d: speed %v over limit", tick, b.Speed())
			require.True(t, b.Pos.IsFinite())
			require.True(t, b.Vel.IsFinite())
		}
	}
}

func TestAdvance_PositionStaysInCanvas(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	flock := make(Flock, 25)
	for i := range flock {
		flock[i] = boidAt(rng.Float64()*canvasW, rng.Float64()*canvasH, rng.Float64()*4-2, rng.Float64()*4-2)
	}
	for tick := 0; tick < 200; tick++ {
		flock.Step(canvasW, canvasH, Sequential)
		for _, b := range flock {
			require.GreaterOrEqual(t, b.Pos.X, 0.0)
			require.LessOrEqual(t, b.Pos.X, canvasW)
			require.GreaterOrEqual(t, b.Pos.Y, 0.0)
			require.LessOrEqual(t, b.Pos.Y, canvasH)
		}
	}
}

func TestAdvance_Wrap(t *testing.T) {
	tests := []struct {
		name string
		b    *Boid
		want geometry.Vector2D
	}{
		{"pushed past left edge", boidAt(0.5, 300, -0.501, 0), geometry.Vector2D{X: canvasW, Y: 300}},
		{"pushed past right edge", boidAt(canvasW-0.5, 300, 1, 0), geometry.Vector2D{X: 0, Y: 300}},
		{"pushed past top edge", boidAt(300, 1, 0, -2), geometry.Vector2D{X: 300, Y: canvasH}},
		{"pushed past bottom edge", boidAt(300, canvasH, 0, 0.1), geometry.Vector2D{X: 300, Y: 0}},
		{"landing exactly on zero is kept", boidAt(1, 300, -1, 0), geometry.Vector2D{X: 0, Y: 300}},
		{"landing exactly on width is kept", boidAt(canvasW-1, 300, 1, 0), geometry.Vector2D{X: canvasW, Y: 300}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Advance(tt.b, []*Boid{tt.b}, canvasW, canvasH)
			assert.Equal(t, tt.want, tt.b.Pos)
		})
	}
}

func TestSeparation_IsRepulsive(t *testing.T) {
	// Both within SeparationDistance (30) of each other.
	a := boidAt(100, 100, 0, 0)
	b := boidAt(110, 100, 0, 0)
	all := []*Boid{a, b}

	fa := a.separate(all)
	fb := b.separate(all)

	awayFromB := a.Pos.Sub(b.Pos)
	assert.Greater(t, fa.Dot(awayFromB), 0.0, "a should be pushed away from b, got %v", fa)
	assert.Greater(t, fb.Dot(awayFromB.Mul(-1)), 0.0, "b should be pushed away from a, got %v", fb)
	assert.Less(t, fa.X, 0.0)
	assert.Greater(t, fb.X, 0.0)
	assert.InDelta(t, a.MaxForce, fa.Len(), 1e-9, "steering clamped to MaxForce")
}

func TestSeparation_SumsUnitVectors(t *testing.T) {
	me := boidAt(100, 100, 0, 0)
	left := boidAt(95, 100, 0, 0)   // 5 away
	right := boidAt(120, 100, 0, 0) // 20 away
	up := boidAt(100, 90, 0, 0)
	f := me.separate([]*Boid{me, left, right, up})
	// each difference is divided by its own distance: left and right cancel.
	assert.InDelta(t, 0, f.X, 1e-9)
	assert.Greater(t, f.Y, 0.0)
}

func TestAlignment_MatchesNeighbourHeading(t *testing.T) {
	me := boidAt(100, 100, 0, 0)
	friend := boidAt(140, 100, 0, 1) // 40 away: inside alignment, outside separation
	f := me.align([]*Boid{me, friend})

	assert.InDelta(t, 0, f.X, 1e-12)
	assert.InDelta(t, me.MaxForce, f.Y, 1e-12)
	assert.True(t, me.separate([]*Boid{me, friend}).IsZero())
}

func TestCohesion_PullsTowardCentroid(t *testing.T) {
	me := boidAt(100, 100, 0, 0)
	friends := []*Boid{me, boidAt(140, 110, 0, 0), boidAt(140, 90, 0, 0)}
	f := me.cohere(friends)

	assert.Greater(t, f.X, 0.0)
	assert.InDelta(t, 0, f.Y, 1e-12)
	assert.LessOrEqual(t, f.Len(), me.MaxForce+1e-12)
}

func TestRules_NoNeighboursGiveZero(t *testing.T) {
	me := boidAt(100, 100, 1, 1)
	all := []*Boid{me, boidAt(700, 500, 3, 3)}

	assert.True(t, me.separate(all).IsZero())
	assert.True(t, me.align(all).IsZero())
	assert.True(t, me.cohere(all).IsZero())
}

func TestRules_CoincidentNeighbourIgnored(t *testing.T) {
	me := boidAt(100, 100, 1, 0)
	twin := boidAt(100, 100, -1, 0)
	all := []*Boid{me, twin}

	assert.True(t, me.separate(all).IsZero())
	assert.True(t, me.align(all).IsZero())
	assert.True(t, me.cohere(all).IsZero())

	Advance(me, all, canvasW, canvasH)
	assert.True(t, me.Pos.IsFinite())
	assert.True(t, me.Vel.IsFinite())
	assert.Equal(t, geometry.Vector2D{X: 101, Y: 100}, me.Pos)
}

func TestRules_CancellingNeighboursStayFinite(t *testing.T) {
	// Symmetric ring: accumulated separation is exactly zero before normalizing.
	me := boidAt(100, 100, 0.5, 0)
	all := []*Boid{me, boidAt(110, 100, 0, 0), boidAt(90, 100, 0, 0)}

	f := me.separate(all)
	require.True(t, f.IsFinite())
	// desired heading is zero, so the steering only brakes.
	assert.InDelta(t, -me.MaxForce, f.X, 1e-12)
	assert.InDelta(t, 0, f.Y, 1e-12)
}

func TestAdvance_Deterministic(t *testing.T) {
	build := func() Flock {
		return Flock{
			boidAt(100, 100, 1, 0),
			boidAt(115, 108, 0, 1),
			boidAt(130, 95, -1, 0.5),
			boidAt(400, 300, 0.2, 0.2),
		}
	}
	first, second := build(), build()
	for i := 0; i < 10; i++ {
		first.Step(canvasW, canvasH, Sequential)
		second.Step(canvasW, canvasH, Sequential)
	}
	assert.Equal(t, first.Values(), second.Values())
}

func TestAdvance_ZeroWeightsDisableForces(t *testing.T) {
	inert := DefaultTuning()
	inert.SeparationWeight = 0
	inert.AlignmentWeight = 0
	inert.CohesionWeight = 0

	me := New('x', geometry.Vector2D{X: 100, Y: 100}, geometry.Vector2D{X: 1, Y: 0}, inert)
	neighbour := boidAt(105, 100, 0, 0)
	Advance(me, []*Boid{me, neighbour}, canvasW, canvasH)

	assert.Equal(t, geometry.Vector2D{X: 1, Y: 0}, me.Vel)
	assert.False(t, math.IsNaN(me.Pos.X))
}

package flock

import "github.com/lao-tseu-is-alive/go-boids-clock/pkg/geometry"

// DefaultNearbyDistance is the radius used by Nearby when none is given.
const DefaultNearbyDistance = 80

// Neighbor is a boid found by Nearby along with its distance.
type Neighbor struct {
	Boid     *Boid
	Distance float64
}

// Nearby lists the boids strictly closer than maxDistance to b, b excluded.
// It serves rendering only; steering uses the per-rule radii.
// A non-positive maxDistance falls back to DefaultNearbyDistance.
func Nearby(b *Boid, all []*Boid, maxDistance float64) []Neighbor {
	if maxDistance <= 0 {
		maxDistance = DefaultNearbyDistance
	}
	var nearby []Neighbor
	for _, other := range all {
		if other == b {
			continue
		}
		if d := Distance(b, other); d < maxDistance {
			nearby = append(nearby, Neighbor{Boid: other, Distance: d})
		}
	}
	return nearby
}

// ConnectionStyle controls the inter-boid connection overlay.
type ConnectionStyle struct {
	MaxDistance  float64
	MinThickness float64
	MaxThickness float64
	MinOpacity   float64
}

// DefaultConnectionStyle returns the overlay constants used by the clock.
func DefaultConnectionStyle() ConnectionStyle {
	return ConnectionStyle{
		MaxDistance:  500,
		MinThickness: 1,
		MaxThickness: 3,
		MinOpacity:   0.35,
	}
}

// Connection is a line between two boids closer than the style MaxDistance.
type Connection struct {
	From, To  geometry.Vector2D
	Distance  float64
	Thickness float64
	Opacity   float64
}

// Connect computes the line drawn between two points at distance d,
// and false when they are too far apart to be connected.
func (s ConnectionStyle) Connect(from, to geometry.Vector2D) (Connection, bool) {
	d := from.DistanceTo(to)
	if d >= s.MaxDistance {
		return Connection{}, false
	}
	ratio := d / s.MaxDistance

	thickness := s.MaxThickness - ratio*(s.MaxThickness-s.MinThickness)
	if thickness < s.MinThickness {
		thickness = s.MinThickness
	}
	opacity := 1 - ratio
	if opacity < s.MinOpacity {
		opacity = s.MinOpacity
	}
	return Connection{
		From:      from,
		To:        to,
		Distance:  d,
		Thickness: thickness,
		Opacity:   opacity,
	}, true
}

// Connections returns one line per unique unordered pair of boids within
// style.MaxDistance, in (i, j>i) order.
func Connections(boids []Boid, style ConnectionStyle) []Connection {
	var lines []Connection
	for i := 0; i < len(boids); i++ {
		for j := i + 1; j < len(boids); j++ {
			if c, ok := style.Connect(boids[i].Pos, boids[j].Pos); ok {
				lines = append(lines, c)
			}
		}
	}
	return lines
}

package flock

import "github.com/lao-tseu-is-alive/go-boids-clock/pkg/geometry"

// inRange reports whether other counts as a neighbour within radius.
// Coincident boids (d == 0), b itself included, never count.
func inRange(d, radius float64) bool {
	return d > 0 && d < radius
}

// steer turns a desired heading into a bounded velocity delta.
func (b *Boid) steer(desired geometry.Vector2D) geometry.Vector2D {
	return desired.WithLen(b.MaxSpeed).Sub(b.Vel).Limit(b.MaxForce)
}

// separate pushes b away from boids inside its personal space,
// closer neighbours weighing more.
func (b *Boid) separate(all []*Boid) geometry.Vector2D {
	var sum geometry.Vector2D
	count := 0
	for _, other := range all {
		d := Distance(b, other)
		if !inRange(d, b.SeparationDistance) {
			continue
		}
		sum = sum.Add(b.Pos.Sub(other.Pos).Mul(1 / d))
		count++
	}
	if count == 0 {
		return geometry.Vector2D{}
	}
	return b.steer(sum.Average(count))
}

// align steers b toward the average heading of its neighbours.
func (b *Boid) align(all []*Boid) geometry.Vector2D {
	var sum geometry.Vector2D
	count := 0
	for _, other := range all {
		if !inRange(Distance(b, other), b.AlignmentDistance) {
			continue
		}
		sum = sum.Add(other.Vel)
		count++
	}
	if count == 0 {
		return geometry.Vector2D{}
	}
	return b.steer(sum.Average(count))
}

// cohere steers b toward the centroid of its neighbours.
func (b *Boid) cohere(all []*Boid) geometry.Vector2D {
	var sum geometry.Vector2D
	count := 0
	for _, other := range all {
		if !inRange(Distance(b, other), b.CohesionDistance) {
			continue
		}
		sum = sum.Add(other.Pos)
		count++
	}
	if count == 0 {
		return geometry.Vector2D{}
	}
	return b.seek(sum.Average(count))
}

// seek returns the steering force that moves b toward target at full speed.
func (b *Boid) seek(target geometry.Vector2D) geometry.Vector2D {
	return b.steer(target.Sub(b.Pos))
}

// Package clock turns wall-clock time into boids and paces the frame loop.
package clock

import (
	"math/rand/v2"
	"time"

	"github.com/lao-tseu-is-alive/go-boids-clock/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-clock/pkg/geometry"
)

// DefaultLayout renders the time like an en-US locale time string, e.g. "3:04:05 PM".
const DefaultLayout = "3:04:05 PM"

// Format renders t with layout, DefaultLayout when layout is empty.
func Format(t time.Time, layout string) string {
	if layout == "" {
		layout = DefaultLayout
	}
	return t.Format(layout)
}

// Seed builds one boid per character of text, in text order.
// Each boid is placed uniformly at random in [0,width)x[0,height) and gets a
// velocity whose components are uniform in [-initialSpeed, initialSpeed).
func Seed(rng *rand.Rand, text string, width, height float64, t flock.Tuning, initialSpeed float64) flock.Flock {
	runes := []rune(text)
	boids := make(flock.Flock, 0, len(runes))
	for _, r := range runes {
		pos := geometry.Vector2D{
			X: rng.Float64() * width,
			Y: rng.Float64() * height,
		}
		vel := geometry.Vector2D{
			X: (rng.Float64() - 0.5) * 2 * initialSpeed,
			Y: (rng.Float64() - 0.5) * 2 * initialSpeed,
		}
		boids = append(boids, flock.New(r, pos, vel, t))
	}
	return boids
}

package simulation

import (
	"math/rand/v2"
	"time"

	"github.com/lao-tseu-is-alive/go-boids-clock/pkg/clock"
	"github.com/lao-tseu-is-alive/go-boids-clock/pkg/flock"
)

// World is the simulation context: it owns the boid collection of the
// current epoch and the canvas size. It is not safe for concurrent use; the
// WorldActor is its only owner while the program runs.
type World struct {
	cfg    *Config
	rng    *rand.Rand
	tuning flock.Tuning
	mode   flock.UpdateMode

	boids    flock.Flock
	width    float64
	height   float64
	epoch    uint64
	frame    uint64
	timeText string
}

// Snapshot is an immutable copy of the world after a frame pass.
type Snapshot struct {
	Epoch    uint64 // Incremented by every reseed
	Frame    uint64 // Frames since the start of the epoch
	TimeText string
	Width    float64
	Height   float64
	Mode     flock.UpdateMode
	Boids    []flock.Boid
}

// NewWorld creates an empty world sized from the config. Call Reseed to
// populate it.
func NewWorld(cfg *Config, rng *rand.Rand) *World {
	return &World{
		cfg:    cfg,
		rng:    rng,
		tuning: cfg.Tuning(),
		mode:   cfg.Mode(),
		width:  cfg.CanvasWidth,
		height: cfg.CanvasHeight,
	}
}

// Resize updates the canvas size used by the next frame pass.
// Non-positive sizes are ignored (minimized windows report 0x0).
func (w *World) Resize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	w.width, w.height = width, height
}

// Reseed drops the current boids and builds a new set from the time at now.
func (w *World) Reseed(now time.Time) {
	w.timeText = clock.Format(now, w.cfg.TimeLayout)
	w.boids = clock.Seed(w.rng, w.timeText, w.width, w.height, w.tuning, w.cfg.InitialSpeed)
	w.epoch++
	w.frame = 0
}

// Step runs one frame pass over the current boids.
func (w *World) Step() {
	w.boids.Step(w.width, w.height, w.mode)
	w.frame++
}

// SetMode switches the update ordering for the following frame passes.
func (w *World) SetMode(mode flock.UpdateMode) {
	w.mode = mode
}

// Boids exposes the live collection. Callers outside the owning goroutine
// must use Snapshot instead.
func (w *World) Boids() flock.Flock {
	return w.boids
}

// Epoch returns the number of reseeds so far.
func (w *World) Epoch() uint64 {
	return w.epoch
}

// Size returns the canvas size.
func (w *World) Size() (float64, float64) {
	return w.width, w.height
}

// Snapshot copies the current state for the renderers.
func (w *World) Snapshot() *Snapshot {
	return &Snapshot{
		Epoch:    w.epoch,
		Frame:    w.frame,
		TimeText: w.timeText,
		Width:    w.width,
		Height:   w.height,
		Mode:     w.mode,
		Boids:    w.boids.Values(),
	}
}

package flock

import "fmt"

// UpdateMode selects how a frame pass orders the boid updates.
type UpdateMode int

const (
	// Sequential advances boids in place, in insertion order: each boid sees
	// the already-updated state of the boids before it in the same pass.
	Sequential UpdateMode = iota
	// Simultaneous advances every boid against a copy of the previous tick,
	// then applies all results at once.
	Simultaneous
)

func (m UpdateMode) String() string {
	switch m {
	case Sequential:
		return "sequential"
	case Simultaneous:
		return "simultaneous"
	default:
		return fmt.Sprintf("UpdateMode(%d)", int(m))
	}
}

// Toggle returns the other update mode.
func (m UpdateMode) Toggle() UpdateMode {
	if m == Simultaneous {
		return Sequential
	}
	return Simultaneous
}

// ParseUpdateMode converts a config or flag value to an UpdateMode.
func ParseUpdateMode(s string) (UpdateMode, error) {
	switch s {
	case "", "sequential":
		return Sequential, nil
	case "simultaneous":
		return Simultaneous, nil
	default:
		return Sequential, fmt.Errorf("unknown update mode %q", s)
	}
}

// Flock is an ordered set of boids. The order is the update order.
type Flock []*Boid

// Step runs one frame pass: Advance is called exactly once per boid.
func (f Flock) Step(width, height float64, mode UpdateMode) {
	if mode == Simultaneous {
		f.stepSimultaneous(width, height)
		return
	}
	for _, b := range f {
		Advance(b, f, width, height)
	}
}

func (f Flock) stepSimultaneous(width, height float64) {
	previous := f.Clone()
	for _, b := range f {
		// b's own copy in previous sits exactly on b, so the d > 0 rule excludes it.
		Advance(b, previous, width, height)
	}
}

// Clone returns a deep copy of the flock.
func (f Flock) Clone() Flock {
	out := make(Flock, len(f))
	for i, b := range f {
		c := *b
		out[i] = &c
	}
	return out
}

// Values copies the boids out by value, for handing to renderers.
func (f Flock) Values() []Boid {
	out := make([]Boid, len(f))
	for i, b := range f {
		out[i] = *b
	}
	return out
}

package clock

import (
	"math"
	"time"
)

// FrameLimiter accepts a frame once at least Interval has elapsed since the
// previous accepted frame. The first call always accepts.
type FrameLimiter struct {
	Interval time.Duration
	last     time.Time
}

// NewFrameLimiter builds a limiter for the given frames per second.
func NewFrameLimiter(fps int) *FrameLimiter {
	if fps <= 0 {
		fps = 1
	}
	return &FrameLimiter{Interval: time.Second / time.Duration(fps)}
}

// Ready reports whether a frame should run at now, and records it if so.
func (l *FrameLimiter) Ready(now time.Time) bool {
	if !l.last.IsZero() && now.Sub(l.last) < l.Interval {
		return false
	}
	l.last = now
	return true
}

// EpochTimer fires once per Period: the whole boid set is rebuilt each time.
type EpochTimer struct {
	Period time.Duration
	next   time.Time
}

// NewEpochTimer builds a timer with the given period.
func NewEpochTimer(period time.Duration) *EpochTimer {
	if period <= 0 {
		period = time.Second
	}
	return &EpochTimer{Period: period}
}

// Due reports whether a new epoch starts at now. The first call is always
// due. Epochs are scheduled on Period boundaries (whole seconds for the
// clock), so a late check does not delay the next one. Missed epochs are
// not replayed: after a stall the next one is the next boundary after now.
func (e *EpochTimer) Due(now time.Time) bool {
	if e.next.IsZero() {
		e.next = now.Truncate(e.Period).Add(e.Period)
		return true
	}
	if now.Before(e.next) {
		return false
	}
	e.next = e.next.Add(e.Period)
	if !now.Before(e.next) {
		e.next = now.Truncate(e.Period).Add(e.Period)
	}
	return true
}

// Force makes the next Due call fire regardless of time.
func (e *EpochTimer) Force() {
	e.next = time.Time{}
}

// TrailAlpha returns the opacity of the wash painted each frame so that a
// trail has faded to residual after frames frames: 1 - residual^(1/frames).
func TrailAlpha(frames int, residual float64) float64 {
	if frames <= 0 || residual <= 0 {
		return 1
	}
	if residual >= 1 {
		return 0
	}
	return 1 - math.Pow(residual, 1/float64(frames))
}

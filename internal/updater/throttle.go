package updater

import (
	"sync"
	"time"
)

// DefaultThrottleInterval is the minimum spacing of dispatched updates.
const DefaultThrottleInterval = 20 * time.Millisecond

// Throttle limits how often per-frame values are dispatched.
//
// A value passes when nothing was dispatched yet, when interval has elapsed
// since the last dispatch, or when it went backwards. Record clears the
// window so the next value always passes.
type Throttle struct {
	mu        sync.Mutex
	interval  time.Duration
	now       func() time.Time
	last      time.Time
	lastValue float64
	primed    bool
}

// NewThrottle creates a throttle. A nil now uses time.Now.
func NewThrottle(interval time.Duration, now func() time.Time) *Throttle {
	if now == nil {
		now = time.Now
	}
	if interval <= 0 {
		interval = DefaultThrottleInterval
	}
	return &Throttle{interval: interval, now: now}
}

// Allow reports whether value should be dispatched, and records it if so.
func (t *Throttle) Allow(value float64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if t.primed && value >= t.lastValue && now.Sub(t.last) < t.interval {
		return false
	}
	t.primed = true
	t.last = now
	t.lastValue = value
	return true
}

// Record resets the window.
func (t *Throttle) Record() {
	t.mu.Lock()
	t.primed = false
	t.mu.Unlock()
}

// Interval returns the throttle window.
func (t *Throttle) Interval() time.Duration {
	return t.interval
}

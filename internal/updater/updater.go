// Package updater drives a frame loop that samples a time source and hands
// the value to a callback until the callback asks it to stop.
package updater

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

// ErrInvalidTime is reported when the time function returns a non-finite or
// negative value. It signals a wiring mistake, not a runtime condition.
var ErrInvalidTime = errors.New("updater: time function returned an invalid value")

// Updater samples timeFn once per frame and forwards the value to update.
// update returns whether the loop should continue.
//
// At most one frame is pending at any time. Callbacks run without the
// updater's lock held, so they may call Start or Stop.
type Updater struct {
	sched   Scheduler
	timeFn  func() float64
	update  func(t float64) bool
	onError func(error)

	mu      sync.Mutex
	running bool
	run     uint64 // incremented on every Start, stale frames compare against it
	cancel  func()
}

// Option configures an Updater.
type Option func(*Updater)

// WithErrorHandler sets the handler for ErrInvalidTime.
// The default handler panics.
func WithErrorHandler(fn func(error)) Option {
	return func(u *Updater) {
		u.onError = fn
	}
}

// New creates a stopped updater.
func New(s Scheduler, timeFn func() float64, update func(t float64) bool, opts ...Option) *Updater {
	u := &Updater{
		sched:  s,
		timeFn: timeFn,
		update: update,
		onError: func(err error) {
			panic(err)
		},
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Start schedules the first frame. It has no effect while running.
func (u *Updater) Start() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.running {
		return
	}
	u.running = true
	u.run++
	u.scheduleLocked(u.run)
}

// Stop cancels the pending frame. Safe to call repeatedly.
func (u *Updater) Stop() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.stopLocked()
}

// Running reports whether a frame is scheduled.
func (u *Updater) Running() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.running
}

func (u *Updater) stopLocked() {
	u.running = false
	if u.cancel != nil {
		u.cancel()
		u.cancel = nil
	}
}

func (u *Updater) scheduleLocked(run uint64) {
	u.cancel = u.sched.Schedule(func() { u.step(run) })
}

func (u *Updater) step(run uint64) {
	u.mu.Lock()
	if !u.running || u.run != run {
		u.mu.Unlock()
		return
	}
	u.cancel = nil
	u.mu.Unlock()

	t := u.timeFn()
	if math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
		u.mu.Lock()
		if u.run == run {
			u.stopLocked()
		}
		u.mu.Unlock()
		u.onError(fmt.Errorf("%w: %v", ErrInvalidTime, t))
		return
	}

	cont := u.update(t)

	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.running || u.run != run {
		return
	}
	if !cont {
		u.stopLocked()
		return
	}
	u.scheduleLocked(run)
}

package updater

import (
	"sync"
	"time"
)

// DefaultFrameInterval is one frame at 60 frames per second.
const DefaultFrameInterval = time.Second / 60

// Scheduler runs a callback on the next frame.
type Scheduler interface {
	// Schedule arranges for fn to run once and returns a func that cancels it.
	Schedule(fn func()) (cancel func())
}

// FrameScheduler produces frames from a timer.
type FrameScheduler struct {
	Interval time.Duration
}

// NewFrameScheduler returns a scheduler firing at the given frame rate.
// A non-positive rate falls back to 60 frames per second.
func NewFrameScheduler(fps int) FrameScheduler {
	if fps <= 0 {
		return FrameScheduler{Interval: DefaultFrameInterval}
	}
	return FrameScheduler{Interval: time.Second / time.Duration(fps)}
}

func (s FrameScheduler) Schedule(fn func()) func() {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	t := time.AfterFunc(interval, fn)
	return func() { t.Stop() }
}

// ManualScheduler holds the scheduled frame until Step is called.
type ManualScheduler struct {
	mu      sync.Mutex
	pending *manualFrame
	frames  int
}

type manualFrame struct {
	fn        func()
	cancelled bool
}

func (s *ManualScheduler) Schedule(fn func()) func() {
	f := &manualFrame{fn: fn}
	s.mu.Lock()
	s.pending = f
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		f.cancelled = true
		if s.pending == f {
			s.pending = nil
		}
		s.mu.Unlock()
	}
}

// Step runs the pending frame, if any, and reports whether one ran.
func (s *ManualScheduler) Step() bool {
	s.mu.Lock()
	f := s.pending
	s.pending = nil
	if f == nil || f.cancelled {
		s.mu.Unlock()
		return false
	}
	s.frames++
	s.mu.Unlock()

	f.fn()
	return true
}

// Pending reports whether a frame is waiting.
func (s *ManualScheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Frames returns how many frames ran.
func (s *ManualScheduler) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

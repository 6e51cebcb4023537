package beepaudio

import (
	"errors"
	"fmt"
)

var (
	errAlreadyStarted = errors.New("beepaudio: source already started")
	errNotStarted     = errors.New("beepaudio: source not started")
)

type sourceState int

const (
	sourceIdle sourceState = iota
	sourcePlaying
	sourceDone
)

// source plays a buffer once. It streams silence until started and reports
// itself drained once stopped or finished.
type source struct {
	node
	buf *buffer

	// guarded by ctx.mu
	pos     int
	state   sourceState
	onEnded func()
}

func (s *source) SetOnEnded(fn func()) {
	s.ctx.mu.Lock()
	s.onEnded = fn
	s.ctx.mu.Unlock()
}

// Start begins playback at offset seconds.
func (s *source) Start(offset float64) error {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()
	if s.state != sourceIdle {
		return errAlreadyStarted
	}
	if offset < 0 {
		return fmt.Errorf("beepaudio: negative offset %v", offset)
	}
	s.pos = min(s.ctx.rate.N(seconds(offset)), len(s.buf.samples))
	s.state = sourcePlaying
	return nil
}

// Stop ends playback. The ended callback, if still set, runs synchronously.
func (s *source) Stop() error {
	s.ctx.mu.Lock()
	if s.state == sourceIdle {
		s.ctx.mu.Unlock()
		return errNotStarted
	}
	fire := s.state == sourcePlaying
	s.state = sourceDone
	cb := s.onEnded
	s.ctx.mu.Unlock()

	if fire && cb != nil {
		cb()
	}
	return nil
}

// Stream runs with ctx.mu held. Natural end is reported on a new goroutine
// because the callback takes the caller's locks.
func (s *source) Stream(samples [][2]float64) (int, bool) {
	switch s.state {
	case sourceIdle:
		clear(samples)
		return len(samples), true
	case sourceDone:
		return 0, false
	}

	n := copy(samples, s.buf.samples[s.pos:])
	s.pos += n
	if s.pos >= len(s.buf.samples) {
		s.state = sourceDone
		if cb := s.onEnded; cb != nil {
			go cb()
		}
	}
	return n, true
}

func (s *source) Err() error { return nil }

package engine

import (
	"time"

	"github.com/llehouerou/wavescope/internal/track"
)

// State returns a snapshot of the current transport state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	vol := e.volumeLocked()
	return State{
		IsPlaying:   e.isPlayingLocked(),
		IsPaused:    e.session.paused,
		IsStopped:   e.isStoppedLocked(),
		CurrentTime: duration(e.positionLocked()),
		Duration:    duration(e.durationLocked()),
		Volume:      vol,
		IsMuted:     vol == 0,
		Microphone:  e.mic != nil,
	}
}

// IsPlaying reports whether a source is producing sound.
func (e *Engine) IsPlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.isPlayingLocked()
}

func (e *Engine) IsPaused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.paused
}

// IsStopped reports whether neither a track nor the microphone is active.
func (e *Engine) IsStopped() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.isStoppedLocked()
}

// CurrentTime returns the playback position.
func (e *Engine) CurrentTime() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return duration(e.positionLocked())
}

// Duration returns the decoded duration of the current buffer, or 0.
func (e *Engine) Duration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return duration(e.durationLocked())
}

// Track returns a copy of the current track, or nil.
func (e *Engine) Track() *track.Track {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.track == nil {
		return nil
	}
	t := *e.track
	return &t
}

// GetFrequencyData returns the analyser's byte frequency data, or nil before
// the graph exists.
func (e *Engine) GetFrequencyData() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.analyser == nil {
		return nil
	}
	return e.analyser.FrequencyData()
}

// GetTimeData returns the analyser's byte waveform, or nil before the graph
// exists.
func (e *Engine) GetTimeData() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.analyser == nil {
		return nil
	}
	return e.analyser.TimeData()
}

func (e *Engine) isPlayingLocked() bool {
	return e.session.source != nil && !e.session.paused
}

func (e *Engine) isStoppedLocked() bool {
	return e.session.source == nil && !e.session.paused && e.mic == nil
}

func (e *Engine) positionLocked() float64 {
	switch {
	case e.session.paused:
		return e.session.pausedOffset
	case e.session.source != nil:
		return e.elapsedLocked()
	default:
		return 0
	}
}

func (e *Engine) durationLocked() float64 {
	if e.session.buffer == nil {
		return 0
	}
	return e.session.buffer.Duration()
}

// currentSeconds is the time function of the updater.
func (e *Engine) currentSeconds() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.positionLocked()
}

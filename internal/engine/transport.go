package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/llehouerou/wavescope/internal/audio"
	"github.com/llehouerou/wavescope/internal/track"
)

// PlayTrack decodes t and starts it at startAt, replacing whatever was
// playing. startAt is clamped to the decoded duration.
//
// If another PlayTrack, StopPlayback, StartMicrophone or Cleanup happens while
// t is decoding, the decode result is discarded, nothing is notified and nil
// is returned. A failed decode leaves the engine stopped and returns an error
// wrapping ErrDecode; a cancelled ctx counts as a failed decode.
func (e *Engine) PlayTrack(ctx context.Context, t track.Track, startAt time.Duration) error {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.stopMicrophoneLocked()
	e.teardownSessionLocked()
	e.track = nil
	host, err := e.ensureGraphLocked(ctx)
	e.mu.Unlock()
	if err != nil {
		e.emit()
		return err
	}

	buf, err := host.Decode(ctx, t.Data)

	e.mu.Lock()
	if gen != e.generation {
		e.mu.Unlock()
		e.logger.Debug().Str("track", t.Path).Msg("discarding superseded decode")
		return nil
	}
	if err != nil {
		e.mu.Unlock()
		e.logger.Warn().Err(err).Str("track", t.Path).Msg("decode failed")
		e.emit()
		return fmt.Errorf("%w: %s: %w", ErrDecode, t.Path, err)
	}

	e.session.buffer = buf
	offset := clamp(seconds(startAt), 0, buf.Duration())
	if err := e.startSourceLocked(offset); err != nil {
		e.session = session{}
		e.mu.Unlock()
		e.emit()
		return fmt.Errorf("start %s: %w", t.Path, err)
	}
	e.track = &t
	e.throttle.Record()
	e.updater.Start()
	e.mu.Unlock()

	e.logger.Info().
		Str("track", t.Path).
		Float64("duration", buf.Duration()).
		Float64("offset", offset).
		Msg("playing")
	e.emit()
	return nil
}

// PausePlayback freezes the position. No-op unless playing.
func (e *Engine) PausePlayback() {
	e.mu.Lock()
	if e.session.source == nil {
		e.mu.Unlock()
		return
	}
	elapsed := e.elapsedLocked()
	e.releaseSourceLocked()
	e.updater.Stop()
	e.session.paused = true
	e.session.pausedOffset = elapsed
	e.throttle.Record()
	e.mu.Unlock()

	e.emit()
}

// ResumePlayback continues from the paused position. No-op unless paused.
func (e *Engine) ResumePlayback() {
	e.mu.Lock()
	if !e.session.paused || e.session.buffer == nil {
		e.mu.Unlock()
		return
	}
	if err := e.startSourceLocked(e.session.pausedOffset); err != nil {
		e.mu.Unlock()
		e.logger.Error().Err(err).Msg("resume failed")
		return
	}
	e.throttle.Record()
	e.updater.Start()
	e.mu.Unlock()

	e.emit()
}

// StopPlayback releases the session and the track and cancels any pending
// decode. Track-end listeners are not called.
func (e *Engine) StopPlayback() {
	e.mu.Lock()
	e.generation++
	e.stopMicrophoneLocked()
	e.teardownSessionLocked()
	e.track = nil
	e.mu.Unlock()

	e.emit()
}

// SeekTo moves the position to pos, clamped to the buffer duration. While
// paused only the stored position changes. No-op without a buffer, or when
// stopped after a natural end.
func (e *Engine) SeekTo(pos time.Duration) {
	e.mu.Lock()
	if e.session.buffer == nil {
		e.mu.Unlock()
		return
	}
	target := clamp(seconds(pos), 0, e.session.buffer.Duration())

	switch {
	case e.session.paused:
		e.session.pausedOffset = target
	case e.session.source != nil:
		e.releaseSourceLocked()
		e.updater.Stop()
		if err := e.startSourceLocked(target); err != nil {
			e.session = session{}
			e.track = nil
			e.mu.Unlock()
			e.logger.Error().Err(err).Float64("target", target).Msg("seek failed")
			e.emit()
			return
		}
		e.updater.Start()
	default:
		e.mu.Unlock()
		return
	}
	e.throttle.Record()
	e.mu.Unlock()

	e.emit()
}

// startSourceLocked creates a source for the session buffer and starts it at
// offset seconds.
func (e *Engine) startSourceLocked(offset float64) error {
	src, err := e.host.NewSource(e.session.buffer)
	if err != nil {
		return fmt.Errorf("create source: %w", err)
	}
	if err := src.Connect(e.gain); err != nil {
		return fmt.Errorf("connect source: %w", err)
	}
	src.SetOnEnded(func() { e.handleEnded(src) })
	if err := src.Start(offset); err != nil {
		src.SetOnEnded(nil)
		src.Disconnect()
		return fmt.Errorf("start source: %w", err)
	}
	e.session.source = src
	e.session.startTimeOffset = e.host.CurrentTime() - offset
	e.session.paused = false
	e.session.pausedOffset = 0
	return nil
}

// releaseSourceLocked stops and disconnects the current source. The ended
// callback is cleared before stopping so a manual stop never looks like a
// natural end.
func (e *Engine) releaseSourceLocked() {
	src := e.session.source
	if src == nil {
		return
	}
	e.session.source = nil
	src.SetOnEnded(nil)
	if err := src.Stop(); err != nil {
		e.logger.Debug().Err(err).Msg("stop source")
	}
	src.Disconnect()
}

// teardownSessionLocked stops the updater and clears the whole session.
func (e *Engine) teardownSessionLocked() {
	e.releaseSourceLocked()
	e.updater.Stop()
	e.session = session{}
}

// handleEnded runs when src reaches the end of its buffer. Callbacks from a
// source that is no longer current are ignored.
func (e *Engine) handleEnded(src audio.Source) {
	e.mu.Lock()
	if e.session.source != src {
		e.mu.Unlock()
		return
	}
	e.session.source = nil
	src.SetOnEnded(nil)
	src.Disconnect()
	e.updater.Stop()
	e.session.paused = false
	e.session.pausedOffset = 0
	e.throttle.Record()
	path := ""
	if e.track != nil {
		path = e.track.Path
	}
	e.mu.Unlock()

	e.logger.Debug().Str("track", path).Msg("track ended")
	e.emit()
	e.endListeners.emit(struct{}{}, e.listenerPanic)
}

func (e *Engine) elapsedLocked() float64 {
	if e.host == nil || e.session.buffer == nil {
		return 0
	}
	return clamp(e.host.CurrentTime()-e.session.startTimeOffset, 0, e.session.buffer.Duration())
}

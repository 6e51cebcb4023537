package engine

import (
	"context"
	"fmt"

	"github.com/llehouerou/wavescope/internal/audio"
)

// StartMicrophone routes stream into the graph, stopping any track playback
// and any previous microphone first. The engine takes ownership of stream:
// its tracks are stopped by StopMicrophone, StopPlayback, PlayTrack and
// Cleanup.
func (e *Engine) StartMicrophone(ctx context.Context, stream audio.MediaStream) error {
	if stream == nil {
		return fmt.Errorf("start microphone: %w", audio.ErrUnsupportedStream)
	}
	e.mu.Lock()
	e.generation++
	e.teardownSessionLocked()
	e.track = nil
	e.stopMicrophoneLocked()

	err := e.attachMicrophoneLocked(ctx, stream)
	e.mu.Unlock()

	if err != nil {
		stopTracks(stream)
		e.logger.Warn().Err(err).Msg("microphone failed")
	} else {
		e.logger.Info().Int("tracks", len(stream.Tracks())).Msg("microphone started")
	}
	e.emit()
	return err
}

// StopMicrophone stops the microphone tracks and disconnects its node.
func (e *Engine) StopMicrophone() {
	e.mu.Lock()
	if e.mic == nil {
		e.mu.Unlock()
		return
	}
	e.stopMicrophoneLocked()
	e.mu.Unlock()

	e.logger.Info().Msg("microphone stopped")
	e.emit()
}

// IsMicrophoneActive reports whether a microphone stream is routed.
func (e *Engine) IsMicrophoneActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mic != nil
}

func (e *Engine) attachMicrophoneLocked(ctx context.Context, stream audio.MediaStream) error {
	host, err := e.ensureGraphLocked(ctx)
	if err != nil {
		return err
	}
	src, err := host.NewMediaStreamSource(stream)
	if err != nil {
		return fmt.Errorf("open microphone: %w", err)
	}
	if err := src.Connect(e.gain); err != nil {
		src.Disconnect()
		return fmt.Errorf("connect microphone: %w", err)
	}
	e.mic = &micInput{source: src, stream: stream}
	return nil
}

func (e *Engine) stopMicrophoneLocked() {
	if e.mic == nil {
		return
	}
	// The render thread may still be pulling the device until the node is
	// disconnected.
	e.mic.source.Disconnect()
	stopTracks(e.mic.stream)
	e.mic = nil
}

func stopTracks(stream audio.MediaStream) {
	for _, t := range stream.Tracks() {
		t.Stop()
	}
}

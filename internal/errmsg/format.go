// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import (
	"context"
	"errors"
	"fmt"

	"github.com/llehouerou/wavescope/internal/audio"
	"github.com/llehouerou/wavescope/internal/engine"
	"github.com/llehouerou/wavescope/internal/playback"
)

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Playback operations
	OpPlaybackStart   Op = "start playback"
	OpPlaybackNext    Op = "play next track"
	OpPlaybackPrev    Op = "play previous track"
	OpPlaybackAdvance Op = "advance to next track"
	OpPlaybackSeek    Op = "seek"

	// Input
	OpMicrophoneOpen Op = "open microphone"

	// Tracks and queue
	OpTrackLoad Op = "load track"
	OpQueueLoad Op = "load queue"
	OpQueueSave Op = "save queue"

	// Initialization
	OpConfigLoad Op = "load config"
	OpStateOpen  Op = "open state"
	OpAudioInit  Op = "initialize audio output"
	OpInitialize Op = "initialize application"
)

// opsByEvent maps playback service operation names to Ops.
var opsByEvent = map[string]Op{
	"play":     OpPlaybackStart,
	"next":     OpPlaybackNext,
	"previous": OpPlaybackPrev,
	"jump":     OpPlaybackStart,
	"advance":  OpPlaybackAdvance,
}

// ForEvent returns the Op for a playback error event operation.
func ForEvent(operation string) Op {
	if op, ok := opsByEvent[operation]; ok {
		return op
	}
	return Op(operation)
}

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %s", op, describe(err))
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %s", op, context, describe(err))
}

// describe replaces well-known causes with a short explanation and falls
// back to the error text.
func describe(err error) string {
	switch {
	case errors.Is(err, audio.ErrUnsupportedFormat):
		return "unsupported audio format"
	case errors.Is(err, engine.ErrHostUnavailable):
		return "audio output unavailable"
	case errors.Is(err, audio.ErrUnsupportedStream):
		return "input stream not supported"
	case errors.Is(err, playback.ErrEmptyQueue):
		return "queue is empty"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return err.Error()
	}
}

// Package app is the terminal UI: it maps keys to playback commands and
// renders the transport bar and the analyser output.
package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/wavescope/internal/engine"
	"github.com/llehouerou/wavescope/internal/track"
)

// PlaybackMessage is implemented by messages coming from the playback
// service or the engine.
type PlaybackMessage interface {
	tea.Msg
	playbackMessage()
}

// FrameMsg redraws the visualizer.
type FrameMsg time.Time

func (FrameMsg) playbackMessage() {}

// ServiceStateChangedMsg is sent when the transport status changes.
type ServiceStateChangedMsg struct {
	Previous, Current engine.Status
}

func (ServiceStateChangedMsg) playbackMessage() {}

// ServiceTrackChangedMsg is sent when a different track starts playing.
type ServiceTrackChangedMsg struct {
	Index int
	Track *track.Track
}

func (ServiceTrackChangedMsg) playbackMessage() {}

// ServiceQueueChangedMsg is sent when the queue or its cursor changed
// without playback.
type ServiceQueueChangedMsg struct {
	Index int
}

func (ServiceQueueChangedMsg) playbackMessage() {}

// ServicePositionChangedMsg carries the playback position. It arrives at the
// engine's notification rate while playing and redraws the seek bar.
type ServicePositionChangedMsg struct {
	Position time.Duration
}

func (ServicePositionChangedMsg) playbackMessage() {}

// ServiceErrorMsg is sent when a playback operation fails.
type ServiceErrorMsg struct {
	Operation string
	Path      string
	Err       error
}

func (ServiceErrorMsg) playbackMessage() {}

// PlaybackFailedMsg is sent when a transport command fails before reaching
// the engine, e.g. on an empty queue.
type PlaybackFailedMsg struct {
	Operation string
	Err       error
}

func (PlaybackFailedMsg) playbackMessage() {}

// ServiceClosedMsg is sent once the playback service shut down.
type ServiceClosedMsg struct{}

func (ServiceClosedMsg) playbackMessage() {}

// MicrophoneStartedMsg reports the outcome of opening the microphone.
type MicrophoneStartedMsg struct {
	Err error
}

func (MicrophoneStartedMsg) playbackMessage() {}

package app

import (
	"context"

	"github.com/llehouerou/wavescope/internal/audio"
	"github.com/llehouerou/wavescope/internal/engine"
)

// Engine is the part of the playback engine the TUI talks to directly.
// Transport goes through the playback service.
type Engine interface {
	Volume() float64
	SetVolume(v float64)
	IsMuted() bool
	ToggleMute()

	StartMicrophone(ctx context.Context, stream audio.MediaStream) error
	StopMicrophone()
	IsMicrophoneActive() bool

	GetFrequencyData() []byte
	GetTimeData() []byte
}

// Verify the engine satisfies Engine at compile time.
var _ Engine = (*engine.Engine)(nil)

// MicOpener opens the default capture device. The engine takes ownership of
// the returned stream.
type MicOpener func() (audio.MediaStream, error)

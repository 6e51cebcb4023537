//go:build !linux

package mpris

import (
	"github.com/rs/zerolog"

	"github.com/llehouerou/wavescope/internal/playback"
)

// Mixer is the volume control exposed over MPRIS.
type Mixer interface {
	Volume() float64
	SetVolume(v float64)
}

// Adapter is a no-op on non-Linux platforms.
type Adapter struct{}

// New returns a no-op adapter on non-Linux platforms.
func New(_ playback.Service, _ Mixer, _ zerolog.Logger) (*Adapter, error) {
	return &Adapter{}, nil
}

// Close is a no-op on non-Linux platforms.
func (a *Adapter) Close() error {
	return nil
}

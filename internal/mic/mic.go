// Package mic opens the default capture device as a media stream.
package mic

import (
	"fmt"
	"sync"

	"github.com/MarkKremer/microphone/v2"
	"github.com/gopxl/beep/v2"

	"github.com/llehouerou/wavescope/internal/audio"
)

// Device is the capture backend. It is satisfied by *microphone.Streamer.
type Device interface {
	beep.Streamer
	Start() error
	Stop() error
	Close() error
}

// Stream is an open microphone. It implements beepaudio.Capture.
type Stream struct {
	dev     Device
	format  beep.Format
	release func() error

	once sync.Once
	err  error
}

// Open initializes the capture backend and starts recording from the
// default input device.
func Open(sampleRate, channels int) (*Stream, error) {
	if err := microphone.Init(); err != nil {
		return nil, fmt.Errorf("init microphone: %w", err)
	}
	dev, format, err := microphone.OpenDefaultStream(beep.SampleRate(sampleRate), channels)
	if err != nil {
		_ = microphone.Terminate()
		return nil, fmt.Errorf("open microphone: %w", err)
	}
	s := NewStream(dev, format, microphone.Terminate)
	if err := dev.Start(); err != nil {
		s.stop()
		return nil, fmt.Errorf("start microphone: %w", err)
	}
	return s, nil
}

// NewStream wraps an opened device. release runs once after the device is
// closed and may be nil.
func NewStream(dev Device, format beep.Format, release func() error) *Stream {
	return &Stream{dev: dev, format: format, release: release}
}

func (s *Stream) Stream(samples [][2]float64) (int, bool) {
	return s.dev.Stream(samples)
}

func (s *Stream) Err() error {
	return s.dev.Err()
}

func (s *Stream) Format() beep.Format {
	return s.format
}

// Tracks returns the single capture track.
func (s *Stream) Tracks() []audio.MediaTrack {
	return []audio.MediaTrack{track{s}}
}

// Close stops capture and releases the device. Safe to call repeatedly.
func (s *Stream) Close() error {
	s.stop()
	return s.err
}

func (s *Stream) stop() {
	s.once.Do(func() {
		if err := s.dev.Stop(); err != nil {
			s.err = err
		}
		if err := s.dev.Close(); err != nil && s.err == nil {
			s.err = err
		}
		if s.release != nil {
			if err := s.release(); err != nil && s.err == nil {
				s.err = err
			}
		}
	})
}

type track struct {
	s *Stream
}

func (t track) Stop() {
	t.s.stop()
}

// Package audio defines the host audio subsystem the playback engine drives:
// a context owning a clock, decodable buffers, one-shot sources, a gain node
// and an analyser node.
package audio

import (
	"context"
	"errors"
)

var (
	ErrClosed            = errors.New("audio: context closed")
	ErrUnsupportedFormat = errors.New("audio: unsupported format")
	ErrForeignNode       = errors.New("audio: node belongs to another context")
	ErrUnsupportedStream = errors.New("audio: unsupported media stream")
)

// Context owns the output device and creates every node of the graph.
type Context interface {
	// CurrentTime returns the context clock in seconds. It never decreases.
	CurrentTime() float64
	Resume(ctx context.Context) error
	Decode(ctx context.Context, data []byte) (Buffer, error)
	NewSource(buf Buffer) (Source, error)
	NewGain() (Gain, error)
	NewAnalyser(fftSize int) (Analyser, error)
	NewMediaStreamSource(stream MediaStream) (MediaSource, error)
	Destination() Node
	Close() error
}

// Buffer holds fully decoded sample data.
type Buffer interface {
	// Duration in seconds.
	Duration() float64
	SampleRate() int
}

// Node is a vertex of the audio graph.
type Node interface {
	Connect(dst Node) error
	Disconnect()
}

// Source plays a buffer once.
//
// Stopping a started source whose ended callback is still set invokes that
// callback, exactly as reaching the end of the buffer does. Callers that do
// not want the end notification must clear it with SetOnEnded(nil) first.
type Source interface {
	Node
	SetOnEnded(fn func())
	Start(offset float64) error
	Stop() error
}

// Gain scales its input. A value of 0 is silence.
type Gain interface {
	Node
	Value() float64
	SetValue(v float64)
}

// Analyser passes audio through unchanged and exposes the most recent samples.
type Analyser interface {
	Node
	FFTSize() int
	// FrequencyData returns FFTSize()/2 magnitude bins scaled to 0..255.
	FrequencyData() []byte
	// TimeData returns FFTSize() samples scaled to 0..255, 128 being silence.
	TimeData() []byte
}

// MediaStream is a live input such as a microphone.
type MediaStream interface {
	Tracks() []MediaTrack
}

// MediaTrack is one input track of a MediaStream.
type MediaTrack interface {
	Stop()
}

// MediaSource feeds a MediaStream into the graph.
type MediaSource interface {
	Node
	Stream() MediaStream
}

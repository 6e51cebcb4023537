// Package beepaudio implements the audio host contracts on top of beep and
// the system speaker.
//
// The graph is rendered by a single streamer, the Context itself, which the
// speaker pulls from. Every graph mutation and every render take the
// context's mutex, so nodes never see a half-applied change. The context
// clock counts rendered frames, which keeps it in step with what sources
// have actually played.
package beepaudio

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/llehouerou/wavescope/internal/audio"
)

const (
	// DefaultSampleRate is the output rate used when none is configured.
	DefaultSampleRate = 44100
	// DefaultBufferSize is the speaker buffer length.
	DefaultBufferSize = 100 * time.Millisecond
)

// Options configures the output device.
type Options struct {
	SampleRate int
	BufferSize time.Duration
}

// Context is an audio.Context rendering to the speaker.
type Context struct {
	rate beep.SampleRate

	mu     sync.Mutex
	dest   *destination
	closed bool

	frames atomic.Int64

	resume func() error
	close  func() error
}

// Verify Context implements audio.Context at compile time.
var _ audio.Context = (*Context)(nil)

// NewContext initializes the speaker and starts rendering the graph.
func NewContext(opts Options) (*Context, error) {
	if opts.SampleRate <= 0 {
		opts.SampleRate = DefaultSampleRate
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = DefaultBufferSize
	}
	sr := beep.SampleRate(opts.SampleRate)
	if err := speaker.Init(sr, sr.N(opts.BufferSize)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}

	c := newContext(sr)
	c.resume = speaker.Resume
	c.close = func() error {
		speaker.Close()
		return nil
	}
	speaker.Play(c)
	return c, nil
}

// newContext creates a context that is not attached to any device.
// Samples are produced only when Stream is called.
func newContext(sr beep.SampleRate) *Context {
	c := &Context{rate: sr}
	c.dest = &destination{ctx: c}
	return c
}

// Stream renders the next len(samples) frames of the graph.
func (c *Context) Stream(samples [][2]float64) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, false
	}
	c.dest.pull(samples)
	c.frames.Add(int64(len(samples)))
	return len(samples), true
}

func (c *Context) Err() error { return nil }

// CurrentTime returns the number of seconds rendered so far.
func (c *Context) CurrentTime() float64 {
	return float64(c.frames.Load()) / float64(c.rate)
}

// SampleRate returns the output rate. Decoded buffers are resampled to it.
func (c *Context) SampleRate() beep.SampleRate {
	return c.rate
}

// Resume restarts a suspended output device.
func (c *Context) Resume(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.isClosed() {
		return audio.ErrClosed
	}
	if c.resume == nil {
		return nil
	}
	return c.resume()
}

func (c *Context) Destination() audio.Node {
	return c.dest
}

// Close stops rendering and releases the output device.
func (c *Context) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	if c.close != nil {
		return c.close()
	}
	return nil
}

func (c *Context) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Context) NewSource(buf audio.Buffer) (audio.Source, error) {
	b, ok := buf.(*buffer)
	if !ok || b.rate != c.rate {
		return nil, fmt.Errorf("%w: buffer", audio.ErrForeignNode)
	}
	if c.isClosed() {
		return nil, audio.ErrClosed
	}
	s := &source{buf: b}
	s.node = node{ctx: c, out: s}
	return s, nil
}

func (c *Context) NewGain() (audio.Gain, error) {
	if c.isClosed() {
		return nil, audio.ErrClosed
	}
	return newGain(c), nil
}

func (c *Context) NewAnalyser(fftSize int) (audio.Analyser, error) {
	if c.isClosed() {
		return nil, audio.ErrClosed
	}
	return newAnalyser(c, fftSize)
}

func (c *Context) NewMediaStreamSource(stream audio.MediaStream) (audio.MediaSource, error) {
	if c.isClosed() {
		return nil, audio.ErrClosed
	}
	return newMediaSource(c, stream)
}

package beepaudio

import (
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/wavescope/internal/audio"
)

// fakeCapture is a Capture producing a constant level.
type fakeCapture struct {
	*audio.MockStream
	rate  beep.SampleRate
	level float64
}

func (f fakeCapture) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		samples[i] = [2]float64{f.level, f.level}
	}
	return len(samples), true
}

func (f fakeCapture) Err() error { return nil }

func (f fakeCapture) Format() beep.Format {
	return beep.Format{SampleRate: f.rate, NumChannels: 1, Precision: 2}
}

func TestMediaSource_FeedsGain(t *testing.T) {
	g := newGraph(t)
	capture := fakeCapture{MockStream: audio.NewMockStream(1), rate: testRate, level: 0.3}

	m, err := g.ctx.NewMediaStreamSource(capture)
	require.NoError(t, err)
	require.NoError(t, m.Connect(g.gain))

	out := g.render(10)

	assert.InDelta(t, 0.3, out[5][0], 1e-9)
	assert.Equal(t, audio.MediaStream(capture), m.Stream())

	m.Disconnect()
	out = g.render(10)
	assert.Zero(t, out[5][0])
}

func TestMediaSource_RejectsPlainStream(t *testing.T) {
	c := newContext(testRate)

	_, err := c.NewMediaStreamSource(audio.NewMockStream(1))

	assert.ErrorIs(t, err, audio.ErrUnsupportedStream)
}

// blockingCapture holds the render thread inside Stream until released.
type blockingCapture struct {
	fakeCapture
	entered chan struct{}
	release chan struct{}
}

func (b blockingCapture) Stream(samples [][2]float64) (int, bool) {
	select {
	case b.entered <- struct{}{}:
	default:
	}
	<-b.release
	return b.fakeCapture.Stream(samples)
}

func TestMediaSource_DisconnectWaitsForRender(t *testing.T) {
	g := newGraph(t)
	capture := blockingCapture{
		fakeCapture: fakeCapture{MockStream: audio.NewMockStream(1), rate: testRate, level: 0.3},
		entered:     make(chan struct{}, 1),
		release:     make(chan struct{}),
	}
	m, err := g.ctx.NewMediaStreamSource(capture)
	require.NoError(t, err)
	require.NoError(t, m.Connect(g.gain))

	rendered := make(chan struct{})
	go func() {
		g.ctx.Stream(make([][2]float64, 10))
		close(rendered)
	}()
	<-capture.entered

	disconnected := make(chan struct{})
	go func() {
		m.Disconnect()
		close(disconnected)
	}()

	select {
	case <-disconnected:
		t.Fatal("Disconnect returned while the device was being read")
	case <-time.After(20 * time.Millisecond):
	}

	close(capture.release)
	<-rendered
	<-disconnected

	out := g.render(10)
	assert.Zero(t, out[5][0], "a disconnected device is no longer read")
}

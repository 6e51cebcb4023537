package beepaudio

import (
	"fmt"

	"github.com/gopxl/beep/v2"

	"github.com/llehouerou/wavescope/internal/audio"
)

// Capture is a live MediaStream that produces samples, such as an open
// microphone.
type Capture interface {
	audio.MediaStream
	beep.Streamer
	Format() beep.Format
}

// mediaSource feeds a Capture into the graph, resampled to the context rate.
type mediaSource struct {
	node
	stream Capture
}

func newMediaSource(c *Context, stream audio.MediaStream) (*mediaSource, error) {
	capture, ok := stream.(Capture)
	if !ok {
		return nil, fmt.Errorf("%w: %T", audio.ErrUnsupportedStream, stream)
	}
	var out beep.Streamer = capture
	if rate := capture.Format().SampleRate; rate != c.rate {
		out = beep.Resample(resampleQuality, rate, c.rate, capture)
	}
	m := &mediaSource{stream: capture}
	m.node = node{ctx: c, out: out}
	return m, nil
}

func (m *mediaSource) Stream() audio.MediaStream {
	return m.stream
}

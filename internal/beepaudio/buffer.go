package beepaudio

import (
	"time"

	"github.com/gopxl/beep/v2"
)

// buffer is decoded stereo audio at the context's sample rate.
type buffer struct {
	samples [][2]float64
	rate    beep.SampleRate
}

func (b *buffer) Duration() float64 {
	return float64(len(b.samples)) / float64(b.rate)
}

func (b *buffer) SampleRate() int {
	return int(b.rate)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

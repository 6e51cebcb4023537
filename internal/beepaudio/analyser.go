package beepaudio

import (
	"fmt"
	"math"
	"math/cmplx"
	"sync"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

const (
	minDecibels = -100.0
	maxDecibels = -30.0
	smoothing   = 0.8
)

// analyser passes audio through unchanged and keeps the last fftSize mono
// samples for spectrum and waveform queries.
type analyser struct {
	node
	slot
	size int

	// guarded by ctx.mu
	ring []float64
	pos  int

	mu     sync.Mutex
	window []float64
	smooth []float64
}

func newAnalyser(c *Context, fftSize int) (*analyser, error) {
	if fftSize < 32 || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("beepaudio: fft size %d is not a power of two >= 32", fftSize)
	}
	a := &analyser{
		size:   fftSize,
		ring:   make([]float64, fftSize),
		window: window.Blackman(fftSize),
		smooth: make([]float64, fftSize/2),
	}
	a.node = node{ctx: c, out: a}
	return a, nil
}

func (a *analyser) FFTSize() int { return a.size }

// Stream runs with ctx.mu held.
func (a *analyser) Stream(samples [][2]float64) (int, bool) {
	a.pull(samples)
	for _, s := range samples {
		a.ring[a.pos] = (s[0] + s[1]) / 2
		a.pos = (a.pos + 1) % a.size
	}
	return len(samples), true
}

func (a *analyser) Err() error { return nil }

// snapshot returns the ring contents in chronological order.
func (a *analyser) snapshot() []float64 {
	out := make([]float64, a.size)
	a.ctx.mu.Lock()
	for i := range out {
		out[i] = a.ring[(a.pos+i)%a.size]
	}
	a.ctx.mu.Unlock()
	return out
}

// FrequencyData returns fftSize/2 bins of smoothed magnitude, mapped from
// [minDecibels, maxDecibels] to 0..255.
func (a *analyser) FrequencyData() []byte {
	x := a.snapshot()

	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range x {
		x[i] *= a.window[i]
	}
	coeffs := fft.FFTReal(x)

	out := make([]byte, a.size/2)
	for k := range out {
		mag := cmplx.Abs(coeffs[k]) / float64(a.size)
		a.smooth[k] = smoothing*a.smooth[k] + (1-smoothing)*mag
		out[k] = decibelsToByte(20 * math.Log10(a.smooth[k]))
	}
	return out
}

// TimeData returns fftSize waveform samples, 128 being silence.
func (a *analyser) TimeData() []byte {
	x := a.snapshot()
	out := make([]byte, len(x))
	for i, v := range x {
		out[i] = byte(min(max(128*(1+v), 0), 255))
	}
	return out
}

func decibelsToByte(db float64) byte {
	if math.IsInf(db, -1) || math.IsNaN(db) {
		return 0
	}
	scaled := 255 * (db - minDecibels) / (maxDecibels - minDecibels)
	return byte(min(max(scaled, 0), 255))
}

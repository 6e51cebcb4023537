package beepaudio

import (
	"math"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
)

// gain mixes all its inputs and scales the result.
type gain struct {
	node
	mixer  *beep.Mixer
	volume *effects.Volume

	level float64 // guarded by ctx.mu
}

func newGain(c *Context) *gain {
	g := &gain{
		mixer: &beep.Mixer{},
		level: 1,
	}
	g.volume = &effects.Volume{Streamer: keepAlive{g.mixer}, Base: 2}
	g.node = node{ctx: c, out: g.volume}
	return g
}

func (g *gain) attach(l *link) { g.mixer.Add(l) }

func (g *gain) detach(*link) {}

func (g *gain) Value() float64 {
	g.ctx.mu.Lock()
	defer g.ctx.mu.Unlock()
	return g.level
}

// SetValue sets the linear gain. Values are clamped to [0, 1].
func (g *gain) SetValue(v float64) {
	v = min(max(v, 0), 1)
	g.ctx.mu.Lock()
	defer g.ctx.mu.Unlock()
	g.level = v
	g.volume.Volume = levelToVolume(v)
	g.volume.Silent = v == 0
}

// levelToVolume converts a 0.0-1.0 level to beep's base-2 Volume value.
// 1.0 -> 0, 0.5 -> -1, 0.25 -> -2, 0 -> -10 (essentially silent).
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}

package beepaudio

import (
	"errors"

	"github.com/gopxl/beep/v2"

	"github.com/llehouerou/wavescope/internal/audio"
)

var errNoOutput = errors.New("beepaudio: destination has no output")

// link carries one node's output into a sink. A cut link reports itself
// drained, which is how beep.Mixer learns to drop an input.
type link struct {
	s   beep.Streamer
	cut bool
}

func (l *link) Stream(samples [][2]float64) (int, bool) {
	if l.cut {
		return 0, false
	}
	return l.s.Stream(samples)
}

func (l *link) Err() error { return nil }

// sink is a node that accepts inputs.
type sink interface {
	audio.Node
	owner() *Context
	attach(l *link)
	detach(l *link)
}

// node is the output side shared by every node that can be connected.
type node struct {
	ctx  *Context
	out  beep.Streamer
	link *link
	dst  sink
}

func (n *node) owner() *Context { return n.ctx }

// Connect routes the node's output into dst, replacing any previous target.
func (n *node) Connect(dst audio.Node) error {
	s, ok := dst.(sink)
	if !ok || s.owner() != n.ctx {
		return audio.ErrForeignNode
	}
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	if n.ctx.closed {
		return audio.ErrClosed
	}
	n.detachLocked()
	l := &link{s: n.out}
	n.link, n.dst = l, s
	s.attach(l)
	return nil
}

// Disconnect removes the node's output from its target.
func (n *node) Disconnect() {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	n.detachLocked()
}

func (n *node) detachLocked() {
	if n.link == nil {
		return
	}
	n.link.cut = true
	n.dst.detach(n.link)
	n.link, n.dst = nil, nil
}

// slot is a single-input sink. Attaching replaces the current input.
type slot struct {
	in *link
}

func (s *slot) attach(l *link) {
	if s.in != nil {
		s.in.cut = true
	}
	s.in = l
}

func (s *slot) detach(l *link) {
	if s.in == l {
		s.in = nil
	}
}

// pull fills samples from the input, padding with silence.
func (s *slot) pull(samples [][2]float64) {
	if s.in == nil {
		clear(samples)
		return
	}
	n, ok := s.in.Stream(samples)
	clear(samples[n:])
	if !ok {
		s.in = nil
	}
}

// destination is the graph's output.
type destination struct {
	slot
	ctx *Context
}

func (d *destination) owner() *Context { return d.ctx }

func (d *destination) Connect(audio.Node) error { return errNoOutput }

func (d *destination) Disconnect() {}

// keepAlive pads its streamer with silence and never drains, so an empty
// mixer keeps the chain behind it alive.
type keepAlive struct {
	s beep.Streamer
}

func (k keepAlive) Stream(samples [][2]float64) (int, bool) {
	n, _ := k.s.Stream(samples)
	clear(samples[n:])
	return len(samples), true
}

func (k keepAlive) Err() error { return nil }

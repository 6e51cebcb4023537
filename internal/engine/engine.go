// Package engine plays one in-memory track at a time through a host audio
// graph and publishes its transport state to subscribers.
//
// All state changes are serialized by the engine's mutex. Host calls that may
// block for long (decoding) run outside it; a generation counter makes sure a
// superseded PlayTrack discards its result instead of starting a source.
// Subscribers and track-end listeners are always called without the mutex
// held.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/wavescope/internal/audio"
	"github.com/llehouerou/wavescope/internal/track"
	"github.com/llehouerou/wavescope/internal/updater"
)

const (
	// DefaultVolume is the gain restored when unmuting.
	DefaultVolume = 1.0
	// DefaultFFTSize is the analyser's FFT size.
	DefaultFFTSize = 2048
)

// ContextFactory acquires the host audio context. It is called lazily, the
// first time the engine needs the graph, and again after Cleanup.
type ContextFactory func(ctx context.Context) (audio.Context, error)

// Engine is the playback engine.
type Engine struct {
	factory       ContextFactory
	logger        zerolog.Logger
	defaultVolume float64
	fftSize       int

	updater  *updater.Updater
	throttle *updater.Throttle

	mu       sync.Mutex
	host     audio.Context
	gain     audio.Gain
	analyser audio.Analyser
	level    float64 // gain value while no graph exists

	generation uint64
	session    session
	track      *track.Track
	mic        *micInput

	subscribers  registry[State]
	endListeners registry[struct{}]
}

// session is the playback session. A source exists only while playing; the
// buffer survives pause and natural end.
type session struct {
	source          audio.Source
	buffer          audio.Buffer
	startTimeOffset float64 // host time at which buffer position 0 would have played
	pausedOffset    float64
	paused          bool
}

type micInput struct {
	source audio.MediaSource
	stream audio.MediaStream
}

type options struct {
	logger        zerolog.Logger
	sched         updater.Scheduler
	now           func() time.Time
	defaultVolume float64
	volume        float64
	throttle      time.Duration
	fftSize       int
}

// Option configures an Engine.
type Option func(*options)

// WithLogger sets the engine's logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithScheduler sets the frame scheduler driving the time updater.
func WithScheduler(s updater.Scheduler) Option {
	return func(o *options) { o.sched = s }
}

// WithClock sets the wall clock used by the notification throttle.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithDefaultVolume sets the volume restored by ToggleMute.
func WithDefaultVolume(v float64) Option {
	return func(o *options) { o.defaultVolume = clamp(v, 0, 1) }
}

// WithVolume sets the initial gain.
func WithVolume(v float64) Option {
	return func(o *options) { o.volume = clamp(v, 0, 1) }
}

// WithThrottle sets the minimum interval between time-driven notifications.
func WithThrottle(d time.Duration) Option {
	return func(o *options) { o.throttle = d }
}

// WithFFTSize sets the analyser's FFT size.
func WithFFTSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.fftSize = n
		}
	}
}

// New creates an engine. No host resources are acquired until the first
// PlayTrack or StartMicrophone.
func New(factory ContextFactory, opts ...Option) *Engine {
	o := options{
		logger:        zerolog.Nop(),
		sched:         updater.NewFrameScheduler(0),
		defaultVolume: DefaultVolume,
		volume:        DefaultVolume,
		throttle:      updater.DefaultThrottleInterval,
		fftSize:       DefaultFFTSize,
	}
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine{
		factory:       factory,
		logger:        o.logger.With().Str("component", "engine").Logger(),
		defaultVolume: o.defaultVolume,
		fftSize:       o.fftSize,
		level:         o.volume,
		throttle:      updater.NewThrottle(o.throttle, o.now),
	}
	e.updater = updater.New(o.sched, e.currentSeconds, e.onFrame,
		updater.WithErrorHandler(func(err error) {
			e.logger.Error().Err(err).Msg("time updater stopped")
		}),
	)
	return e
}

// Subscribe registers fn for state notifications and returns a func that
// unregisters it. Unsubscribing twice is a no-op.
func (e *Engine) Subscribe(fn func(State)) func() {
	return e.subscribers.add(fn)
}

// OnTrackEnd registers fn to be called when a track plays to its end. It is
// not called for StopPlayback, PlayTrack replacing a track, or Cleanup.
func (e *Engine) OnTrackEnd(fn func()) func() {
	return e.endListeners.add(func(struct{}) { fn() })
}

// Cleanup releases the session, the microphone and the host context. The
// engine stays usable: the next PlayTrack acquires a new context.
func (e *Engine) Cleanup() error {
	e.mu.Lock()
	e.generation++
	e.stopMicrophoneLocked()
	e.teardownSessionLocked()
	e.track = nil

	var err error
	if e.host != nil {
		e.level = e.gain.Value()
		e.analyser.Disconnect()
		e.gain.Disconnect()
		err = e.host.Close()
		e.host, e.gain, e.analyser = nil, nil, nil
	}
	e.mu.Unlock()

	e.emit()
	if err != nil {
		return fmt.Errorf("close audio context: %w", err)
	}
	return nil
}

// ensureGraphLocked returns the host context, creating it and the
// gain -> analyser -> destination chain on first use, and resumes it.
func (e *Engine) ensureGraphLocked(ctx context.Context) (audio.Context, error) {
	if e.host == nil {
		host, gain, analyser, err := e.buildGraph(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrHostUnavailable, err)
		}
		gain.SetValue(e.level)
		e.host, e.gain, e.analyser = host, gain, analyser
		e.logger.Debug().Int("fft_size", e.fftSize).Msg("audio graph created")
	}
	if err := e.host.Resume(ctx); err != nil {
		return nil, fmt.Errorf("%w: resume: %w", ErrHostUnavailable, err)
	}
	return e.host, nil
}

func (e *Engine) buildGraph(ctx context.Context) (audio.Context, audio.Gain, audio.Analyser, error) {
	host, err := e.factory(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	gain, err := host.NewGain()
	if err != nil {
		_ = host.Close()
		return nil, nil, nil, fmt.Errorf("create gain: %w", err)
	}
	analyser, err := host.NewAnalyser(e.fftSize)
	if err != nil {
		_ = host.Close()
		return nil, nil, nil, fmt.Errorf("create analyser: %w", err)
	}
	if err := gain.Connect(analyser); err != nil {
		_ = host.Close()
		return nil, nil, nil, fmt.Errorf("connect gain: %w", err)
	}
	if err := analyser.Connect(host.Destination()); err != nil {
		_ = host.Close()
		return nil, nil, nil, fmt.Errorf("connect analyser: %w", err)
	}
	return host, gain, analyser, nil
}

// emit notifies subscribers with a snapshot taken now, after the caller has
// released the mutex.
func (e *Engine) emit() {
	e.subscribers.emit(e.State(), e.listenerPanic)
}

func (e *Engine) listenerPanic(p any) {
	e.logger.Error().Interface("panic", p).Msg("listener panicked")
}

// onFrame is the time updater callback.
func (e *Engine) onFrame(t float64) bool {
	if e.throttle.Allow(t) {
		e.emit()
	}
	return e.IsPlaying()
}

// Package playback walks a playlist queue through the engine: it starts the
// selected track, advances when a track ends and reports what changed.
package playback

import (
	"context"
	"errors"
	"time"

	"github.com/llehouerou/wavescope/internal/engine"
	"github.com/llehouerou/wavescope/internal/track"
)

// ErrEmptyQueue is returned by Play when there is nothing to play.
var ErrEmptyQueue = errors.New("playback: queue is empty")

// restartThreshold is how far into a track Previous restarts it instead of
// going back.
const restartThreshold = 3 * time.Second

// Player is the part of the engine the service drives.
type Player interface {
	PlayTrack(ctx context.Context, t track.Track, startAt time.Duration) error
	PausePlayback()
	ResumePlayback()
	StopPlayback()
	SeekTo(pos time.Duration)
	State() engine.State
	CurrentTime() time.Duration
	Duration() time.Duration
	Track() *track.Track
	Subscribe(fn func(engine.State)) func()
	OnTrackEnd(fn func()) func()
}

// Verify the engine satisfies Player at compile time.
var _ Player = (*engine.Engine)(nil)

// Service defines the playback service contract.
type Service interface {
	// Playback control
	Play() error
	Pause()
	Stop()
	Toggle() error
	Next() error
	Previous() error
	Seek(delta time.Duration)
	SeekTo(position time.Duration)

	// Queue navigation (starts playback if active)
	JumpTo(index int) error

	// Queue manipulation
	AddTracks(tracks ...track.Track)
	ReplaceTracks(tracks ...track.Track) *track.Track
	ClearQueue()

	// State queries
	Status() engine.Status
	Position() time.Duration
	Duration() time.Duration
	CurrentTrack() *track.Track

	// Queue queries
	QueueTracks() []track.Track
	QueueCurrentIndex() int
	QueueLen() int

	// Event subscription
	Subscribe() *Subscription

	// Lifecycle
	Close() error
}

package playback

import (
	"time"

	"github.com/llehouerou/wavescope/internal/engine"
	"github.com/llehouerou/wavescope/internal/track"
)

// StateChange is emitted when the transport status changes.
type StateChange struct {
	Previous engine.Status
	Current  engine.Status
}

// TrackChange is emitted when playback starts on a different track.
//
// Emitted by Play, Next, Previous and JumpTo once the engine accepted the
// track, and by the automatic advance after a natural end. It is not emitted
// for a PlayTrack that was superseded by a later one, so rapid navigation only
// reports the track that actually plays.
type TrackChange struct {
	Previous      *track.Track
	Current       *track.Track
	PreviousIndex int
	Index         int
}

// QueueChange is emitted when the queue contents or cursor change without
// playback.
type QueueChange struct {
	Tracks []track.Track
	Index  int
}

// PositionChange is emitted as the position advances while playing, at the
// engine's throttled notification rate, and after pause, resume and seek.
type PositionChange struct {
	Position time.Duration
}

// ErrorEvent is emitted when an operation fails.
type ErrorEvent struct {
	Operation string // e.g., "play", "advance"
	Path      string // track path if applicable
	Err       error
}

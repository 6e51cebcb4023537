package engine

import "time"

// Status is the transport state derived from the playback session.
//
// The state machine has three states with the following valid transitions:
//
//	┌──────────┐   PlayTrack     ┌──────────┐
//	│  Stopped │ ───────────────▶│  Playing │◀─┐ SeekTo
//	└──────────┘                 └──────────┘──┘
//	     ▲                            │ │
//	     │ StopPlayback  PausePlayback│ │ StopPlayback / natural end
//	     │                            ▼ │
//	     │                       ┌──────────┐
//	     └───────────────────────│  Paused  │◀─┐ SeekTo
//	            StopPlayback     └──────────┘──┘
//	                                  │
//	                   ResumePlayback │
//	                                  ▼
//	                               Playing
//
// PlayTrack is accepted from any state: it logically passes through Stopped,
// cancelling whatever was in flight, and reaches Playing once its decode wins.
type Status int

const (
	Stopped Status = iota
	Playing
	Paused
)

// String returns the state name for debugging.
func (s Status) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if playback is active (Playing or Paused).
func (s Status) IsActive() bool {
	return s == Playing || s == Paused
}

// CanPause returns true if the state allows pausing.
func (s Status) CanPause() bool {
	return s == Playing
}

// CanResume returns true if the state allows resuming.
func (s Status) CanResume() bool {
	return s == Paused
}

// State is the snapshot delivered to subscribers. Every field is computed
// from the session and the gain node when the snapshot is taken.
type State struct {
	IsPlaying   bool
	IsPaused    bool
	IsStopped   bool
	CurrentTime time.Duration
	Duration    time.Duration
	Volume      float64
	IsMuted     bool
	Microphone  bool
}

// Status maps the snapshot to the transport state.
func (s State) Status() Status {
	switch {
	case s.IsPlaying:
		return Playing
	case s.IsPaused:
		return Paused
	default:
		return Stopped
	}
}

func seconds(d time.Duration) float64 {
	return d.Seconds()
}

func duration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

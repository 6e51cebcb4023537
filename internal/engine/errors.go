package engine

import "errors"

var (
	// ErrDecode wraps failures of the decode step of PlayTrack.
	ErrDecode = errors.New("engine: decode failed")
	// ErrHostUnavailable wraps failures to acquire the host audio context.
	ErrHostUnavailable = errors.New("engine: audio host unavailable")
)

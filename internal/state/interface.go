package state

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	GetVolume() (*VolumeState, error)
	SaveVolume(state VolumeState)
	GetQueue() (*QueueState, error)
	SaveQueue(state QueueState) error
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)

package state

import "sync"

// Mock is a test double for Manager.
type Mock struct {
	mu         sync.Mutex
	volume     *VolumeState
	queueState *QueueState
	saves      int
	closed     bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) GetVolume() (*VolumeState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.volume == nil {
		return &VolumeState{Volume: 1.0}, nil
	}
	v := *m.volume
	return &v, nil
}

func (m *Mock) SaveVolume(state VolumeState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = &state
	m.saves++
}

func (m *Mock) GetQueue() (*QueueState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.queueState == nil {
		return &QueueState{CurrentIndex: -1}, nil
	}
	return m.queueState, nil
}

func (m *Mock) SaveQueue(state QueueState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queueState = &state
	return nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helpers

func (m *Mock) SetVolume(state *VolumeState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = state
}

func (m *Mock) VolumeSaves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)

// Package state persists player settings and the queue between runs.
package state

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName      = "wavescope"
	dbFileName   = "wavescope.db"
	saveDebounce = 500 * time.Millisecond
)

type Manager struct {
	db        *sql.DB
	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   *VolumeState
	debounce  time.Duration
}

// Open opens the database in the XDG data directory.
func Open() (*Manager, error) {
	dbPath, err := getDBPath()
	if err != nil {
		return nil, err
	}
	return OpenPath(dbPath)
}

// OpenPath opens or creates the database at path.
func OpenPath(dbPath string) (*Manager, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return newManager(db), nil
}

func newManager(db *sql.DB) *Manager {
	return &Manager{db: db, debounce: saveDebounce}
}

// Close flushes a pending volume save and closes the database.
func (m *Manager) Close() error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	pending := m.pending
	m.pending = nil
	m.saveMu.Unlock()

	if pending != nil {
		_ = saveVolume(m.db, *pending)
	}

	return m.db.Close()
}

// SaveVolume stores the volume after a quiet period, so a run of quick
// changes costs one write.
func (m *Manager) SaveVolume(state VolumeState) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.pending = &state

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}

	m.saveTimer = time.AfterFunc(m.debounce, m.flush)
}

func (m *Manager) flush() {
	m.saveMu.Lock()
	pending := m.pending
	m.pending = nil
	m.saveMu.Unlock()

	if pending != nil {
		_ = saveVolume(m.db, *pending)
	}
}

func (m *Manager) GetVolume() (*VolumeState, error) {
	return getVolume(m.db)
}

func (m *Manager) GetQueue() (*QueueState, error) {
	return getQueue(m.db)
}

func (m *Manager) SaveQueue(state QueueState) error {
	return saveQueue(m.db, state)
}

func getDBPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}

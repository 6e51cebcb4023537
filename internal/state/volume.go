package state

import (
	"database/sql"
	"errors"
)

// VolumeState represents the saved gain.
type VolumeState struct {
	Volume float64
	Muted  bool
}

// Level returns the gain to restore: 0 when muted.
func (v VolumeState) Level() float64 {
	if v.Muted {
		return 0
	}
	return v.Volume
}

func getVolume(db *sql.DB) (*VolumeState, error) {
	var volume float64
	var muted bool

	row := db.QueryRow(`SELECT volume, muted FROM player_state WHERE id = 1`)
	err := row.Scan(&volume, &muted)
	if errors.Is(err, sql.ErrNoRows) {
		return &VolumeState{Volume: 1.0}, nil
	}
	if err != nil {
		return nil, err
	}

	return &VolumeState{Volume: volume, Muted: muted}, nil
}

func saveVolume(db *sql.DB, state VolumeState) error {
	_, err := db.Exec(`
		INSERT INTO player_state (id, volume, muted)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			volume = excluded.volume,
			muted = excluded.muted
	`, state.Volume, state.Muted)
	return err
}

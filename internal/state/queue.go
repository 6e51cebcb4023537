package state

import (
	"database/sql"
	"errors"
)

// QueueTrack represents a track in the saved queue.
type QueueTrack struct {
	Path        string
	Title       string
	Artist      string
	Album       string
	TrackNumber int
}

// QueueState represents the saved queue.
type QueueState struct {
	CurrentIndex int
	Tracks       []QueueTrack
}

func getQueue(db *sql.DB) (*QueueState, error) {
	var currentIndex int
	row := db.QueryRow(`SELECT current_index FROM queue_state WHERE id = 1`)
	err := row.Scan(&currentIndex)
	if errors.Is(err, sql.ErrNoRows) {
		return &QueueState{CurrentIndex: -1}, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(`
		SELECT path, title, artist, album, track_number
		FROM queue_tracks
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []QueueTrack
	for rows.Next() {
		var t QueueTrack
		var artist, album sql.NullString
		var trackNumber sql.NullInt64

		if err := rows.Scan(&t.Path, &t.Title, &artist, &album, &trackNumber); err != nil {
			return nil, err
		}

		t.Artist = nullString(artist)
		t.Album = nullString(album)
		if trackNumber.Valid {
			t.TrackNumber = int(trackNumber.Int64)
		}
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &QueueState{CurrentIndex: currentIndex, Tracks: tracks}, nil
}

func saveQueue(db *sql.DB, state QueueState) error {
	return withTx(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM queue_tracks`); err != nil {
			return err
		}

		_, err := tx.Exec(`
			INSERT INTO queue_state (id, current_index)
			VALUES (1, ?)
			ON CONFLICT(id) DO UPDATE SET current_index = excluded.current_index
		`, state.CurrentIndex)
		if err != nil {
			return err
		}

		stmt, err := tx.Prepare(`
			INSERT INTO queue_tracks (position, path, title, artist, album, track_number)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, t := range state.Tracks {
			if _, err := stmt.Exec(i, t.Path, t.Title, t.Artist, t.Album, t.TrackNumber); err != nil {
				return err
			}
		}
		return nil
	})
}

package state

import (
	"context"
	"database/sql"

	dbutil "github.com/llehouerou/eqwaves/internal/db"
	"github.com/llehouerou/eqwaves/internal/playlist"
)

var _ playlist.Persister = (*Manager)(nil)

// LoadTracks returns the saved playlist in order.
func (m *Manager) LoadTracks() ([]playlist.Track, error) {
	rows, err := m.db.Query(`
		SELECT name, size, data
		FROM playlist_tracks
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []playlist.Track
	for rows.Next() {
		var t playlist.Track
		if err := rows.Scan(&t.Name, &t.Size, &t.Data); err != nil {
			return nil, err
		}
		if t.Data == nil {
			t.Data = []byte{}
		}
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

// SaveTracks replaces the saved playlist with tracks in one transaction.
func (m *Manager) SaveTracks(tracks []playlist.Track) error {
	return dbutil.WithTx(context.Background(), m.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM playlist_tracks`); err != nil {
			return err
		}

		stmt, err := tx.Prepare(`
			INSERT INTO playlist_tracks (position, name, size, data)
			VALUES (?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, t := range tracks {
			data := t.Data
			if data == nil {
				data = []byte{}
			}
			if _, err := stmt.Exec(i, t.Name, t.Size, data); err != nil {
				return err
			}
		}
		return nil
	})
}

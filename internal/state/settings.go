package state

import (
	"database/sql"
	"errors"
)

// GetSetting returns the stored value for key and whether it exists.
func (m *Manager) GetSetting(key string) (string, bool, error) {
	var value string
	err := m.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetSetting stores value under key, replacing any previous value.
func (m *Manager) SetSetting(key, value string) error {
	_, err := m.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

package state

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName    = "eqwaves"
	dbFileName = "eqwaves.db"
	memoryPath = ":memory:"
)

// Manager persists the playlist and the settings in a SQLite database.
type Manager struct {
	db *sql.DB
}

// Open opens the database at path, creating it if needed.
// An empty path uses the XDG data directory.
func Open(path string) (*Manager, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	if path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection: writes are serialized and ":memory:" stays a single database.
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Manager{db: db}, nil
}

// OpenMemory opens a throwaway in-memory database.
func OpenMemory() (*Manager, error) {
	return Open(memoryPath)
}

// DefaultPath is where the database lives when no path is configured.
func DefaultPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}

func (m *Manager) Close() error {
	return m.db.Close()
}

func (m *Manager) DB() *sql.DB {
	return m.db
}

// Package blobstore persists the playlist and settings in a Badger database.
package blobstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/dgraph-io/badger/v4"

	"github.com/llehouerou/eqwaves/internal/playlist"
)

const (
	trackMetaPrefix = "playlist:meta:"
	trackDataPrefix = "playlist:data:"
	settingPrefix   = "setting:"
)

var _ playlist.Persister = (*Store)(nil)

// Store is a Badger-backed playlist persister and settings KV.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

type trackMeta struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// Open opens (or creates) the database directory at path.
// An empty path uses the XDG data directory.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	opts.SyncWrites = true
	opts.CompactL0OnClose = true

	return open(opts, logger)
}

// OpenMemory opens a throwaway in-memory database.
func OpenMemory(logger *slog.Logger) (*Store, error) {
	return open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil), logger)
}

func open(opts badger.Options, logger *slog.Logger) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}
	if logger != nil {
		logger.Info("Badger database opened", "path", opts.Dir, "in_memory", opts.InMemory)
	}
	return &Store{db: db, logger: logger}, nil
}

// DefaultPath is where the database lives when no path is configured.
func DefaultPath() (string, error) {
	dir, err := xdg.DataFile(filepath.Join("eqwaves", "badger", ".keep"))
	if err != nil {
		return "", err
	}
	return filepath.Dir(dir), nil
}

// Close gracefully closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func trackKey(prefix string, position int) []byte {
	return fmt.Appendf(nil, "%s%06d", prefix, position)
}

// LoadTracks returns the saved playlist in order.
func (s *Store) LoadTracks() ([]playlist.Track, error) {
	var tracks []playlist.Track

	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte(trackMetaPrefix)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		position := 0
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var meta trackMeta
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &meta)
			}); err != nil {
				return err
			}

			item, err := txn.Get(trackKey(trackDataPrefix, position))
			if err != nil {
				return fmt.Errorf("track %d data: %w", position, err)
			}
			data, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if data == nil {
				data = []byte{}
			}

			tracks = append(tracks, playlist.Track{Name: meta.Name, Size: meta.Size, Data: data})
			position++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load playlist: %w", err)
	}
	return tracks, nil
}

// SaveTracks replaces the saved playlist in one transaction.
func (s *Store) SaveTracks(tracks []playlist.Track) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := deletePrefix(txn, trackMetaPrefix); err != nil {
			return err
		}
		if err := deletePrefix(txn, trackDataPrefix); err != nil {
			return err
		}

		for i, t := range tracks {
			meta, err := json.Marshal(trackMeta{Name: t.Name, Size: t.Size})
			if err != nil {
				return err
			}
			if err := txn.Set(trackKey(trackMetaPrefix, i), meta); err != nil {
				return err
			}
			if err := txn.Set(trackKey(trackDataPrefix, i), t.Data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save playlist: %w", err)
	}
	return nil
}

func deletePrefix(txn *badger.Txn, prefix string) error {
	p := []byte(prefix)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = p
	opts.PrefetchValues = false

	var keys [][]byte
	it := txn.NewIterator(opts)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	it.Close()

	for _, k := range keys {
		if err := txn.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

// GetSetting returns the stored value for key and whether it exists.
func (s *Store) GetSetting(key string) (string, bool, error) {
	var value string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(settingPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetSetting stores value under key.
func (s *Store) SetSetting(key, value string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(settingPrefix+key), []byte(value))
	})
}

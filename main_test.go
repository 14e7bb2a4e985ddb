package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/eqwaves/internal/config"
	"github.com/llehouerou/eqwaves/internal/logger"
	"github.com/llehouerou/eqwaves/internal/playlist"
	"github.com/llehouerou/eqwaves/internal/settings"
)

func TestOpenStorage_Backends(t *testing.T) {
	tests := []struct {
		backend string
		path    string
	}{
		{config.BackendSQLite, "eqwaves.db"},
		{config.BackendBadger, "badger"},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			dir := t.TempDir()
			cfg := &config.Config{Storage: config.StorageConfig{
				Backend: tt.backend,
				Path:    filepath.Join(dir, tt.path),
			}}

			db, err := openStorage(cfg, logger.Discard())
			require.NoError(t, err)

			store, err := playlist.Open(db)
			require.NoError(t, err)
			require.NoError(t, store.Add(playlist.NewTrack("a.mp3", []byte("abc"))))
			require.NoError(t, settings.SaveShuffle(db, true))
			require.NoError(t, db.Close())

			// Reopen and read back.
			db, err = openStorage(cfg, logger.Discard())
			require.NoError(t, err)
			defer db.Close()

			store, err = playlist.Open(db)
			require.NoError(t, err)
			require.Equal(t, 1, store.Len())
			assert.Equal(t, "a.mp3", store.Track(0).Name)
			assert.Equal(t, []byte("abc"), store.Track(0).Data)

			values, err := settings.Load(db)
			require.NoError(t, err)
			assert.True(t, values.Shuffle)
		})
	}
}

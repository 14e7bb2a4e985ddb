package blobstore

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/eqwaves/internal/playlist"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadTracks_Empty(t *testing.T) {
	s := setupTestStore(t)

	tracks, err := s.LoadTracks()
	require.NoError(t, err)
	assert.Empty(t, tracks)
}

func TestSaveTracks_RoundTripPreservesOrderAndBytes(t *testing.T) {
	s := setupTestStore(t)

	// More than ten tracks so lexical key order has to match numeric order.
	var want []playlist.Track
	for i := range 12 {
		want = append(want, playlist.NewTrack(fmt.Sprintf("track-%d.mp3", i), []byte{byte(i), 0xFF, byte(i * 2)}))
	}
	require.NoError(t, s.SaveTracks(want))

	got, err := s.LoadTracks()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveTracks_ShrinkingListLeavesNoLeftovers(t *testing.T) {
	s := setupTestStore(t)
	require.NoError(t, s.SaveTracks([]playlist.Track{
		playlist.NewTrack("a", []byte("a")),
		playlist.NewTrack("b", []byte("b")),
		playlist.NewTrack("c", []byte("c")),
	}))

	require.NoError(t, s.SaveTracks([]playlist.Track{playlist.NewTrack("b", []byte("b"))}))

	got, err := s.LoadTracks()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].Name)

	require.NoError(t, s.SaveTracks(nil))
	got, err = s.LoadTracks()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSettings(t *testing.T) {
	s := setupTestStore(t)

	_, ok, err := s.GetSetting("theme")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetSetting("theme", "light"))
	v, ok, err := s.GetSetting("theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "light", v)
}

func TestStore_SurvivesReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "badger")
	tracks := []playlist.Track{
		playlist.NewTrack("one.flac", []byte("first blob")),
		playlist.NewTrack("two.ogg", []byte("second blob")),
	}

	s, err := Open(dir, nil)
	require.NoError(t, err)
	require.NoError(t, s.SaveTracks(tracks))
	require.NoError(t, s.SetSetting("eq.bass", "4"))
	require.NoError(t, s.Close())

	s, err = Open(dir, nil)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.LoadTracks()
	require.NoError(t, err)
	assert.Equal(t, tracks, got)

	v, ok, err := s.GetSetting("eq.bass")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "4", v)
}

func TestStore_BacksPlaylistStore(t *testing.T) {
	s := setupTestStore(t)

	store, err := playlist.Open(s)
	require.NoError(t, err)
	require.NoError(t, store.Add(playlist.NewTrack("x", []byte("x")), playlist.NewTrack("y", []byte("y"))))
	_, err = store.RemoveAt(0)
	require.NoError(t, err)

	reloaded, err := playlist.Open(s)
	require.NoError(t, err)
	assert.Equal(t, store.Tracks(), reloaded.Tracks())
}

package playlist

import "fmt"

// Persister durably stores the whole playlist. SaveTracks always receives
// the complete list and replaces whatever was stored before.
type Persister interface {
	LoadTracks() ([]Track, error)
	SaveTracks(tracks []Track) error
}

// PersistenceError reports a failed load or save. The in-memory playlist
// stays usable after one.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("playlist %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Store is a Playlist backed by a Persister. Every mutation is followed by
// a full rewrite.
//
// Store is not safe for concurrent use.
type Store struct {
	list      *Playlist
	persister Persister
}

// Open loads the persisted playlist. On a load failure the store starts
// empty and the error is returned alongside it.
func Open(p Persister) (*Store, error) {
	s := &Store{list: NewPlaylist(), persister: p}
	if p == nil {
		return s, nil
	}
	tracks, err := p.LoadTracks()
	if err != nil {
		return s, &PersistenceError{Op: "load", Err: err}
	}
	s.list.Add(tracks...)
	return s, nil
}

// Add appends tracks and persists.
func (s *Store) Add(tracks ...Track) error {
	if len(tracks) == 0 {
		return nil
	}
	s.list.Add(tracks...)
	return s.save()
}

// RemoveAt removes the track at index and persists.
// Returns false without persisting if index is out of bounds.
func (s *Store) RemoveAt(index int) (bool, error) {
	if !s.list.Remove(index) {
		return false, nil
	}
	return true, s.save()
}

// Clear empties the playlist and persists.
func (s *Store) Clear() error {
	s.list.Clear()
	return s.save()
}

// Track returns a copy of the track at index, or nil.
func (s *Store) Track(index int) *Track { return s.list.Track(index) }

// Tracks returns a copy of every track in order.
func (s *Store) Tracks() []Track { return s.list.Tracks() }

// Len returns the number of tracks.
func (s *Store) Len() int { return s.list.Len() }

func (s *Store) save() error {
	if s.persister == nil {
		return nil
	}
	if err := s.persister.SaveTracks(s.list.Tracks()); err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	return nil
}

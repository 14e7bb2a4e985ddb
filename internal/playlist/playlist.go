package playlist

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/dustin/go-humanize"
)

// Track is one queued media file: its name, its size and the raw bytes.
// The bytes are never modified once the track is added.
type Track struct {
	Name string
	Size int64
	Data []byte
}

// NewTrack wraps a blob read from name.
func NewTrack(name string, data []byte) Track {
	return Track{Name: name, Size: int64(len(data)), Data: data}
}

// SizeLabel renders the size for display, e.g. "4.2 MB".
func (t Track) SizeLabel() string {
	if t.Size < 0 {
		return humanize.Bytes(0)
	}
	return humanize.Bytes(uint64(t.Size))
}

// Title returns the embedded tag title, or the file name without extension.
func (t Track) Title() string {
	if len(t.Data) > 0 {
		if m, err := tag.ReadFrom(bytes.NewReader(t.Data)); err == nil {
			if title := strings.TrimSpace(m.Title()); title != "" {
				return title
			}
		}
	}
	return strings.TrimSuffix(t.Name, filepath.Ext(t.Name))
}

// Playlist holds an ordered collection of tracks. Insertion order is
// playback order and indices are always 0..Len()-1.
type Playlist struct {
	tracks []Track
}

// NewPlaylist creates a new empty playlist.
func NewPlaylist() *Playlist {
	return &Playlist{
		tracks: make([]Track, 0),
	}
}

// Add appends tracks to the playlist.
func (p *Playlist) Add(tracks ...Track) {
	p.tracks = append(p.tracks, tracks...)
}

// Remove removes the track at the given index, shifting later tracks down.
// Returns false if index is out of bounds.
func (p *Playlist) Remove(index int) bool {
	if index < 0 || index >= len(p.tracks) {
		return false
	}
	p.tracks = append(p.tracks[:index], p.tracks[index+1:]...)
	return true
}

// Clear removes all tracks from the playlist.
func (p *Playlist) Clear() {
	p.tracks = p.tracks[:0]
}

// Tracks returns a copy of all tracks.
func (p *Playlist) Tracks() []Track {
	result := make([]Track, len(p.tracks))
	copy(result, p.tracks)
	return result
}

// Track returns the track at the given index, or nil if out of bounds.
func (p *Playlist) Track(index int) *Track {
	if index < 0 || index >= len(p.tracks) {
		return nil
	}
	t := p.tracks[index]
	return &t
}

// Len returns the number of tracks.
func (p *Playlist) Len() int {
	return len(p.tracks)
}

// Package playlistpanel renders the playlist and moves a cursor over it.
package playlistpanel

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/eqwaves/internal/keymap"
	"github.com/llehouerou/eqwaves/internal/playback"
	"github.com/llehouerou/eqwaves/internal/ui"
	"github.com/llehouerou/eqwaves/internal/ui/cursor"
)

// PlayTrackMsg is sent when the user selects a track to play.
type PlayTrackMsg struct {
	Index int
}

// RemoveTrackMsg is sent when the user removes the track under the cursor.
type RemoveTrackMsg struct {
	Index int
}

// ClearMsg is sent when the user empties the playlist.
type ClearMsg struct{}

// Model represents the playlist panel state.
type Model struct {
	ui.Base
	cursor  cursor.Cursor
	tracks  []playback.Track
	playing int
	shuffle bool
}

// New creates an empty playlist panel.
func New() Model {
	return Model{
		cursor:  cursor.New(ui.ScrollMargin),
		playing: -1,
	}
}

// SetTracks replaces the displayed tracks and the playing index.
func (m *Model) SetTracks(tracks []playback.Track, playing int) {
	m.tracks = tracks
	m.playing = playing
	m.cursor.Clamp(len(m.tracks), m.listHeight())
}

// SetPlaying moves the playing marker and brings it into view.
func (m *Model) SetPlaying(index int) {
	m.playing = index
	if index >= 0 {
		m.cursor.Jump(index, len(m.tracks), m.listHeight())
	}
}

// SetShuffle sets the mode shown in the header.
func (m *Model) SetShuffle(enabled bool) {
	m.shuffle = enabled
}

// Cursor returns the highlighted index.
func (m Model) Cursor() int {
	return m.cursor.Pos()
}

// HandleAction applies a playlist action. Actions outside the playlist
// context are ignored.
func (m *Model) HandleAction(action keymap.Action) tea.Cmd {
	n := len(m.tracks)
	switch action {
	case keymap.ActionMoveUp:
		m.cursor.Move(-1, n, m.listHeight())
	case keymap.ActionMoveDown:
		m.cursor.Move(1, n, m.listHeight())
	case keymap.ActionSelect:
		if n > 0 {
			idx := m.cursor.Pos()
			return func() tea.Msg { return PlayTrackMsg{Index: idx} }
		}
	case keymap.ActionDelete:
		if n > 0 {
			idx := m.cursor.Pos()
			return func() tea.Msg { return RemoveTrackMsg{Index: idx} }
		}
	case keymap.ActionClear:
		if n > 0 {
			return func() tea.Msg { return ClearMsg{} }
		}
	}
	return nil
}

func (m Model) listHeight() int {
	return m.Height() - ui.PanelOverhead
}

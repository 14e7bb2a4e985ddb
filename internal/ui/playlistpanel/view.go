package playlistpanel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/eqwaves/internal/icons"
	"github.com/llehouerou/eqwaves/internal/playback"
	"github.com/llehouerou/eqwaves/internal/ui/render"
	"github.com/llehouerou/eqwaves/internal/ui/styles"
)

const sizeColumnWidth = 10

// View renders the playlist panel.
func (m Model) View() string {
	if m.Hidden() {
		return ""
	}

	t := styles.T()
	innerWidth := m.InnerWidth()

	mode := icons.Sequential()
	if m.shuffle {
		mode = icons.Shuffle()
	}
	header := render.Row(
		t.S().Title.Render(fmt.Sprintf("Playlist (%d/%d)", m.playing+1, len(m.tracks))),
		t.S().Muted.Render(mode),
		innerWidth,
	)
	separator := t.S().Subtle.Render(strings.Repeat("─", innerWidth))

	content := header + "\n" + separator + "\n" + m.renderTracks(innerWidth)

	border := t.Border
	if m.IsFocused() {
		border = t.BorderFocus
	}
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(innerWidth).
		Render(content)
}

func (m Model) renderTracks(width int) string {
	height := max(m.listHeight(), 0)
	var lines []string
	if len(m.tracks) == 0 {
		lines = append(lines, styles.T().S().Subtle.Render(
			render.Fit("No tracks. Pass files or folders on the command line.", width)))
	}

	start, end := m.cursor.VisibleRange(len(m.tracks), height)
	for idx := start; idx < end; idx++ {
		lines = append(lines, m.renderTrackLine(m.tracks[idx], idx, width))
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

// renderTrackLine renders "▶ title        3.2 MB".
func (m Model) renderTrackLine(track playback.Track, idx, width int) string {
	prefix := "  "
	if idx == m.playing {
		prefix = icons.Play() + " "
	}
	prefix = render.Fit(prefix, 2)

	titleWidth := max(width-2-sizeColumnWidth, 1)
	title := render.Fit(icons.FormatAudio(track.Title), titleWidth)
	size := fmt.Sprintf("%*s", sizeColumnWidth, track.SizeLabel)

	return m.trackStyle(idx).Render(prefix + title + size)
}

func (m Model) trackStyle(idx int) lipgloss.Style {
	s := styles.T().S()
	isCursor := idx == m.cursor.Pos() && m.IsFocused()
	isPlaying := idx == m.playing

	switch {
	case isCursor && isPlaying:
		return s.Cursor.Inherit(s.Playing)
	case isCursor:
		return s.Cursor
	case isPlaying:
		return s.Playing
	default:
		return s.Base
	}
}

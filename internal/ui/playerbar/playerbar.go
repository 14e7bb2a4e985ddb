package playerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/eqwaves/internal/icons"
	"github.com/llehouerou/eqwaves/internal/playback"
	"github.com/llehouerou/eqwaves/internal/ui/render"
)

// Height is the rendered height: top border, content, bottom border.
const Height = 3

// State holds everything needed to render the player bar.
type State struct {
	Status    playback.State
	Loading   bool
	Title     string
	SizeLabel string
	Index     int
	Total     int
	Position  time.Duration
	Duration  time.Duration
	Shuffle   bool
	Volume    float64
}

// NewState snapshots the service for rendering.
func NewState(svc playback.Service) State {
	s := State{
		Status:   svc.State(),
		Loading:  svc.Loading(),
		Index:    svc.CurrentIndex(),
		Total:    len(svc.Tracks()),
		Position: svc.Position(),
		Duration: svc.Duration(),
		Shuffle:  svc.Shuffle(),
		Volume:   svc.Equalizer().Volume,
	}
	if t := svc.CurrentTrack(); t != nil {
		s.Title = t.Title
		s.SizeLabel = t.SizeLabel
	}
	return s
}

// Render returns the player bar string for the given width.
func Render(s State, width int) string {
	innerWidth := max(width-6, 0)

	title := s.Title
	if title == "" {
		title = "No track"
	}

	var info []string
	if s.SizeLabel != "" {
		info = append(info, s.SizeLabel)
	}
	if s.Index >= 0 && s.Total > 0 {
		info = append(info, fmt.Sprintf("%d/%d", s.Index+1, s.Total))
	}
	meta := strings.Join(info, " · ")

	mode := icons.Sequential()
	if s.Shuffle {
		mode = icons.Shuffle()
	}
	right := mode + "  " + RenderVolume(s.Volume)

	separator := "   "
	sepWidth := lipgloss.Width(separator)
	rightWidth := lipgloss.Width(right)
	metaWidth := lipgloss.Width(meta)

	// Title gets at most a third of the line; the progress bar takes the rest.
	titleWidth := min(lipgloss.Width(title), max(innerWidth/3, 10))
	barWidth := innerWidth - titleWidth - metaWidth - rightWidth - sepWidth*3
	if barWidth < 12 {
		meta = ""
		barWidth += metaWidth + sepWidth
	}

	var content strings.Builder
	content.WriteString(titleStyle().Render(render.Truncate(title, titleWidth)))
	if meta != "" {
		content.WriteString(separator)
		content.WriteString(metaStyle().Render(meta))
	}
	content.WriteString(separator)
	content.WriteString(RenderProgressBar(s.Position, s.Duration, barWidth, statusIcon(s)))
	content.WriteString(separator)
	content.WriteString(metaStyle().Render(right))

	return barStyle().Padding(0, 2).Width(max(width-2, 0)).Render(content.String())
}

func statusIcon(s State) string {
	if s.Loading {
		return icons.Loading()
	}
	switch s.Status {
	case playback.StatePlaying:
		return icons.Play()
	case playback.StatePaused:
		return icons.Pause()
	default:
		return icons.Stop()
	}
}

func formatDuration(d time.Duration) string {
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}

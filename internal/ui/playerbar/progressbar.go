package playerbar

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	filledBlock = "▓"
	emptyBlock  = "░"
)

// RenderProgressBar renders a block-style progress bar.
// Format: ▶  1:23  ▓▓▓▓▓░░░░░  4:56
func RenderProgressBar(position, duration time.Duration, width int, status string) string {
	posStr := formatDuration(position)
	durStr := formatDuration(duration)

	fixedWidth := lipgloss.Width(status) + 2 + lipgloss.Width(posStr) + 2 + 2 + lipgloss.Width(durStr)
	barWidth := width - fixedWidth

	if barWidth < 3 {
		// Too narrow for bar, just show times
		return status + "  " + posStr + " / " + durStr
	}

	var ratio float64
	if duration > 0 {
		ratio = float64(position) / float64(duration)
	}
	filled := min(int(float64(barWidth)*ratio), barWidth)

	bar := progressFilledStyle().Render(strings.Repeat(filledBlock, filled)) +
		progressEmptyStyle().Render(strings.Repeat(emptyBlock, barWidth-filled))

	return status + "  " + posStr + "  " + bar + "  " + durStr
}

// Package spectrum renders analyser bins as vertical bars.
package spectrum

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/eqwaves/internal/ui/styles"
)

// levels are the partial block glyphs, in eighths of a cell.
var levels = []string{" ", "▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

// Columns folds bins into width columns, keeping the loudest bin of each
// group. Fewer bins than columns repeat.
func Columns(bins []uint8, width int) []uint8 {
	if width <= 0 || len(bins) == 0 {
		return nil
	}
	cols := make([]uint8, width)
	for c := range cols {
		lo := c * len(bins) / width
		hi := max((c+1)*len(bins)/width, lo+1)
		var peak uint8
		for _, v := range bins[lo:hi] {
			peak = max(peak, v)
		}
		cols[c] = peak
	}
	return cols
}

// Render draws bins as a width x height block of bars, low frequencies on
// the left. An empty or nil bins slice draws a blank block.
func Render(bins []uint8, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	cols := Columns(bins, width)
	if cols == nil {
		cols = make([]uint8, width)
	}
	t := styles.T()
	colors := styles.Blend(width, t.SpectrumLow, t.SpectrumHigh)

	// Bar heights in eighths of a cell.
	eighths := make([]int, width)
	for c, v := range cols {
		eighths[c] = int(v) * height * 8 / 255
	}

	rows := make([]string, height)
	for r := range height {
		// Row 0 is the top; floor is the eighths below this row.
		floor := (height - 1 - r) * 8
		var b strings.Builder
		for c := range width {
			fill := min(max(eighths[c]-floor, 0), 8)
			glyph := levels[fill]
			if fill == 0 {
				b.WriteString(glyph)
				continue
			}
			b.WriteString(lipgloss.NewStyle().Foreground(colors[c]).Render(glyph))
		}
		rows[r] = b.String()
	}
	return strings.Join(rows, "\n")
}

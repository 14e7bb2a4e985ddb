// Package overlay draws a popup on top of an already rendered view.
package overlay

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Center composes box over the middle of base, a width x height view.
func Center(base, box string, width, height int) string {
	lines := strings.Split(box, "\n")
	boxWidth := 0
	for _, l := range lines {
		boxWidth = max(boxWidth, ansi.StringWidth(l))
	}
	return Compose(base, box, max((width-boxWidth)/2, 0), max((height-len(lines))/2, 0), width)
}

// Compose writes each line of box into base starting at column x of row
// y. Base lines shorter than width are padded first; cells right of the
// box keep their base content. Styled text is cut on display columns.
func Compose(base, box string, x, y, width int) string {
	baseLines := strings.Split(base, "\n")

	for i, line := range strings.Split(box, "\n") {
		row := y + i
		if row >= len(baseLines) {
			break
		}
		lineWidth := ansi.StringWidth(line)
		if lineWidth == 0 {
			continue
		}
		end := min(x+lineWidth, width)

		baseLine := baseLines[row]
		if w := ansi.StringWidth(baseLine); w < width {
			baseLine += strings.Repeat(" ", width-w)
		}

		result := ansi.Cut(baseLine, 0, x) + ansi.Cut(line, 0, end-x)
		if end < width {
			result += ansi.Cut(baseLine, end, width)
		}
		baseLines[row] = result
	}

	return strings.Join(baseLines, "\n")
}

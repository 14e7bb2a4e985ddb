// Package eqpanel renders the equalizer sliders.
package eqpanel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/eqwaves/internal/player"
	"github.com/llehouerou/eqwaves/internal/ui/render"
	"github.com/llehouerou/eqwaves/internal/ui/styles"
)

// Height is the number of content lines, one per slider.
const Height = 4

const labelWidth = 16

type slider struct {
	label    string
	value    float64
	min, max float64
	format   string
}

// Render draws one slider per band plus the volume, width cells wide.
func Render(eq player.Settings, width int) string {
	sliders := []slider{
		{"Bass   200 Hz", eq.Bass, player.MinBandGainDB, player.MaxBandGainDB, "%+5.1f dB"},
		{"Mid    1 kHz", eq.Mid, player.MinBandGainDB, player.MaxBandGainDB, "%+5.1f dB"},
		{"Treble 3 kHz", eq.Treble, player.MinBandGainDB, player.MaxBandGainDB, "%+5.1f dB"},
		{"Volume", eq.Volume, player.MinVolume, player.MaxVolume, "%5.0f%%"},
	}

	s := styles.T().S()
	lines := make([]string, len(sliders))
	for i, sl := range sliders {
		shown := sl.value
		if sl.label == "Volume" {
			shown *= 100
		}
		value := fmt.Sprintf(sl.format, shown)
		barWidth := max(width-labelWidth-lipgloss.Width(value)-2, 3)
		lines[i] = s.Muted.Render(render.Fit(sl.label, labelWidth)) +
			Bar(sl.value, sl.min, sl.max, barWidth) + "  " +
			s.Base.Render(value)
	}
	return strings.Join(lines, "\n")
}

// Bar draws a horizontal slider with a knob at value's position in [lo, hi].
func Bar(value, lo, hi float64, width int) string {
	if width <= 0 || hi <= lo {
		return ""
	}
	value = min(max(value, lo), hi)
	knob := int((value-lo)/(hi-lo)*float64(width-1) + 0.5)

	t := styles.T()
	filled := lipgloss.NewStyle().Foreground(t.Primary)
	empty := t.S().Subtle
	return filled.Render(strings.Repeat("━", knob)) +
		filled.Bold(true).Render("┃") +
		empty.Render(strings.Repeat("─", width-1-knob))
}

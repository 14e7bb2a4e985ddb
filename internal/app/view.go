package app

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/eqwaves/internal/icons"
	"github.com/llehouerou/eqwaves/internal/keymap"
	"github.com/llehouerou/eqwaves/internal/ui"
	"github.com/llehouerou/eqwaves/internal/ui/eqpanel"
	"github.com/llehouerou/eqwaves/internal/ui/overlay"
	"github.com/llehouerou/eqwaves/internal/ui/playerbar"
	"github.com/llehouerou/eqwaves/internal/ui/render"
	"github.com/llehouerou/eqwaves/internal/ui/spectrum"
	"github.com/llehouerou/eqwaves/internal/ui/styles"
)

const statusHeight = 1

// layout splits the window height between the sections.
type layout struct {
	spectrum int // content rows, without border
	playlist int // total rows, with border
}

func (m Model) layout() layout {
	fixed := playerbar.Height + eqpanel.Height + ui.BorderHeight + statusHeight
	rest := max(m.height-fixed, 0)

	l := layout{spectrum: max(rest/3-ui.BorderHeight, ui.MinSpectrumHeight)}
	l.playlist = max(rest-l.spectrum-ui.BorderHeight, ui.PanelOverhead+1)
	return l
}

func (m *Model) resize() {
	m.playlist.SetSize(m.width, m.layout().playlist)
	m.help.SetSize(m.width, m.height)
	m.confirm.SetSize(m.width, m.height)
	m.add.SetSize(m.width, m.height)
}

// View renders the application UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.showHelp {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.help.View())
	}

	t := styles.T()
	l := m.layout()
	innerWidth := max(m.width-ui.BorderHeight, 0)
	panel := t.S().Panel.Padding(0)

	bar := playerbar.Render(playerbar.NewState(m.svc), m.width)
	spec := panel.Render(spectrum.Render(m.spectrum, innerWidth, l.spectrum))
	eq := panel.Render(eqpanel.Render(m.svc.Equalizer(), innerWidth))

	view := lipgloss.JoinVertical(lipgloss.Left,
		bar,
		spec,
		eq,
		m.playlist.View(),
		m.renderStatus(),
	)
	switch {
	case m.confirm.Active():
		view = overlay.Center(view, m.confirm.View(), m.width, m.height)
	case m.add.Active():
		view = overlay.Center(view, m.add.View(), m.width, m.height)
	}
	return view
}

// renderStatus renders the bottom line: the last error, or a key hint.
func (m Model) renderStatus() string {
	s := styles.T().S()
	if m.errorMsg != "" {
		return s.Error.Render(render.Fit(m.errorMsg, m.width))
	}
	left := icons.Equalizer() + " 1-6 bands  -/+ volume  " + m.resolver.Hint(keymap.ActionResetEQ) + " reset"
	right := m.resolver.Hint(keymap.ActionAdd) + " add  " + m.resolver.Hint(keymap.ActionHelp) + " help"
	return s.Subtle.Render(render.Row(left, right, m.width))
}

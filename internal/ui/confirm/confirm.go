// Package confirm provides a yes/no confirmation popup component.
package confirm

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/eqwaves/internal/ui"
	"github.com/llehouerou/eqwaves/internal/ui/render"
	"github.com/llehouerou/eqwaves/internal/ui/styles"
)

// ResultMsg is sent when the popup is answered.
type ResultMsg struct {
	Confirmed bool
	Context   any // passed through from Show
}

const (
	maxWidth = 54
	hint     = "enter/y confirm · esc/n cancel"
)

// Model is a yes/no confirmation popup.
type Model struct {
	ui.Base
	title   string
	message string
	context any
	active  bool
}

// New creates a new confirmation model.
func New() Model {
	return Model{}
}

// Show opens the popup. context is returned untouched in ResultMsg.
func (m *Model) Show(title, message string, context any) {
	m.title = title
	m.message = message
	m.context = context
	m.active = true
}

// Reset clears the confirmation state.
func (m *Model) Reset() {
	*m = Model{Base: m.Base}
}

// Active returns whether the confirmation is currently shown.
func (m Model) Active() bool {
	return m.active
}

// Update answers the popup on enter/y or esc/n. Other keys are swallowed.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !m.active || !ok {
		return m, nil
	}

	var confirmed bool
	switch keyMsg.String() {
	case "enter", "y", "Y":
		confirmed = true
	case "esc", "n", "N":
		confirmed = false
	default:
		return m, nil
	}

	result := ResultMsg{Confirmed: confirmed, Context: m.context}
	m.Reset()
	return m, func() tea.Msg { return result }
}

// View renders the popup box, or nothing when inactive.
func (m Model) View() string {
	if !m.active || m.Width() == 0 {
		return ""
	}
	s := styles.T().S()

	inner := m.PopupWidth(maxWidth)
	lines := []string{
		s.Title.Render(render.Truncate(m.title, inner)),
		"",
		s.Base.Render(render.Truncate(m.message, inner)),
		"",
		s.Subtle.Render(render.Truncate(hint, inner)),
	}
	return s.Panel.Render(strings.Join(lines, "\n"))
}

// Package textinput provides a single-line text input popup.
package textinput

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/eqwaves/internal/ui"
	"github.com/llehouerou/eqwaves/internal/ui/render"
	"github.com/llehouerou/eqwaves/internal/ui/styles"
)

// ResultMsg is sent when the input is submitted or canceled.
type ResultMsg struct {
	Text     string
	Context  any  // passed through from Start
	Canceled bool // esc was pressed
}

const (
	maxWidth = 60
	hint     = "enter confirm · esc cancel"
)

// Model is a text input popup.
type Model struct {
	ui.Base
	title   string
	input   textinput.Model
	context any
	active  bool
}

// New creates a new text input model.
func New() Model {
	ti := textinput.New()
	ti.CharLimit = 4096
	ti.Prompt = "> "
	// Blink ticks are not routed back through the app.
	ti.Cursor.SetMode(cursor.CursorStatic)
	return Model{input: ti}
}

// Start opens the popup with a title, a placeholder and optional initial text.
func (m *Model) Start(title, placeholder, initial string, context any) tea.Cmd {
	m.title = title
	m.context = context
	m.active = true
	m.input.Placeholder = placeholder
	m.input.SetValue(initial)
	m.input.CursorEnd()
	return m.input.Focus()
}

// SetSize sets the space available to the popup.
func (m *Model) SetSize(width, height int) {
	m.Base.SetSize(width, height)
	// The prompt and the cursor cell share the popup line with the text.
	m.input.Width = max(m.PopupWidth(maxWidth)-len(m.input.Prompt)-1, 1)
}

// Active returns whether the popup is shown.
func (m Model) Active() bool {
	return m.active
}

// Value returns the current text.
func (m Model) Value() string {
	return m.input.Value()
}

func (m *Model) close() {
	m.active = false
	m.context = nil
	m.input.Blur()
	m.input.SetValue("")
}

// Update edits the text; enter submits and esc cancels.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.active {
		return m, nil
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			result := ResultMsg{Context: m.context, Canceled: true}
			m.close()
			return m, func() tea.Msg { return result }
		case tea.KeyEnter:
			result := ResultMsg{Text: strings.TrimSpace(m.input.Value()), Context: m.context}
			m.close()
			return m, func() tea.Msg { return result }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
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
		m.input.View(),
		"",
		s.Subtle.Render(render.Truncate(hint, inner)),
	}
	return s.Panel.Width(inner + 2).Render(strings.Join(lines, "\n"))
}

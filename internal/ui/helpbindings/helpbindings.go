// Package helpbindings renders a scrollable overlay listing the key bindings.
package helpbindings

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/eqwaves/internal/keymap"
	"github.com/llehouerou/eqwaves/internal/ui"
	"github.com/llehouerou/eqwaves/internal/ui/styles"
)

// CloseMsg is sent when the help overlay should close.
type CloseMsg struct{}

// categoryOrder defines the display order of binding categories.
var categoryOrder = []string{"global", "playback", "playlist", "equalizer"}

// categoryLabels maps context names to display labels.
var categoryLabels = map[string]string{
	"global":    "Global",
	"playback":  "Playback",
	"playlist":  "Playlist",
	"equalizer": "Equalizer",
}

// Model holds the state for the help overlay.
type Model struct {
	ui.Base
	scrollOffset int
}

// New creates a new help bindings model.
func New() Model {
	return Model{}
}

// Update handles scroll and close keys.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "?", "esc", "q":
		return m, func() tea.Msg { return CloseMsg{} }
	case "j", "down":
		if m.scrollOffset < m.maxScroll() {
			m.scrollOffset++
		}
	case "k", "up":
		if m.scrollOffset > 0 {
			m.scrollOffset--
		}
	}
	return m, nil
}

// View renders the overlay inside a bordered box.
func (m Model) View() string {
	if m.Hidden() {
		return ""
	}
	t := styles.T()

	lines := strings.Split(buildContent(), "\n")
	end := min(m.scrollOffset+m.visibleHeight(), len(lines))
	visible := lines[min(m.scrollOffset, end):end]

	footer := "?/esc close"
	if len(lines) > m.visibleHeight() {
		footer = "j/k scroll · " + footer
	}

	var b strings.Builder
	b.WriteString(t.S().Title.Render("Help"))
	b.WriteString("\n\n")
	b.WriteString(strings.Join(visible, "\n"))
	b.WriteString("\n\n")
	b.WriteString(t.S().Subtle.Render(footer))

	return t.S().Panel.BorderForeground(t.BorderFocus).Render(b.String())
}

func buildContent() string {
	t := styles.T()
	keyStyle := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	headerStyle := lipgloss.NewStyle().Foreground(t.Secondary).Bold(true)

	maxKeyWidth := 0
	for _, b := range keymap.Bindings {
		maxKeyWidth = max(maxKeyWidth, lipgloss.Width(keymap.Labels(b.Keys)))
	}

	var sb strings.Builder
	for i, ctx := range categoryOrder {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(headerStyle.Render(categoryLabels[ctx]))
		sb.WriteString("\n")
		sb.WriteString(t.S().Subtle.Render(strings.Repeat("─", maxKeyWidth+20)))
		sb.WriteString("\n")
		for _, b := range keymap.ByContext(ctx) {
			key := keymap.Labels(b.Keys)
			sb.WriteString(keyStyle.Render(key + strings.Repeat(" ", maxKeyWidth-lipgloss.Width(key))))
			sb.WriteString("  ")
			sb.WriteString(t.S().Base.Render(b.Description))
			sb.WriteString("\n")
		}
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func (m Model) visibleHeight() int {
	// Title, footer, border and padding.
	return max(m.Height()-8, 5)
}

func (m Model) maxScroll() int {
	total := strings.Count(buildContent(), "\n") + 1
	return max(total-m.visibleHeight(), 0)
}

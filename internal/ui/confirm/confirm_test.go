package confirm

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shown() Model {
	m := New()
	m.SetSize(80, 24)
	m.Show("Clear playlist?", "Remove all 3 tracks.", "clear")
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestAnswers(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"enter", true},
		{"y", true},
		{"Y", true},
		{"esc", false},
		{"n", false},
		{"N", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m, cmd := shown().Update(key(tt.key))

			require.NotNil(t, cmd)
			assert.Equal(t, ResultMsg{Confirmed: tt.want, Context: "clear"}, cmd())
			assert.False(t, m.Active())
			assert.Empty(t, m.View())
		})
	}
}

func TestOtherKeysSwallowed(t *testing.T) {
	m, cmd := shown().Update(key("x"))

	assert.Nil(t, cmd)
	assert.True(t, m.Active())
}

func TestInactiveIgnoresKeys(t *testing.T) {
	m := New()
	_, cmd := m.Update(key("y"))

	assert.Nil(t, cmd)
}

func TestView(t *testing.T) {
	view := shown().View()

	assert.Contains(t, view, "Clear playlist?")
	assert.Contains(t, view, "Remove all 3 tracks.")
	assert.Contains(t, view, "esc/n cancel")
}

func TestResetKeepsSize(t *testing.T) {
	m := shown()
	m.Reset()

	assert.False(t, m.Active())
	assert.Equal(t, 80, m.Width())
}

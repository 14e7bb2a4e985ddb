package playerbar

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/eqwaves/internal/ui/styles"
)

func barStyle() lipgloss.Style {
	return styles.T().S().Panel
}

func titleStyle() lipgloss.Style {
	return styles.T().S().Title
}

func metaStyle() lipgloss.Style {
	return styles.T().S().Muted
}

func progressFilledStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(styles.T().Primary)
}

func progressEmptyStyle() lipgloss.Style {
	return styles.T().S().Subtle
}

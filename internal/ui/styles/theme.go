package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette and pre-built styles for the application.
type Theme struct {
	// Brand/accent colors
	Primary   lipgloss.Color // Purple - focused items, active states
	Secondary lipgloss.Color // Gold/orange - secondary accent

	// Text hierarchy (most to least prominent)
	FgBase   lipgloss.Color // Primary text (bright)
	FgMuted  lipgloss.Color // Secondary text (dimmed)
	FgSubtle lipgloss.Color // Tertiary text (very dim)

	// Backgrounds
	BgBase   lipgloss.Color // Panel backgrounds
	BgCursor lipgloss.Color // Cursor/selection highlight

	// Borders
	Border      lipgloss.Color // Unfocused panel borders
	BorderFocus lipgloss.Color // Focused panel borders

	// Status colors
	Success lipgloss.Color // Green - playing
	Error   lipgloss.Color // Red - errors
	Warning lipgloss.Color // Yellow/orange - warnings

	// Spectrum gradient, low bins to high bins
	SpectrumLow  lipgloss.Color
	SpectrumHigh lipgloss.Color

	Name   string
	styles *Styles
}

// Styles contains pre-built lipgloss styles for common UI patterns.
type Styles struct {
	Base    lipgloss.Style // Default text
	Muted   lipgloss.Style // Dimmed text
	Subtle  lipgloss.Style // Very dim text
	Title   lipgloss.Style // Bold, bright
	Playing lipgloss.Style // Currently playing track
	Cursor  lipgloss.Style // Cursor background highlight
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Panel   lipgloss.Style // Rounded border around a section
}

// Theme names, as persisted in settings.
const (
	Dark  = "dark"
	Light = "light"
)

var darkTheme = Theme{
	Name: Dark,

	// Bright purple accent
	Primary:   lipgloss.Color("#a78bfa"),
	Secondary: lipgloss.Color("#f1a208"),

	// Text hierarchy (grayscale)
	FgBase:   lipgloss.Color("#c0c0c0"),
	FgMuted:  lipgloss.Color("#808080"),
	FgSubtle: lipgloss.Color("#585858"),

	// Backgrounds
	BgBase:   lipgloss.Color("#1a1a1a"),
	BgCursor: lipgloss.Color("#303030"),

	// Borders
	Border:      lipgloss.Color("#585858"),
	BorderFocus: lipgloss.Color("#a78bfa"),

	// Status
	Success: lipgloss.Color("#42b883"),
	Error:   lipgloss.Color("#ff5555"),
	Warning: lipgloss.Color("#f1a208"),

	SpectrumLow:  lipgloss.Color("#42b883"),
	SpectrumHigh: lipgloss.Color("#a78bfa"),
}

var lightTheme = Theme{
	Name: Light,

	Primary:   lipgloss.Color("#6d28d9"),
	Secondary: lipgloss.Color("#b45309"),

	FgBase:   lipgloss.Color("#1f1f1f"),
	FgMuted:  lipgloss.Color("#5a5a5a"),
	FgSubtle: lipgloss.Color("#8a8a8a"),

	BgBase:   lipgloss.Color("#fafafa"),
	BgCursor: lipgloss.Color("#e4e4e7"),

	Border:      lipgloss.Color("#a1a1aa"),
	BorderFocus: lipgloss.Color("#6d28d9"),

	Success: lipgloss.Color("#15803d"),
	Error:   lipgloss.Color("#b91c1c"),
	Warning: lipgloss.Color("#b45309"),

	SpectrumLow:  lipgloss.Color("#0f766e"),
	SpectrumHigh: lipgloss.Color("#be185d"),
}

var current = &darkTheme

// T returns the active theme.
func T() *Theme {
	return current
}

// ByName returns the named theme, falling back to the dark one.
func ByName(name string) *Theme {
	if name == Light {
		return &lightTheme
	}
	return &darkTheme
}

// Set makes the named theme active and returns it.
func Set(name string) *Theme {
	current = ByName(name)
	return current
}

// Next returns the name of the theme after name, for toggling.
func Next(name string) string {
	if name == Light {
		return Dark
	}
	return Light
}

// S returns the pre-built styles for this theme.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)

	return &Styles{
		Base:   base,
		Muted:  lipgloss.NewStyle().Foreground(t.FgMuted),
		Subtle: lipgloss.NewStyle().Foreground(t.FgSubtle),
		Title:  base.Bold(true),
		Playing: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),
		Cursor: lipgloss.NewStyle().
			Background(t.BgCursor).
			Foreground(t.FgBase),
		Success: lipgloss.NewStyle().Foreground(t.Success),
		Error:   lipgloss.NewStyle().Foreground(t.Error),
		Warning: lipgloss.NewStyle().Foreground(t.Warning),
		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
	}
}

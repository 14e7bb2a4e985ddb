// Package keymap defines key bindings for the application.
package keymap

// Binding describes a single key binding.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "playback", "playlist", "equalizer"
}

// Bindings contains all key bindings, used for dispatch and help generation.
var Bindings = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit application", "global"},
	{ActionHelp, []string{"?"}, "Show help", "global"},
	{ActionToggleTheme, []string{"T"}, "Toggle theme", "global"},

	// Playback
	{ActionPlayPause, []string{" "}, "Play/pause", "playback"},
	{ActionStop, []string{"s"}, "Stop", "playback"},
	{ActionNextTrack, []string{"n", "pgdown"}, "Next track", "playback"},
	{ActionPrevTrack, []string{"p", "pgup"}, "Previous track", "playback"},
	{ActionSeekBack, []string{"shift+left"}, "Seek -5s", "playback"},
	{ActionSeekForward, []string{"shift+right"}, "Seek +5s", "playback"},
	{ActionToggleShuffle, []string{"S"}, "Toggle shuffle", "playback"},

	// Playlist
	{ActionMoveUp, []string{"k", "up"}, "Move up", "playlist"},
	{ActionMoveDown, []string{"j", "down"}, "Move down", "playlist"},
	{ActionSelect, []string{"enter"}, "Play track", "playlist"},
	{ActionDelete, []string{"d", "delete"}, "Remove track", "playlist"},
	{ActionClear, []string{"c"}, "Clear playlist", "playlist"},
	{ActionAdd, []string{"a"}, "Add files", "playlist"},

	// Equalizer
	{ActionBassDown, []string{"1"}, "Bass -1 dB", "equalizer"},
	{ActionBassUp, []string{"2"}, "Bass +1 dB", "equalizer"},
	{ActionMidDown, []string{"3"}, "Mid -1 dB", "equalizer"},
	{ActionMidUp, []string{"4"}, "Mid +1 dB", "equalizer"},
	{ActionTrebleDown, []string{"5"}, "Treble -1 dB", "equalizer"},
	{ActionTrebleUp, []string{"6"}, "Treble +1 dB", "equalizer"},
	{ActionVolumeDown, []string{"-"}, "Volume down", "equalizer"},
	{ActionVolumeUp, []string{"+", "="}, "Volume up", "equalizer"},
	{ActionResetEQ, []string{"0"}, "Reset equalizer", "equalizer"},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range Bindings {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}

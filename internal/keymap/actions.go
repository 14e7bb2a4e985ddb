// Package keymap defines key bindings and action dispatch for the application.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit        Action = "quit"
	ActionHelp        Action = "help"
	ActionToggleTheme Action = "toggle_theme"

	// Playback actions
	ActionPlayPause     Action = "play_pause"
	ActionStop          Action = "stop"
	ActionNextTrack     Action = "next_track"
	ActionPrevTrack     Action = "prev_track"
	ActionSeekForward   Action = "seek_forward"
	ActionSeekBack      Action = "seek_back"
	ActionToggleShuffle Action = "toggle_shuffle"

	// Playlist actions
	ActionMoveUp   Action = "move_up"
	ActionMoveDown Action = "move_down"
	ActionSelect   Action = "select" // enter - play highlighted track
	ActionDelete   Action = "delete" // d/delete - remove highlighted track
	ActionClear    Action = "clear"  // c - empty the playlist
	ActionAdd      Action = "add"    // a - add files or folders by path

	// Equalizer actions
	ActionBassUp     Action = "bass_up"
	ActionBassDown   Action = "bass_down"
	ActionMidUp      Action = "mid_up"
	ActionMidDown    Action = "mid_down"
	ActionTrebleUp   Action = "treble_up"
	ActionTrebleDown Action = "treble_down"
	ActionVolumeUp   Action = "volume_up"
	ActionVolumeDown Action = "volume_down"
	ActionResetEQ    Action = "reset_eq"
)

package playback

// State represents the playback state.
type State int

const (
	StateIdle State = iota
	StatePlaying
	StatePaused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a track is loaded (playing or paused).
func (s State) IsActive() bool {
	return s == StatePlaying || s == StatePaused
}

// Policy decides how the next track is chosen.
type Policy int

const (
	Sequential Policy = iota
	Shuffle
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case Sequential:
		return "Sequential"
	case Shuffle:
		return "Shuffle"
	default:
		return "Unknown"
	}
}

package playback

import (
	"github.com/llehouerou/eqwaves/internal/errmsg"
	"github.com/llehouerou/eqwaves/internal/player"
)

// StateChange is emitted when playback state changes.
type StateChange struct {
	Previous State
	Current  State
}

// TrackChange is emitted when a new track is requested.
//
// Emitted by:
//   - PlayIndex/Next/Previous: on every new playback request
//   - natural end: when the sequencer advances automatically
//   - skip-on-error: when a decode failure moves on to another track
//
// NOT emitted by:
//   - Pause/resume: the track does not change
//   - RemoveAt shifting the current index: same track, new position
//
// Current is the requested track; it is not playing yet while its decode
// is pending (see Service.Loading).
type TrackChange struct {
	Previous      *Track
	Current       *Track
	PreviousIndex int
	Index         int
}

// QueueChange is emitted when the playlist contents change.
type QueueChange struct {
	Tracks []Track
	Index  int
}

// ModeChange is emitted when the sequencer policy changes.
type ModeChange struct {
	Policy Policy
}

// EqualizerChange is emitted when equalizer settings change.
type EqualizerChange struct {
	Settings player.Settings
}

// ErrorEvent is emitted when an error must be shown to the user.
type ErrorEvent struct {
	Operation errmsg.Op
	Name      string // track name if applicable
	Err       error
}

// Message formats the error for display.
func (e ErrorEvent) Message() string {
	return errmsg.FormatWith(e.Operation, e.Name, e.Err)
}

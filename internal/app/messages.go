package app

import (
	"time"

	"github.com/llehouerou/eqwaves/internal/playback"
	"github.com/llehouerou/eqwaves/internal/playlist"
)

// TickMsg refreshes the position display.
type TickMsg time.Time

// SpectrumMsg carries one analyser frame; nil clears the display.
type SpectrumMsg []uint8

// TracksCollectedMsg carries the result of reading a path typed into the
// add prompt.
type TracksCollectedMsg struct {
	Path   string
	Tracks []playlist.Track
	Err    error
}

// StderrMsg carries a line written to fd 2 by the audio backend.
type StderrMsg struct {
	Line string
}

// ServiceStateChangedMsg is sent when the playback state changes.
type ServiceStateChangedMsg playback.StateChange

// ServiceTrackChangedMsg is sent when a new track is requested.
type ServiceTrackChangedMsg playback.TrackChange

// ServiceQueueChangedMsg is sent when the playlist changes.
type ServiceQueueChangedMsg playback.QueueChange

// ServiceModeChangedMsg is sent when shuffle is toggled.
type ServiceModeChangedMsg playback.ModeChange

// ServiceEqualizerChangedMsg is sent when the equalizer changes.
type ServiceEqualizerChangedMsg playback.EqualizerChange

// ServiceErrorMsg is sent when the service reports an error.
type ServiceErrorMsg playback.ErrorEvent

// ServiceClosedMsg is sent once the service has shut down.
type ServiceClosedMsg struct{}

package playback

import "errors"

var (
	// ErrIndexOutOfRange is returned for a track index outside the playlist.
	ErrIndexOutOfRange = errors.New("track index out of range")

	// ErrNoPlayableTrack is surfaced when skipping past decode failures ran
	// out of tracks to try.
	ErrNoPlayableTrack = errors.New("no playable track")

	// ErrClosed is returned by commands issued after Close.
	ErrClosed = errors.New("playback service closed")
)

package playback

import (
	"log/slog"
	"time"

	"github.com/llehouerou/eqwaves/internal/player"
	"github.com/llehouerou/eqwaves/internal/playlist"
	"github.com/llehouerou/eqwaves/internal/settings"
)

// Service defines the playback service contract.
//
// Commands are processed in call order. Starting a track tears down the
// live graph before returning; only the decode runs in the background.
type Service interface {
	// Playback control
	PlayIndex(index int) error
	Play() error
	Pause() error
	Stop() error
	Toggle() error
	Next() error
	Previous() error
	Seek(delta time.Duration) error
	SeekTo(position time.Duration) error

	// Playlist manipulation
	AddTracks(tracks ...playlist.Track) error
	RemoveAt(index int) error
	Clear() error

	// Equalizer
	SetEqualizer(eq player.Settings)
	Equalizer() player.Settings

	// Mode control
	Shuffle() bool
	SetShuffle(enabled bool)
	ToggleShuffle() bool

	// State queries
	State() State
	Loading() bool
	Position() time.Duration
	Duration() time.Duration
	CurrentIndex() int
	CurrentTrack() *Track
	Tracks() []Track

	// Spectrum fills dst with the live spectrum. It returns false whenever
	// the service is not playing.
	Spectrum(dst []uint8) ([]uint8, bool)

	// Event subscription
	Subscribe() *Subscription

	// Lifecycle
	Close() error
}

// Options configures a Service. Device is required.
type Options struct {
	Device  player.Device
	Decoder player.Decoder

	// Store holds the playlist; nil starts with an empty, unpersisted one.
	Store *playlist.Store

	// Settings persists equalizer and shuffle; nil keeps them in memory.
	Settings settings.KV

	Logger          *slog.Logger
	Analyser        player.AnalyserConfig
	ResampleQuality int
	Sequencer       *Sequencer
}

// Package app is the terminal front end: a bubbletea model over the
// playback service.
package app

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/eqwaves/internal/keymap"
	"github.com/llehouerou/eqwaves/internal/logger"
	"github.com/llehouerou/eqwaves/internal/playback"
	"github.com/llehouerou/eqwaves/internal/settings"
	"github.com/llehouerou/eqwaves/internal/ui/confirm"
	"github.com/llehouerou/eqwaves/internal/ui/helpbindings"
	"github.com/llehouerou/eqwaves/internal/ui/playlistpanel"
	"github.com/llehouerou/eqwaves/internal/ui/styles"
	"github.com/llehouerou/eqwaves/internal/ui/textinput"
)

// Options configures the front end. Service is required.
type Options struct {
	Service playback.Service

	// Settings persists the theme; nil keeps it in memory.
	Settings settings.KV
	Theme    string

	// Stderr delivers lines captured from fd 2; nil disables the watch.
	Stderr <-chan string
	Logger *slog.Logger
}

// Model is the root bubbletea model.
type Model struct {
	svc      playback.Service
	sub      *playback.Subscription
	kv       settings.KV
	stderr   <-chan string
	logger   *slog.Logger
	resolver *keymap.Resolver

	playlist playlistpanel.Model
	help     helpbindings.Model
	showHelp bool
	confirm  confirm.Model
	add      textinput.Model

	spectrum []uint8
	errorMsg string
	theme    string

	width, height int
}

// New creates the model and subscribes it to the service.
func New(opts Options) Model {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	theme := styles.Set(opts.Theme).Name

	m := Model{
		svc:      opts.Service,
		sub:      opts.Service.Subscribe(),
		kv:       opts.Settings,
		stderr:   opts.Stderr,
		logger:   log,
		resolver: keymap.NewResolver(keymap.Bindings),
		playlist: playlistpanel.New(),
		help:     helpbindings.New(),
		confirm:  confirm.New(),
		add:      textinput.New(),
		theme:    theme,
	}
	m.playlist.SetFocused(true)
	m.playlist.SetTracks(m.svc.Tracks(), m.svc.CurrentIndex())
	m.playlist.SetShuffle(m.svc.Shuffle())
	return m
}

// Init starts the event, stderr, and position watches.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.WatchServiceEvents(), m.WatchStderr(), TickCmd())
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/eqwaves/internal/app"
	"github.com/llehouerou/eqwaves/internal/blobstore"
	"github.com/llehouerou/eqwaves/internal/config"
	"github.com/llehouerou/eqwaves/internal/icons"
	"github.com/llehouerou/eqwaves/internal/logger"
	"github.com/llehouerou/eqwaves/internal/mpris"
	"github.com/llehouerou/eqwaves/internal/notify"
	"github.com/llehouerou/eqwaves/internal/player"
	"github.com/llehouerou/eqwaves/internal/playback"
	"github.com/llehouerou/eqwaves/internal/playlist"
	"github.com/llehouerou/eqwaves/internal/settings"
	"github.com/llehouerou/eqwaves/internal/state"
	"github.com/llehouerou/eqwaves/internal/stderr"
)

// storage is a playlist and settings backend.
type storage interface {
	playlist.Persister
	settings.KV
	io.Closer
}

// openStorage opens the backend selected in the config.
func openStorage(cfg *config.Config, log *slog.Logger) (storage, error) {
	switch cfg.StorageBackend() {
	case config.BackendBadger:
		return blobstore.Open(cfg.Storage.Path, log)
	default:
		return state.Open(cfg.Storage.Path)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	icons.Init(cfg.UI.Icons)

	logFile, err := logger.OpenFile(cfg.Log.File)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	log := logger.New(logger.Config{
		Writer: logFile,
		Format: cfg.Log.Format,
		Level:  logger.ParseLevel(cfg.Log.Level),
	})

	db, err := openStorage(cfg, log)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.StorageBackend(), err)
	}
	defer db.Close()

	kv := settings.NewDebounced(db, settings.DefaultDebounce, func(err error) {
		log.Warn("Failed to save setting", "error", err)
	})
	defer func() {
		if err := kv.Flush(); err != nil {
			log.Warn("Failed to flush settings", "error", err)
		}
	}()
	values, err := settings.Load(kv)
	if err != nil {
		log.Warn("Failed to load settings", "error", err)
	}

	store, err := playlist.Open(db)
	if err != nil {
		log.Warn("Starting with an empty playlist", "error", err)
	}

	// Capture before the device opens so backend noise never reaches the terminal.
	capture, err := stderr.Start()
	if err != nil {
		log.Warn("Stderr capture unavailable", "error", err)
	} else {
		defer capture.Stop()
	}

	device := player.NewSpeaker(cfg.SampleRate(), cfg.Buffer())
	defer device.Close()

	svc := playback.New(playback.Options{
		Device:          device,
		Store:           store,
		Settings:        kv,
		Logger:          log,
		Analyser:        cfg.Analyser(),
		ResampleQuality: cfg.ResampleQuality(),
		Sequencer:       playback.NewSequencer(cfg.ShuffleAttempts(), nil),
	})
	defer svc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Subscribed before the first track is added so its notice is not lost.
	if cfg.UI.Notifications {
		notifier, err := notify.New(notify.Identity{
			AppName:      cfg.AppName(),
			DesktopEntry: cfg.DesktopEntry(),
		})
		if err != nil {
			log.Warn("Notifications unavailable", "error", err)
		} else {
			go notify.Watch(ctx, svc.Subscribe(), svc, notifier, log)
		}
	}

	if len(args) > 0 {
		tracks, err := playlist.CollectFromPaths(args...)
		if err != nil {
			return err
		}
		if err := svc.AddTracks(tracks...); err != nil {
			return err
		}
	}

	if adapter, err := mpris.New(svc); err != nil {
		log.Warn("MPRIS unavailable", "error", err)
	} else {
		defer adapter.Close()
	}

	var lines <-chan string
	if capture != nil {
		lines = capture.Lines()
	}
	model := app.New(app.Options{
		Service:  svc,
		Settings: kv,
		Theme:    values.Theme,
		Stderr:   lines,
		Logger:   log,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	go app.RunSpectrum(ctx, svc, cfg.FrameInterval(), p.Send)

	_, err = p.Run()
	return err
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "eqwaves: %v\n", err)
		os.Exit(1)
	}
}

package app

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/eqwaves/internal/playback"
	"github.com/llehouerou/eqwaves/internal/playlist"
)

const tickInterval = 250 * time.Millisecond

// TickCmd returns a command that sends TickMsg after tickInterval.
func TickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// WatchServiceEvents returns a command that waits for the next service event.
// Each handler re-arms it.
func (m Model) WatchServiceEvents() tea.Cmd {
	sub := m.sub
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-sub.StateChanged:
			return ServiceStateChangedMsg(e)
		case e := <-sub.TrackChanged:
			return ServiceTrackChangedMsg(e)
		case e := <-sub.QueueChanged:
			return ServiceQueueChangedMsg(e)
		case e := <-sub.ModeChanged:
			return ServiceModeChangedMsg(e)
		case e := <-sub.EqualizerChanged:
			return ServiceEqualizerChangedMsg(e)
		case e := <-sub.Error:
			return ServiceErrorMsg(e)
		case <-sub.Done:
			return ServiceClosedMsg{}
		}
	}
}

// waitForChannel creates a command that waits for a value from a channel and converts it to a message.
// onResult receives the value and a boolean indicating if the channel is still open (false means channel closed).
func waitForChannel[T any](ch <-chan T, onResult func(T, bool) tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		result, ok := <-ch
		return onResult(result, ok)
	}
}

// WatchStderr returns a command that waits for the next captured stderr line.
func (m Model) WatchStderr() tea.Cmd {
	return waitForChannel(m.stderr, func(line string, ok bool) tea.Msg {
		if !ok {
			return nil
		}
		return StderrMsg{Line: line}
	})
}

// RunSpectrum feeds analyser frames to send at the given interval while the
// service plays, and a nil frame whenever playback stops. It returns when
// ctx ends or the service closes.
func RunSpectrum(ctx context.Context, svc playback.Service, interval time.Duration, send func(tea.Msg)) {
	sub := svc.Subscribe()
	sampler := playback.NewSampler(svc)

	for {
		if svc.State() == playback.StatePlaying {
			ticker := time.NewTicker(interval)
			err := sampler.Run(ctx, ticker.C, func(bins []uint8) {
				send(SpectrumMsg(slices.Clone(bins)))
			})
			ticker.Stop()
			if err != nil {
				return
			}
			send(SpectrumMsg(nil))
		}

		// Wait for playback to start again.
		for playing := false; !playing; {
			select {
			case <-ctx.Done():
				return
			case <-sub.Done:
				return
			case e := <-sub.StateChanged:
				playing = e.Current == playback.StatePlaying
			}
		}
	}
}

// CollectTracksCmd reads the audio files at path off the update loop.
// A leading ~ is expanded to the home directory.
func CollectTracksCmd(path string) tea.Cmd {
	return func() tea.Msg {
		expanded := path
		if rest, ok := strings.CutPrefix(path, "~"); ok {
			if home, err := os.UserHomeDir(); err == nil {
				expanded = filepath.Join(home, rest)
			}
		}
		tracks, err := playlist.CollectFromPaths(expanded)
		return TracksCollectedMsg{Path: path, Tracks: tracks, Err: err}
	}
}

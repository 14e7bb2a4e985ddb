package app

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/eqwaves/internal/errmsg"
	"github.com/llehouerou/eqwaves/internal/keymap"
	"github.com/llehouerou/eqwaves/internal/player"
	"github.com/llehouerou/eqwaves/internal/playback"
	"github.com/llehouerou/eqwaves/internal/settings"
	"github.com/llehouerou/eqwaves/internal/ui/confirm"
	"github.com/llehouerou/eqwaves/internal/ui/helpbindings"
	"github.com/llehouerou/eqwaves/internal/ui/playlistpanel"
	"github.com/llehouerou/eqwaves/internal/ui/styles"
	"github.com/llehouerou/eqwaves/internal/ui/textinput"
)

const (
	seekStep   = 5 * time.Second
	bandStep   = 1.0  // dB
	volumeStep = 0.05 // linear gain
)

// confirmClear tags the clear-playlist question.
type confirmClear struct{}

// addPaths tags the add-files prompt.
type addPaths struct{}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case helpbindings.CloseMsg:
		m.showHelp = false
		return m, nil

	case playlistpanel.PlayTrackMsg:
		m.report(m.svc.PlayIndex(msg.Index))
		return m, nil
	case playlistpanel.RemoveTrackMsg:
		m.report(m.svc.RemoveAt(msg.Index))
		return m, nil
	case playlistpanel.ClearMsg:
		n := len(m.svc.Tracks())
		m.confirm.Show("Clear playlist?", fmt.Sprintf("Remove %s from the playlist.", plural(n, "track")), confirmClear{})
		return m, nil
	case confirm.ResultMsg:
		if _, ok := msg.Context.(confirmClear); ok && msg.Confirmed {
			m.report(m.svc.Clear())
		}
		return m, nil

	case textinput.ResultMsg:
		if _, ok := msg.Context.(addPaths); !ok || msg.Canceled || msg.Text == "" {
			return m, nil
		}
		return m, CollectTracksCmd(msg.Text)
	case TracksCollectedMsg:
		switch {
		case msg.Err != nil:
			m.errorMsg = errmsg.FormatWith(errmsg.OpPlaylistAdd, msg.Path, msg.Err)
		case len(msg.Tracks) == 0:
			m.errorMsg = fmt.Sprintf("No audio files found in '%s'", msg.Path)
		default:
			m.report(m.svc.AddTracks(msg.Tracks...))
		}
		return m, nil

	case TickMsg:
		return m, TickCmd()

	case SpectrumMsg:
		m.spectrum = msg
		return m, nil

	case StderrMsg:
		m.logger.Warn("audio backend", "line", msg.Line)
		return m, m.WatchStderr()
	}

	return m.handleServiceMsg(msg)
}

// handleServiceMsg keeps the panels in sync with service events and
// re-arms the event watch.
func (m Model) handleServiceMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ServiceStateChangedMsg:
		if msg.Current != playback.StatePlaying {
			m.spectrum = nil
		}
	case ServiceTrackChangedMsg:
		m.playlist.SetPlaying(msg.Index)
	case ServiceQueueChangedMsg:
		m.playlist.SetTracks(msg.Tracks, msg.Index)
	case ServiceModeChangedMsg:
		m.playlist.SetShuffle(msg.Policy == playback.Shuffle)
	case ServiceEqualizerChangedMsg:
		// Rendered from the service on every frame.
	case ServiceErrorMsg:
		m.errorMsg = playback.ErrorEvent(msg).Message()
	case ServiceClosedMsg:
		return m, nil
	default:
		return m, nil
	}
	return m, m.WatchServiceEvents()
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key dismisses the error line.
	if m.errorMsg != "" {
		m.errorMsg = ""
		return m, nil
	}

	if m.confirm.Active() {
		var cmd tea.Cmd
		m.confirm, cmd = m.confirm.Update(msg)
		return m, cmd
	}
	if m.add.Active() {
		var cmd tea.Cmd
		m.add, cmd = m.add.Update(msg)
		return m, cmd
	}
	if m.showHelp {
		var cmd tea.Cmd
		m.help, cmd = m.help.Update(msg)
		return m, cmd
	}

	action := m.resolver.Resolve(msg.String())
	switch action {
	case keymap.ActionQuit:
		return m, tea.Quit
	case keymap.ActionHelp:
		m.showHelp = true
		return m, nil
	case keymap.ActionToggleTheme:
		m.theme = styles.Set(styles.Next(m.theme)).Name
		if m.kv != nil {
			if err := settings.SaveTheme(m.kv, m.theme); err != nil {
				m.logger.Warn("Failed to save theme", "error", err)
			}
		}
		return m, nil

	case keymap.ActionPlayPause:
		m.report(m.svc.Toggle())
		return m, nil
	case keymap.ActionStop:
		m.report(m.svc.Stop())
		return m, nil
	case keymap.ActionNextTrack:
		m.report(m.svc.Next())
		return m, nil
	case keymap.ActionPrevTrack:
		m.report(m.svc.Previous())
		return m, nil
	case keymap.ActionSeekForward:
		m.report(m.svc.Seek(seekStep))
		return m, nil
	case keymap.ActionSeekBack:
		m.report(m.svc.Seek(-seekStep))
		return m, nil
	case keymap.ActionAdd:
		cmd := m.add.Start("Add files", "path to a file or folder", "", addPaths{})
		return m, cmd
	case keymap.ActionToggleShuffle:
		m.svc.ToggleShuffle()
		return m, nil

	case keymap.ActionMoveUp, keymap.ActionMoveDown, keymap.ActionSelect,
		keymap.ActionDelete, keymap.ActionClear:
		cmd := m.playlist.HandleAction(action)
		return m, cmd
	}

	if eq, ok := adjustEqualizer(m.svc.Equalizer(), action); ok {
		m.svc.SetEqualizer(eq)
	}
	return m, nil
}

// adjustEqualizer applies an equalizer action. ok is false for any other action.
func adjustEqualizer(eq player.Settings, action keymap.Action) (player.Settings, bool) {
	switch action {
	case keymap.ActionBassUp:
		eq.Bass += bandStep
	case keymap.ActionBassDown:
		eq.Bass -= bandStep
	case keymap.ActionMidUp:
		eq.Mid += bandStep
	case keymap.ActionMidDown:
		eq.Mid -= bandStep
	case keymap.ActionTrebleUp:
		eq.Treble += bandStep
	case keymap.ActionTrebleDown:
		eq.Treble -= bandStep
	case keymap.ActionVolumeUp:
		eq.Volume += volumeStep
	case keymap.ActionVolumeDown:
		eq.Volume -= volumeStep
	case keymap.ActionResetEQ:
		eq = player.DefaultSettings()
	default:
		return eq, false
	}
	return eq.Clamp(), true
}

// report shows a command error that the service does not already emit
// as an event.
func (m *Model) report(err error) {
	var devErr *player.DeviceError
	if err == nil || errors.As(err, &devErr) {
		return
	}
	m.errorMsg = err.Error()
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

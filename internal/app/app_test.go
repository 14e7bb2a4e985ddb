package app

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gopxl/beep/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/eqwaves/internal/errmsg"
	"github.com/llehouerou/eqwaves/internal/keymap"
	"github.com/llehouerou/eqwaves/internal/player"
	"github.com/llehouerou/eqwaves/internal/playback"
	"github.com/llehouerou/eqwaves/internal/playlist"
	"github.com/llehouerou/eqwaves/internal/settings"
	"github.com/llehouerou/eqwaves/internal/ui/helpbindings"
	"github.com/llehouerou/eqwaves/internal/ui/playlistpanel"
	"github.com/llehouerou/eqwaves/internal/ui/styles"
)

const testRate = beep.SampleRate(44100)

// silentDecoder decodes every blob to ten seconds of silence.
type silentDecoder struct{}

func (silentDecoder) Decode(_ context.Context, name string, _ []byte) (*player.Audio, error) {
	return player.NewAudio(name, testRate, make([][2]float64, testRate.N(10*time.Second))), nil
}

type memKV struct {
	mu     sync.Mutex
	values map[string]string
}

func (m *memKV) GetSetting(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memKV) SetSetting(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func newService(t *testing.T, names ...string) playback.Service {
	t.Helper()
	store, err := playlist.Open(nil)
	require.NoError(t, err)
	for _, name := range names {
		require.NoError(t, store.Add(playlist.NewTrack(name, []byte(name))))
	}
	svc := playback.New(playback.Options{
		Device:  player.NewMockDevice(testRate),
		Decoder: silentDecoder{},
		Store:   store,
	})
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func newModel(t *testing.T, kv settings.KV, names ...string) Model {
	t.Helper()
	m := New(Options{Service: newService(t, names...), Settings: kv, Theme: styles.Dark})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model)
}

func press(t *testing.T, m Model, key string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestAdjustEqualizer(t *testing.T) {
	base := player.DefaultSettings()
	tests := []struct {
		action keymap.Action
		want   player.Settings
	}{
		{keymap.ActionBassUp, player.Settings{Bass: 1, Volume: 1}},
		{keymap.ActionMidDown, player.Settings{Mid: -1, Volume: 1}},
		{keymap.ActionTrebleUp, player.Settings{Treble: 1, Volume: 1}},
		{keymap.ActionVolumeDown, player.Settings{Volume: 0.95}},
	}
	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			got, ok := adjustEqualizer(base, tt.action)
			require.True(t, ok)
			assert.InDelta(t, tt.want.Bass, got.Bass, 1e-9)
			assert.InDelta(t, tt.want.Mid, got.Mid, 1e-9)
			assert.InDelta(t, tt.want.Treble, got.Treble, 1e-9)
			assert.InDelta(t, tt.want.Volume, got.Volume, 1e-9)
		})
	}

	got, ok := adjustEqualizer(player.Settings{Bass: player.MaxBandGainDB, Volume: 1}, keymap.ActionBassUp)
	require.True(t, ok)
	assert.InDelta(t, player.MaxBandGainDB, got.Bass, 1e-9, "bass is clamped")

	got, ok = adjustEqualizer(player.Settings{Bass: 5, Volume: 2}, keymap.ActionResetEQ)
	require.True(t, ok)
	assert.Equal(t, player.DefaultSettings(), got)

	_, ok = adjustEqualizer(base, keymap.ActionQuit)
	assert.False(t, ok)
}

func TestKeys_EqualizerReachesService(t *testing.T) {
	m := newModel(t, nil)

	m, _ = press(t, m, "2")
	m, _ = press(t, m, "2")
	m, _ = press(t, m, "-")

	eq := m.svc.Equalizer()
	assert.InDelta(t, 2.0, eq.Bass, 1e-9)
	assert.InDelta(t, 0.95, eq.Volume, 1e-9)
}

func TestKeys_ToggleThemePersists(t *testing.T) {
	defer styles.Set(styles.Dark)
	kv := &memKV{values: map[string]string{}}
	m := newModel(t, kv)

	m, _ = press(t, m, "T")

	assert.Equal(t, styles.Light, styles.T().Name)
	assert.Equal(t, styles.Light, m.theme)
	v, ok, _ := kv.GetSetting(settings.KeyTheme)
	assert.True(t, ok)
	assert.Equal(t, styles.Light, v)
}

func TestKeys_HelpOverlay(t *testing.T) {
	m := newModel(t, nil)

	m, _ = press(t, m, "?")
	require.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Equalizer")

	// Keys go to the overlay while it is open.
	m, cmd := press(t, m, "esc")
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, helpbindings.CloseMsg{}, msg)

	next, _ := m.Update(msg)
	assert.False(t, next.(Model).showHelp)
}

func TestKeys_Quit(t *testing.T) {
	m := newModel(t, nil)
	_, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestClearAsksFirst(t *testing.T) {
	m := newModel(t, nil, "a.mp3", "b.mp3")

	next, _ := m.Update(playlistpanel.ClearMsg{})
	m = next.(Model)
	require.True(t, m.confirm.Active())
	assert.Contains(t, m.View(), "Remove 2 tracks")
	assert.Equal(t, 40, lipgloss.Height(m.View()))

	// Declining keeps the playlist.
	m, cmd := press(t, m, "n")
	require.NotNil(t, cmd)
	next, _ = m.Update(cmd())
	m = next.(Model)
	assert.Len(t, m.svc.Tracks(), 2)

	next, _ = m.Update(playlistpanel.ClearMsg{})
	m, cmd = press(t, next.(Model), "y")
	require.NotNil(t, cmd)
	next, _ = m.Update(cmd())
	assert.Empty(t, next.(Model).svc.Tracks())
}

func TestAddPrompt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "song.mp3"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	m := newModel(t, nil)

	m, _ = press(t, m, "a")
	require.True(t, m.add.Active())
	assert.Contains(t, m.View(), "Add files")

	// Keys are typed into the prompt instead of being dispatched.
	for _, r := range dir {
		m, _ = press(t, m, string(r))
	}
	m, cmd := press(t, m, "enter")
	require.NotNil(t, cmd)
	next, cmd := m.Update(cmd())
	require.NotNil(t, cmd)

	msg := cmd()
	require.IsType(t, TracksCollectedMsg{}, msg)
	next, _ = next.(Model).Update(msg)
	m = next.(Model)

	tracks := m.svc.Tracks()
	require.Len(t, tracks, 1)
	assert.Equal(t, "song.mp3", tracks[0].Name)
}

func TestTracksCollected_Errors(t *testing.T) {
	m := newModel(t, nil)

	next, _ := m.Update(TracksCollectedMsg{Path: "/nowhere", Err: assert.AnError})
	assert.Contains(t, next.(Model).errorMsg, "Failed to add to playlist '/nowhere'")

	next, _ = m.Update(TracksCollectedMsg{Path: "/empty"})
	assert.Contains(t, next.(Model).errorMsg, "No audio files")
}

func TestCommandErrorShownThenDismissed(t *testing.T) {
	m := newModel(t, nil, "a.mp3")

	next, _ := m.Update(playlistpanel.PlayTrackMsg{Index: 7})
	m = next.(Model)
	assert.Equal(t, playback.ErrIndexOutOfRange.Error(), m.errorMsg)
	assert.Contains(t, m.View(), playback.ErrIndexOutOfRange.Error())

	m, _ = press(t, m, "2")
	assert.Empty(t, m.errorMsg)
	assert.InDelta(t, 0.0, m.svc.Equalizer().Bass, 1e-9, "dismissing key is not dispatched")
}

func TestServiceEvents_UpdatePanels(t *testing.T) {
	m := newModel(t, nil)

	require.NoError(t, m.svc.AddTracks(
		playlist.NewTrack("first.mp3", []byte("x")),
		playlist.NewTrack("second.mp3", []byte("y")),
	))

	// The queue event is buffered before AddTracks returns.
	for {
		msg := m.WatchServiceEvents()()
		next, _ := m.Update(msg)
		m = next.(Model)
		if _, ok := msg.(ServiceQueueChangedMsg); ok {
			break
		}
	}

	view := m.View()
	assert.Contains(t, view, "first")
	assert.Contains(t, view, "second")
}

func TestServiceErrorEventShown(t *testing.T) {
	m := newModel(t, nil)

	next, cmd := m.Update(ServiceErrorMsg{Operation: errmsg.OpDecode, Name: "bad.mp3", Err: assert.AnError})
	m = next.(Model)

	assert.Contains(t, m.errorMsg, "bad.mp3")
	assert.NotNil(t, cmd, "event watch is re-armed")
}

func TestWatchServiceEvents_ModeChange(t *testing.T) {
	m := newModel(t, nil)
	m.svc.SetShuffle(true)

	msg := m.WatchServiceEvents()()
	require.Equal(t, ServiceModeChangedMsg{Policy: playback.Shuffle}, msg)

	next, _ := m.Update(msg)
	assert.Contains(t, next.(Model).View(), "[S]")
}

func TestWatchServiceEvents_Closed(t *testing.T) {
	m := newModel(t, nil)
	require.NoError(t, m.svc.Close())

	assert.Equal(t, ServiceClosedMsg{}, m.WatchServiceEvents()())
}

func TestWatchStderr(t *testing.T) {
	lines := make(chan string, 1)
	m := New(Options{Service: newService(t), Stderr: lines})

	lines <- "ALSA lib pcm.c: underrun occurred"
	assert.Equal(t, StderrMsg{Line: "ALSA lib pcm.c: underrun occurred"}, m.WatchStderr()())

	close(lines)
	assert.Nil(t, m.WatchStderr()())

	assert.Nil(t, New(Options{Service: newService(t)}).WatchStderr())
}

func TestView_FillsWindow(t *testing.T) {
	m := newModel(t, nil, "a.mp3", "b.mp3")

	view := m.View()
	assert.Equal(t, 40, lipgloss.Height(view))
	assert.Equal(t, 100, lipgloss.Width(view))
}

func TestRunSpectrum_FollowsPlayback(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc := newService(t, "a.mp3")
		ctx, cancel := context.WithCancel(context.Background())

		var mu sync.Mutex
		var frames []SpectrumMsg
		send := func(msg tea.Msg) {
			mu.Lock()
			frames = append(frames, msg.(SpectrumMsg))
			mu.Unlock()
		}
		count := func() int {
			mu.Lock()
			defer mu.Unlock()
			return len(frames)
		}

		done := make(chan struct{})
		go func() {
			RunSpectrum(ctx, svc, 10*time.Millisecond, send)
			close(done)
		}()

		time.Sleep(50 * time.Millisecond)
		synctest.Wait()
		assert.Zero(t, count(), "no frames while idle")

		require.NoError(t, svc.PlayIndex(0))
		synctest.Wait()
		require.Equal(t, playback.StatePlaying, svc.State())

		time.Sleep(35 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, 3, count())

		require.NoError(t, svc.Stop())
		time.Sleep(10 * time.Millisecond)
		synctest.Wait()
		mu.Lock()
		assert.Nil(t, frames[len(frames)-1], "stopping clears the display")
		mu.Unlock()

		cancel()
		<-done
	})
}

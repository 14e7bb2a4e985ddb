package player

import (
	"errors"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGraph(dev *MockDevice, d time.Duration, settings Settings) *Graph {
	audio := NewAudio("tone", testRate, sine(testRate, 440, 0.5, d))
	return Build(audio, settings, GraphOptions{Device: dev})
}

func TestGraph_StartAttachesAndPlays(t *testing.T) {
	dev := NewMockDevice(testRate)
	g := newTestGraph(dev, time.Second, DefaultSettings())

	assert.Nil(t, dev.Attached(), "nothing reaches the device before Start")
	require.NoError(t, g.Start(0))
	assert.NotNil(t, dev.Attached())

	assert.InDelta(t, 0.5, dev.Pump(100*time.Millisecond), 0.02)
	assert.Equal(t, 100*time.Millisecond, dev.Now())
}

func TestGraph_CloseIsIdempotent(t *testing.T) {
	dev := NewMockDevice(testRate)
	g := newTestGraph(dev, time.Second, DefaultSettings())
	require.NoError(t, g.Start(0))

	g.Close()
	g.Close()

	assert.True(t, g.Closed())
	assert.Nil(t, dev.Attached())
	assert.Zero(t, dev.Pump(50*time.Millisecond))
	assert.Nil(t, g.ByteFrequencyData(nil))
}

func TestGraph_CloseBeforeStart(t *testing.T) {
	dev := NewMockDevice(testRate)
	g := newTestGraph(dev, time.Second, DefaultSettings())

	g.Close()

	assert.Error(t, g.Start(0))
	assert.Nil(t, dev.Attached())
	assert.Zero(t, dev.Attaches())
}

func TestGraph_StartTwice(t *testing.T) {
	dev := NewMockDevice(testRate)
	g := newTestGraph(dev, time.Second, DefaultSettings())
	require.NoError(t, g.Start(0))
	assert.Error(t, g.Start(0))
	assert.Equal(t, 1, dev.Attaches())
}

func TestGraph_DeviceError(t *testing.T) {
	dev := NewMockDevice(testRate)
	dev.SetAttachError(errors.New("no sound card"))
	g := newTestGraph(dev, time.Second, DefaultSettings())

	err := g.Start(0)

	var devErr *DeviceError
	require.ErrorAs(t, err, &devErr)
	assert.Nil(t, dev.Attached())
	g.Close()
}

func TestGraph_ApplyVolumeLive(t *testing.T) {
	dev := NewMockDevice(testRate)
	g := newTestGraph(dev, time.Second, DefaultSettings())
	require.NoError(t, g.Start(0))
	dev.Pump(50 * time.Millisecond)

	g.Apply(Settings{Volume: 0})
	assert.Zero(t, dev.Pump(50*time.Millisecond))

	g.Apply(Settings{Volume: 2})
	assert.InDelta(t, 1.0, dev.Pump(50*time.Millisecond), 0.05)
	assert.Equal(t, Settings{Volume: 2}, g.Settings())
}

func TestGraph_ApplyAfterCloseIsIgnored(t *testing.T) {
	dev := NewMockDevice(testRate)
	g := newTestGraph(dev, time.Second, DefaultSettings())
	require.NoError(t, g.Start(0))
	g.Close()

	g.Apply(Settings{Volume: 2, Bass: 10})
	assert.Equal(t, DefaultSettings(), g.Settings())
}

func TestGraph_ApplyClampsAndStoresBeforeStart(t *testing.T) {
	dev := NewMockDevice(testRate)
	g := newTestGraph(dev, time.Second, DefaultSettings())

	g.Apply(Settings{Bass: 50, Volume: 0})
	assert.Equal(t, Settings{Bass: 20, Volume: 0}, g.Settings())

	require.NoError(t, g.Start(0))
	assert.Zero(t, dev.Pump(50*time.Millisecond))
}

func TestGraph_OnEndedFiresAfterSourceRunsOut(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		dev := NewMockDevice(testRate)
		g := newTestGraph(dev, 200*time.Millisecond, DefaultSettings())
		ended := make(chan struct{}, 1)
		g.OnEnded(func() { ended <- struct{}{} })
		require.NoError(t, g.Start(0))

		dev.Pump(100 * time.Millisecond)
		synctest.Wait()
		assert.Empty(t, ended)

		dev.Pump(150 * time.Millisecond)
		synctest.Wait()
		assert.Len(t, ended, 1)
		assert.Nil(t, dev.Attached(), "device drops an exhausted chain")
	})
}

func TestGraph_OnEndedSuppressedAfterClose(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		dev := NewMockDevice(testRate)
		g := newTestGraph(dev, 50*time.Millisecond, DefaultSettings())
		called := false
		g.OnEnded(func() { called = true })
		require.NoError(t, g.Start(0))
		g.Close()

		dev.Pump(100 * time.Millisecond)
		synctest.Wait()
		assert.False(t, called)
	})
}

func TestGraph_StartAtOffset(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		dev := NewMockDevice(testRate)
		g := newTestGraph(dev, time.Second, DefaultSettings())
		ended := make(chan struct{}, 1)
		g.OnEnded(func() { ended <- struct{}{} })
		require.NoError(t, g.Start(700*time.Millisecond))

		dev.Pump(250 * time.Millisecond)
		synctest.Wait()
		assert.Empty(t, ended)

		dev.Pump(100 * time.Millisecond)
		synctest.Wait()
		assert.Len(t, ended, 1)
	})
}

func TestGraph_ResamplesToDeviceRate(t *testing.T) {
	dev := NewMockDevice(48000)
	audio := NewAudio("tone", 22050, sine(22050, 440, 0.5, time.Second))
	g := Build(audio, DefaultSettings(), GraphOptions{Device: dev})
	require.NoError(t, g.Start(0))

	assert.InDelta(t, 0.5, dev.Pump(200*time.Millisecond), 0.05)
}

func TestGraph_ByteFrequencyData(t *testing.T) {
	dev := NewMockDevice(testRate)
	g := newTestGraph(dev, time.Second, DefaultSettings())

	assert.Nil(t, g.ByteFrequencyData(nil), "no data before Start")

	require.NoError(t, g.Start(0))
	dev.Pump(50 * time.Millisecond)

	bins := g.ByteFrequencyData(make([]uint8, 0, 128))
	require.Len(t, bins, 128)
	assert.NotZero(t, bins[2])
	assert.NotZero(t, bins[3])
}

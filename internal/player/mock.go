package player

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
)

// MockDevice is a Device with a manually driven clock for tests.
// Nothing is pulled from the attached streamer until Pump is called.
type MockDevice struct {
	sampleRate beep.SampleRate

	mu        sync.Mutex
	deck      deck
	attachErr error
	attaches  int
}

// NewMockDevice creates a mock device running at sampleRate.
func NewMockDevice(sampleRate beep.SampleRate) *MockDevice {
	return &MockDevice{sampleRate: sampleRate}
}

func (m *MockDevice) SampleRate() beep.SampleRate { return m.sampleRate }

func (m *MockDevice) Now() time.Duration {
	return m.sampleRate.D(int(m.deck.frames.Load()))
}

func (m *MockDevice) Attach(s beep.Streamer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.attachErr != nil {
		return m.attachErr
	}
	m.deck.current = s
	m.attaches++
	return nil
}

func (m *MockDevice) Detach(s beep.Streamer) {
	m.mu.Lock()
	if m.deck.current == s {
		m.deck.current = nil
	}
	m.mu.Unlock()
}

func (m *MockDevice) Lock()   { m.mu.Lock() }
func (m *MockDevice) Unlock() { m.mu.Unlock() }

// Advance moves the clock forward without pulling audio.
func (m *MockDevice) Advance(d time.Duration) {
	m.deck.frames.Add(int64(m.sampleRate.N(d)))
}

// Pump pulls d worth of frames through the attached streamer, exactly as
// the audio thread would, and advances the clock by the same amount.
// It returns the mono-mixed peak amplitude of what was produced.
func (m *MockDevice) Pump(d time.Duration) float64 {
	const chunk = 512

	m.mu.Lock()
	defer m.mu.Unlock()

	var (
		peak float64
		buf  [chunk][2]float64
	)
	remaining := m.sampleRate.N(d)
	for remaining > 0 {
		n := min(remaining, chunk)
		m.deck.Stream(buf[:n])
		for i := range n {
			peak = max(peak, math.Abs((buf[i][0]+buf[i][1])/2))
		}
		remaining -= n
	}
	return peak
}

// Attached returns the currently attached streamer, or nil.
func (m *MockDevice) Attached() beep.Streamer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deck.current
}

// Attaches counts successful Attach calls.
func (m *MockDevice) Attaches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attaches
}

// SetAttachError makes subsequent Attach calls fail with err (nil clears it).
func (m *MockDevice) SetAttachError(err error) {
	m.mu.Lock()
	m.attachErr = err
	m.mu.Unlock()
}

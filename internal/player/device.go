package player

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// Device is the exclusively owned audio output. At most one streamer is
// attached at a time; attaching replaces whatever was attached before.
//
// Lock and Unlock bracket changes to anything the attached streamer reads
// while the device is pulling audio from it.
type Device interface {
	SampleRate() beep.SampleRate
	// Now is the device clock: the time represented by every frame the
	// device has consumed since it was opened.
	Now() time.Duration
	Attach(s beep.Streamer) error
	// Detach removes s if it is still the attached streamer.
	Detach(s beep.Streamer)
	Lock()
	Unlock()
}

// deck is the streamer the device always pulls from. It forwards the
// attached streamer's output, pads with silence, and counts frames.
type deck struct {
	current beep.Streamer
	frames  atomic.Int64
}

func (d *deck) Stream(samples [][2]float64) (int, bool) {
	filled := 0
	if d.current != nil {
		n, ok := d.current.Stream(samples)
		filled = n
		if !ok {
			d.current = nil
		}
	}
	clear(samples[filled:])
	d.frames.Add(int64(len(samples)))
	return len(samples), true
}

func (d *deck) Err() error { return nil }

// Speaker is the production Device backed by beep's speaker package.
// The speaker is opened on the first Attach.
type Speaker struct {
	sampleRate beep.SampleRate
	buffer     time.Duration

	once    sync.Once
	initErr error
	opened  atomic.Bool
	deck    deck
}

// NewSpeaker creates a speaker device. buffer is the device buffer length.
func NewSpeaker(sampleRate beep.SampleRate, buffer time.Duration) *Speaker {
	if buffer <= 0 {
		buffer = time.Second / 10
	}
	return &Speaker{sampleRate: sampleRate, buffer: buffer}
}

func (s *Speaker) SampleRate() beep.SampleRate { return s.sampleRate }

func (s *Speaker) Now() time.Duration {
	return s.sampleRate.D(int(s.deck.frames.Load()))
}

func (s *Speaker) open() error {
	s.once.Do(func() {
		s.initErr = speaker.Init(s.sampleRate, s.sampleRate.N(s.buffer))
		if s.initErr == nil {
			speaker.Play(&s.deck)
			s.opened.Store(true)
		}
	})
	return s.initErr
}

func (s *Speaker) Attach(st beep.Streamer) error {
	if err := s.open(); err != nil {
		return err
	}
	speaker.Lock()
	s.deck.current = st
	speaker.Unlock()
	return nil
}

func (s *Speaker) Detach(st beep.Streamer) {
	speaker.Lock()
	if s.deck.current == st {
		s.deck.current = nil
	}
	speaker.Unlock()
}

func (s *Speaker) Lock()   { speaker.Lock() }
func (s *Speaker) Unlock() { speaker.Unlock() }

// Close releases the output device.
func (s *Speaker) Close() {
	if s.opened.Load() {
		speaker.Clear()
		speaker.Close()
	}
}

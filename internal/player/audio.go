package player

import (
	"time"

	"github.com/gopxl/beep/v2"
)

// Audio is a fully decoded track. It is never mutated after decoding;
// graphs read it through independent buffer views.
type Audio struct {
	Name     string
	Codec    string
	Format   beep.Format
	Duration time.Duration

	buffer *beep.Buffer
}

func newAudio(name, codec string, buf *beep.Buffer) *Audio {
	format := buf.Format()
	return &Audio{
		Name:     name,
		Codec:    codec,
		Format:   format,
		Duration: format.SampleRate.D(buf.Len()),
		buffer:   buf,
	}
}

// NewAudio wraps already decoded PCM frames.
// Used by hosts that bring their own decoder and by tests.
func NewAudio(name string, sampleRate beep.SampleRate, frames [][2]float64) *Audio {
	format := beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2}
	buf := beep.NewBuffer(format)
	buf.Append(&frameStreamer{frames: frames})
	return newAudio(name, "PCM", buf)
}

// Len returns the number of frames in the buffer.
func (a *Audio) Len() int {
	return a.buffer.Len()
}

// from returns a streamer over the buffer starting at offset.
func (a *Audio) from(offset time.Duration) beep.StreamSeeker {
	start := a.Format.SampleRate.N(offset)
	start = max(0, min(start, a.buffer.Len()))
	return a.buffer.Streamer(start, a.buffer.Len())
}

// frameStreamer streams a fixed slice of frames once.
type frameStreamer struct {
	frames [][2]float64
	pos    int
}

func (f *frameStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if f.pos >= len(f.frames) {
		return 0, false
	}
	n = copy(samples, f.frames[f.pos:])
	f.pos += n
	return n, true
}

func (f *frameStreamer) Err() error { return nil }

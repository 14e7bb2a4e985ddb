package player

import (
	"math"

	"github.com/gopxl/beep/v2"
)

type filterKind int

const (
	lowShelf filterKind = iota
	peaking
	highShelf
)

// biquad is a second-order IIR section using the Audio EQ Cookbook formulas.
// gain is written under the device lock and read from Stream, which the
// device also runs under its lock, so coefficients follow the live value
// without rebuilding the chain.
type biquad struct {
	s    beep.Streamer
	kind filterKind
	freq float64
	q    float64
	sr   float64
	gain float64

	x1, x2 [2]float64
	y1, y2 [2]float64

	coeffGain          float64
	b0, b1, b2, a1, a2 float64
	ready              bool
}

func newBiquad(s beep.Streamer, kind filterKind, freq, q, gainDB float64, sr beep.SampleRate) *biquad {
	return &biquad{s: s, kind: kind, freq: freq, q: q, sr: float64(sr), gain: gainDB}
}

func (b *biquad) updateCoeffs() {
	if b.ready && b.gain == b.coeffGain {
		return
	}
	b.coeffGain = b.gain
	b.ready = true

	a := math.Pow(10, b.gain/40)
	w0 := 2 * math.Pi * b.freq / b.sr
	cosW0 := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * b.q)

	var b0, b1, b2, a0, a1, a2 float64
	switch b.kind {
	case peaking:
		b0 = 1 + alpha*a
		b1 = -2 * cosW0
		b2 = 1 - alpha*a
		a0 = 1 + alpha/a
		a1 = -2 * cosW0
		a2 = 1 - alpha/a
	case lowShelf:
		sq := 2 * math.Sqrt(a) * alpha
		b0 = a * ((a + 1) - (a-1)*cosW0 + sq)
		b1 = 2 * a * ((a - 1) - (a+1)*cosW0)
		b2 = a * ((a + 1) - (a-1)*cosW0 - sq)
		a0 = (a + 1) + (a-1)*cosW0 + sq
		a1 = -2 * ((a - 1) + (a+1)*cosW0)
		a2 = (a + 1) + (a-1)*cosW0 - sq
	case highShelf:
		sq := 2 * math.Sqrt(a) * alpha
		b0 = a * ((a + 1) + (a-1)*cosW0 + sq)
		b1 = -2 * a * ((a - 1) + (a+1)*cosW0)
		b2 = a * ((a + 1) + (a-1)*cosW0 - sq)
		a0 = (a + 1) - (a-1)*cosW0 + sq
		a1 = 2 * ((a - 1) - (a+1)*cosW0)
		a2 = (a + 1) - (a-1)*cosW0 - sq
	}

	b.b0 = b0 / a0
	b.b1 = b1 / a0
	b.b2 = b2 / a0
	b.a1 = a1 / a0
	b.a2 = a2 / a0
}

func (b *biquad) Stream(samples [][2]float64) (int, bool) {
	n, ok := b.s.Stream(samples)
	b.updateCoeffs()

	for i := range n {
		for ch := range 2 {
			x := samples[i][ch]
			y := b.b0*x + b.b1*b.x1[ch] + b.b2*b.x2[ch] - b.a1*b.y1[ch] - b.a2*b.y2[ch]
			b.x2[ch] = b.x1[ch]
			b.x1[ch] = x
			b.y2[ch] = b.y1[ch]
			b.y1[ch] = y
			samples[i][ch] = y
		}
	}
	return n, ok
}

func (b *biquad) Err() error { return b.s.Err() }

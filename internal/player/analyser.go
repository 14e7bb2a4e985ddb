package player

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/gopxl/beep/v2"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Analyser defaults, matching a browser AnalyserNode with fftSize 256.
const (
	DefaultFFTSize   = 256
	DefaultSmoothing = 0.8
	DefaultMinDB     = -100.0
	DefaultMaxDB     = -30.0
)

// AnalyserConfig configures the spectrum tap.
type AnalyserConfig struct {
	FFTSize   int
	Smoothing float64
	MinDB     float64
	MaxDB     float64
}

// DefaultAnalyserConfig returns the AnalyserNode defaults.
func DefaultAnalyserConfig() AnalyserConfig {
	return AnalyserConfig{
		FFTSize:   DefaultFFTSize,
		Smoothing: DefaultSmoothing,
		MinDB:     DefaultMinDB,
		MaxDB:     DefaultMaxDB,
	}
}

func (c AnalyserConfig) normalized() AnalyserConfig {
	d := DefaultAnalyserConfig()
	if !isPowerOfTwo(c.FFTSize) || c.FFTSize < 32 {
		c.FFTSize = d.FFTSize
	}
	if c.Smoothing < 0 || c.Smoothing >= 1 {
		c.Smoothing = d.Smoothing
	}
	if c.MaxDB <= c.MinDB {
		c.MinDB, c.MaxDB = d.MinDB, d.MaxDB
	}
	return c
}

// BinCount is the number of frequency bins the tap produces.
func (c AnalyserConfig) BinCount() int {
	return c.normalized().FFTSize / 2
}

// analyser passes audio through unchanged while keeping the most recent
// FFTSize mono samples for spectrum snapshots.
type analyser struct {
	s   beep.Streamer
	cfg AnalyserConfig

	mu   sync.Mutex
	ring []float64
	pos  int

	fft      *fourier.FFT
	window   []float64
	smoothed []float64
	windowed []float64
	coeffs   []complex128
}

func newAnalyser(s beep.Streamer, cfg AnalyserConfig) *analyser {
	cfg = cfg.normalized()
	n := cfg.FFTSize
	return &analyser{
		s:        s,
		cfg:      cfg,
		ring:     make([]float64, n),
		fft:      fourier.NewFFT(n),
		window:   blackman(n),
		smoothed: make([]float64, n/2),
		windowed: make([]float64, n),
		coeffs:   make([]complex128, n/2+1),
	}
}

func (a *analyser) Stream(samples [][2]float64) (int, bool) {
	n, ok := a.s.Stream(samples)
	a.mu.Lock()
	for i := range n {
		a.ring[a.pos] = (samples[i][0] + samples[i][1]) / 2
		a.pos = (a.pos + 1) % len(a.ring)
	}
	a.mu.Unlock()
	return n, ok
}

func (a *analyser) Err() error { return a.s.Err() }

// byteFrequencyData fills dst with one byte per bin and returns it,
// allocating when dst is too small.
func (a *analyser) byteFrequencyData(dst []uint8) []uint8 {
	size := len(a.ring)
	bins := size / 2
	if cap(dst) < bins {
		dst = make([]uint8, bins)
	}
	dst = dst[:bins]

	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range size {
		a.windowed[i] = a.ring[(a.pos+i)%size] * a.window[i]
	}
	// The plan and buffers are shared; a.mu serialises their use.
	a.coeffs = a.fft.Coefficients(a.coeffs, a.windowed)

	tau := a.cfg.Smoothing
	span := a.cfg.MaxDB - a.cfg.MinDB
	for k := range bins {
		mag := cmplx.Abs(a.coeffs[k]) / float64(size)
		a.smoothed[k] = tau*a.smoothed[k] + (1-tau)*mag

		db := math.Inf(-1)
		if a.smoothed[k] > 0 {
			db = 20 * math.Log10(a.smoothed[k])
		}
		scaled := 255 * (db - a.cfg.MinDB) / span
		dst[k] = uint8(clamp(scaled, 0, 255))
	}
	return dst
}

// blackman returns the window AnalyserNode applies before its FFT.
func blackman(n int) []float64 {
	const alpha = 0.16
	a0 := (1 - alpha) / 2
	a1 := 0.5
	a2 := alpha / 2

	w := make([]float64, n)
	for i := range w {
		x := float64(i) / float64(n)
		w[i] = a0 - a1*math.Cos(2*math.Pi*x) + a2*math.Cos(4*math.Pi*x)
	}
	return w
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

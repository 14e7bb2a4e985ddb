package player

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
)

// DefaultResampleQuality is used when the track and device rates differ.
const DefaultResampleQuality = 4

// Shelf slope S=1 expressed as Q.
var shelfQ = 1 / math.Sqrt2

var (
	errGraphClosed  = errors.New("graph closed")
	errGraphStarted = errors.New("graph already started")
)

// GraphOptions configures how a Graph is wired to its output.
type GraphOptions struct {
	Device          Device
	ResampleQuality int
	Analyser        AnalyserConfig
}

// Graph is one live processing chain bound to a single Audio:
// source, bass shelf, mid peak, treble shelf, gain, spectrum tap, device.
//
// Close is the only path that disconnects it. A closed graph ignores
// every further call.
type Graph struct {
	audio *Audio
	opts  GraphOptions

	mu       sync.Mutex
	settings Settings
	started  bool
	closed   bool
	onEnded  func()

	bass   *biquad
	mid    *biquad
	treble *biquad
	gain   *effects.Gain
	tap    *analyser
	out    *graphOutput
}

// Build prepares a chain for audio with the given settings.
// Nothing reaches the device until Start.
func Build(audio *Audio, settings Settings, opts GraphOptions) *Graph {
	if opts.ResampleQuality <= 0 {
		opts.ResampleQuality = DefaultResampleQuality
	}
	opts.Analyser = opts.Analyser.normalized()
	return &Graph{
		audio:    audio,
		opts:     opts,
		settings: settings.Clamp(),
	}
}

// Audio returns the buffer this graph plays.
func (g *Graph) Audio() *Audio { return g.audio }

// Start wires the chain and attaches it to the device, beginning playback
// at offset into the buffer.
func (g *Graph) Start(offset time.Duration) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return errGraphClosed
	}
	if g.started {
		return errGraphStarted
	}
	g.started = true

	dev := g.opts.Device
	devRate := dev.SampleRate()

	var s beep.Streamer = g.audio.from(offset)
	if g.audio.Format.SampleRate != devRate {
		s = beep.Resample(g.opts.ResampleQuality, g.audio.Format.SampleRate, devRate, s)
	}

	g.bass = newBiquad(s, lowShelf, BassFrequency, shelfQ, g.settings.Bass, devRate)
	g.mid = newBiquad(g.bass, peaking, MidFrequency, MidQ, g.settings.Mid, devRate)
	g.treble = newBiquad(g.mid, highShelf, TrebleFrequency, shelfQ, g.settings.Treble, devRate)
	g.gain = &effects.Gain{Streamer: g.treble, Gain: g.settings.Volume - 1}
	g.tap = newAnalyser(g.gain, g.opts.Analyser)
	g.out = &graphOutput{s: beep.Seq(g.tap, beep.Callback(g.sourceEnded))}

	if err := dev.Attach(g.out); err != nil {
		return &DeviceError{Err: err}
	}
	return nil
}

// Apply updates the band gains and volume in place.
func (g *Graph) Apply(settings Settings) {
	settings = settings.Clamp()

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return
	}
	g.settings = settings
	if !g.started {
		return
	}

	dev := g.opts.Device
	dev.Lock()
	g.bass.gain = settings.Bass
	g.mid.gain = settings.Mid
	g.treble.gain = settings.Treble
	g.gain.Gain = settings.Volume - 1
	dev.Unlock()
}

// Settings returns the parameters currently applied.
func (g *Graph) Settings() Settings {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.settings
}

// OnEnded registers fn to run when the source runs out of frames.
// fn is called on its own goroutine, never on the audio thread, and
// never after Close.
func (g *Graph) OnEnded(fn func()) {
	g.mu.Lock()
	g.onEnded = fn
	g.mu.Unlock()
}

// sourceEnded runs on the audio thread with the device locked.
func (g *Graph) sourceEnded() {
	go func() {
		g.mu.Lock()
		fn := g.onEnded
		closed := g.closed
		g.mu.Unlock()
		if fn != nil && !closed {
			fn()
		}
	}()
}

// ByteFrequencyData writes the current spectrum into dst, one byte per bin,
// and returns the filled slice. A graph that is not running yields nil.
func (g *Graph) ByteFrequencyData(dst []uint8) []uint8 {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed || !g.started {
		return nil
	}
	return g.tap.byteFrequencyData(dst)
}

// Close detaches the chain from the device and silences it.
// It is safe to call more than once and on a graph that never started.
func (g *Graph) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return
	}
	g.closed = true
	g.onEnded = nil
	if g.out == nil {
		return
	}

	dev := g.opts.Device
	dev.Lock()
	g.out.done = true
	dev.Unlock()
	dev.Detach(g.out)
}

// Closed reports whether Close has been called.
func (g *Graph) Closed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.closed
}

// graphOutput is what the device pulls from. Once done it produces nothing,
// so a device that still holds it can never hear a torn-down chain.
type graphOutput struct {
	s    beep.Streamer
	done bool
}

func (o *graphOutput) Stream(samples [][2]float64) (int, bool) {
	if o.done {
		return 0, false
	}
	return o.s.Stream(samples)
}

func (o *graphOutput) Err() error { return o.s.Err() }

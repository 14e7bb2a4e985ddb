package player

import (
	"bytes"
	"encoding/binary"
	"math"
	"time"

	"github.com/gopxl/beep/v2"
)

const testRate = beep.SampleRate(44100)

// sine returns d worth of a stereo sine wave.
func sine(rate beep.SampleRate, freq, amp float64, d time.Duration) [][2]float64 {
	frames := make([][2]float64, rate.N(d))
	for i := range frames {
		v := amp * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
		frames[i] = [2]float64{v, v}
	}
	return frames
}

// wavBytes encodes frames as a 16-bit stereo PCM WAV file.
func wavBytes(rate beep.SampleRate, frames [][2]float64) []byte {
	var buf bytes.Buffer
	dataSize := uint32(len(frames) * 4) //nolint:gosec // test fixture

	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, 36+dataSize)
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(&buf, binary.LittleEndian, uint16(2))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(rate)) //nolint:gosec // test fixture
	_ = binary.Write(&buf, binary.LittleEndian, uint32(rate)*4) //nolint:gosec // test fixture
	_ = binary.Write(&buf, binary.LittleEndian, uint16(4))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, dataSize)
	for _, f := range frames {
		for _, v := range f {
			_ = binary.Write(&buf, binary.LittleEndian, int16(v*32767))
		}
	}
	return buf.Bytes()
}

// peakOf returns the largest absolute left-channel value in frames.
func peakOf(frames [][2]float64) float64 {
	var p float64
	for _, f := range frames {
		p = max(p, math.Abs(f[0]))
	}
	return p
}

// drain pulls every frame out of s.
func drain(s beep.Streamer) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
}

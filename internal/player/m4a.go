package player

import (
	"bytes"
	"context"
	"errors"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/alac"
	"github.com/llehouerou/go-faad2"
	"github.com/llehouerou/go-m4a"
)

var errUnsupportedM4ACodec = errors.New("m4a: unsupported codec")

// m4aStreamer walks the container's samples and decodes them with AAC or ALAC.
type m4aStreamer struct {
	container  *m4a.Reader
	codecType  m4a.CodecType
	channels   int
	sampleSize int
	next       int
	err        error

	aac  *faad2.Decoder
	alac *alac.Alac

	pcm    [][2]float64
	pcmPos int
}

// nopReadSeekCloser lets an in-memory blob stand in for a file.
type nopReadSeekCloser struct {
	*bytes.Reader
}

func (nopReadSeekCloser) Close() error { return nil }

func decodeM4A(r *bytes.Reader) (beep.Streamer, beep.Format, string, error) {
	container, err := m4a.Open(nopReadSeekCloser{r})
	if err != nil {
		return nil, beep.Format{}, "", err
	}

	s := &m4aStreamer{
		container:  container,
		codecType:  container.Codec(),
		channels:   int(container.Channels()),
		sampleSize: int(container.SampleSize()),
	}

	precision := 2
	switch s.codecType {
	case m4a.CodecAAC:
		ctx := context.Background()
		decoder, err := faad2.NewDecoder(ctx)
		if err != nil {
			return nil, beep.Format{}, "", err
		}
		if err := decoder.Init(ctx, container.CodecConfig()); err != nil {
			decoder.Close(ctx)
			return nil, beep.Format{}, "", err
		}
		s.aac = decoder
	case m4a.CodecALAC:
		decoder, err := alac.NewWithConfig(alac.Config{
			SampleRate:  int(container.SampleRate()),
			SampleSize:  s.sampleSize,
			NumChannels: s.channels,
			FrameSize:   4096,
		})
		if err != nil {
			return nil, beep.Format{}, "", err
		}
		s.alac = decoder
		if s.sampleSize == 24 {
			precision = 3
		}
	case m4a.CodecUnknown:
		return nil, beep.Format{}, "", errUnsupportedM4ACodec
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(container.SampleRate()),
		NumChannels: 2,
		Precision:   precision,
	}
	return s, format, s.codecType.String(), nil
}

func (s *m4aStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if s.err != nil {
		return 0, false
	}

	for n < len(samples) {
		if s.pcmPos < len(s.pcm) {
			c := copy(samples[n:], s.pcm[s.pcmPos:])
			n += c
			s.pcmPos += c
			continue
		}
		if s.next >= s.container.SampleCount() {
			return n, n > 0
		}

		data, err := s.container.ReadSample(s.next)
		if err != nil {
			s.err = err
			return n, n > 0
		}
		s.next++

		switch s.codecType {
		case m4a.CodecAAC:
			pcm, err := s.aac.Decode(context.Background(), data)
			if err != nil {
				s.err = err
				return n, n > 0
			}
			s.pcm = int16Frames(pcm, s.channels)
		case m4a.CodecALAC:
			s.pcm = alacFrames(s.alac.Decode(data), s.channels, s.sampleSize)
		case m4a.CodecUnknown:
			s.err = errUnsupportedM4ACodec
			return n, n > 0
		}
		s.pcmPos = 0
	}
	return n, true
}

func (s *m4aStreamer) Err() error { return s.err }

func (s *m4aStreamer) Close() error {
	if s.aac != nil {
		s.aac.Close(context.Background())
	}
	return nil
}

// int16Frames converts interleaved 16-bit PCM to stereo frames.
func int16Frames(pcm []int16, channels int) [][2]float64 {
	if channels < 1 {
		return nil
	}
	frames := make([][2]float64, len(pcm)/channels)
	for i := range frames {
		left := float64(pcm[i*channels]) / 32768.0
		right := left
		if channels > 1 {
			right = float64(pcm[i*channels+1]) / 32768.0
		}
		frames[i] = [2]float64{left, right}
	}
	return frames
}

// alacFrames converts little-endian 16 or 24-bit ALAC output to stereo frames.
func alacFrames(data []byte, channels, sampleSize int) [][2]float64 {
	if channels < 1 {
		return nil
	}
	width := 2
	scale := 32768.0
	if sampleSize == 24 {
		width = 3
		scale = 8388608.0
	}

	read := func(off int) float64 {
		if width == 2 {
			return float64(int16(uint16(data[off])|uint16(data[off+1])<<8)) / scale //nolint:gosec // audio samples
		}
		v := int32(data[off]) | int32(data[off+1])<<8 | int32(data[off+2])<<16
		if v&0x800000 != 0 {
			v |= ^0xFFFFFF
		}
		return float64(v) / scale
	}

	stride := width * channels
	frames := make([][2]float64, len(data)/stride)
	for i := range frames {
		off := i * stride
		left := read(off)
		right := left
		if channels > 1 {
			right = read(off + width)
		}
		frames[i] = [2]float64{left, right}
	}
	return frames
}

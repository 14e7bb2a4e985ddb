package player

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
)

// Supported file extensions.
const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extWAV  = ".wav"
	extOGG  = ".ogg"
	extOGA  = ".oga"
	extOPUS = ".opus"
	extM4A  = ".m4a"
	extMP4  = ".mp4"
)

type container int

const (
	containerUnknown container = iota
	containerMP3
	containerFLAC
	containerWAV
	containerOgg
	containerM4A
)

// Decoder turns a raw media blob into PCM.
//
// Decode is not cancellable in a way that matters to callers: they must treat
// the result as stale if the request that started it has been superseded.
// The context only lets a shutting-down host stop burning CPU.
type Decoder interface {
	Decode(ctx context.Context, name string, data []byte) (*Audio, error)
}

// NewDecoder returns the decoder for every container the player understands.
func NewDecoder() Decoder {
	return blobDecoder{}
}

type blobDecoder struct{}

func (blobDecoder) Decode(ctx context.Context, name string, data []byte) (*Audio, error) {
	audio, err := decodeBlob(ctx, name, data)
	if err != nil {
		return nil, &DecodeError{Name: name, Err: err}
	}
	return audio, nil
}

func decodeBlob(ctx context.Context, name string, data []byte) (*Audio, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		streamer beep.Streamer
		format   beep.Format
		codec    string
		err      error
	)

	r := bytes.NewReader(data)
	switch sniff(name, data) {
	case containerMP3:
		streamer, format, err = decodeGoMP3(r)
		codec = "MP3"
	case containerFLAC:
		streamer, format, err = decodeFLAC(r)
		codec = "FLAC"
	case containerWAV:
		streamer, format, err = wav.Decode(r)
		codec = "WAV"
	case containerOgg:
		streamer, format, codec, err = decodeOgg(r)
	case containerM4A:
		streamer, format, codec, err = decodeM4A(r)
	case containerUnknown:
		err = ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	if c, ok := streamer.(io.Closer); ok {
		defer c.Close()
	}

	buf := beep.NewBuffer(beep.Format{
		SampleRate:  format.SampleRate,
		NumChannels: 2,
		Precision:   max(format.Precision, 2),
	})
	cs := &ctxStreamer{ctx: ctx, s: streamer}
	buf.Append(cs)
	if cs.err != nil {
		return nil, cs.err
	}
	if err := streamer.Err(); err != nil {
		return nil, err
	}
	if buf.Len() == 0 {
		return nil, ErrEmptyAudio
	}

	return newAudio(name, codec, buf), nil
}

// sniff identifies the container from magic bytes, then from the extension.
func sniff(name string, data []byte) container {
	head := data
	if size, ok := id3v2Size(data); ok && size < len(data) {
		head = data[size:]
	}

	switch {
	case bytes.HasPrefix(head, []byte("fLaC")):
		return containerFLAC
	case len(head) >= 12 && string(head[0:4]) == "RIFF" && string(head[8:12]) == "WAVE":
		return containerWAV
	case bytes.HasPrefix(head, []byte("OggS")):
		return containerOgg
	case len(head) >= 8 && string(head[4:8]) == "ftyp":
		return containerM4A
	case len(head) >= 2 && head[0] == 0xFF && head[1]&0xE0 == 0xE0:
		return containerMP3
	case len(head) != len(data):
		// ID3v2 without a recognizable payload is almost always MP3.
		return containerMP3
	}

	return containerByExt(name)
}

func containerByExt(name string) container {
	switch strings.ToLower(filepath.Ext(name)) {
	case extMP3:
		return containerMP3
	case extFLAC:
		return containerFLAC
	case extWAV:
		return containerWAV
	case extOGG, extOGA, extOPUS:
		return containerOgg
	case extM4A, extMP4:
		return containerM4A
	default:
		return containerUnknown
	}
}

// IsAudioFile reports whether a file name looks like something the decoder accepts.
func IsAudioFile(name string) bool {
	return containerByExt(name) != containerUnknown
}

// id3v2Size returns the full size of a leading ID3v2 tag, header included.
func id3v2Size(data []byte) (int, bool) {
	if len(data) < 10 || string(data[0:3]) != "ID3" {
		return 0, false
	}
	// Syncsafe integer: 7 significant bits per byte.
	size := int(data[6])<<21 | int(data[7])<<14 | int(data[8])<<7 | int(data[9])
	return 10 + size, true
}

// ctxStreamer ends a stream early once the context is done.
type ctxStreamer struct {
	ctx context.Context
	s   beep.Streamer
	err error
}

func (c *ctxStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if err := c.ctx.Err(); err != nil {
		c.err = err
		return 0, false
	}
	return c.s.Stream(samples)
}

func (c *ctxStreamer) Err() error {
	if c.err != nil {
		return c.err
	}
	return c.s.Err()
}

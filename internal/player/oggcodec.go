package player

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/jfreymuth/vorbis"
	"github.com/jj11hh/opus"
)

// Opus always decodes at 48 kHz regardless of the input rate in the header.
const opusSampleRate = 48000

var (
	errUnknownOggCodec             = errors.New("ogg: unknown codec (not Opus or Vorbis)")
	errInvalidVorbisHeader         = errors.New("vorbis: invalid identification header")
	errInvalidOpusHead             = errors.New("opus: invalid OpusHead packet")
	errUnsupportedOpus             = errors.New("opus: unsupported version")
	errVorbisDecoderNotInitialized = errors.New("vorbis: decoder not initialized (headers incomplete)")
	errVorbisBufferTooSmall        = errors.New("vorbis: output buffer too small")
)

// OggCodec handles codec-specific header parsing and packet decoding.
type OggCodec interface {
	Name() string
	SampleRate() int
	Channels() int
	// PreSkip returns frames to drop at stream start (0 for Vorbis).
	PreSkip() int
	// Ready reports whether every header packet has been consumed.
	Ready() bool
	AddHeaderPacket(packet []byte) error
	// Decode writes interleaved PCM and returns frames decoded.
	Decode(packet []byte, pcm []float32) (int, error)
}

// detectOggCodec inspects the first packet of a logical stream.
func detectOggCodec(first []byte) (OggCodec, error) {
	if len(first) >= 8 && string(first[:8]) == "OpusHead" {
		return newOpusCodec(first)
	}
	if len(first) >= 7 && first[0] == 0x01 && string(first[1:7]) == "vorbis" {
		return newVorbisCodec(first)
	}
	return nil, errUnknownOggCodec
}

type opusCodec struct {
	decoder   *opus.Decoder
	channels  int
	preSkip   int
	tagsSeen  bool
	inputRate int // informational, output is always 48 kHz
}

func newOpusCodec(packet []byte) (*opusCodec, error) {
	// "OpusHead" version channels pre-skip(2) rate(4) gain(2) mapping
	if len(packet) < 19 {
		return nil, errInvalidOpusHead
	}
	if packet[8] != 1 {
		return nil, errUnsupportedOpus
	}
	channels := int(packet[9])

	decoder, err := opus.NewDecoder(opusSampleRate, channels)
	if err != nil {
		return nil, err
	}
	return &opusCodec{
		decoder:   decoder,
		channels:  channels,
		preSkip:   int(binary.LittleEndian.Uint16(packet[10:12])),
		inputRate: int(binary.LittleEndian.Uint32(packet[12:16])),
	}, nil
}

func (c *opusCodec) Name() string { return "OPUS" }
func (c *opusCodec) SampleRate() int { return opusSampleRate }
func (c *opusCodec) Channels() int { return c.channels }
func (c *opusCodec) PreSkip() int { return c.preSkip }
func (c *opusCodec) Ready() bool { return c.tagsSeen }

// AddHeaderPacket consumes the OpusTags packet that follows OpusHead.
func (c *opusCodec) AddHeaderPacket(packet []byte) error {
	if !bytes.HasPrefix(packet, []byte("OpusTags")) {
		return errInvalidOpusHead
	}
	c.tagsSeen = true
	return nil
}

func (c *opusCodec) Decode(packet []byte, pcm []float32) (int, error) {
	return c.decoder.DecodeFloat32(packet, pcm)
}

type vorbisCodec struct {
	decoder    *vorbis.Decoder
	channels   int
	sampleRate int
	headers    [][]byte
}

func newVorbisCodec(packet []byte) (*vorbisCodec, error) {
	// type(1) "vorbis"(6) version(4) channels(1) rate(4)
	if len(packet) < 16 {
		return nil, errInvalidVorbisHeader
	}
	if binary.LittleEndian.Uint32(packet[7:11]) != 0 {
		return nil, errInvalidVorbisHeader
	}
	return &vorbisCodec{
		channels:   int(packet[11]),
		sampleRate: int(binary.LittleEndian.Uint32(packet[12:16])),
		headers:    [][]byte{bytes.Clone(packet)},
	}, nil
}

func (c *vorbisCodec) Name() string { return "VORBIS" }
func (c *vorbisCodec) SampleRate() int { return c.sampleRate }
func (c *vorbisCodec) Channels() int { return c.channels }
func (c *vorbisCodec) PreSkip() int { return 0 }
func (c *vorbisCodec) Ready() bool { return c.decoder != nil }

// AddHeaderPacket collects the comment and setup headers; the decoder is
// created once all three are present.
func (c *vorbisCodec) AddHeaderPacket(packet []byte) error {
	if c.decoder != nil {
		return nil
	}
	c.headers = append(c.headers, bytes.Clone(packet))
	if len(c.headers) < 3 {
		return nil
	}

	decoder := &vorbis.Decoder{}
	for _, hdr := range c.headers {
		if err := decoder.ReadHeader(hdr); err != nil {
			return err
		}
	}
	c.decoder = decoder
	c.headers = nil
	return nil
}

func (c *vorbisCodec) Decode(packet []byte, pcm []float32) (int, error) {
	if c.decoder == nil {
		return 0, errVorbisDecoderNotInitialized
	}
	samples, err := c.decoder.Decode(packet)
	if err != nil {
		return 0, err
	}
	if len(pcm) < len(samples) {
		return 0, errVorbisBufferTooSmall
	}
	n := copy(pcm, samples)
	return n / c.channels, nil
}

package player

import (
	"errors"
	"io"

	"github.com/gopxl/beep/v2"
)

var (
	errInvalidOggMagic   = errors.New("ogg: invalid capture pattern")
	errInvalidOggVersion = errors.New("ogg: unsupported version")
	errOggNoHeaders      = errors.New("ogg: stream ended before codec headers")
)

// decodeOgg opens an Ogg stream carrying Opus or Vorbis.
func decodeOgg(r io.Reader) (beep.Streamer, beep.Format, string, error) {
	packets := newOggPacketReader(r)

	first, err := packets.Next()
	if err != nil {
		return nil, beep.Format{}, "", err
	}
	codec, err := detectOggCodec(first)
	if err != nil {
		return nil, beep.Format{}, "", err
	}

	for !codec.Ready() {
		pkt, err := packets.Next()
		if errors.Is(err, io.EOF) {
			return nil, beep.Format{}, "", errOggNoHeaders
		}
		if err != nil {
			return nil, beep.Format{}, "", err
		}
		if err := codec.AddHeaderPacket(pkt); err != nil {
			return nil, beep.Format{}, "", err
		}
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(codec.SampleRate()),
		NumChannels: codec.Channels(),
		Precision:   2,
	}
	s := &oggStreamer{
		packets: packets,
		codec:   codec,
		pcm:     make([]float32, 0, 8192*codec.Channels()),
		skip:    codec.PreSkip(),
	}
	return s, format, codec.Name(), nil
}

// oggStreamer decodes packets on demand and hands out stereo frames.
type oggStreamer struct {
	packets *oggPacketReader
	codec   OggCodec
	pcm     []float32 // interleaved, decoded but not yet streamed
	pcmPos  int
	skip    int // frames still to drop (Opus pre-skip)
	err     error
}

func (s *oggStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if s.err != nil {
		return 0, false
	}
	channels := s.codec.Channels()

	for n < len(samples) {
		if s.pcmPos < len(s.pcm) {
			for n < len(samples) && s.pcmPos < len(s.pcm) {
				left := float64(s.pcm[s.pcmPos])
				right := left
				if channels > 1 {
					right = float64(s.pcm[s.pcmPos+1])
				}
				s.pcmPos += channels
				if s.skip > 0 {
					s.skip--
					continue
				}
				samples[n] = [2]float64{left, right}
				n++
			}
			continue
		}

		pkt, err := s.packets.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.err = err
			}
			return n, n > 0
		}
		frames, err := s.codec.Decode(pkt, s.pcm[:cap(s.pcm)])
		if err != nil {
			// A corrupt packet costs a few milliseconds, not the track.
			continue
		}
		s.pcm = s.pcm[:frames*channels]
		s.pcmPos = 0
	}
	return n, true
}

func (s *oggStreamer) Err() error { return s.err }

// oggPacketReader reassembles logical packets from Ogg pages, including
// packets that span page boundaries.
type oggPacketReader struct {
	r       io.Reader
	queue   [][]byte
	partial []byte
}

func newOggPacketReader(r io.Reader) *oggPacketReader {
	return &oggPacketReader{r: r}
}

// Next returns the next complete packet, or io.EOF.
func (o *oggPacketReader) Next() ([]byte, error) {
	for len(o.queue) == 0 {
		if err := o.readPage(); err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, io.EOF
			}
			return nil, err
		}
	}
	pkt := o.queue[0]
	o.queue = o.queue[1:]
	return pkt, nil
}

func (o *oggPacketReader) readPage() error {
	var hdr [27]byte
	if _, err := io.ReadFull(o.r, hdr[:]); err != nil {
		return err
	}
	if string(hdr[0:4]) != "OggS" {
		return errInvalidOggMagic
	}
	if hdr[4] != 0 {
		return errInvalidOggVersion
	}
	// Flags, granule, serial, sequence and CRC are not needed to rebuild packets.
	segments := make([]byte, hdr[26])
	if _, err := io.ReadFull(o.r, segments); err != nil {
		return err
	}
	total := 0
	for _, s := range segments {
		total += int(s)
	}
	body := make([]byte, total)
	if _, err := io.ReadFull(o.r, body); err != nil {
		return err
	}

	off := 0
	for _, size := range segments {
		o.partial = append(o.partial, body[off:off+int(size)]...)
		off += int(size)
		// A lacing value below 255 terminates the packet.
		if size < 255 {
			o.queue = append(o.queue, o.partial)
			o.partial = nil
		}
	}
	return nil
}

package player

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/go-mp3"
)

// goMP3Streamer adapts llehouerou/go-mp3 output to beep frames.
type goMP3Streamer struct {
	decoder *mp3.Decoder
	err     error
	readBuf []byte
}

// decodeGoMP3 opens an MP3 stream. go-mp3 always produces 16-bit stereo.
func decodeGoMP3(r io.Reader) (beep.Streamer, beep.Format, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, beep.Format{}, err
	}

	sampleRate := decoder.SampleRate()
	if sampleRate == 0 {
		return nil, beep.Format{}, errors.New("mp3: invalid sample rate")
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(sampleRate),
		NumChannels: 2,
		Precision:   2,
	}
	return &goMP3Streamer{decoder: decoder, readBuf: make([]byte, 8192)}, format, nil
}

func (d *goMP3Streamer) Stream(samples [][2]float64) (n int, ok bool) {
	if d.err != nil {
		return 0, false
	}

	// 4 bytes per frame
	need := len(samples) * 4
	if len(d.readBuf) < need {
		d.readBuf = make([]byte, need)
	}

	read, err := io.ReadFull(d.decoder, d.readBuf[:need])
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		d.err = err
		return 0, false
	}

	frames := read / 4
	if frames == 0 {
		return 0, false
	}
	for i := range frames {
		off := i * 4
		left := int16(binary.LittleEndian.Uint16(d.readBuf[off:]))    //nolint:gosec // audio samples
		right := int16(binary.LittleEndian.Uint16(d.readBuf[off+2:])) //nolint:gosec // audio samples
		samples[i][0] = float64(left) / 32768.0
		samples[i][1] = float64(right) / 32768.0
	}
	return frames, true
}

func (d *goMP3Streamer) Err() error { return d.err }

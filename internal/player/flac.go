package player

import (
	"bytes"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
)

// decodeFLAC skips an ID3v2 tag some taggers prepend, which the FLAC
// decoder does not understand, then hands over to beep's decoder.
func decodeFLAC(r *bytes.Reader) (beep.Streamer, beep.Format, error) {
	if err := skipID3v2(r); err != nil {
		return nil, beep.Format{}, err
	}
	return flac.Decode(r)
}

func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := io.ReadFull(r, header)
	if err != nil && n == 0 {
		return err
	}
	size, ok := id3v2Size(header[:n])
	if !ok {
		size = 0
	}
	_, err = r.Seek(int64(size), io.SeekStart)
	return err
}

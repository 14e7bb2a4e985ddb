package player

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned when no decoder recognizes a track's container.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// ErrEmptyAudio is returned when a container decodes to zero frames.
var ErrEmptyAudio = errors.New("no audio frames decoded")

// DecodeError reports a track that could not be turned into PCM.
type DecodeError struct {
	Name string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %q: %v", e.Name, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DeviceError reports an output device that could not be opened or fed.
type DeviceError struct {
	Err error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("output device: %v", e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

package playback

import (
	"context"
	"time"
)

// SpectrumSource yields spectrum frames while playing.
type SpectrumSource interface {
	Spectrum(dst []uint8) ([]uint8, bool)
}

// Sampler pulls one spectrum snapshot per host frame. It keeps no state of
// its own about whether playback is running: every frame asks the source.
type Sampler struct {
	src SpectrumSource
	buf []uint8
}

// NewSampler creates a sampler reading from src.
func NewSampler(src SpectrumSource) *Sampler {
	return &Sampler{src: src}
}

// Frame fills dst with the current snapshot. It returns false once the
// source is no longer playing, at which point the host must stop asking.
func (s *Sampler) Frame(dst []uint8) ([]uint8, bool) {
	return s.src.Spectrum(dst)
}

// Run calls render with a snapshot for every tick received on frames.
// It returns nil as soon as a frame is refused or frames is closed, and
// ctx.Err() if ctx ends first. The slice passed to render is reused by the
// next frame.
func (s *Sampler) Run(ctx context.Context, frames <-chan time.Time, render func([]uint8)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-frames:
			if !ok {
				return nil
			}
			buf, ok := s.Frame(s.buf)
			if !ok {
				return nil
			}
			s.buf = buf
			render(buf)
		}
	}
}

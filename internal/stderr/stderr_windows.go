//go:build windows

// Package stderr provides a no-op implementation for Windows.
// Windows audio libraries don't produce the same stderr noise as ALSA.
package stderr

import "os"

// Capture is a no-op on Windows.
type Capture struct{}

// Start is a no-op on Windows.
func Start() (*Capture, error) {
	return &Capture{}, nil
}

// Lines returns nil; nothing is ever captured.
func (c *Capture) Lines() <-chan string {
	return nil
}

// WriteOriginal writes to stderr.
func (c *Capture) WriteOriginal(msg string) {
	_, _ = os.Stderr.WriteString(msg)
}

// Stop is a no-op on Windows.
func (c *Capture) Stop() {}

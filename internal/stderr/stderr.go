//go:build !windows

// Package stderr captures output that the audio backend writes straight to
// file descriptor 2, bypassing os.Stderr, so it cannot corrupt the TUI.
package stderr

import (
	"bufio"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

const lineBuffer = 100

// Capture redirects fd 2 into a pipe until Stop is called.
type Capture struct {
	orig  int
	read  *os.File
	write *os.File
	lines chan string
}

// Start begins capturing stderr. Call it before the audio device opens.
// On error the program can continue uncaptured.
func Start() (*Capture, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	orig, err := unix.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}

	if err := unix.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		unix.Close(orig)
		r.Close()
		w.Close()
		return nil, err
	}

	c := &Capture{orig: orig, read: r, write: w, lines: make(chan string, lineBuffer)}
	go c.pump()
	return c, nil
}

func (c *Capture) pump() {
	defer close(c.lines)
	scanner := bufio.NewScanner(c.read)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		select {
		case c.lines <- line:
		default:
			// Nobody is reading; drop rather than block the writer.
		}
	}
}

// Lines delivers captured lines. It is closed after Stop.
func (c *Capture) Lines() <-chan string {
	return c.lines
}

// WriteOriginal writes to the real stderr, bypassing the capture.
func (c *Capture) WriteOriginal(msg string) {
	_, _ = unix.Write(c.orig, []byte(msg))
}

// Stop restores the original stderr.
func (c *Capture) Stop() {
	_ = unix.Dup2(c.orig, int(os.Stderr.Fd()))
	_ = unix.Close(c.orig)
	c.write.Close()
	c.read.Close()
}

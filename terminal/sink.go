// Package terminal writes frames to a terminal using ANSI control sequences.
package terminal

import (
	"io"
	"os"
	"sync"

	"github.com/mengelbart/termplay"
	"golang.org/x/term"
)

const (
	CursorHome = "\x1b[H"
	HideCursor = "\x1b[?25l"
	ShowCursor = "\x1b[?25h"
)

// Sink implements termplay.Sink on an io.Writer. Every frame is drawn from
// the top left corner.
type Sink struct {
	lock    sync.Mutex
	w       io.Writer
	written uint64
}

func NewSink(w io.Writer) *Sink {
	return &Sink{
		w: w,
	}
}

func (s *Sink) WriteFrame(p termplay.Payload) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, err := io.WriteString(s.w, CursorHome); err != nil {
		return err
	}
	n, err := s.w.Write(p)
	s.written += uint64(n)
	return err
}

func (s *Sink) HideCursor() error {
	return s.writeControl(HideCursor)
}

func (s *Sink) ShowCursor() error {
	return s.writeControl(ShowCursor)
}

func (s *Sink) writeControl(seq string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	_, err := io.WriteString(s.w, seq)
	return err
}

// Written returns the number of payload bytes written so far.
func (s *Sink) Written() uint64 {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.written
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

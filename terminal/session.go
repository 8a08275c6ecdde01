// Package terminal owns the process-wide terminal state: raw mode entry
// and guaranteed restoration, the alternate screen buffer, and the single
// keyboard reader that drives playback controls.
package terminal

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"golang.org/x/term"
)

const (
	enterSequence = "\x1b[?1049h\x1b[H\x1b[2J\x1b[?25l"
	leaveSequence = "\x1b[?1049l\x1b[?25h"
)

// Session captures the terminal's line discipline and screen state on
// entry and restores both on release.
//
// [Session.Restore] is idempotent and safe to attach to every exit path:
// the normal return, panic recovery, and the signal handler may all call
// it.
//
// Create instances with [NewSession].
type Session struct {
	in       *os.File
	out      io.Writer
	saved    *term.State
	entered  atomic.Bool
	restored atomic.Bool
}

// NewSession creates a session over the given input file (the tty) and
// output writer.
func NewSession(in *os.File, out io.Writer) *Session {
	return &Session{in: in, out: out}
}

// Enter saves the current line discipline, switches to the alternate
// screen buffer, hides the cursor, and puts the terminal into raw mode.
func (s *Session) Enter() error {
	if !s.entered.CompareAndSwap(false, true) {
		return nil
	}

	if term.IsTerminal(int(s.in.Fd())) {
		saved, err := term.MakeRaw(int(s.in.Fd()))
		if err != nil {
			s.entered.Store(false)

			return fmt.Errorf("entering raw mode: %w", err)
		}

		s.saved = saved
	}

	if _, err := io.WriteString(s.out, enterSequence); err != nil {
		s.restoreDiscipline()
		s.entered.Store(false)

		return fmt.Errorf("entering alternate screen: %w", err)
	}

	return nil
}

// Restore leaves the alternate screen buffer, shows the cursor, and
// restores the saved line discipline. Idempotent; later calls are no-ops.
func (s *Session) Restore() {
	if !s.entered.Load() || !s.restored.CompareAndSwap(false, true) {
		return
	}

	_, _ = io.WriteString(s.out, leaveSequence)
	s.restoreDiscipline()
}

func (s *Session) restoreDiscipline() {
	if s.saved != nil {
		_ = term.Restore(int(s.in.Fd()), s.saved)
	}
}

// Size returns the terminal dimensions in character cells, falling back to
// 80x24 when the output is not a terminal.
func Size(f *os.File) (cols, rows int) {
	cols, rows, err := term.GetSize(int(f.Fd()))
	if err != nil || cols <= 0 || rows <= 0 {
		return 80, 24
	}

	return cols, rows
}

package terminal

import (
	"errors"
	"io"

	"github.com/muesli/cancelreader"
)

// Key identifies one decoded keyboard control.
type Key int

const (
	// KeyNone is any input with no binding.
	KeyNone Key = iota
	// KeyPause toggles pause (space).
	KeyPause
	// KeySpeedUp increments the speed ladder ('+').
	KeySpeedUp
	// KeySpeedDown decrements the speed ladder ('-').
	KeySpeedDown
	// KeyQuit exits the player ('q' or Ctrl-C).
	KeyQuit
	// KeyPrev switches to the previous track (Up arrow).
	KeyPrev
	// KeyNext switches to the next track (Down arrow).
	KeyNext
	// KeySeekForward seeks forward (Right arrow).
	KeySeekForward
	// KeySeekBack seeks backward (Left arrow).
	KeySeekBack
)

// DecodeKey interprets one raw-mode read of up to 3 bytes. Arrow keys
// arrive as 3-byte CSI sequences; everything else is a single byte.
func DecodeKey(buf []byte) Key {
	switch len(buf) {
	case 1:
		switch buf[0] {
		case ' ':
			return KeyPause
		case '+':
			return KeySpeedUp
		case '-':
			return KeySpeedDown
		case 'q', 'Q', 0x03:
			return KeyQuit
		}

	case 3:
		if buf[0] == 0x1b && buf[1] == '[' {
			switch buf[2] {
			case 'A':
				return KeyPrev
			case 'B':
				return KeyNext
			case 'C':
				return KeySeekForward
			case 'D':
				return KeySeekBack
			}
		}
	}

	return KeyNone
}

// Reader is the process-wide keyboard reader. It lives across playback
// cycles; only process shutdown closes it, by cancelling the blocked read.
//
// Create instances with [NewReader].
type Reader struct {
	cr cancelreader.CancelReader
}

// NewReader wraps the input file in a cancelable reader.
func NewReader(in io.Reader) (*Reader, error) {
	cr, err := cancelreader.NewReader(in)
	if err != nil {
		return nil, err
	}

	return &Reader{cr: cr}, nil
}

// Run decodes keys and feeds them to handler until the reader is closed or
// the input reaches EOF. Reads are at most 3 bytes so escape sequences are
// captured in one syscall.
func (r *Reader) Run(handler func(Key)) {
	var buf [3]byte

	for {
		n, err := r.cr.Read(buf[:])
		if err != nil {
			if errors.Is(err, cancelreader.ErrCanceled) || errors.Is(err, io.EOF) {
				return
			}

			return
		}

		if n == 0 {
			continue
		}

		if key := DecodeKey(buf[:n]); key != KeyNone {
			handler(key)
		}
	}
}

// Close interrupts a blocked read and releases the reader.
func (r *Reader) Close() {
	r.cr.Cancel()
	_ = r.cr.Close()
}

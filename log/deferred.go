package log

import (
	"io"
	"sync"
)

// maxDeferredEntries bounds how many log entries are retained while the
// terminal is held. When full the oldest entry is dropped so Write never
// blocks a render worker.
const maxDeferredEntries = 256

// Deferred is an [io.Writer] that buffers writes while the terminal is held
// and forwards them to the destination otherwise.
//
// The player switches it to buffering mode with [Deferred.Hold] before
// entering the alternate screen buffer, and drains it with
// [Deferred.Release] after the terminal is restored. Each Write is treated
// as one log entry; when the buffer is full the oldest entry is dropped.
// Safe for concurrent use.
//
// Create instances with [NewDeferred].
type Deferred struct {
	dst     io.Writer
	entries [][]byte
	mu      sync.Mutex
	holding bool
}

// NewDeferred creates a [Deferred] forwarding to dst.
func NewDeferred(dst io.Writer) *Deferred {
	return &Deferred{dst: dst}
}

// Hold switches the writer into buffering mode. Idempotent.
func (d *Deferred) Hold() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.holding = true
}

// Release drains buffered entries to the destination and switches back to
// pass-through mode. Entries are written in arrival order. Idempotent.
func (d *Deferred) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, entry := range d.entries {
		_, _ = d.dst.Write(entry)
	}

	d.entries = nil
	d.holding = false
}

// Write buffers b while holding, otherwise forwards it to the destination.
// Always reports len(b) written so slog never sees a short write.
func (d *Deferred) Write(b []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.holding {
		_, err := d.dst.Write(b)

		return len(b), err
	}

	entry := make([]byte, len(b))
	copy(entry, b)

	if len(d.entries) >= maxDeferredEntries {
		d.entries = d.entries[1:]
	}

	d.entries = append(d.entries, entry)

	return len(b), nil
}

// Package ffmpeg drives the external ffmpeg and ffprobe binaries: probing
// source metadata and extracting pre-scaled JPEG frame artifacts into a
// scratch directory at the playback frame rate.
package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"
)

const (
	// cellPixelWidth and cellPixelHeight approximate a terminal character
	// cell, bounding the converter's input size.
	cellPixelWidth  = 8
	cellPixelHeight = 16

	// stderrLimit bounds captured ffmpeg diagnostics.
	stderrLimit = 16 * 1024
)

// ErrStart indicates that ffmpeg could not be started.
var ErrStart = errors.New("starting ffmpeg")

// Job describes one extraction run: one video decoded to numbered JPEG
// artifacts.
type Job struct {
	// Source is a local path or any URL ffmpeg accepts natively.
	Source string
	// OutputPattern is the printf-style artifact template, typically
	// scratch.Dir.Pattern().
	OutputPattern string
	// FPS is the sampling rate; it equals the playback base rate.
	FPS float64
	// Scale selects the pre-scaling mode.
	Scale ScaleMode
	// Cols and Rows give the target character grid. The pixel box is
	// derived using an 8x16 approximation of a character cell.
	Cols, Rows int
}

// args builds the ffmpeg argument list for the job.
func (j Job) args() []string {
	vf := fmt.Sprintf("fps=%.2f,%s", j.FPS,
		j.Scale.filterClause(j.Cols*cellPixelWidth, j.Rows*cellPixelHeight))

	return []string{
		"-nostdin",
		"-loglevel", "warning",
		"-i", j.Source,
		"-vf", vf,
		"-q:v", "2",
		j.OutputPattern,
	}
}

// Extraction supervises a running ffmpeg process.
//
// Create instances with [Start].
type Extraction struct {
	cmd    *exec.Cmd
	stderr *boundedBuffer
}

// Start launches ffmpeg for the job under ctx. Cancelling ctx kills the
// process. A start failure is fatal for the cycle.
func Start(ctx context.Context, bin string, job Job) (*Extraction, error) {
	if bin == "" {
		bin = "ffmpeg"
	}

	stderr := &boundedBuffer{limit: stderrLimit}

	cmd := exec.CommandContext(ctx, bin, job.args()...)
	cmd.Stderr = stderr

	// A killed process can leave descendants holding the stderr pipe open;
	// bound how long Wait keeps draining it once ctx is cancelled.
	cmd.WaitDelay = 250 * time.Millisecond

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStart, err)
	}

	return &Extraction{cmd: cmd, stderr: stderr}, nil
}

// Wait blocks until ffmpeg exits. A non-zero exit after cancellation is
// reported as the context error; otherwise the captured stderr is attached.
func (e *Extraction) Wait(ctx context.Context) error {
	err := e.cmd.Wait()
	if err == nil {
		return nil
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	return fmt.Errorf("ffmpeg exited: %w: %s", err, e.Stderr())
}

// Stderr returns the diagnostics captured so far, truncated to a bounded
// size.
func (e *Extraction) Stderr() string {
	return strings.TrimSpace(e.stderr.String())
}

// boundedBuffer retains at most limit bytes, discarding the tail of
// over-long output. ffmpeg can be arbitrarily chatty on damaged sources.
type boundedBuffer struct {
	mu    sync.Mutex
	buf   []byte
	limit int
}

func (b *boundedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if room := b.limit - len(b.buf); room > 0 {
		if len(p) > room {
			b.buf = append(b.buf, p[:room]...)
		} else {
			b.buf = append(b.buf, p...)
		}
	}

	return len(p), nil
}

func (b *boundedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return string(b.buf)
}

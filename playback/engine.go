package playback

import (
	"context"
	"fmt"
	"io"
	"time"
)

const (
	// cursorHome moves the cursor to the top-left of the display region.
	cursorHome = "\x1b[H"

	// pausedPollInterval is how often the paused loop re-checks state.
	pausedPollInterval = 100 * time.Millisecond

	// defaultStartupGrace bounds time-to-first-frame: the engine starts
	// after this long even if nothing is rendered yet, and simply buffers.
	defaultStartupGrace = 500 * time.Millisecond
)

// Engine paces rendered frames onto the terminal at the target rate.
//
// Create instances with [NewEngine].
type Engine struct {
	state *State
	out   io.Writer

	fps  float64
	rows int

	startupGrace time.Duration
}

// EngineOption configures an [Engine].
type EngineOption func(*Engine)

// WithStartupGrace overrides how long the engine waits for the first
// rendered frame before starting.
func WithStartupGrace(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.startupGrace = d
	}
}

// NewEngine creates an engine writing to out. rows is the display region
// height in character rows; the status line occupies the row below it.
func NewEngine(state *State, out io.Writer, fps float64, rows int, opts ...EngineOption) *Engine {
	e := &Engine{
		state:        state,
		out:          out,
		fps:          fps,
		rows:         rows,
		startupGrace: defaultStartupGrace,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Run drives the playback loop until the video ends naturally or the cycle
// is cancelled. It returns the user's pending action ([ActionFinished] for
// a natural end, [ActionQuit] for cancellation with no recorded action).
// A terminal write failure is cycle-fatal and returned as an error.
func (e *Engine) Run(ctx context.Context) (Action, error) {
	e.state.WaitFirstFrame(ctx, e.startupGrace)

	for {
		if ctx.Err() != nil {
			return e.exitAction(), nil
		}

		if e.state.Paused() {
			if err := e.writeStatus(StatusPaused, e.state.CurrentFrame()); err != nil {
				return ActionQuit, err
			}

			select {
			case <-time.After(pausedPollInterval):
			case <-ctx.Done():
			}

			continue
		}

		current := e.state.CurrentFrame()

		if e.finished(current) {
			return ActionFinished, nil
		}

		if !e.state.ReadyUpTo(current) {
			if err := e.writeStatus(StatusBuffering, current); err != nil {
				return ActionQuit, err
			}

			if err := e.state.WaitFrame(ctx, current); err != nil {
				return e.exitAction(), nil
			}

			continue
		}

		frameStart := time.Now()

		idx, buf := e.state.TakeFrame()

		if buf != nil {
			if _, err := fmt.Fprintf(e.out, "%s%s", cursorHome, buf); err != nil {
				return ActionQuit, fmt.Errorf("writing frame: %w", err)
			}
		}

		if err := e.writeStatus(StatusPlaying, idx); err != nil {
			return ActionQuit, err
		}

		// Render failures paint nothing but still consume a frame period,
		// so the clock keeps pace with the source.
		if remaining := e.framePeriod() - time.Since(frameStart); remaining > 0 {
			select {
			case <-time.After(remaining):
			case <-ctx.Done():
			}
		}
	}
}

// finished reports the natural-end condition: extraction is done and the
// playhead is past the known total, or past everything the drained
// pipeline produced when the total is unknown.
func (e *Engine) finished(current int) bool {
	if !e.state.ExtractionComplete() {
		return false
	}

	if total := e.state.TotalFrames(); total > 0 {
		return current > total
	}

	return e.state.ReadyUpTo(current) && current > e.state.LastRendered()
}

// framePeriod returns the wall-clock duration of one frame at the current
// speed.
func (e *Engine) framePeriod() time.Duration {
	return time.Duration(float64(time.Second) / (e.fps * e.state.Speed()))
}

// exitAction resolves the engine's return value after cancellation.
func (e *Engine) exitAction() Action {
	if a := e.state.Action(); a != ActionNone {
		return a
	}

	return ActionQuit
}

// writeStatus redraws the status line on the row below the display region.
func (e *Engine) writeStatus(status StatusState, frame int) error {
	line := statusLine(status, frame, e.state.TotalFrames(), e.fps, e.state.Speed())

	_, err := fmt.Fprintf(e.out, "\x1b[%d;1H\x1b[K%s", e.rows+1, line)
	if err != nil {
		return fmt.Errorf("writing status line: %w", err)
	}

	return nil
}

// WriteFinished paints the post-playback status line shown while waiting
// for a track change or quit.
func (e *Engine) WriteFinished() error {
	line := statusLine(StatusFinished, e.state.TotalFrames(), e.state.TotalFrames(), e.fps, e.state.Speed())

	_, err := fmt.Fprintf(e.out, "\x1b[%d;1H\x1b[K%s", e.rows+1, line)
	if err != nil {
		return fmt.Errorf("writing status line: %w", err)
	}

	return nil
}

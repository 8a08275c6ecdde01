package player

import (
	"context"
	"sync"

	"go.jacobcolvin.com/termvid/playback"
	"go.jacobcolvin.com/termvid/terminal"
)

// controller routes decoded keys from the process-wide input reader into
// the current cycle's playback state. The reader outlives cycles; the
// controller swaps its target as cycles begin and end.
type controller struct {
	mu     sync.Mutex
	state  *playback.State
	cancel context.CancelFunc
}

// attach points the controller at a new cycle.
func (c *controller) attach(state *playback.State, cancel context.CancelFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = state
	c.cancel = cancel
}

// detach drops the current cycle; keys are ignored until the next attach.
func (c *controller) detach() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = nil
	c.cancel = nil
}

// Handle applies one key to the attached cycle. Track changes and quit
// record the action first, then cancel the cycle, so teardown observes a
// decided action.
func (c *controller) Handle(key terminal.Key) {
	c.mu.Lock()
	state, cancel := c.state, c.cancel
	c.mu.Unlock()

	if state == nil {
		return
	}

	switch key {
	case terminal.KeyPause:
		state.TogglePause()
	case terminal.KeySpeedUp:
		state.SpeedUp()
	case terminal.KeySpeedDown:
		state.SpeedDown()
	case terminal.KeySeekForward:
		state.SeekForward()
	case terminal.KeySeekBack:
		state.SeekBackward()
	case terminal.KeyQuit:
		state.SetAction(playback.ActionQuit)
		cancel()
	case terminal.KeyPrev:
		state.SetAction(playback.ActionPrev)
		cancel()
	case terminal.KeyNext:
		state.SetAction(playback.ActionNext)
		cancel()
	case terminal.KeyNone:
	}
}

package playback

import (
	"context"
	"sync"
	"time"
)

// Action is the user's pending track-level request.
type Action string

const (
	// ActionNone means playback proceeds normally.
	ActionNone Action = ""
	// ActionNext switches to the next playlist entry.
	ActionNext Action = "next"
	// ActionPrev switches to the previous playlist entry.
	ActionPrev Action = "prev"
	// ActionQuit exits the player.
	ActionQuit Action = "quit"
	// ActionFinished reports that a video ended naturally.
	ActionFinished Action = "finished"
)

// defaultRewindSlack is how many already-displayed frames the store retains
// behind the playhead so short backward seeks stay cheap.
const defaultRewindSlack = 256

// State is the shared playback state for one cycle.
//
// Every field is guarded by one mutex; one condition variable over the same
// mutex signals frame readiness, room availability, and extraction
// completion, so no wakeup can be lost between a store write and a waiting
// reader.
//
// Create instances with [NewState].
type State struct {
	mu   sync.Mutex
	cond *sync.Cond

	// Frame store. frames holds rendered buffers keyed by 1-based index;
	// presence of a key marks the frame as rendered even when the buffer is
	// nil (a render failure, skipped on display). lastRendered is the
	// largest N such that frames 1..N have all been rendered. floor is the
	// lowest retained index; entries below it have been evicted.
	frames       map[int][]byte
	lastRendered int
	floor        int

	// Ring bound: maximum retained entries; 0 disables eviction and the
	// dispatcher's room wait (preload mode).
	capacity    int
	rewindSlack int

	// Playback position and controls.
	currentFrame int
	totalFrames  int
	paused       bool
	speedIndex   int
	seekFrames   int
	action       Action

	extractionComplete bool
	renderingComplete  bool
}

// Option configures a [State].
type Option func(*State)

// WithCapacity bounds the number of retained rendered frames. n <= 0
// disables the bound.
func WithCapacity(n int) Option {
	return func(s *State) {
		if n < 0 {
			n = 0
		}

		s.capacity = n
	}
}

// WithRewindSlack sets how many frames behind the playhead remain
// retained for backward seeks.
func WithRewindSlack(n int) Option {
	return func(s *State) {
		if n < 0 {
			n = 0
		}

		s.rewindSlack = n
	}
}

// NewState creates the state for one cycle. totalFrames may be 0 when the
// source duration is unknown; seekFrames is the per-keypress seek distance
// in frames.
func NewState(totalFrames, seekFrames int, opts ...Option) *State {
	s := &State{
		frames:       make(map[int][]byte),
		floor:        1,
		currentFrame: 1,
		totalFrames:  totalFrames,
		speedIndex:   defaultSpeedIndex,
		seekFrames:   seekFrames,
		rewindSlack:  defaultRewindSlack,
	}

	s.cond = sync.NewCond(&s.mu)

	for _, opt := range opts {
		opt(s)
	}

	// The slack must stay below the capacity or the dispatcher could
	// never reach the playhead: eviction only frees frames more than
	// rewindSlack behind it.
	if s.capacity > 0 && s.rewindSlack >= s.capacity {
		s.rewindSlack = s.capacity / 2
	}

	return s
}

// broadcast wakes every waiter. Used by [context.AfterFunc] so cancellation
// reaches goroutines parked on the condition variable.
func (s *State) broadcast() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cond.Broadcast()
}

// TogglePause flips the paused flag.
func (s *State) TogglePause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.paused = !s.paused
}

// Paused reports whether playback is paused.
func (s *State) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.paused
}

// SpeedUp moves one step up the multiplier ladder, clamped at the top.
func (s *State) SpeedUp() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.speedIndex < len(speedLadder)-1 {
		s.speedIndex++
	}
}

// SpeedDown moves one step down the multiplier ladder, clamped at the
// bottom.
func (s *State) SpeedDown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.speedIndex > 0 {
		s.speedIndex--
	}
}

// Speed returns the current playback rate multiplier.
func (s *State) Speed() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return speedLadder[s.speedIndex]
}

// SeekForward jumps the playhead forward by the configured seek distance,
// clamped below the final frame when the total is known. Frames skipped
// over become eligible for eviction, freeing room for the dispatcher.
func (s *State) SeekForward() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.currentFrame += s.seekFrames

	if s.totalFrames > 0 && s.currentFrame >= s.totalFrames {
		s.currentFrame = s.totalFrames - 1
	}

	if s.currentFrame < 1 {
		s.currentFrame = 1
	}

	s.evictLocked()
	s.cond.Broadcast()
}

// SeekBackward jumps the playhead backward, clamped to the first frame and
// to the store's retained floor: a seek can never target an evicted frame,
// which would buffer forever since frames are rendered at most once.
func (s *State) SeekBackward() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.currentFrame -= s.seekFrames

	if s.currentFrame < s.floor {
		s.currentFrame = s.floor
	}

	if s.currentFrame < 1 {
		s.currentFrame = 1
	}

	s.cond.Broadcast()
}

// SetAction records the user's track-level request. The first action wins;
// later keypresses during teardown do not overwrite it.
func (s *State) SetAction(a Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.action == ActionNone {
		s.action = a
	}

	s.cond.Broadcast()
}

// Action returns the pending user action.
func (s *State) Action() Action {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.action
}

// WaitAction parks the caller until an action is recorded or ctx is
// cancelled. Used by the post-playback wait after a video finishes.
func (s *State) WaitAction(ctx context.Context) Action {
	stop := context.AfterFunc(ctx, s.broadcast)
	defer stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	for s.action == ActionNone && ctx.Err() == nil {
		s.cond.Wait()
	}

	if s.action == ActionNone {
		return ActionQuit
	}

	return s.action
}

// MarkExtractionComplete records that the extractor exited. Sticky for the
// cycle's lifetime.
func (s *State) MarkExtractionComplete() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.extractionComplete = true
	s.cond.Broadcast()
}

// ExtractionComplete reports whether the extractor has exited.
func (s *State) ExtractionComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.extractionComplete
}

// MarkRenderingComplete records that the converter pool has drained: no
// further store writes will occur.
func (s *State) MarkRenderingComplete() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.renderingComplete = true
	s.cond.Broadcast()
}

// RenderingComplete reports whether the converter pool has drained.
func (s *State) RenderingComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.renderingComplete
}

// SetTotalFrames updates the estimated frame count once probing resolves.
func (s *State) SetTotalFrames(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalFrames = n
}

// TotalFrames returns the estimated frame count; 0 when unknown.
func (s *State) TotalFrames() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.totalFrames
}

// CurrentFrame returns the next frame index to display.
func (s *State) CurrentFrame() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.currentFrame
}

// TakeFrame returns the current frame index and its rendered buffer, then
// advances the playhead by one. The buffer is nil for skipped frames.
// Consuming a frame may free room for the dispatcher.
func (s *State) TakeFrame() (int, []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.currentFrame
	buf := s.frames[idx]

	s.currentFrame++

	s.evictLocked()
	s.cond.Broadcast()

	return idx, buf
}

// WaitFirstFrame blocks until the first frame is rendered, the startup
// grace period expires, or ctx is cancelled. Starting early just means the
// engine buffers.
func (s *State) WaitFirstFrame(ctx context.Context, grace time.Duration) {
	stop := context.AfterFunc(ctx, s.broadcast)
	defer stop()

	timer := time.AfterFunc(grace, s.broadcast)
	defer timer.Stop()

	deadline := time.Now().Add(grace)

	s.mu.Lock()
	defer s.mu.Unlock()

	for s.lastRendered < 1 && ctx.Err() == nil && time.Now().Before(deadline) {
		s.cond.Wait()
	}
}

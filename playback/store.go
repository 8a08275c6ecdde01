package playback

import "context"

// Put stores the rendered buffer for frame i and advances the contiguous
// high-water mark. Entries are written at most once per cycle; a second
// write for the same index is ignored. buf may be nil for a failed render,
// which the engine skips on display.
func (s *State) Put(i int, buf []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.frames[i]; ok || i < s.floor {
		return
	}

	s.frames[i] = buf

	for {
		if _, ok := s.frames[s.lastRendered+1]; !ok {
			break
		}

		s.lastRendered++
	}

	s.evictLocked()
	s.cond.Broadcast()
}

// Get returns the stored buffer for frame i; nil for skipped or evicted
// frames. The returned value is stable once set.
func (s *State) Get(i int) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.frames[i]
}

// LastRendered returns the high-water mark: the largest N such that frames
// 1..N are all rendered. Monotonic within a cycle.
func (s *State) LastRendered() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastRendered
}

// Floor returns the lowest retained frame index.
func (s *State) Floor() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.floor
}

// ReadyUpTo reports whether the engine may proceed at frame i: the frame is
// within the contiguous rendered prefix, or no render for it will ever
// arrive because the pipeline has drained past the end of the video.
func (s *State) ReadyUpTo(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.readyLocked(i)
}

func (s *State) readyLocked(i int) bool {
	if s.lastRendered >= i {
		return true
	}

	if !s.extractionComplete {
		return false
	}

	if s.totalFrames > 0 && i > s.totalFrames {
		return true
	}

	return s.renderingComplete && i > s.lastRendered
}

// WaitFrame parks the caller until [State.ReadyUpTo] holds for i or ctx is
// cancelled.
func (s *State) WaitFrame(ctx context.Context, i int) error {
	stop := context.AfterFunc(ctx, s.broadcast)
	defer stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	for !s.readyLocked(i) && ctx.Err() == nil {
		s.cond.Wait()
	}

	return ctx.Err()
}

// WaitRoom parks the dispatcher until the store has room for frame i under
// the ring bound, or ctx is cancelled. With no bound configured it returns
// immediately.
func (s *State) WaitRoom(ctx context.Context, i int) error {
	if s.capacity <= 0 {
		return ctx.Err()
	}

	stop := context.AfterFunc(ctx, s.broadcast)
	defer stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	for i >= s.floor+s.capacity && ctx.Err() == nil {
		s.cond.Wait()
	}

	return ctx.Err()
}

// evictLocked drops rendered frames that have fallen more than the rewind
// slack behind the playhead, advancing the retained floor. Only frames
// inside the contiguous prefix are evicted; scattered out-of-order entries
// above the high-water mark must survive or the mark could never pass
// them.
func (s *State) evictLocked() {
	if s.capacity <= 0 {
		return
	}

	evictTo := s.currentFrame - s.rewindSlack

	if limit := s.lastRendered + 1; evictTo > limit {
		evictTo = limit
	}

	for i := s.floor; i < evictTo; i++ {
		delete(s.frames, i)
	}

	if evictTo > s.floor {
		s.floor = evictTo
	}
}

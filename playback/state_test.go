package playback_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"go.jacobcolvin.com/termvid/playback"
)

func TestSpeedLadderClamps(t *testing.T) {
	t.Parallel()

	s := playback.NewState(100, 75)

	assert.InDelta(t, 1.00, s.Speed(), 1e-9)

	// Up past the top clamps at 2.00x.
	for range 10 {
		s.SpeedUp()
	}

	assert.InDelta(t, 2.00, s.Speed(), 1e-9)

	// Down past the bottom clamps at 0.25x.
	for range 20 {
		s.SpeedDown()
	}

	assert.InDelta(t, 0.25, s.Speed(), 1e-9)
}

func TestSpeedRoundTrip(t *testing.T) {
	t.Parallel()

	s := playback.NewState(100, 75)

	s.SpeedUp()
	s.SpeedUp()
	s.SpeedDown()
	s.SpeedDown()

	assert.InDelta(t, 1.00, s.Speed(), 1e-9)
}

func TestPauseRoundTrip(t *testing.T) {
	t.Parallel()

	s := playback.NewState(100, 75)

	assert.False(t, s.Paused())

	s.TogglePause()
	assert.True(t, s.Paused())

	s.TogglePause()
	assert.False(t, s.Paused())
}

func TestSeekForwardClampsToKnownEnd(t *testing.T) {
	t.Parallel()

	s := playback.NewState(150, 75)

	s.SeekForward()
	assert.Equal(t, 76, s.CurrentFrame())

	s.SeekForward()
	assert.Equal(t, 149, s.CurrentFrame(), "seek past end clamps to totalFrames-1")
}

func TestSeekBackwardClampsToStart(t *testing.T) {
	t.Parallel()

	s := playback.NewState(150, 75)

	s.SeekBackward()
	assert.Equal(t, 1, s.CurrentFrame())
}

func TestSeekRoundTrip(t *testing.T) {
	t.Parallel()

	s := playback.NewState(1000, 75)

	// Advance away from the boundaries so neither clamp engages.
	for range 200 {
		s.Put(s.LastRendered()+1, []byte("x"))
	}

	for range 2 {
		_, _ = s.TakeFrame()
	}

	before := s.CurrentFrame()

	s.SeekForward()
	s.SeekBackward()

	assert.Equal(t, before, s.CurrentFrame())
}

func TestSeekForwardUnknownTotal(t *testing.T) {
	t.Parallel()

	s := playback.NewState(0, 75)

	s.SeekForward()
	assert.Equal(t, 76, s.CurrentFrame(), "no end clamp while the total is unknown")
}

func TestActionFirstWins(t *testing.T) {
	t.Parallel()

	s := playback.NewState(100, 75)

	assert.Equal(t, playback.ActionNone, s.Action())

	s.SetAction(playback.ActionNext)
	s.SetAction(playback.ActionQuit)

	assert.Equal(t, playback.ActionNext, s.Action())
}

func TestExtractionCompleteSticky(t *testing.T) {
	t.Parallel()

	s := playback.NewState(100, 75)

	assert.False(t, s.ExtractionComplete())

	s.MarkExtractionComplete()
	assert.True(t, s.ExtractionComplete())

	s.MarkExtractionComplete()
	assert.True(t, s.ExtractionComplete())
}

func TestWaitFirstFrameTimesOut(t *testing.T) {
	t.Parallel()

	s := playback.NewState(100, 75)

	start := time.Now()
	s.WaitFirstFrame(t.Context(), 50*time.Millisecond)

	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond)
	assert.Less(t, elapsed, time.Second)
}

func TestWaitFirstFrameWakesOnPut(t *testing.T) {
	t.Parallel()

	s := playback.NewState(100, 75)

	go func() {
		time.Sleep(20 * time.Millisecond)
		s.Put(1, []byte("frame"))
	}()

	start := time.Now()
	s.WaitFirstFrame(t.Context(), 5*time.Second)

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 1, s.LastRendered())
}

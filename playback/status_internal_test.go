package playback

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTime(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		frame int
		fps   float64
		want  string
	}{
		"zero":            {frame: 0, fps: 15, want: "00:00"},
		"two seconds":     {frame: 30, fps: 15, want: "00:02"},
		"over a minute":   {frame: 1000, fps: 15, want: "01:06"},
		"fractional rate": {frame: 45, fps: 29.97, want: "00:01"},
		"zero fps":        {frame: 30, fps: 0, want: "00:00"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, formatTime(tc.frame, tc.fps))
		})
	}
}

func TestStatusLine(t *testing.T) {
	t.Parallel()

	line := statusLine(StatusPlaying, 30, 30, 15, 1.0)

	assert.Contains(t, line, "PLAYING")
	assert.Contains(t, line, "00:02 / 00:02")
	assert.Contains(t, line, "Speed: 1.00x")
	assert.Contains(t, line, "Q:Quit")
}

func TestStatusLineUnknownTotal(t *testing.T) {
	t.Parallel()

	line := statusLine(StatusBuffering, 10, 0, 15, 1.25)

	assert.Contains(t, line, "BUFFERING")
	assert.Contains(t, line, "??:??")
	assert.Contains(t, line, "Speed: 1.25x")
}

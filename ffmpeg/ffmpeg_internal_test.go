package ffmpeg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobArgs(t *testing.T) {
	t.Parallel()

	job := Job{
		Source:        "video.mp4",
		OutputPattern: "/tmp/s/frames/frame-%05d.jpg",
		FPS:           15,
		Scale:         ScaleFit,
		Cols:          80,
		Rows:          23,
	}

	args := job.args()

	assert.Equal(t, "-nostdin", args[0])
	assert.Contains(t, args, "-i")
	assert.Contains(t, args, "video.mp4")
	assert.Contains(t, args, "fps=15.00,scale=640:368:force_original_aspect_ratio=decrease")
	assert.Equal(t, "/tmp/s/frames/frame-%05d.jpg", args[len(args)-1])
}

func TestScaleModeFilterClause(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		mode ScaleMode
		want string
	}{
		"fit": {
			mode: ScaleFit,
			want: "scale=640:368:force_original_aspect_ratio=decrease",
		},
		"fill": {
			mode: ScaleFill,
			want: "scale=640:368:force_original_aspect_ratio=increase,crop=640:368",
		},
		"stretch": {
			mode: ScaleStretch,
			want: "scale=640:368",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tc.mode.filterClause(640, 368))
		})
	}
}

func TestParseScaleMode(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input       string
		expected    ScaleMode
		expectError bool
	}{
		"fit":              {input: "fit", expected: ScaleFit},
		"fill":             {input: "fill", expected: ScaleFill},
		"stretch":          {input: "stretch", expected: ScaleStretch},
		"case insensitive": {input: "FIT", expected: ScaleFit},
		"unknown":          {input: "cover", expectError: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			mode, err := ParseScaleMode(tc.input)
			if tc.expectError {
				require.ErrorIs(t, err, ErrUnknownScaleMode)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expected, mode)
			}
		})
	}
}

func TestParseProbeOutput(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input       string
		duration    float64
		expectError bool
	}{
		"plain duration":   {input: "2.000000\n", duration: 2},
		"fractional":       {input: "61.5", duration: 61.5},
		"not available":    {input: "N/A\n", duration: 0},
		"empty":            {input: "", duration: 0},
		"garbage":          {input: "xyz", expectError: true},
		"trailing spaces":  {input: "  3.25  ", duration: 3.25},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			info, err := parseProbeOutput(tc.input)
			if tc.expectError {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.InDelta(t, tc.duration, info.Duration, 1e-9)
		})
	}
}

func TestTotalFrames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 30, Info{Duration: 2}.TotalFrames(15))
	assert.Equal(t, 31, Info{Duration: 2.01}.TotalFrames(15))
	assert.Equal(t, 0, Info{}.TotalFrames(15))
	assert.Equal(t, 0, Info{Duration: 2}.TotalFrames(0))
}

func TestBoundedBuffer(t *testing.T) {
	t.Parallel()

	b := &boundedBuffer{limit: 8}

	n, err := b.Write([]byte("0123456"))
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	// Write never reports a short count even when truncating.
	n, err = b.Write([]byte("789abcdef"))
	require.NoError(t, err)
	assert.Equal(t, 9, n)

	assert.Equal(t, "01234567", b.String())
	assert.True(t, strings.HasPrefix(b.String(), "0123"))
}

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/termvid/config"
	"go.jacobcolvin.com/termvid/ffmpeg"
	"go.jacobcolvin.com/termvid/render"
)

func newFlagSet(cfg *config.Config) *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.RegisterFlags(flags)

	return flags
}

func TestResolveDefaults(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	newFlagSet(cfg)

	s, err := cfg.Resolve("video.mp4", 120, 40)
	require.NoError(t, err)

	assert.Equal(t, "video.mp4", s.Source)
	assert.InDelta(t, 15.0, s.FPS, 1e-9)
	assert.Equal(t, ffmpeg.ScaleFit, s.Scale)
	assert.Equal(t, render.Colors256, s.Colors)
	assert.Equal(t, render.DitherOrdered, s.Dither)
	assert.Equal(t, render.SymbolsBlock, s.Symbols)
	assert.Equal(t, config.ModeStream, s.Mode)
	assert.Equal(t, config.RendererAuto, s.Renderer)
	assert.Equal(t, 120, s.Cols)
	assert.Equal(t, 39, s.Rows, "one row reserved for the status line")
	assert.Equal(t, 512, s.Buffer)
	assert.Equal(t, 75, s.SeekFrames())
}

func TestResolveExplicitDimensions(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	newFlagSet(cfg)

	cfg.Width = 80
	cfg.Height = 20

	s, err := cfg.Resolve("video.mp4", 200, 60)
	require.NoError(t, err)

	assert.Equal(t, 80, s.Cols)
	assert.Equal(t, 20, s.Rows)
}

func TestResolveFPSValidation(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		fps         float64
		want        float64
		expectError bool
	}{
		"normal":       {fps: 24, want: 24},
		"zero":         {fps: 0, expectError: true},
		"negative":     {fps: -5, expectError: true},
		"above cap":    {fps: 144, want: 60},
		"fractional":   {fps: 23.976, want: 23.976},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			newFlagSet(cfg)

			cfg.FPS = tc.fps

			s, err := cfg.Resolve("video.mp4", 80, 24)
			if tc.expectError {
				require.ErrorIs(t, err, config.ErrInvalidFPS)

				return
			}

			require.NoError(t, err)
			assert.InDelta(t, tc.want, s.FPS, 1e-9)
		})
	}
}

func TestResolveRejectsBadEnums(t *testing.T) {
	t.Parallel()

	tcs := map[string]func(*config.Config){
		"bad scale":    func(c *config.Config) { c.Scale = "zoom" },
		"bad colors":   func(c *config.Config) { c.Colors = "millions" },
		"bad dither":   func(c *config.Config) { c.Dither = "floyd" },
		"bad symbols":  func(c *config.Config) { c.Symbols = "emoji" },
		"bad mode":     func(c *config.Config) { c.Mode = "live" },
		"bad renderer": func(c *config.Config) { c.Renderer = "sixel" },
	}

	for name, mutate := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			newFlagSet(cfg)
			mutate(cfg)

			_, err := cfg.Resolve("video.mp4", 80, 24)
			require.Error(t, err)
		})
	}
}

func TestResolvePreloadDisablesRingBound(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	newFlagSet(cfg)

	cfg.Mode = "preload"

	s, err := cfg.Resolve("video.mp4", 80, 24)
	require.NoError(t, err)
	assert.Zero(t, s.Buffer)
}

func TestFileApplyRespectsExplicitFlags(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	flags := newFlagSet(cfg)

	require.NoError(t, flags.Parse([]string{"--fps", "30"}))

	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte("fps: 10\ncolors: full\nloop: true\n"), 0o600)
	require.NoError(t, err)

	f, err := config.LoadFile(path)
	require.NoError(t, err)

	f.Apply(cfg, flags)

	assert.InDelta(t, 30.0, cfg.FPS, 1e-9, "explicit flag beats file value")
	assert.Equal(t, "full", cfg.Colors, "file fills unset flags")
	assert.True(t, cfg.Loop)
}

func TestLoadFileErrors(t *testing.T) {
	t.Parallel()

	_, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("unknown_key: 1\n"), 0o600))

	_, err = config.LoadFile(path)
	require.Error(t, err, "unknown keys are rejected")
}

func TestRegisterCompletions(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()

	cmd := &cobra.Command{Use: "test"}
	cfg.RegisterFlags(cmd.Flags())

	require.NoError(t, cfg.RegisterCompletions(cmd))

	completionFn, ok := cmd.GetFlagCompletionFunc("scale")
	require.True(t, ok)

	values, directive := completionFn(cmd, nil, "")
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
	assert.Equal(t, ffmpeg.AllScaleModeStrings(), values)
}

func TestSchema(t *testing.T) {
	t.Parallel()

	out, err := config.Schema()
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "termvid configuration")
	assert.Contains(t, s, "fps")
	assert.Contains(t, s, "renderer")
}

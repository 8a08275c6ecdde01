// Package config holds the player's CLI surface: flag registration, the
// optional YAML defaults file, and resolution of flag strings into the
// typed settings the player consumes.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.jacobcolvin.com/termvid/ffmpeg"
	"go.jacobcolvin.com/termvid/render"
)

// maxFPS caps the extraction and playback rate. Higher rates multiply
// converter processes without a visible payoff in a terminal.
const maxFPS = 60

var (
	// ErrInvalidFPS indicates a non-positive frame rate.
	ErrInvalidFPS = errors.New("fps must be positive")
	// ErrUnknownPlayMode indicates an unrecognized play mode string.
	ErrUnknownPlayMode = errors.New("unknown play mode")
	// ErrUnknownRenderer indicates an unrecognized renderer string.
	ErrUnknownRenderer = errors.New("unknown renderer")
)

// PlayMode selects how the pipeline and the engine are sequenced.
type PlayMode string

const (
	// ModeStream starts playback while extraction is still running.
	ModeStream PlayMode = "stream"
	// ModePreload renders every frame before playback starts.
	ModePreload PlayMode = "preload"
)

// Renderer selects the frame converter implementation.
type Renderer string

const (
	// RendererAuto uses chafa when installed, otherwise the native
	// half-block renderer.
	RendererAuto Renderer = "auto"
	// RendererChafa requires the chafa CLI.
	RendererChafa Renderer = "chafa"
	// RendererNative always uses the built-in half-block renderer.
	RendererNative Renderer = "native"
)

// ParsePlayMode parses a play mode string.
func ParsePlayMode(s string) (PlayMode, error) {
	switch PlayMode(strings.ToLower(s)) {
	case ModeStream:
		return ModeStream, nil
	case ModePreload:
		return ModePreload, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownPlayMode, s)
}

// ParseRenderer parses a renderer string.
func ParseRenderer(s string) (Renderer, error) {
	switch Renderer(strings.ToLower(s)) {
	case RendererAuto:
		return RendererAuto, nil
	case RendererChafa:
		return RendererChafa, nil
	case RendererNative:
		return RendererNative, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownRenderer, s)
}

// Flags holds CLI flag names for player configuration, allowing callers to
// customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	FPS      string
	Scale    string
	Colors   string
	Dither   string
	Symbols  string
	Width    string
	Height   string
	Threads  string
	Mode     string
	Renderer string
	Buffer   string
	Seek     string
	Loop     string
	Quiet    string
	File     string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags: f,
	}
}

// Config holds CLI flag values for player configuration.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.Resolve] to turn the raw values into
// typed [Settings].
type Config struct {
	Flags Flags

	FPS      float64
	Scale    string
	Colors   string
	Dither   string
	Symbols  string
	Width    int
	Height   int
	Threads  int
	Mode     string
	Renderer string
	Buffer   int
	Seek     int
	Loop     bool
	Quiet    bool
	File     string
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		FPS:      "fps",
		Scale:    "scale",
		Colors:   "colors",
		Dither:   "dither",
		Symbols:  "symbols",
		Width:    "width",
		Height:   "height",
		Threads:  "threads",
		Mode:     "mode",
		Renderer: "renderer",
		Buffer:   "buffer",
		Seek:     "seek",
		Loop:     "loop",
		Quiet:    "quiet",
		File:     "config",
	}

	return f.NewConfig()
}

// RegisterFlags adds player flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.Float64Var(&c.FPS, c.Flags.FPS, 15, "extraction and playback frames per second")
	flags.StringVar(&c.Scale, c.Flags.Scale, string(ffmpeg.ScaleFit),
		fmt.Sprintf("scale mode, one of: %s", ffmpeg.AllScaleModeStrings()))
	flags.StringVar(&c.Colors, c.Flags.Colors, string(render.Colors256),
		fmt.Sprintf("color mode, one of: %s", render.AllColorModeStrings()))
	flags.StringVar(&c.Dither, c.Flags.Dither, string(render.DitherOrdered),
		fmt.Sprintf("dither mode, one of: %s", render.AllDitherModeStrings()))
	flags.StringVar(&c.Symbols, c.Flags.Symbols, string(render.SymbolsBlock),
		fmt.Sprintf("symbol set, one of: %s", render.AllSymbolSetStrings()))
	flags.IntVar(&c.Width, c.Flags.Width, 0, "display width in columns (0 = terminal width)")
	flags.IntVar(&c.Height, c.Flags.Height, 0, "display height in rows (0 = terminal height minus status line)")
	flags.IntVar(&c.Threads, c.Flags.Threads, runtime.NumCPU(), "parallel converter workers")
	flags.StringVar(&c.Mode, c.Flags.Mode, string(ModeStream), "play mode, one of: [stream preload]")
	flags.StringVar(&c.Renderer, c.Flags.Renderer, string(RendererAuto), "frame renderer, one of: [auto chafa native]")
	flags.IntVar(&c.Buffer, c.Flags.Buffer, 512, "maximum rendered frames held in memory (stream mode)")
	flags.IntVar(&c.Seek, c.Flags.Seek, 5, "seconds jumped per seek keypress")
	flags.BoolVar(&c.Loop, c.Flags.Loop, false, "restart playback when the video ends")
	flags.BoolVar(&c.Quiet, c.Flags.Quiet, false, "suppress preload progress output")
	flags.StringVar(&c.File, c.Flags.File, "", "YAML config file supplying flag defaults")
}

// RegisterCompletions registers shell completions for enum-valued flags on
// cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	completions := map[string][]string{
		c.Flags.Scale:    ffmpeg.AllScaleModeStrings(),
		c.Flags.Colors:   render.AllColorModeStrings(),
		c.Flags.Dither:   render.AllDitherModeStrings(),
		c.Flags.Symbols:  render.AllSymbolSetStrings(),
		c.Flags.Mode:     {string(ModeStream), string(ModePreload)},
		c.Flags.Renderer: {string(RendererAuto), string(RendererChafa), string(RendererNative)},
	}

	for flag, values := range completions {
		err := cmd.RegisterFlagCompletionFunc(flag,
			cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", flag, err)
		}
	}

	return nil
}

// Settings is the fully parsed player configuration. All closed
// enumerations are typed; strings exist only at the CLI boundary.
type Settings struct {
	Source   string
	FPS      float64
	Scale    ffmpeg.ScaleMode
	Colors   render.ColorMode
	Dither   render.DitherMode
	Symbols  render.SymbolSet
	Mode     PlayMode
	Renderer Renderer
	Cols     int
	Rows     int
	Threads  int
	Buffer   int
	SeekSec  int
	Loop     bool
	Quiet    bool
}

// Resolve validates the raw flag values against source and the terminal
// grid, returning typed settings. termCols and termRows give the full
// terminal size; one row is reserved for the status line.
func (c *Config) Resolve(source string, termCols, termRows int) (Settings, error) {
	s := Settings{
		Source:  source,
		FPS:     c.FPS,
		Threads: c.Threads,
		Buffer:  c.Buffer,
		SeekSec: c.Seek,
		Loop:    c.Loop,
		Quiet:   c.Quiet,
	}

	if s.FPS <= 0 {
		return Settings{}, ErrInvalidFPS
	}

	if s.FPS > maxFPS {
		s.FPS = maxFPS
	}

	if s.Threads < 1 {
		s.Threads = runtime.NumCPU()
	}

	if s.SeekSec < 1 {
		s.SeekSec = 5
	}

	var err error

	if s.Scale, err = ffmpeg.ParseScaleMode(c.Scale); err != nil {
		return Settings{}, err
	}

	if s.Colors, err = render.ParseColorMode(c.Colors); err != nil {
		return Settings{}, err
	}

	if s.Dither, err = render.ParseDitherMode(c.Dither); err != nil {
		return Settings{}, err
	}

	if s.Symbols, err = render.ParseSymbolSet(c.Symbols); err != nil {
		return Settings{}, err
	}

	if s.Mode, err = ParsePlayMode(c.Mode); err != nil {
		return Settings{}, err
	}

	if s.Renderer, err = ParseRenderer(c.Renderer); err != nil {
		return Settings{}, err
	}

	s.Cols = c.Width
	if s.Cols <= 0 {
		s.Cols = termCols
	}

	s.Rows = c.Height
	if s.Rows <= 0 {
		s.Rows = termRows - 1
	}

	if s.Rows < 1 {
		s.Rows = 1
	}

	// Preload holds the whole video in memory; the ring bound only
	// applies while streaming.
	if s.Mode == ModePreload {
		s.Buffer = 0
	}

	return s, nil
}

// SeekFrames returns the per-keypress seek distance in frames.
func (s Settings) SeekFrames() int {
	return int(s.FPS * float64(s.SeekSec))
}

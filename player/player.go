// Package player runs the playlist control loop: for each video it wires
// the extractor, the converter pipeline, and the playback engine together
// under one cancellation scope, then acts on the user's track-level
// request.
package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"time"

	"golang.org/x/sync/errgroup"

	"go.jacobcolvin.com/termvid/config"
	"go.jacobcolvin.com/termvid/ffmpeg"
	"go.jacobcolvin.com/termvid/pipeline"
	"go.jacobcolvin.com/termvid/playback"
	"go.jacobcolvin.com/termvid/playlist"
	"go.jacobcolvin.com/termvid/render"
	"go.jacobcolvin.com/termvid/scratch"
	"go.jacobcolvin.com/termvid/terminal"
)

var (
	// ErrMissingDependency indicates a required external binary is absent.
	ErrMissingDependency = errors.New("missing dependency")
	// ErrNoFrames indicates the extractor produced no frames at all.
	ErrNoFrames = errors.New("no frames extracted")
)

// Player coordinates playback of a playlist.
//
// Create instances with [New].
type Player struct {
	settings config.Settings
	out      io.Writer
	input    inputSource
	logger   *slog.Logger

	ffmpegBin  string
	ffprobeBin string
	chafaBin   string

	startupGrace time.Duration
	progress     io.Writer
}

// inputSource is anything the keyboard reader can wrap; os.Stdin in
// production.
type inputSource = io.Reader

// Option configures a [Player].
type Option func(*Player)

// WithLogger sets the player's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Player) {
		p.logger = logger
	}
}

// WithInput overrides the keyboard input source.
func WithInput(in inputSource) Option {
	return func(p *Player) {
		p.input = in
	}
}

// WithBinaries overrides the external binary paths. Empty strings keep
// the PATH defaults.
func WithBinaries(ffmpegBin, ffprobeBin, chafaBin string) Option {
	return func(p *Player) {
		p.ffmpegBin = ffmpegBin
		p.ffprobeBin = ffprobeBin
		p.chafaBin = chafaBin
	}
}

// WithStartupGrace overrides the engine's first-frame grace period.
func WithStartupGrace(d time.Duration) Option {
	return func(p *Player) {
		p.startupGrace = d
	}
}

// WithProgressWriter sets where preload progress is written.
func WithProgressWriter(w io.Writer) Option {
	return func(p *Player) {
		p.progress = w
	}
}

// New creates a player writing frames to out.
func New(settings config.Settings, out io.Writer, opts ...Option) *Player {
	p := &Player{
		settings:     settings,
		out:          out,
		logger:       slog.Default(),
		startupGrace: 500 * time.Millisecond,
		progress:     io.Discard,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// CheckDependencies verifies the external binaries the settings require
// are reachable, before any terminal state is touched. With the auto
// renderer a missing chafa is not an error; the native renderer covers it.
func (p *Player) CheckDependencies() error {
	required := []string{nonEmpty(p.ffmpegBin, "ffmpeg"), nonEmpty(p.ffprobeBin, "ffprobe")}

	if p.settings.Renderer == config.RendererChafa {
		required = append(required, nonEmpty(p.chafaBin, "chafa"))
	}

	for _, bin := range required {
		if _, err := exec.LookPath(bin); err != nil {
			return fmt.Errorf("%w: %s", ErrMissingDependency, bin)
		}
	}

	return nil
}

// renderer builds the frame converter for the configured settings.
func (p *Player) renderer() render.Renderer {
	opts := render.Options{
		Cols:    p.settings.Cols,
		Rows:    p.settings.Rows,
		Symbols: p.settings.Symbols,
		Colors:  p.settings.Colors,
		Dither:  p.settings.Dither,
	}

	switch p.settings.Renderer {
	case config.RendererChafa:
		return render.NewChafa(p.chafaBin, opts)

	case config.RendererNative:
		return render.NewHalfBlock(p.settings.Cols, p.settings.Rows)
	}

	if _, err := exec.LookPath(nonEmpty(p.chafaBin, "chafa")); err != nil {
		p.logger.Info("chafa not found, using native renderer")

		return render.NewHalfBlock(p.settings.Cols, p.settings.Rows)
	}

	return render.NewChafa(p.chafaBin, opts)
}

// Run plays the playlist derived from the configured source until the
// user quits or the process context is cancelled. The input reader lives
// for the whole call; each video runs under its own cancellation scope.
func (p *Player) Run(ctx context.Context) error {
	list, err := playlist.FromPath(p.settings.Source)
	if err != nil {
		return err
	}

	ctrl := &controller{}

	reader, err := terminal.NewReader(p.input)
	if err != nil {
		return fmt.Errorf("opening keyboard reader: %w", err)
	}

	readerDone := make(chan struct{})

	go func() {
		defer close(readerDone)

		reader.Run(ctrl.Handle)
	}()

	defer func() {
		reader.Close()
		<-readerDone
	}()

	renderer := p.renderer()
	firstCycle := true

	for {
		action, err := p.playCycle(ctx, list.Current(), renderer, ctrl, firstCycle)
		if err != nil {
			return err
		}

		firstCycle = false

		if ctx.Err() != nil {
			return nil
		}

		switch action {
		case playback.ActionNext:
			list.Next()

		case playback.ActionPrev:
			list.Prev()

		case playback.ActionFinished:
			// Loop mode: replay the same playlist entry with a fresh
			// cycle.

		case playback.ActionQuit, playback.ActionNone:
			return nil
		}
	}
}

// awaitTrackChange implements the post-playback wait: the video ended
// naturally and only track-change or quit keys matter.
func (p *Player) awaitTrackChange(ctx context.Context, ctrl *controller) playback.Action {
	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	state := playback.NewState(0, 1)

	ctrl.attach(state, cancel)
	defer ctrl.detach()

	return state.WaitAction(waitCtx)
}

// playCycle plays one video end to end: scratch setup, probe, extraction,
// conversion, and the engine, all under a cycle-scoped cancellation.
func (p *Player) playCycle(
	parent context.Context,
	source string,
	renderer render.Renderer,
	ctrl *controller,
	firstCycle bool,
) (playback.Action, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	dir, err := scratch.New()
	if err != nil {
		return playback.ActionNone, err
	}

	defer func() {
		_ = dir.Remove()
	}()

	info, err := ffmpeg.Probe(ctx, p.ffprobeBin, source)
	if err != nil {
		p.logger.Warn("probing source",
			slog.String("source", source),
			slog.Any("error", err))
	}

	total := info.TotalFrames(p.settings.FPS)

	state := playback.NewState(total, p.settings.SeekFrames(),
		playback.WithCapacity(p.settings.Buffer))

	ctrl.attach(state, cancel)
	defer ctrl.detach()

	extraction, err := ffmpeg.Start(ctx, p.ffmpegBin, ffmpeg.Job{
		Source:        source,
		OutputPattern: dir.Pattern(),
		FPS:           p.settings.FPS,
		Scale:         p.settings.Scale,
		Cols:          p.settings.Cols,
		Rows:          p.settings.Rows,
	})
	if err != nil {
		return playback.ActionNone, err
	}

	pipe := pipeline.New(state, dir, renderer,
		pipeline.WithWorkers(p.settings.Threads),
		pipeline.WithLogger(p.logger))

	eg, pipeCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		err := extraction.Wait(pipeCtx)

		state.MarkExtractionComplete()

		// A mid-cycle decoder failure is recoverable: whatever frames
		// landed on disk still play. The captured stderr surfaces once
		// the terminal is back.
		if err != nil && !errors.Is(err, context.Canceled) {
			p.logger.Warn("extractor exited", slog.Any("error", err))
		}

		return nil
	})

	eg.Go(func() error {
		return pipe.Run(pipeCtx)
	})

	if p.settings.Mode == config.ModePreload {
		p.awaitPreload(ctx, state, total)
	}

	engine := playback.NewEngine(state, p.out, p.settings.FPS, p.settings.Rows,
		playback.WithStartupGrace(p.startupGrace))

	action, engineErr := engine.Run(ctx)

	cancel()

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		p.logger.Warn("pipeline shutdown", slog.Any("error", err))
	}

	if engineErr != nil {
		return playback.ActionNone, engineErr
	}

	if action != playback.ActionFinished {
		return action, nil
	}

	// A cycle that "finished" without a single rendered frame means the
	// source yielded nothing. On the first video that is a startup
	// failure.
	if state.LastRendered() == 0 && firstCycle {
		return playback.ActionNone, fmt.Errorf("%w: %s", ErrNoFrames, source)
	}

	if p.settings.Loop {
		return playback.ActionFinished, nil
	}

	// Post-playback wait: show FINISHED and respond only to track-change
	// and quit keys.
	if err := engine.WriteFinished(); err != nil {
		return playback.ActionNone, err
	}

	return p.awaitTrackChange(parent, ctrl), nil
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}

	return fallback
}

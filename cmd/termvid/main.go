// Command termvid plays videos as colored character art in the terminal.
//
// It coordinates ffmpeg (frame extraction), chafa or a built-in half-block
// renderer (image to ANSI conversion), and an interactive playback engine
// with pause, seek, speed, and playlist controls.
//
// # Usage
//
//	termvid [flags] <video_file|url>
//
// # Interactive controls
//
//	Spacebar      Pause/Resume
//	+ / -         Playback speed up/down
//	Right/Left    Seek forward/backward
//	Up/Down       Previous/next video in the directory
//	q / Ctrl+C    Quit
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/termvid/config"
	"go.jacobcolvin.com/termvid/log"
	"go.jacobcolvin.com/termvid/player"
	"go.jacobcolvin.com/termvid/profiler"
	"go.jacobcolvin.com/termvid/terminal"
	"go.jacobcolvin.com/termvid/version"
)

func main() {
	cfg := config.NewConfig()
	logCfg := log.NewConfig()
	prof := profiler.New()

	rootCmd := &cobra.Command{
		Use:   "termvid [flags] <video_file|url>",
		Short: "Play videos as character art in the terminal",
		Long: `termvid renders videos inside a terminal window using ffmpeg for frame
extraction and chafa (or a built-in half-block renderer) for conversion to
ANSI art. Videos in the same directory form a playlist navigable with the
arrow keys.`,
		Version:       version.String(),
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, cfg, logCfg, prof, args[0])
		},
	}

	cfg.RegisterFlags(rootCmd.Flags())
	logCfg.RegisterFlags(rootCmd.Flags())
	prof.RegisterFlags(rootCmd.Flags())

	if err := cfg.RegisterCompletions(rootCmd); err != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
	}

	if err := logCfg.RegisterCompletions(rootCmd); err != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "config-schema",
		Short: "Print the JSON Schema for the YAML config file",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			schema, err := config.Schema()
			if err != nil {
				return err
			}

			_, err = os.Stdout.Write(schema)

			return err
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, cfg *config.Config, logCfg *log.Config, prof *profiler.Profiler, source string) error {
	if cfg.File != "" {
		file, err := config.LoadFile(cfg.File)
		if err != nil {
			return err
		}

		file.Apply(cfg, cmd.Flags())
	}

	// Log output is buffered while the player holds the terminal and
	// flushed after restoration, so diagnostics never paint over frames.
	deferred := log.NewDeferred(os.Stderr)

	handler, err := logCfg.NewHandler(deferred)
	if err != nil {
		return err
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	termCols, termRows := terminal.Size(os.Stdout)

	settings, err := cfg.Resolve(source, termCols, termRows)
	if err != nil {
		return err
	}

	progress := io.Writer(os.Stdout)
	if settings.Quiet {
		progress = io.Discard
	}

	p := player.New(settings, os.Stdout,
		player.WithInput(os.Stdin),
		player.WithLogger(logger),
		player.WithProgressWriter(progress),
	)

	// Everything below may run inside raw mode; startup failures must
	// surface before the terminal is touched.
	if err := p.CheckDependencies(); err != nil {
		return err
	}

	if err := prof.Start(); err != nil {
		return err
	}

	defer func() {
		if err := prof.Stop(); err != nil {
			logger.Warn("stopping profiler", slog.Any("error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := terminal.NewSession(os.Stdin, os.Stdout)

	deferred.Hold()

	if err := session.Enter(); err != nil {
		deferred.Release()

		return err
	}

	// Restoration runs on every exit path: normal return, error return,
	// and panics unwinding through this frame.
	defer func() {
		session.Restore()
		deferred.Release()
	}()

	err = p.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}

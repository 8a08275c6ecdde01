// Package log provides structured logging handler construction for use with
// [log/slog].
//
// It supports multiple output formats ([FormatText], [FormatJSON], and
// [FormatLogfmt]) and severity levels ([LevelError], [LevelWarn],
// [LevelInfo], and [LevelDebug]). Use [NewHandler] to create a handler
// directly, or use [Config] with CLI flag integration via
// [github.com/spf13/pflag] and shell completion support via
// [github.com/spf13/cobra].
//
// Typical usage creates a [Config], registers flags, then builds a handler
// at startup:
//
//	cfg := log.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	cfg.RegisterCompletions(rootCmd)
//
//	handler, err := cfg.NewHandler(os.Stderr)
//	slog.SetDefault(slog.New(handler))
//
// While the player holds the terminal (raw mode, alternate screen buffer),
// log output must not paint over the video. A [Deferred] writer buffers
// everything written during that window and replays it once the terminal is
// restored:
//
//	def := log.NewDeferred(os.Stderr)
//	handler, _ := cfg.NewHandler(def)
//	def.Hold()
//	// ... playback ...
//	def.Release() // flushes buffered entries to stderr
package log

// Package pipeline connects the frame extractor to the playback engine: a
// dispatcher walks frame indices in order, waiting for each image artifact
// to appear on disk, and a fixed pool of workers converts artifacts to
// rendered text and stores them by index.
package pipeline

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"go.jacobcolvin.com/termvid/playback"
	"go.jacobcolvin.com/termvid/render"
)

const (
	// defaultPollInterval is the dispatcher's artifact-existence poll.
	// There is no cheaper cross-process signal for "ffmpeg wrote a file".
	defaultPollInterval = 10 * time.Millisecond

	// defaultQueueCapacity bounds the dispatcher-to-worker job channel.
	defaultQueueCapacity = 100
)

// job names one conversion: frame index and its artifact path.
type job struct {
	index int
	path  string
}

// ArtifactSource maps a frame index to its image artifact path.
// [go.jacobcolvin.com/termvid/scratch.Dir] implements it.
type ArtifactSource interface {
	FramePath(i int) string
}

// Pipeline owns one cycle's dispatcher and converter pool.
//
// Create instances with [New].
type Pipeline struct {
	state    *playback.State
	source   ArtifactSource
	renderer render.Renderer
	logger   *slog.Logger

	workers  int
	poll     time.Duration
	queueCap int
}

// Option configures a [Pipeline].
type Option func(*Pipeline)

// WithWorkers sets the converter pool size. Values below 1 fall back to
// the logical CPU count.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n >= 1 {
			p.workers = n
		}
	}
}

// WithPollInterval overrides the dispatcher's artifact poll interval.
func WithPollInterval(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.poll = d
		}
	}
}

// WithQueueCapacity overrides the job channel capacity.
func WithQueueCapacity(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.queueCap = n
		}
	}
}

// WithLogger sets the logger for render failures.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a pipeline feeding rendered frames into state.
func New(state *playback.State, source ArtifactSource, renderer render.Renderer, opts ...Option) *Pipeline {
	p := &Pipeline{
		state:    state,
		source:   source,
		renderer: renderer,
		logger:   slog.Default(),
		workers:  runtime.NumCPU(),
		poll:     defaultPollInterval,
		queueCap: defaultQueueCapacity,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Run dispatches and converts until the extractor's output is exhausted or
// ctx is cancelled, then marks rendering complete. Cancellation is not an
// error.
func (p *Pipeline) Run(ctx context.Context) error {
	jobs := make(chan job, p.queueCap)

	eg, ctx := errgroup.WithContext(ctx)

	for range p.workers {
		eg.Go(func() error {
			p.work(ctx, jobs)

			return nil
		})
	}

	eg.Go(func() error {
		defer close(jobs)

		p.dispatch(ctx, jobs)

		return nil
	})

	err := eg.Wait()

	p.state.MarkRenderingComplete()

	return err
}

// dispatch walks frame indices from 1 upward, enqueueing a job as each
// artifact appears. It stops when extraction has completed and the next
// artifact never materialized, or on cancellation.
func (p *Pipeline) dispatch(ctx context.Context, jobs chan<- job) {
	for i := 1; ; i++ {
		if p.state.WaitRoom(ctx, i) != nil {
			return
		}

		if !p.awaitArtifact(ctx, i) {
			return
		}

		select {
		case jobs <- job{index: i, path: p.source.FramePath(i)}:
		case <-ctx.Done():
			return
		}
	}
}

// awaitArtifact polls for frame i's artifact. It returns false when the
// artifact will never appear (extraction done) or ctx is cancelled.
func (p *Pipeline) awaitArtifact(ctx context.Context, i int) bool {
	for {
		if pathExists(p.source.FramePath(i)) {
			return true
		}

		// Re-check existence after observing completion: the file may have
		// been written between the stat and the flag read.
		if p.state.ExtractionComplete() {
			return pathExists(p.source.FramePath(i))
		}

		select {
		case <-time.After(p.poll):
		case <-ctx.Done():
			return false
		}
	}
}

// work converts jobs until the channel closes. Failed renders store an
// empty entry so the engine skips the frame without stalling the
// contiguous prefix.
func (p *Pipeline) work(ctx context.Context, jobs <-chan job) {
	for j := range jobs {
		buf, err := p.renderer.Render(ctx, j.path)
		if err != nil {
			buf = nil

			if ctx.Err() == nil {
				p.logger.Error("rendering frame",
					slog.Int("frame", j.index),
					slog.Any("error", err))
			}
		}

		p.state.Put(j.index, buf)
	}
}

func pathExists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}

package player

import (
	"context"
	"time"

	"github.com/schollz/progressbar/v3"

	"go.jacobcolvin.com/termvid/playback"
)

// preloadPollInterval is how often preload progress is refreshed.
const preloadPollInterval = 50 * time.Millisecond

// awaitPreload blocks until every frame is rendered (or the pipeline
// drains, when the total is unknown), showing progress on the configured
// writer. Cancellation aborts the wait; the engine then tears down
// normally.
func (p *Player) awaitPreload(ctx context.Context, state *playback.State, total int) {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Rendering frames"),
		progressbar.OptionSetWriter(p.progress),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
	)

	defer func() {
		_ = bar.Finish()
	}()

	for {
		rendered := state.LastRendered()
		_ = bar.Set(rendered)

		if total > 0 && rendered >= total {
			return
		}

		if state.ExtractionComplete() && state.RenderingComplete() {
			return
		}

		select {
		case <-time.After(preloadPollInterval):
		case <-ctx.Done():
			return
		}
	}
}

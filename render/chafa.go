package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Chafa renders frames by invoking the chafa CLI once per image.
//
// Create instances with [NewChafa].
type Chafa struct {
	bin  string
	opts Options
}

// NewChafa creates a [Chafa] renderer. An empty bin resolves to "chafa" on
// PATH.
func NewChafa(bin string, opts Options) *Chafa {
	if bin == "" {
		bin = "chafa"
	}

	return &Chafa{bin: bin, opts: opts}
}

// Render invokes chafa on the image and returns its stdout with line
// endings normalized for raw mode.
func (c *Chafa) Render(ctx context.Context, imagePath string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.bin,
		"--size", fmt.Sprintf("%dx%d", c.opts.Cols, c.opts.Rows),
		"--symbols", string(c.opts.Symbols),
		"--colors", string(c.opts.Colors),
		"--dither", string(c.opts.Dither),
		imagePath,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		return nil, fmt.Errorf("chafa: %w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}

	return normalizeLineEndings(stdout.Bytes()), nil
}

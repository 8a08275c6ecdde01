// Package scratch manages the per-cycle temporary directory that holds the
// image artifacts exchanged between the frame extractor and the converter
// pool.
//
// A [Dir] lives for exactly one playback cycle. It is created with mode 0700,
// preferring a memory-backed filesystem (/dev/shm) when one is present and
// writable, and is removed on cycle teardown. [Dir.FramePath] and
// [Dir.Pattern] encode the zero-padded frame naming shared with ffmpeg.
package scratch

import (
	"fmt"
	"os"
	"path/filepath"
)

// shmDir is the memory-backed filesystem preferred for frame artifacts.
// Keeping artifacts off disk avoids wearing storage at high frame rates.
const shmDir = "/dev/shm"

// framePattern is the printf-style name shared with the extractor's output
// template. Frame indices are 1-based.
const framePattern = "frame-%05d.jpg"

// Dir is a process-private scratch directory holding one cycle's frame
// artifacts.
//
// Create instances with [New].
type Dir struct {
	root   string
	frames string
}

// New creates a fresh scratch directory for one playback cycle.
// The directory is created under /dev/shm when it exists and is writable,
// otherwise under the default temp location.
func New() (*Dir, error) {
	root, err := os.MkdirTemp(baseDir(), "termvid.*")
	if err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}

	if err := os.Chmod(root, 0o700); err != nil {
		_ = os.RemoveAll(root)

		return nil, fmt.Errorf("restricting scratch directory: %w", err)
	}

	frames := filepath.Join(root, "frames")

	if err := os.Mkdir(frames, 0o700); err != nil {
		_ = os.RemoveAll(root)

		return nil, fmt.Errorf("creating frame directory: %w", err)
	}

	return &Dir{root: root, frames: frames}, nil
}

// baseDir returns /dev/shm when it is a writable directory, otherwise ""
// (the os.MkdirTemp default).
func baseDir() string {
	info, err := os.Stat(shmDir)
	if err != nil || !info.IsDir() {
		return ""
	}

	probe, err := os.CreateTemp(shmDir, ".termvid-probe-*")
	if err != nil {
		return ""
	}

	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)

	return shmDir
}

// Root returns the scratch directory root.
func (d *Dir) Root() string {
	return d.root
}

// FramesDir returns the directory ffmpeg writes image artifacts into.
func (d *Dir) FramesDir() string {
	return d.frames
}

// FramePath returns the artifact path for the 1-based frame index i.
func (d *Dir) FramePath(i int) string {
	return filepath.Join(d.frames, fmt.Sprintf(framePattern, i))
}

// Pattern returns the printf-style output template passed to the extractor.
func (d *Dir) Pattern() string {
	return filepath.Join(d.frames, framePattern)
}

// Remove deletes the scratch directory and everything in it. Idempotent;
// safe to call from both cycle teardown and the process exit path.
func (d *Dir) Remove() error {
	if d == nil || d.root == "" {
		return nil
	}

	err := os.RemoveAll(d.root)
	d.root = ""
	d.frames = ""

	if err != nil {
		return fmt.Errorf("removing scratch directory: %w", err)
	}

	return nil
}

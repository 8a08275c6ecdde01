// Package playlist derives an ordered list of playable videos from the
// directory of the invoking path and tracks a cursor over it.
package playlist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrEmpty indicates that no playable videos were found.
var ErrEmpty = errors.New("no playable videos found")

// videoExtensions is the closed set of extensions considered playable.
var videoExtensions = map[string]bool{
	".mp4": true, ".mkv": true, ".mov": true,
	".avi": true, ".webm": true, ".flv": true,
}

// Playlist is an ordered sequence of media paths with a wrapping cursor.
//
// Create instances with [FromPath].
type Playlist struct {
	paths  []string
	cursor int
}

// FromPath builds a playlist from the directory containing path, filtered to
// known video extensions and sorted lexicographically. The cursor starts on
// path itself.
//
// URLs (anything the local filesystem cannot stat) yield a single-entry
// playlist: track switching has nothing to switch to, but playback proceeds.
func FromPath(path string) (*Playlist, error) {
	if _, err := os.Stat(path); err != nil {
		if strings.Contains(path, "://") {
			return &Playlist{paths: []string{path}}, nil
		}

		return nil, fmt.Errorf("source not found: %w", err)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("reading source directory: %w", err)
	}

	var paths []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if videoExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			paths = append(paths, filepath.Join(filepath.Dir(path), entry.Name()))
		}
	}

	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, ErrEmpty
	}

	p := &Playlist{paths: paths}

	for i, candidate := range paths {
		if candidate == path {
			p.cursor = i

			return p, nil
		}
	}

	// The invoking path has an unrecognized extension; play it first anyway.
	p.paths = append([]string{path}, paths...)

	return p, nil
}

// Len returns the number of entries.
func (p *Playlist) Len() int {
	return len(p.paths)
}

// Current returns the path under the cursor.
func (p *Playlist) Current() string {
	return p.paths[p.cursor]
}

// Next advances the cursor with wraparound and returns the new path.
func (p *Playlist) Next() string {
	p.cursor = (p.cursor + 1) % len(p.paths)

	return p.paths[p.cursor]
}

// Prev moves the cursor back with wraparound and returns the new path.
func (p *Playlist) Prev() string {
	p.cursor = (p.cursor - 1 + len(p.paths)) % len(p.paths)

	return p.paths[p.cursor]
}

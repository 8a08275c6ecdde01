package ffmpeg

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownScaleMode indicates an unrecognized scale mode string.
var ErrUnknownScaleMode = errors.New("unknown scale mode")

// ScaleMode selects how source frames are fitted to the terminal's pixel
// box before conversion.
type ScaleMode string

const (
	// ScaleFit preserves aspect ratio and fits within the box.
	ScaleFit ScaleMode = "fit"
	// ScaleFill preserves aspect ratio, covers the box, and crops center.
	ScaleFill ScaleMode = "fill"
	// ScaleStretch ignores aspect ratio and scales to the exact box.
	ScaleStretch ScaleMode = "stretch"
)

// ParseScaleMode parses a scale mode string.
func ParseScaleMode(s string) (ScaleMode, error) {
	switch ScaleMode(strings.ToLower(s)) {
	case ScaleFit:
		return ScaleFit, nil
	case ScaleFill:
		return ScaleFill, nil
	case ScaleStretch:
		return ScaleStretch, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownScaleMode, s)
}

// AllScaleModeStrings returns all valid scale mode strings.
func AllScaleModeStrings() []string {
	return []string{string(ScaleFit), string(ScaleFill), string(ScaleStretch)}
}

// filterClause returns the ffmpeg scale filter for mode against a pixel box.
func (m ScaleMode) filterClause(pixW, pixH int) string {
	switch m {
	case ScaleFill:
		return fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d",
			pixW, pixH, pixW, pixH)
	case ScaleStretch:
		return fmt.Sprintf("scale=%d:%d", pixW, pixH)
	}

	return fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", pixW, pixH)
}

package playback

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

// StatusState tags the playback engine's externally visible state.
type StatusState string

const (
	// StatusPlaying indicates normal frame-paced playback.
	StatusPlaying StatusState = "PLAYING"
	// StatusPaused indicates playback is paused.
	StatusPaused StatusState = "PAUSED"
	// StatusBuffering indicates the engine is waiting on the pipeline.
	StatusBuffering StatusState = "BUFFERING"
	// StatusFinished indicates the video ended naturally.
	StatusFinished StatusState = "FINISHED"
)

// controlsLegend is the single-line key binding reminder shown on the
// status line.
const controlsLegend = "Spc:Pause, +/-:Speed, L/R:Seek, U/D:Track, Q:Quit"

var statusStyles = map[StatusState]lipgloss.Style{
	StatusPlaying:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Green),
	StatusPaused:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Yellow),
	StatusBuffering: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Blue),
	StatusFinished:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Magenta),
}

// formatTime converts a frame index into a MM:SS readout at the target
// rate.
func formatTime(frameIndex int, fps float64) string {
	if fps <= 0 {
		return "00:00"
	}

	seconds := int(float64(frameIndex) / fps)

	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// statusLine builds the one-line playback status: state tag, time readout,
// speed, and the controls legend, joined with " | ". The total time reads
// "??:??" while the frame count is unknown.
func statusLine(state StatusState, frame, totalFrames int, fps, speed float64) string {
	totalTime := "??:??"
	if totalFrames > 0 {
		totalTime = formatTime(totalFrames, fps)
	}

	tag := statusStyles[state].Render(fmt.Sprintf("[%s]", state))

	fields := []string{
		fmt.Sprintf("%s %s / %s", tag, formatTime(frame, fps), totalTime),
		fmt.Sprintf("Speed: %.2fx", speed),
		controlsLegend,
	}

	return strings.Join(fields, " | ")
}

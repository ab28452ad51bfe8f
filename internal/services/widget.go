package services

import "github.com/renato-scuola/musicflow/internal/models"

// WidgetState mirrors the lifecycle of an embedded playback widget.
type WidgetState int

const (
	WidgetUnstarted WidgetState = iota
	WidgetReady
	WidgetPlaying
	WidgetPaused
	WidgetBuffering
	WidgetEnded
	WidgetCued
	WidgetError
)

// String returns the lowercase state name.
func (s WidgetState) String() string {
	switch s {
	case WidgetUnstarted:
		return "unstarted"
	case WidgetReady:
		return "ready"
	case WidgetPlaying:
		return "playing"
	case WidgetPaused:
		return "paused"
	case WidgetBuffering:
		return "buffering"
	case WidgetEnded:
		return "ended"
	case WidgetCued:
		return "cued"
	case WidgetError:
		return "error"
	default:
		return "unknown"
	}
}

// Widget is the playback backend the session drives. Implementations wrap
// whatever actually produces audio; the session only observes position,
// duration, and state through polling.
type Widget interface {
	// Load cues a track and begins playback.
	Load(track models.Track) error

	Play() error
	Pause() error

	// Seek moves the playback position, in seconds.
	Seek(seconds float64) error

	// SetVolume sets the widget volume in [0, 1].
	SetVolume(level float64) error

	// Position returns the current playback position in seconds.
	Position() (float64, error)

	// Duration returns the cued track's length in seconds, or 0 when
	// nothing is cued yet.
	Duration() (float64, error)

	// State returns the widget's current lifecycle state.
	State() WidgetState
}

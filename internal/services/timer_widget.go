package services

import (
	"sync"
	"time"

	"github.com/renato-scuola/musicflow/internal/models"
	"github.com/renato-scuola/musicflow/internal/shared"
)

// TimerWidget is a headless playback backend that advances position in
// wall-clock time. It produces no audio; it exists so the session's polling
// loop has real state transitions to observe when no embedded player is
// attached. The cued track's duration comes from its display string.
type TimerWidget struct {
	mu       sync.Mutex
	state    WidgetState
	duration float64
	position float64
	volume   float64
	anchor   time.Time
	now      func() time.Time
}

var _ Widget = (*TimerWidget)(nil)

// NewTimerWidget returns an idle widget at full volume.
func NewTimerWidget() *TimerWidget {
	return &TimerWidget{
		state:  WidgetUnstarted,
		volume: 1,
		now:    time.Now,
	}
}

// Load cues a track and begins playback from the start.
func (w *TimerWidget) Load(track models.Track) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.duration = float64(shared.ParseDuration(track.Duration))
	w.position = 0
	w.anchor = w.now()
	w.state = WidgetPlaying
	return nil
}

func (w *TimerWidget) Play() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.materialize()
	if w.state == WidgetPaused || w.state == WidgetCued {
		w.anchor = w.now()
		w.state = WidgetPlaying
	}
	return nil
}

func (w *TimerWidget) Pause() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.materialize()
	if w.state == WidgetPlaying {
		w.state = WidgetPaused
	}
	return nil
}

// Seek moves the playback position, clamped to the track bounds.
func (w *TimerWidget) Seek(seconds float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.materialize()
	if seconds < 0 {
		seconds = 0
	}
	if w.duration > 0 && seconds > w.duration {
		seconds = w.duration
	}
	w.position = seconds
	if w.state == WidgetEnded && w.position < w.duration {
		w.state = WidgetPaused
	}
	return nil
}

func (w *TimerWidget) SetVolume(level float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if level < 0 {
		level = 0
	} else if level > 1 {
		level = 1
	}
	w.volume = level
	return nil
}

func (w *TimerWidget) Position() (float64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.materialize()
	return w.position, nil
}

func (w *TimerWidget) Duration() (float64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.duration, nil
}

func (w *TimerWidget) State() WidgetState {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.materialize()
	return w.state
}

// Volume returns the current volume level.
func (w *TimerWidget) Volume() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.volume
}

// materialize folds elapsed wall-clock time into position. Callers must
// hold the mutex.
func (w *TimerWidget) materialize() {
	if w.state != WidgetPlaying {
		return
	}

	now := w.now()
	w.position += now.Sub(w.anchor).Seconds()
	w.anchor = now

	if w.duration > 0 && w.position >= w.duration {
		w.position = w.duration
		w.state = WidgetEnded
	}
}

package services

import (
	"testing"
	"time"

	"github.com/renato-scuola/musicflow/internal/models"
)

// fakeClock lets tests advance the widget's notion of time deterministically.
type fakeClock struct {
	at time.Time
}

func (c *fakeClock) advance(d time.Duration) { c.at = c.at.Add(d) }
func (c *fakeClock) now() time.Time          { return c.at }

func newTestWidget() (*TimerWidget, *fakeClock) {
	clock := &fakeClock{at: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	w := NewTimerWidget()
	w.now = clock.now
	return w, clock
}

func TestTimerWidgetPlayback(t *testing.T) {
	track := models.Track{ID: "t1", Title: "Song", Duration: "3:00"}

	t.Run("load starts playing from zero", func(t *testing.T) {
		w, _ := newTestWidget()
		if err := w.Load(track); err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if got := w.State(); got != WidgetPlaying {
			t.Errorf("State() = %v, want playing", got)
		}
		pos, _ := w.Position()
		if pos != 0 {
			t.Errorf("Position() = %v, want 0", pos)
		}
		dur, _ := w.Duration()
		if dur != 180 {
			t.Errorf("Duration() = %v, want 180", dur)
		}
	})

	t.Run("position advances while playing", func(t *testing.T) {
		w, clock := newTestWidget()
		w.Load(track)

		clock.advance(42 * time.Second)
		pos, _ := w.Position()
		if pos != 42 {
			t.Errorf("Position() = %v, want 42", pos)
		}
	})

	t.Run("pause freezes position", func(t *testing.T) {
		w, clock := newTestWidget()
		w.Load(track)

		clock.advance(30 * time.Second)
		w.Pause()
		clock.advance(30 * time.Second)

		pos, _ := w.Position()
		if pos != 30 {
			t.Errorf("Position() = %v, want 30", pos)
		}
		if got := w.State(); got != WidgetPaused {
			t.Errorf("State() = %v, want paused", got)
		}
	})

	t.Run("resume continues from pause point", func(t *testing.T) {
		w, clock := newTestWidget()
		w.Load(track)

		clock.advance(30 * time.Second)
		w.Pause()
		clock.advance(10 * time.Second)
		w.Play()
		clock.advance(5 * time.Second)

		pos, _ := w.Position()
		if pos != 35 {
			t.Errorf("Position() = %v, want 35", pos)
		}
	})

	t.Run("ends at track duration", func(t *testing.T) {
		w, clock := newTestWidget()
		w.Load(track)

		clock.advance(5 * time.Minute)
		pos, _ := w.Position()
		if pos != 180 {
			t.Errorf("Position() = %v, want clamped to 180", pos)
		}
		if got := w.State(); got != WidgetEnded {
			t.Errorf("State() = %v, want ended", got)
		}
	})

	t.Run("seek clamps to bounds", func(t *testing.T) {
		w, _ := newTestWidget()
		w.Load(track)

		w.Seek(-10)
		pos, _ := w.Position()
		if pos != 0 {
			t.Errorf("Position() after Seek(-10) = %v, want 0", pos)
		}

		w.Seek(999)
		pos, _ = w.Position()
		if pos != 180 {
			t.Errorf("Position() after Seek(999) = %v, want 180", pos)
		}
	})

	t.Run("seek back from ended resumes paused", func(t *testing.T) {
		w, clock := newTestWidget()
		w.Load(track)

		clock.advance(4 * time.Minute)
		if got := w.State(); got != WidgetEnded {
			t.Fatalf("State() = %v, want ended", got)
		}

		w.Seek(60)
		if got := w.State(); got != WidgetPaused {
			t.Errorf("State() after seek = %v, want paused", got)
		}
	})

	t.Run("volume clamps", func(t *testing.T) {
		w, _ := newTestWidget()
		w.SetVolume(1.7)
		if got := w.Volume(); got != 1 {
			t.Errorf("Volume() = %v, want 1", got)
		}
		w.SetVolume(-0.2)
		if got := w.Volume(); got != 0 {
			t.Errorf("Volume() = %v, want 0", got)
		}
	})

	t.Run("unknown duration never ends", func(t *testing.T) {
		w, clock := newTestWidget()
		w.Load(models.Track{ID: "t2", Duration: "live"})

		clock.advance(time.Hour)
		if got := w.State(); got != WidgetPlaying {
			t.Errorf("State() = %v, want playing", got)
		}
	})
}

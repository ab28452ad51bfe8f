package tasks

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/renato-scuola/musicflow/internal/models"
	"github.com/renato-scuola/musicflow/internal/player"
	"github.com/renato-scuola/musicflow/internal/playlists"
	"github.com/renato-scuola/musicflow/internal/services"
	itest "github.com/renato-scuola/musicflow/internal/testing"
)

func testSession(t *testing.T, acq *itest.MockAcquisition) (*Session, *itest.MockWidget) {
	t.Helper()

	if acq == nil {
		acq = &itest.MockAcquisition{}
	}

	logger := log.New(io.Discard)
	widget := &itest.MockWidget{}
	store := playlists.NewStore(&itest.MemoryStorage{}, acq, logger)
	session := NewSession(player.NewEngine(), widget, store, acq, nil, logger, 10*time.Millisecond)

	return session, widget
}

func startQueue(t *testing.T, s *Session, w *itest.MockWidget, n int) []models.Track {
	t.Helper()

	tracks := itest.SampleTracks(n)
	if err := s.PlayQueue(context.Background(), tracks, 0); err != nil {
		t.Fatalf("failed to start queue: %v", err)
	}
	if len(w.Loaded) != 1 || w.Loaded[0].ID != tracks[0].ID {
		t.Fatalf("expected first track cued, got %+v", w.Loaded)
	}
	return tracks
}

func TestPlayQueue(t *testing.T) {
	t.Run("starts playback immediately", func(t *testing.T) {
		s, w := testSession(t, nil)
		s.Engine().SetTime(42)
		startQueue(t, s, w, 3)

		state := s.Engine().Snapshot()
		if !state.IsPlaying {
			t.Error("expected playback started without waiting for a poll")
		}
		if state.CurrentIndex != 0 || state.CurrentTime != 0 {
			t.Errorf("expected fresh position at index 0, got index=%d time=%v",
				state.CurrentIndex, state.CurrentTime)
		}
	})

	t.Run("out of range index queues without playing", func(t *testing.T) {
		s, w := testSession(t, nil)

		if err := s.PlayQueue(context.Background(), itest.SampleTracks(2), 5); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		state := s.Engine().Snapshot()
		if len(state.Queue) != 2 || state.Current != nil || state.IsPlaying {
			t.Errorf("expected queued tracks with nothing playing, got %+v", state)
		}
		if w.LoadCalls != 0 {
			t.Errorf("expected no widget load, got %d", w.LoadCalls)
		}
	})

	t.Run("queue of unloadable tracks gives up after one skip", func(t *testing.T) {
		s, w := testSession(t, nil)
		w.LoadErr = errors.New("stream unavailable")

		err := s.PlayQueue(context.Background(), itest.SampleTracks(3), 0)
		if err == nil {
			t.Fatal("expected an error when no track can load")
		}
		if w.LoadCalls != 2 {
			t.Errorf("expected loads bounded at 2, got %d", w.LoadCalls)
		}
	})
}

func TestSessionPolling(t *testing.T) {
	t.Run("feeds position and duration into the engine", func(t *testing.T) {
		s, w := testSession(t, nil)
		startQueue(t, s, w, 2)

		w.Pos = 42.5
		w.Dur = 180
		s.Poll()

		state := s.Engine().Snapshot()
		if state.CurrentTime != 42.5 || state.Duration != 180 {
			t.Errorf("expected time 42.5 / duration 180, got %v / %v",
				state.CurrentTime, state.Duration)
		}
	})

	t.Run("playing widget clears busy flags", func(t *testing.T) {
		s, w := testSession(t, nil)
		startQueue(t, s, w, 1)

		s.Engine().SetLoading(true)
		s.Engine().SetBuffering(true)
		w.Dur = 180
		w.Pos = 10
		w.Current = services.WidgetPlaying

		s.Poll()

		state := s.Engine().Snapshot()
		if state.IsLoading || state.IsBuffering {
			t.Errorf("expected flags cleared, got loading=%v buffering=%v",
				state.IsLoading, state.IsBuffering)
		}
	})
}

func TestEndOfTrack(t *testing.T) {
	t.Run("advances when playback reaches the end", func(t *testing.T) {
		s, w := testSession(t, nil)
		tracks := startQueue(t, s, w, 3)

		w.Dur = 180
		w.Pos = 179.5
		s.Poll()

		state := s.Engine().Snapshot()
		if state.CurrentIndex != 1 || !state.IsPlaying {
			t.Errorf("expected advance to index 1 playing, got index=%d playing=%v",
				state.CurrentIndex, state.IsPlaying)
		}

		if w.Loaded[len(w.Loaded)-1].ID != tracks[1].ID {
			t.Error("expected next track cued into the widget")
		}
	})

	t.Run("stale end reading does not double-advance", func(t *testing.T) {
		s, w := testSession(t, nil)
		startQueue(t, s, w, 3)

		w.Dur = 180
		w.Pos = 179.5
		s.Poll()

		// The widget has not caught up yet and still reports the old
		// position; a second poll must not advance again.
		w.Pos = 179.5
		w.Dur = 180
		s.Poll()

		state := s.Engine().Snapshot()
		if state.CurrentIndex != 1 {
			t.Errorf("expected index to stay at 1, got %d", state.CurrentIndex)
		}

		// Once playback visibly restarts, end detection re-arms.
		w.Pos = 5
		s.Poll()
		w.Pos = 179.5
		s.Poll()

		if got := s.Engine().Snapshot().CurrentIndex; got != 2 {
			t.Errorf("expected re-armed detection to advance to 2, got %d", got)
		}
	})

	t.Run("ended widget state also triggers the advance", func(t *testing.T) {
		s, w := testSession(t, nil)
		startQueue(t, s, w, 2)

		w.Current = services.WidgetEnded
		s.Poll()

		if got := s.Engine().Snapshot().CurrentIndex; got != 1 {
			t.Errorf("expected advance on ended event, got index %d", got)
		}
	})

	t.Run("repeat replays instead of advancing", func(t *testing.T) {
		s, w := testSession(t, nil)
		startQueue(t, s, w, 3)
		s.ToggleRepeat()

		w.Dur = 180
		w.Pos = 179.5
		s.Poll()

		state := s.Engine().Snapshot()
		if state.CurrentIndex != 0 {
			t.Errorf("expected no advance under repeat, got index %d", state.CurrentIndex)
		}
		if state.CurrentTime != 0 {
			t.Errorf("expected time reset, got %v", state.CurrentTime)
		}

		if len(w.SeekCalls) != 1 || w.SeekCalls[0] != 0 {
			t.Errorf("expected a seek to 0, got %v", w.SeekCalls)
		}
		if !w.Playing {
			t.Error("expected playback resumed after restart")
		}
	})

	t.Run("single-track queue wraps onto itself", func(t *testing.T) {
		s, w := testSession(t, nil)
		startQueue(t, s, w, 1)
		s.Engine().Pause()

		w.Dur = 180
		w.Pos = 179.5
		s.Poll()

		state := s.Engine().Snapshot()
		if state.CurrentIndex != 0 || !state.IsPlaying {
			t.Errorf("expected wrap-to-self forcing playback, got index=%d playing=%v",
				state.CurrentIndex, state.IsPlaying)
		}
	})
}

func TestHandleWidgetError(t *testing.T) {
	t.Run("multi-track queue skips ahead", func(t *testing.T) {
		s, w := testSession(t, nil)
		tracks := startQueue(t, s, w, 5)

		w.Current = services.WidgetError
		s.Poll()

		state := s.Engine().Snapshot()
		if state.CurrentIndex != 1 {
			t.Errorf("expected skip to index 1, got %d", state.CurrentIndex)
		}
		if w.Loaded[len(w.Loaded)-1].ID != tracks[1].ID {
			t.Error("expected replacement track cued")
		}
	})

	t.Run("single-track queue pauses with flags cleared", func(t *testing.T) {
		s, w := testSession(t, nil)
		startQueue(t, s, w, 1)
		s.Engine().SetLoading(true)
		s.Engine().SetBuffering(true)

		w.Current = services.WidgetError
		s.Poll()

		state := s.Engine().Snapshot()
		if state.IsPlaying {
			t.Error("expected playback paused")
		}
		if state.IsLoading || state.IsBuffering {
			t.Errorf("expected busy flags cleared, got loading=%v buffering=%v",
				state.IsLoading, state.IsBuffering)
		}
	})
}

// racingAcquisition bumps the session's search generation while a search is
// in flight, standing in for a user typing a newer query.
type racingAcquisition struct {
	session *Session
	tracks  []models.Track
}

func (r *racingAcquisition) Search(ctx context.Context, query string) ([]models.Track, error) {
	r.session.generation.Add(1)
	return r.tracks, nil
}

func (r *racingAcquisition) ImportPlaylist(ctx context.Context, playlistURL string) (*models.PlaylistImport, error) {
	return &models.PlaylistImport{}, nil
}

func (r *racingAcquisition) Name() string { return "racing" }

func TestSessionSearch(t *testing.T) {
	t.Run("returns acquisition results", func(t *testing.T) {
		acq := &itest.MockAcquisition{SearchResults: itest.SampleTracks(2)}
		s, _ := testSession(t, acq)

		result, err := s.Search(context.Background(), "daft punk")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Stale || len(result.Tracks) != 2 {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("superseded search comes back stale", func(t *testing.T) {
		s, _ := testSession(t, nil)

		// A newer search starts while this one is still in flight.
		s.acquisition = &racingAcquisition{session: s, tracks: itest.SampleTracks(1)}

		result, err := s.Search(context.Background(), "old query")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Stale {
			t.Error("expected superseded search to be marked stale")
		}
	})
}

func TestReconcile(t *testing.T) {
	acq := &itest.MockAcquisition{
		Playlist: &models.PlaylistImport{Title: "Upstream", Tracks: itest.SampleTracks(1)},
	}
	logger := log.New(io.Discard)
	widget := &itest.MockWidget{}
	store := playlists.NewStore(&itest.MemoryStorage{}, acq, logger)

	imported, err := store.Import(context.Background(), "https://youtube.com/playlist?list=PLx")
	if err != nil {
		t.Fatalf("failed to seed source playlist: %v", err)
	}
	enabled := true
	if _, err := store.Update(imported.ID, playlists.Patch{AutoSync: &enabled}); err != nil {
		t.Fatalf("failed to enable auto-sync: %v", err)
	}

	s := NewSession(player.NewEngine(), widget, store, acq, nil, logger, time.Millisecond)

	fetches := acq.ImportCalls
	if err := s.PlayQueue(context.Background(), itest.SampleTracks(1), 0); err != nil {
		t.Fatalf("failed to play: %v", err)
	}
	if acq.ImportCalls != fetches+1 {
		t.Errorf("expected one reconcile fetch, got %d", acq.ImportCalls-fetches)
	}

	// Later playback flows must not re-sync within the same session.
	if err := s.PlayQueue(context.Background(), itest.SampleTracks(2), 0); err != nil {
		t.Fatalf("failed to play again: %v", err)
	}
	if acq.ImportCalls != fetches+1 {
		t.Errorf("expected reconcile to run once per session, got %d fetches", acq.ImportCalls-fetches)
	}
}

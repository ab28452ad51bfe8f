// package tasks implements the playback session and bulk operations.
//
// The core abstraction is Session, which wires the pure player engine to a
// playback widget, the playlist store, and the acquisition layer. A polling
// loop is the sole mechanism for advancing playback time and detecting the
// end of a track; widget events and the poller may race, and end-of-track
// handling is latched so the queue never double-advances.
package tasks

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/renato-scuola/musicflow/internal/models"
	"github.com/renato-scuola/musicflow/internal/player"
	"github.com/renato-scuola/musicflow/internal/playlists"
	"github.com/renato-scuola/musicflow/internal/services"
)

// endThreshold is how close to the reported duration, in seconds, playback
// must be before the track counts as finished.
const endThreshold = 1.0

// SearchResult carries a search response back to the caller. Stale is set
// when a newer search was issued while this one was in flight; stale
// results must be discarded, not rendered.
type SearchResult struct {
	Query  string
	Tracks []models.Track
	Stale  bool
}

// TrackCacher memoizes search results between sessions.
type TrackCacher interface {
	Get(query string) ([]models.Track, bool, error)
	Put(query string, tracks []models.Track) error
}

// Session drives playback. All methods are safe for concurrent use.
type Session struct {
	engine      *player.Engine
	widget      services.Widget
	store       *playlists.Store
	acquisition services.Acquisition
	cache       TrackCacher
	logger      *log.Logger

	pollInterval time.Duration
	generation   atomic.Int64
	reconcile    sync.Once

	mu         sync.Mutex
	endLatched bool
}

// NewSession wires a session together. cache may be nil to disable search
// memoization.
func NewSession(engine *player.Engine, widget services.Widget, store *playlists.Store,
	acquisition services.Acquisition, cache TrackCacher, logger *log.Logger,
	pollInterval time.Duration) *Session {
	if pollInterval <= 0 {
		pollInterval = 500 * time.Millisecond
	}

	return &Session{
		engine:       engine,
		widget:       widget,
		store:        store,
		acquisition:  acquisition,
		cache:        cache,
		logger:       logger,
		pollInterval: pollInterval,
	}
}

// Engine exposes the underlying player engine for read-only snapshots.
func (s *Session) Engine() *player.Engine { return s.engine }

// Run polls the widget until the context is cancelled.
func (s *Session) Run(ctx context.Context) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Poll()
		}
	}
}

// Reconcile syncs every auto-sync playlist. It runs at most once per
// session, no matter how many playback flows trigger it.
func (s *Session) Reconcile(ctx context.Context) {
	s.reconcile.Do(func() {
		s.store.SyncAll(ctx)
	})
}

// PlayQueue replaces the queue and starts playback at the given index. An
// index outside the track list leaves the queue in place with nothing
// selected.
func (s *Session) PlayQueue(ctx context.Context, tracks []models.Track, index int) error {
	s.Reconcile(ctx)
	s.rearm()

	s.engine.SetQueue(tracks)
	if index < 0 || index >= len(tracks) {
		return nil
	}

	track := tracks[index]
	s.engine.SelectTrack(&track)
	s.engine.Play()
	if err := s.cue(track); err != nil {
		s.HandleWidgetError()
		return err
	}
	return nil
}

// PlayTrack makes a track current and starts it, whether or not it belongs
// to the active queue.
func (s *Session) PlayTrack(ctx context.Context, track models.Track) error {
	s.Reconcile(ctx)
	s.rearm()

	s.engine.SelectTrack(&track)
	s.engine.Play()
	if err := s.cue(track); err != nil {
		s.HandleWidgetError()
		return err
	}
	return nil
}

// Next advances to the following track, wrapping at the end of the queue.
func (s *Session) Next() error {
	s.rearm()
	state := s.engine.Next()
	if state.Current == nil {
		return nil
	}
	return s.cue(*state.Current)
}

// Previous steps back one track, wrapping at the start of the queue.
func (s *Session) Previous() error {
	s.rearm()
	state := s.engine.Previous()
	if state.Current == nil {
		return nil
	}
	return s.cue(*state.Current)
}

// TogglePlay pauses or resumes both the engine and the widget.
func (s *Session) TogglePlay() error {
	state := s.engine.TogglePlay()
	if state.IsPlaying {
		return s.widget.Play()
	}
	return s.widget.Pause()
}

// ToggleRepeat flips single-track repeat.
func (s *Session) ToggleRepeat() {
	s.engine.ToggleRepeat()
}

// Seek moves playback to an absolute position in seconds.
func (s *Session) Seek(seconds float64) error {
	s.engine.SetTime(seconds)
	return s.widget.Seek(seconds)
}

// SetVolume sets the volume on both the engine and the widget.
func (s *Session) SetVolume(level float64) error {
	state := s.engine.SetVolume(level)
	return s.widget.SetVolume(state.Volume)
}

// Close stops playback and clears the player.
func (s *Session) Close() error {
	s.engine.Close()
	return s.widget.Pause()
}

// rearm re-enables end-of-track detection. Called on user-driven track
// selection and when the poller sees playback move off the end; the
// auto-advance path deliberately stays latched until the widget's position
// reflects the new track, so a stale at-the-end reading cannot advance the
// queue twice.
func (s *Session) rearm() {
	s.mu.Lock()
	s.endLatched = false
	s.mu.Unlock()
}

// cue loads a track into the widget. It only reports the failure; the error
// policy lives with the callers, so a failing load can never chain into
// another load more than once.
func (s *Session) cue(track models.Track) error {
	if err := s.widget.Load(track); err != nil {
		s.logger.Warn("failed to load track", "title", track.Title, "error", err)
		return err
	}
	return nil
}

// Poll reads the widget once and feeds what it sees into the engine: time,
// duration, buffering flags, end-of-track, and errors.
func (s *Session) Poll() {
	pos, err := s.widget.Position()
	if err == nil {
		s.engine.SetTime(pos)
	}

	dur, err := s.widget.Duration()
	if err == nil && dur > 0 {
		s.engine.SetDuration(dur)
	}

	switch s.widget.State() {
	case services.WidgetPlaying:
		s.engine.SetLoading(false)
		s.engine.SetBuffering(false)
	case services.WidgetBuffering:
		s.engine.SetBuffering(true)
	case services.WidgetEnded:
		s.handleEnd()
		return
	case services.WidgetError:
		s.HandleWidgetError()
		return
	}

	if dur > 0 && pos >= dur-endThreshold {
		s.handleEnd()
		return
	}

	// Playback moved away from the end, so the next end-of-track is a new
	// one. This re-arms the latch after a repeat restart.
	if dur > 0 && pos < dur-endThreshold {
		s.mu.Lock()
		s.endLatched = false
		s.mu.Unlock()
	}
}

// handleEnd processes one end-of-track once. The widget's ended event and
// the position check can both fire for the same end; the latch makes the
// second a no-op until a new track is cued or playback restarts.
func (s *Session) handleEnd() {
	s.mu.Lock()
	if s.endLatched {
		s.mu.Unlock()
		return
	}
	s.endLatched = true
	s.mu.Unlock()

	state := s.engine.Snapshot()

	if state.Repeat {
		s.engine.SetTime(0)
		if err := s.widget.Seek(0); err != nil {
			s.logger.Warn("failed to restart track", "error", err)
			return
		}
		if err := s.widget.Play(); err != nil {
			s.logger.Warn("failed to resume after restart", "error", err)
		}
		return
	}

	state = s.engine.TrackEnded()
	if state.Current == nil {
		return
	}

	if err := s.cue(*state.Current); err != nil {
		s.HandleWidgetError()
	}
}

// HandleWidgetError applies the playback error policy: with more than one
// queued track, skip ahead; otherwise pause and clear the busy flags so the
// player is never stuck loading.
func (s *Session) HandleWidgetError() {
	state := s.engine.Snapshot()

	if len(state.Queue) > 1 {
		s.logger.Warn("playback failed, skipping to next track")
		if err := s.Next(); err != nil {
			s.logger.Warn("failed to skip after playback error", "error", err)
		}
		return
	}

	s.logger.Warn("playback failed")
	s.engine.Pause()
	s.engine.SetLoading(false)
	s.engine.SetBuffering(false)
}

// Search issues a query through the cache and the acquisition layer. When a
// newer search supersedes this one before it completes, the result comes
// back marked stale.
func (s *Session) Search(ctx context.Context, query string) (*SearchResult, error) {
	gen := s.generation.Add(1)

	if s.cache != nil {
		if tracks, ok, err := s.cache.Get(query); err == nil && ok {
			return &SearchResult{Query: query, Tracks: tracks, Stale: s.generation.Load() != gen}, nil
		}
	}

	tracks, err := s.acquisition.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && len(tracks) > 0 {
		if err := s.cache.Put(query, tracks); err != nil {
			s.logger.Warn("failed to cache search results", "error", err)
		}
	}

	return &SearchResult{
		Query:  query,
		Tracks: tracks,
		Stale:  s.generation.Load() != gen,
	}, nil
}

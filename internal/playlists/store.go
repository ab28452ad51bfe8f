package playlists

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/renato-scuola/musicflow/internal/models"
	"github.com/renato-scuola/musicflow/internal/services"
	"github.com/renato-scuola/musicflow/internal/shared"
)

// Storage persists the playlist collection as a single document.
type Storage interface {
	// Load returns the stored document, or an error wrapping
	// [shared.ErrNoDocument] on first run.
	Load() ([]byte, error)

	// Save atomically replaces the stored document.
	Save(data []byte) error

	Close() error
}

// collectionDoc is the persisted shape of the whole collection.
type collectionDoc struct {
	Playlists []*models.Playlist `json:"playlists"`
}

// Patch carries the fields a playlist update may change. Nil fields are
// left untouched.
type Patch struct {
	Name        *string
	Description *string
	SourceURL   *string
	AutoSync    *bool
}

// Store owns the playlist collection. All methods are safe for concurrent
// use; mutations hold the store lock across the read-modify-write-persist
// cycle so two calls can never produce a lost update.
type Store struct {
	mu          sync.Mutex
	storage     Storage
	acquisition services.Acquisition
	logger      *log.Logger
	playlists   []*models.Playlist

	now   func() time.Time
	newID func(time.Time) string
}

// NewStore loads the collection from storage. Missing or corrupt data is
// not fatal: the store starts over with just the favorites playlist.
func NewStore(storage Storage, acquisition services.Acquisition, logger *log.Logger) *Store {
	s := &Store{
		storage:     storage,
		acquisition: acquisition,
		logger:      logger,
		now:         time.Now,
		newID:       shared.NewPlaylistID,
	}

	s.playlists = s.load()
	return s
}

func (s *Store) load() []*models.Playlist {
	fresh := func() []*models.Playlist {
		return []*models.Playlist{models.NewFavorites(s.now())}
	}

	data, err := s.storage.Load()
	if errors.Is(err, shared.ErrNoDocument) {
		return fresh()
	}
	if err != nil {
		s.logger.Warn("failed to load playlists, starting fresh", "error", err)
		return fresh()
	}

	var doc collectionDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("stored playlists are corrupt, starting fresh", "error", err)
		return fresh()
	}

	for _, p := range doc.Playlists {
		if p.ID == models.FavoritesID {
			return doc.Playlists
		}
	}

	return append(doc.Playlists, models.NewFavorites(s.now()))
}

// persist writes the whole collection. A write failure leaves the in-memory
// collection authoritative for the session; the caller gets an error
// wrapping [shared.ErrPersistenceFailure] so it can warn the user.
func (s *Store) persist() error {
	data, err := json.Marshal(collectionDoc{Playlists: s.playlists})
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrPersistenceFailure, err)
	}

	if err := s.storage.Save(data); err != nil {
		s.logger.Error("failed to persist playlists", "error", err)
		return fmt.Errorf("%w: %v", shared.ErrPersistenceFailure, err)
	}

	return nil
}

// Close releases the storage backend.
func (s *Store) Close() error {
	return s.storage.Close()
}

// Playlists returns the collection in stored order. The result is a deep
// copy.
func (s *Store) Playlists() []*models.Playlist {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Playlist, len(s.playlists))
	for i, p := range s.playlists {
		out[i] = p.Clone()
	}
	return out
}

// Get returns a copy of one playlist.
func (s *Store) Get(id string) (*models.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(id)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}
	return p.Clone(), nil
}

// Create adds a playlist at the front of the collection.
func (s *Store) Create(name, description string) (*models.Playlist, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.ErrEmptyPlaylistName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	playlist := &models.Playlist{
		ID:          s.newID(now),
		Name:        name,
		Description: description,
		Tracks:      []models.Track{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.playlists = append([]*models.Playlist{playlist}, s.playlists...)
	return playlist.Clone(), s.persist()
}

// Delete removes a playlist. The favorites playlist is protected and
// deleting it fails with [shared.ErrProtectedPlaylist].
func (s *Store) Delete(id string) error {
	if id == models.FavoritesID {
		return shared.ErrProtectedPlaylist
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.playlists {
		if p.ID == id {
			s.playlists = append(s.playlists[:i], s.playlists[i+1:]...)
			return s.persist()
		}
	}

	return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
}

// Update shallow-merges the provided fields and refreshes UpdatedAt.
func (s *Store) Update(id string, patch Patch) (*models.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(id)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}

	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, shared.ErrEmptyPlaylistName
		}
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.SourceURL != nil {
		p.SourceURL = *patch.SourceURL
	}
	if patch.AutoSync != nil {
		p.AutoSync = *patch.AutoSync
	}

	p.UpdatedAt = s.now()
	return p.Clone(), s.persist()
}

// AddTrack front-inserts a track into a playlist. Adding a track whose id
// is already present is a no-op.
func (s *Store) AddTrack(id string, track models.Track) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(id)
	if p == nil {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}

	if p.HasTrack(track.ID) {
		return nil
	}

	p.Tracks = append([]models.Track{track}, p.Tracks...)
	s.touch(p)
	return s.persist()
}

// RemoveTrack filters a track out of a playlist.
func (s *Store) RemoveTrack(id, trackID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(id)
	if p == nil {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}

	for i, t := range p.Tracks {
		if t.ID == trackID {
			p.Tracks = append(p.Tracks[:i], p.Tracks[i+1:]...)
			s.touch(p)
			return s.persist()
		}
	}

	return fmt.Errorf("%w: %s", shared.ErrTrackNotFound, trackID)
}

// Reorder removes the track at from and re-inserts it at to. Out-of-range
// indices are clamped into the track range, so the call is always
// deterministic.
func (s *Store) Reorder(id string, from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(id)
	if p == nil {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}

	n := len(p.Tracks)
	if n == 0 {
		return nil
	}

	from = clampIndex(from, n)
	to = clampIndex(to, n)
	if from == to {
		return nil
	}

	track := p.Tracks[from]
	rest := append(p.Tracks[:from:from], p.Tracks[from+1:]...)
	p.Tracks = append(rest[:to:to], append([]models.Track{track}, rest[to:]...)...)

	s.touch(p)
	return s.persist()
}

// find returns the stored playlist with the given id. Callers hold the
// lock.
func (s *Store) find(id string) *models.Playlist {
	for _, p := range s.playlists {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// touch refreshes a playlist's derived thumbnail and update timestamp after
// a track mutation.
func (s *Store) touch(p *models.Playlist) {
	p.Thumbnail = p.FirstThumbnail()
	p.UpdatedAt = s.now()
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

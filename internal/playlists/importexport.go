package playlists

import (
	"context"
	"fmt"

	"github.com/renato-scuola/musicflow/internal/models"
	"github.com/renato-scuola/musicflow/internal/shared"
)

// Import fetches a playlist from a source URL through the acquisition layer
// and creates a local playlist from it. The fetched track order is reversed
// so the most recently added upstream track ends up first, matching the
// front-insert convention. The source URL is stamped on the playlist so it
// can be synced later.
func (s *Store) Import(ctx context.Context, sourceURL string) (*models.Playlist, error) {
	imported, err := s.acquisition.ImportPlaylist(ctx, sourceURL)
	if err != nil {
		return nil, err
	}

	name := imported.Title
	if name == "" {
		name = "Imported Playlist"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	playlist := &models.Playlist{
		ID:          s.newID(now),
		Name:        name,
		Description: imported.Description,
		Tracks:      models.ReverseTracks(imported.Tracks),
		CreatedAt:   now,
		UpdatedAt:   now,
		SourceURL:   sourceURL,
	}
	playlist.Thumbnail = playlist.FirstThumbnail()

	s.playlists = append([]*models.Playlist{playlist}, s.playlists...)

	s.logger.Info("imported playlist",
		"name", playlist.Name, "tracks", len(playlist.Tracks), "source", sourceURL)

	return playlist.Clone(), s.persist()
}

// ImportFile creates a playlist from an export document. The whole file is
// validated up front: any track missing a required field rejects the import
// and no playlist is created. Track order is reversed like every other
// import path.
func (s *Store) ImportFile(file *models.PlaylistFile) (*models.Playlist, error) {
	if err := models.ValidateImportFile(file); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	playlist := &models.Playlist{
		ID:          s.newID(now),
		Name:        file.Name,
		Description: file.Description,
		Tracks:      models.ReverseTracks(file.Tracks),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	playlist.Thumbnail = playlist.FirstThumbnail()

	s.playlists = append([]*models.Playlist{playlist}, s.playlists...)
	return playlist.Clone(), s.persist()
}

// Export produces the playlist's export document. Tracks serialize in
// stored order; reversal is an import-time normalization only.
func (s *Store) Export(id string) (*models.PlaylistFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(id)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}

	return &models.PlaylistFile{
		Name:        p.Name,
		Description: p.Description,
		Tracks:      models.CloneTracks(p.Tracks),
		ExportedAt:  s.now(),
	}, nil
}

// Sync re-fetches a playlist's source and front-inserts tracks that are not
// yet present. Tracks that disappeared upstream are never removed, and a
// sync with nothing new changes nothing, so repeated calls are safe. The
// number of new tracks is returned.
func (s *Store) Sync(ctx context.Context, id string) (int, error) {
	s.mu.Lock()
	sourceURL := ""
	if p := s.find(id); p != nil {
		sourceURL = p.SourceURL
	} else {
		s.mu.Unlock()
		return 0, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}
	s.mu.Unlock()

	if sourceURL == "" {
		return 0, fmt.Errorf("%w: %s", shared.ErrMissingSourceURL, id)
	}

	// The fetch happens outside the lock so a slow upstream does not stall
	// every other store operation.
	imported, err := s.acquisition.ImportPlaylist(ctx, sourceURL)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(id)
	if p == nil {
		return 0, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}

	fresh := make([]models.Track, 0)
	for _, t := range imported.Tracks {
		if !p.HasTrack(t.ID) {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) == 0 {
		return 0, nil
	}

	p.Tracks = append(models.ReverseTracks(fresh), p.Tracks...)
	s.touch(p)

	s.logger.Info("synced playlist", "name", p.Name, "new_tracks", len(fresh))

	return len(fresh), s.persist()
}

// SyncAll syncs every playlist that has auto-sync enabled. Failures are
// logged and do not stop the remaining playlists from syncing.
func (s *Store) SyncAll(ctx context.Context) {
	for _, p := range s.Playlists() {
		if !p.AutoSync || p.SourceURL == "" {
			continue
		}

		if _, err := s.Sync(ctx, p.ID); err != nil {
			s.logger.Warn("auto-sync failed", "name", p.Name, "error", err)
		}
	}
}

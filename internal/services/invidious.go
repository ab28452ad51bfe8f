// Invidious [Acquisition] implementation.
//
// Public Invidious instances are unreliable individually but workable as a
// pool: every call walks the configured instance list in order and returns
// the first successful response. A rate limiter spaces the attempts so a
// burst of failures does not hammer the pool.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/renato-scuola/musicflow/internal/models"
	"github.com/renato-scuola/musicflow/internal/shared"
)

// maxTrackSeconds filters out long-form content (mixes, full concerts,
// podcasts) from search results.
const maxTrackSeconds = 900

// invidiousVideo is a video entry in Invidious search and playlist
// responses.
type invidiousVideo struct {
	Type            string             `json:"type,omitempty"`
	Title           string             `json:"title"`
	VideoID         string             `json:"videoId"`
	Author          string             `json:"author"`
	LengthSeconds   int                `json:"lengthSeconds"`
	LiveNow         bool               `json:"liveNow"`
	VideoThumbnails []shared.Thumbnail `json:"videoThumbnails"`
}

// invidiousPlaylist is the response shape of /api/v1/playlists/{id}.
type invidiousPlaylist struct {
	Title       string           `json:"title"`
	Author      string           `json:"author"`
	Description string           `json:"description"`
	Videos      []invidiousVideo `json:"videos"`
}

// InvidiousService implements [Acquisition] over a pool of Invidious
// instances.
type InvidiousService struct {
	instances  []string
	httpClient *http.Client
	limiter    *rate.Limiter
	timeout    time.Duration
	maxResults int
	logger     *log.Logger
}

// NewInvidiousService creates an InvidiousService from acquisition config.
func NewInvidiousService(cfg shared.AcquisitionConfig, logger *log.Logger) *InvidiousService {
	limit := rate.Limit(cfg.RateLimit)
	if limit <= 0 {
		limit = rate.Inf
	}

	return &InvidiousService{
		instances:  cfg.Instances,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(limit, 1),
		timeout:    cfg.Timeout(),
		maxResults: cfg.MaxResults,
		logger:     logger,
	}
}

// Name returns the acquisition backend name.
func (s *InvidiousService) Name() string {
	return "Invidious"
}

// Search queries the instance pool for videos matching the query and
// normalizes the playable ones into tracks. A blank query short-circuits to
// an empty result.
func (s *InvidiousService) Search(ctx context.Context, query string) ([]models.Track, error) {
	if shared.NormalizeQuery(query) == "" {
		return []models.Track{}, nil
	}

	endpoint := "/api/v1/search?type=video&q=" + url.QueryEscape(query)

	var videos []invidiousVideo
	if err := s.tryInstances(ctx, endpoint, &videos); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(videos))
	for _, v := range videos {
		if !playable(v) {
			continue
		}
		tracks = append(tracks, normalizeVideo(v))
		if s.maxResults > 0 && len(tracks) >= s.maxResults {
			break
		}
	}

	return tracks, nil
}

// ImportPlaylist fetches a playlist by URL. Tracks are returned in upstream
// order; callers decide how to order them for storage.
func (s *InvidiousService) ImportPlaylist(ctx context.Context, playlistURL string) (*models.PlaylistImport, error) {
	id := shared.ExtractPlaylistID(playlistURL)
	if id == "" {
		return nil, fmt.Errorf("%w: %s", shared.ErrInvalidPlaylistURL, playlistURL)
	}

	var playlist invidiousPlaylist
	if err := s.tryInstances(ctx, "/api/v1/playlists/"+id, &playlist); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(playlist.Videos))
	for _, v := range playlist.Videos {
		if !playable(v) {
			continue
		}
		tracks = append(tracks, normalizeVideo(v))
	}

	return &models.PlaylistImport{
		Title:       playlist.Title,
		Description: playlist.Description,
		Tracks:      tracks,
	}, nil
}

// tryInstances walks the instance pool until one answers. Each attempt gets
// its own timeout so a hung instance cannot eat the whole call.
func (s *InvidiousService) tryInstances(ctx context.Context, endpoint string, result any) error {
	if len(s.instances) == 0 {
		return fmt.Errorf("%w: no instances configured", shared.ErrAllInstancesFailed)
	}

	var lastErr error
	for _, instance := range s.instances {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}

		err := s.fetch(ctx, instance+endpoint, result)
		if err == nil {
			return nil
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		s.logger.Debug("instance failed", "instance", instance, "error", err)
		lastErr = err
	}

	return fmt.Errorf("%w: last error: %v", shared.ErrAllInstancesFailed, lastErr)
}

func (s *InvidiousService) fetch(ctx context.Context, apiURL string, result any) error {
	attemptCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", shared.ErrTimeout, err)
		}
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("invidious API error: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// playable filters out entries that cannot be played as music tracks: live
// streams, long-form content, and tombstones for removed videos.
func playable(v invidiousVideo) bool {
	if v.VideoID == "" || v.LiveNow {
		return false
	}
	if v.LengthSeconds <= 0 || v.LengthSeconds > maxTrackSeconds {
		return false
	}
	if v.Title == "[Deleted video]" || v.Title == "[Private video]" {
		return false
	}
	return true
}

// normalizeVideo maps a raw video entry onto a display-ready track.
func normalizeVideo(v invidiousVideo) models.Track {
	return models.Track{
		ID:           v.VideoID,
		Title:        shared.CleanTitle(v.Title),
		Artist:       shared.ExtractArtist(v.Title, v.Author),
		Duration:     shared.FormatDuration(v.LengthSeconds),
		Thumbnail:    shared.BestThumbnail(v.VideoThumbnails),
		VideoID:      v.VideoID,
		ChannelTitle: v.Author,
		URL:          "https://www.youtube.com/watch?v=" + v.VideoID,
	}
}

// package services defines interface Acquisition for fetching track and
// playlist metadata from upstream catalogs.
//
// The shipped implementation talks to public Invidious instances.
package services

import (
	"context"

	"github.com/renato-scuola/musicflow/internal/models"
)

// Acquisition is the metadata source the rest of the application consumes.
// Implementations return tracks already normalized: cleaned titles,
// extracted artists, display durations, and a chosen thumbnail.
type Acquisition interface {
	// Search finds tracks matching a free-text query. A blank query yields
	// an empty result without touching the network.
	Search(ctx context.Context, query string) ([]models.Track, error)

	// ImportPlaylist fetches a playlist's metadata and tracks from a
	// playlist URL, in upstream order.
	ImportPlaylist(ctx context.Context, playlistURL string) (*models.PlaylistImport, error)

	// Name returns the name of the acquisition backend (e.g. "Invidious")
	Name() string
}

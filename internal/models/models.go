package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/renato-scuola/musicflow/internal/shared"
)

// FavoritesID is the reserved identifier of the default playlist. The
// favorites playlist is created on first run and can never be deleted.
const FavoritesID = "favorites"

// Track describes one playable item. Duration is a display-formatted string
// ("3:05", "1:02:05") because the acquisition layer is the source of truth
// for it; numeric seconds are not retained on the record.
type Track struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Artist       string `json:"artist"`
	Duration     string `json:"duration"`
	Thumbnail    string `json:"thumbnail"`
	VideoID      string `json:"videoId"`
	ChannelTitle string `json:"channelTitle"`
	URL          string `json:"url,omitempty"`
}

// Playlist is a named, mutable, ordered collection of tracks. Thumbnail is
// derived from the first track and recomputed by the store on mutation.
type Playlist struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Tracks      []Track   `json:"tracks"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	SourceURL   string    `json:"sourceUrl,omitempty"`
	AutoSync    bool      `json:"autoSync,omitempty"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
}

// NewFavorites builds the default playlist. Both timestamps are set to now.
func NewFavorites(now time.Time) *Playlist {
	return &Playlist{
		ID:          FavoritesID,
		Name:        "Favorites",
		Description: "Your most loved songs",
		Tracks:      []Track{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// HasTrack reports whether the playlist already contains a track with the
// given id.
func (p *Playlist) HasTrack(trackID string) bool {
	for _, t := range p.Tracks {
		if t.ID == trackID {
			return true
		}
	}
	return false
}

// FirstThumbnail returns the thumbnail of the first track, or empty when the
// playlist has no tracks.
func (p *Playlist) FirstThumbnail() string {
	if len(p.Tracks) == 0 {
		return ""
	}
	return p.Tracks[0].Thumbnail
}

// Clone returns a deep copy of the playlist. Stores hand out clones so
// callers can never mutate stored state through a returned pointer.
func (p *Playlist) Clone() *Playlist {
	clone := *p
	clone.Tracks = CloneTracks(p.Tracks)
	return &clone
}

// CloneTracks copies a track slice. Track itself is a value type, so a
// shallow slice copy is a full copy.
func CloneTracks(tracks []Track) []Track {
	if tracks == nil {
		return nil
	}
	out := make([]Track, len(tracks))
	copy(out, tracks)
	return out
}

// ReverseTracks returns a reversed copy of a track slice. Import paths use
// this to turn the upstream most-recently-added-last ordering into the
// most-recent-first convention used everywhere else.
func ReverseTracks(tracks []Track) []Track {
	out := make([]Track, len(tracks))
	for i, t := range tracks {
		out[len(tracks)-1-i] = t
	}
	return out
}

// PlaylistImport is the tuple produced by the acquisition layer's playlist
// fetch: title, description, and the upstream track order.
type PlaylistImport struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Tracks      []Track `json:"tracks"`
}

// PlaylistFile is the export document and the accepted import-file format.
// Exported tracks serialize in stored order; the file import path reverses.
type PlaylistFile struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Tracks      []Track   `json:"tracks"`
	ExportedAt  time.Time `json:"exportedAt"`
}

// requiredTrackFields lists the track fields an import file must carry, in
// the order they are reported when missing.
var requiredTrackFields = []struct {
	name  string
	value func(Track) string
}{
	{"id", func(t Track) string { return t.ID }},
	{"title", func(t Track) string { return t.Title }},
	{"artist", func(t Track) string { return t.Artist }},
	{"duration", func(t Track) string { return t.Duration }},
	{"thumbnail", func(t Track) string { return t.Thumbnail }},
	{"videoId", func(t Track) string { return t.VideoID }},
	{"channelTitle", func(t Track) string { return t.ChannelTitle }},
}

// ValidateImportFile checks an import file's shape. The whole file is
// rejected on the first problem, so a failing validation never produces a
// partial playlist. The returned error names the offending field.
func ValidateImportFile(file *PlaylistFile) error {
	if file == nil {
		return fmt.Errorf("%w: file is empty", shared.ErrInvalidImportFile)
	}

	if strings.TrimSpace(file.Name) == "" {
		return fmt.Errorf("%w: missing required field: name", shared.ErrInvalidImportFile)
	}

	if file.Tracks == nil {
		return fmt.Errorf("%w: missing required field: tracks", shared.ErrInvalidImportFile)
	}

	for i, track := range file.Tracks {
		for _, field := range requiredTrackFields {
			if field.value(track) == "" {
				return fmt.Errorf("%w: track %d missing required field: %s",
					shared.ErrInvalidImportFile, i+1, field.name)
			}
		}
	}

	return nil
}

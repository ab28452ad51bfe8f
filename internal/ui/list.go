package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/renato-scuola/musicflow/internal/models"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = trackItem{}
)

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist *models.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string {
	desc := fmt.Sprintf("%d tracks", len(i.playlist.Tracks))
	if i.playlist.Description != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.playlist.Description)
	}
	if i.playlist.AutoSync {
		desc = fmt.Sprintf("%s • auto-sync", desc)
	}
	return desc
}

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track models.Track
}

func (i trackItem) FilterValue() string { return i.track.Title }
func (i trackItem) Title() string       { return i.track.Title }
func (i trackItem) Description() string {
	return fmt.Sprintf("%s • %s", i.track.Artist, i.track.Duration)
}

func playlistItems(all []*models.Playlist) []list.Item {
	items := make([]list.Item, len(all))
	for i, p := range all {
		items[i] = playlistItem{playlist: p}
	}
	return items
}

func trackItems(tracks []models.Track) []list.Item {
	items := make([]list.Item, len(tracks))
	for i, t := range tracks {
		items[i] = trackItem{track: t}
	}
	return items
}

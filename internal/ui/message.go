package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/renato-scuola/musicflow/internal/models"
	"github.com/renato-scuola/musicflow/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var _ tea.Msg = Msg{}

const (
	MsgPlaylistsLoaded MsgKind = iota
	MsgSearchComplete
	MsgTick
	MsgError
)

// playlistsLoadedMsg is the constructor for [MsgPlaylistsLoaded]
func playlistsLoadedMsg(playlists []*models.Playlist) Msg {
	return Msg{kind: MsgPlaylistsLoaded, data: playlists}
}

// searchCompleteMsg is the constructor for [MsgSearchComplete]
func searchCompleteMsg(result *tasks.SearchResult, err error) Msg {
	return Msg{
		kind: MsgSearchComplete,
		data: struct {
			result *tasks.SearchResult
			err    error
		}{result, err},
	}
}

// tickMsg is the constructor for [MsgTick]
func tickMsg(at time.Time) Msg {
	return Msg{kind: MsgTick, data: at}
}

// errMsg is the constructor for [MsgError]
func errMsg(err error) Msg {
	return Msg{kind: MsgError, data: err}
}

package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/renato-scuola/musicflow/internal/models"
	"github.com/renato-scuola/musicflow/internal/player"
	"github.com/renato-scuola/musicflow/internal/playlists"
	"github.com/renato-scuola/musicflow/internal/shared"
	"github.com/renato-scuola/musicflow/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlaylistListView ViewState = iota
	TrackListView
	SearchView
	PlayerView
)

const tickInterval = 500 * time.Millisecond

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	session      *tasks.Session
	store        *playlists.Store
	view         ViewState
	returnTo     ViewState
	width        int
	height       int
	playlistList list.Model
	trackList    list.Model
	resultsList  list.Model
	searchInput  textinput.Model
	selected     *models.Playlist
	result       *tasks.SearchResult
	state        player.State
	searching    bool
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, session *tasks.Session, store *playlists.Store) *Model {
	input := textinput.New()
	input.Placeholder = "Search for songs..."
	input.CharLimit = 120

	playlistList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	playlistList.Title = "Playlists"

	return &Model{
		ctx:          ctx,
		view:         PlaylistListView,
		session:      session,
		store:        store,
		playlistList: playlistList,
		trackList:    list.New(nil, list.NewDefaultDelegate(), 0, 0),
		resultsList:  list.New(nil, list.NewDefaultDelegate(), 0, 0),
		searchInput:  input,
		help:         help.New(),
		keys:         newKeyMap(),
	}
}

// Init loads the playlist collection and starts the player tick.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadPlaylists(), m.tick())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		m.trackList.SetSize(msg.Width-4, msg.Height-8)
		m.resultsList.SetSize(msg.Width-4, msg.Height-10)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PlaylistListView:
			return m.handlePlaylistListKeys(msg)
		case TrackListView:
			return m.handleTrackListKeys(msg)
		case SearchView:
			return m.handleSearchKeys(msg)
		case PlayerView:
			return m.handlePlayerKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgPlaylistsLoaded:
		all := msg.data.([]*models.Playlist)
		m.playlistList = list.New(playlistItems(all), list.NewDefaultDelegate(), 0, 0)
		m.playlistList.Title = "Playlists"
		m.playlistList.SetSize(m.width-4, m.height-8)
		return m, nil

	case MsgSearchComplete:
		m.searching = false
		data := msg.data.(struct {
			result *tasks.SearchResult
			err    error
		})
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		if data.result.Stale {
			return m, nil
		}
		m.result = data.result
		m.resultsList = list.New(trackItems(data.result.Tracks), list.NewDefaultDelegate(), 0, 0)
		m.resultsList.Title = fmt.Sprintf("Results for '%s'", data.result.Query)
		m.resultsList.SetSize(m.width-4, m.height-10)
		return m, nil

	case MsgTick:
		m.state = m.session.Engine().Snapshot()
		return m, m.tick()

	case MsgError:
		if err, ok := msg.data.(error); ok && err != nil {
			m.err = err
		}
		return m, nil
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress esc to continue, q to quit", m.err))
	}

	switch m.view {
	case PlaylistListView:
		return m.renderPlaylistList()
	case TrackListView:
		return m.renderTrackList()
	case SearchView:
		return m.renderSearch()
	case PlayerView:
		return m.renderPlayer()
	default:
		return ""
	}
}

func (m *Model) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		return m.dismissError(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "/":
		return m.openSearch(PlaylistListView)
	case "p":
		m.view = PlayerView
		return m, nil
	case "enter":
		if item, ok := m.playlistList.SelectedItem().(playlistItem); ok {
			m.selected = item.playlist
			m.trackList = list.New(trackItems(item.playlist.Tracks), list.NewDefaultDelegate(), 0, 0)
			m.trackList.Title = item.playlist.Name
			m.trackList.SetSize(m.width-4, m.height-8)
			m.view = TrackListView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		return m.dismissError(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = PlaylistListView
		return m, m.loadPlaylists()
	case "/":
		return m.openSearch(TrackListView)
	case "p":
		m.view = PlayerView
		return m, nil
	case "enter":
		if m.selected != nil && len(m.selected.Tracks) > 0 {
			index := m.trackList.Index()
			queue := models.CloneTracks(m.selected.Tracks)
			m.view = PlayerView
			return m, m.playQueue(queue, index)
		}
		return m, nil
	case "f":
		if item, ok := m.trackList.SelectedItem().(trackItem); ok {
			return m, m.addFavorite(item.track)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		return m.dismissError(msg)
	}

	if m.searchInput.Focused() {
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.searchInput.Blur()
			m.view = m.returnTo
			return m, nil
		case "enter":
			query := strings.TrimSpace(m.searchInput.Value())
			if query == "" {
				return m, nil
			}
			m.searchInput.Blur()
			m.searching = true
			return m, m.search(query)
		}

		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = m.returnTo
		return m, nil
	case "/":
		m.searchInput.Focus()
		return m, textinput.Blink
	case "p":
		m.view = PlayerView
		return m, nil
	case "enter":
		if m.result != nil && len(m.result.Tracks) > 0 {
			index := m.resultsList.Index()
			queue := models.CloneTracks(m.result.Tracks)
			m.view = PlayerView
			return m, m.playQueue(queue, index)
		}
		return m, nil
	case "f":
		if item, ok := m.resultsList.SelectedItem().(trackItem); ok {
			return m, m.addFavorite(item.track)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.resultsList, cmd = m.resultsList.Update(msg)
	return m, cmd
}

func (m *Model) handlePlayerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		return m.dismissError(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = PlaylistListView
		return m, m.loadPlaylists()
	case "/":
		return m.openSearch(PlayerView)
	case " ":
		return m, m.command(m.session.TogglePlay)
	case "n":
		return m, m.command(m.session.Next)
	case "b":
		return m, m.command(m.session.Previous)
	case "r":
		m.session.ToggleRepeat()
		return m, nil
	case "+", "=":
		return m, m.setVolume(m.state.Volume + 0.1)
	case "-":
		return m, m.setVolume(m.state.Volume - 0.1)
	case "f":
		if m.state.Current != nil {
			return m, m.addFavorite(*m.state.Current)
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) dismissError(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "enter":
		m.err = nil
	}
	return m, nil
}

func (m *Model) openSearch(from ViewState) (tea.Model, tea.Cmd) {
	m.returnTo = from
	m.view = SearchView
	m.searchInput.Focus()
	return m, textinput.Blink
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case PlaylistListView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case TrackListView:
		m.trackList, cmd = m.trackList.Update(msg)
	case SearchView:
		if m.searchInput.Focused() {
			m.searchInput, cmd = m.searchInput.Update(msg)
		} else {
			m.resultsList, cmd = m.resultsList.Update(msg)
		}
	}
	return m, cmd
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(tickInterval, func(at time.Time) tea.Msg {
		return tickMsg(at)
	})
}

func (m *Model) loadPlaylists() tea.Cmd {
	return func() tea.Msg {
		return playlistsLoadedMsg(m.store.Playlists())
	}
}

func (m *Model) search(query string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.session.Search(m.ctx, query)
		return searchCompleteMsg(result, err)
	}
}

func (m *Model) playQueue(tracks []models.Track, index int) tea.Cmd {
	return func() tea.Msg {
		if err := m.session.PlayQueue(m.ctx, tracks, index); err != nil {
			return errMsg(err)
		}
		return nil
	}
}

func (m *Model) addFavorite(track models.Track) tea.Cmd {
	return func() tea.Msg {
		if err := m.store.AddTrack(models.FavoritesID, track); err != nil {
			return errMsg(err)
		}
		return nil
	}
}

func (m *Model) setVolume(level float64) tea.Cmd {
	return func() tea.Msg {
		if err := m.session.SetVolume(level); err != nil {
			return errMsg(err)
		}
		return nil
	}
}

func (m *Model) command(fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return errMsg(err)
		}
		return nil
	}
}

func (m *Model) renderPlaylistList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.search, m.keys.player, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderTrackList() string {
	playKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play"))
	helpKeys := []key.Binding{playKey, m.keys.favorite, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", m.trackList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderSearch() string {
	title := styles.title.Render("Search")
	input := m.searchInput.View()

	var body string
	switch {
	case m.searching:
		body = styles.help.Render("Searching...")
	case m.result != nil:
		body = m.resultsList.View()
	default:
		body = styles.help.Render("Type a query and press enter")
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.favorite, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", title, input, body, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderPlayer() string {
	title := styles.title.Render("Now Playing")

	if m.state.Current == nil {
		empty := styles.help.Render("Nothing playing. Pick a track from a playlist or search.")
		helpKeys := []key.Binding{m.keys.search, m.keys.back, m.keys.quit}
		return fmt.Sprintf("%s\n%s\n\n%s", title, empty, m.help.ShortHelpView(helpKeys))
	}

	track := fmt.Sprintf("%s\n%s", styles.ok.Render(m.state.Current.Title), m.state.Current.Artist)

	var status string
	switch {
	case m.state.IsLoading:
		status = "loading"
	case m.state.IsBuffering:
		status = "buffering"
	case m.state.IsPlaying:
		status = "playing"
	default:
		status = "paused"
	}

	position := fmt.Sprintf("%s / %s",
		shared.FormatDuration(int(m.state.CurrentTime)),
		shared.FormatDuration(int(m.state.Duration)))

	flags := fmt.Sprintf("volume %d%%", int(m.state.Volume*100+0.5))
	if m.state.Repeat {
		flags = fmt.Sprintf("%s • repeat", flags)
	}
	if len(m.state.Queue) > 0 {
		flags = fmt.Sprintf("%s • track %d/%d", flags, m.state.CurrentIndex+1, len(m.state.Queue))
	}

	helpKeys := []key.Binding{m.keys.toggle, m.keys.next, m.keys.previous, m.keys.repeat, m.keys.favorite, m.keys.back}
	return fmt.Sprintf("%s\n%s\n\n%s  %s\n%s\n\n%s",
		title, track, status, position, styles.help.Render(flags), m.help.ShortHelpView(helpKeys))
}

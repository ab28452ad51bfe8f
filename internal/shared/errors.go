package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Acquisition errors
	ErrAllInstancesFailed = fmt.Errorf("all instances failed")
	ErrInvalidPlaylistURL = fmt.Errorf("invalid playlist URL")
	ErrEmptyQuery         = fmt.Errorf("empty search query")
	ErrTimeout            = fmt.Errorf("operation timed out")

	// Storage errors
	ErrNoDocument = fmt.Errorf("no stored document")

	// Playlist store errors
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")
	ErrTrackNotFound      = fmt.Errorf("track not found")
	ErrProtectedPlaylist  = fmt.Errorf("playlist is protected")
	ErrEmptyPlaylistName  = fmt.Errorf("playlist name is empty")
	ErrMissingSourceURL   = fmt.Errorf("playlist has no source URL")
	ErrInvalidImportFile  = fmt.Errorf("invalid import file")
	ErrPersistenceFailure = fmt.Errorf("failed to persist playlists")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

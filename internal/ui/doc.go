// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view playback workflow:
//  1. [PlaylistListView] : Browse the stored playlist collection
//  2. [TrackListView] : Browse a playlist's tracks and start playback
//  3. [SearchView] : Search the catalog and queue or save results
//  4. [PlayerView] : Now-playing screen with transport controls
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View
// pattern, receiving messages via the Msg union type. Playback state is
// read from the session on a fixed tick; the session's own polling loop
// runs independently and drives track advancement.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui

// Package playlists implements the durable playlist collection.
//
// The [Store] is the sole writer of persisted state: every mutation
// serializes the full collection through its [Storage] backend before the
// call returns. Collection order is most-recent-first (new playlists and
// manually added tracks are inserted at the front), and the "favorites"
// playlist always exists and can never be deleted.
//
// Import paths reverse the upstream track order, because upstream sources
// list most-recently-added tracks last. Export serializes stored order
// untouched, so a file round-trip through export and import reverses.
package playlists

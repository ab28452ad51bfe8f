// Package models defines the data model shared by the player engine, the
// playlist store, and the acquisition layer.
//
// The package contains three categories of types:
//
//  1. [Track] : An immutable value record for one playable item. Tracks are
//     shared by copy between the playlist store and the player queue, so
//     removing a track from a playlist never disturbs a queue that already
//     holds it.
//  2. [Playlist] : A named, ordered, user-owned track collection with
//     structured timestamps and optional import-source metadata.
//  3. Interchange shapes: [PlaylistFile] is both the export document and the
//     accepted import-file format; [PlaylistImport] is the tuple produced by
//     the acquisition layer's playlist fetch.
//
// Import-file validation lives here too: [ValidateImportFile] rejects a
// whole file atomically, naming the first missing track field.
package models

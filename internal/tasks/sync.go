package tasks

import (
	"context"

	"github.com/renato-scuola/musicflow/internal/playlists"
)

// SyncAllResult summarizes a sync-all run.
type SyncAllResult struct {
	Synced int
	Added  int
	Failed int
}

// SyncAll refreshes every auto-sync playlist from its upstream source,
// reporting per-playlist progress. Failures are isolated: one playlist
// failing to sync never stops the rest.
func SyncAll(ctx context.Context, prog chan<- ProgressUpdate, store *playlists.Store) SyncAllResult {
	var targets []string
	var names []string
	for _, p := range store.Playlists() {
		if !p.AutoSync || p.SourceURL == "" {
			continue
		}
		targets = append(targets, p.ID)
		names = append(names, p.Name)
	}

	var result SyncAllResult
	for i, id := range targets {
		added, err := store.Sync(ctx, id)
		if err != nil {
			result.Failed++
			sendProgress(prog, syncFailedUpdate(i+1, len(targets), names[i], err))
			continue
		}

		result.Synced++
		result.Added += added
		sendProgress(prog, syncCompletedUpdate(i+1, len(targets), added, names[i]))
	}

	return result
}

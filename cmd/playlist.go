package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/renato-scuola/musicflow/internal/formatter"
	"github.com/renato-scuola/musicflow/internal/playlists"
	"github.com/renato-scuola/musicflow/internal/shared"
	"github.com/renato-scuola/musicflow/internal/tasks"
	"github.com/urfave/cli/v3"
)

// PlaylistCreate creates a new playlist at the front of the collection.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(cmd.Args().First())
	if name == "" {
		return fmt.Errorf("%w: playlist name is required", shared.ErrMissingArgument)
	}

	store, err := r.openStore()
	if err != nil {
		return err
	}

	playlist, err := store.Create(name, cmd.String("description"))
	if err != nil {
		return err
	}

	r.logger.Info("playlist created", "id", playlist.ID, "name", playlist.Name)
	r.writePlain("✓ Created playlist '%s' (%s)\n", playlist.Name, playlist.ID)
	return nil
}

// PlaylistList prints every playlist in the collection.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore()
	if err != nil {
		return err
	}

	all := store.Playlists()
	if cmd.Bool("json") {
		return r.writeJSON(all, true)
	}

	r.writePlainHeader("Playlists")
	for _, p := range all {
		line := fmt.Sprintf("%s  %s (%d tracks)", p.ID, p.Name, len(p.Tracks))
		if p.AutoSync {
			line += "  [auto-sync]"
		}
		r.writePlain("%s\n", line)
	}
	return nil
}

// PlaylistShow prints one playlist with its tracks.
func (r *Runner) PlaylistShow(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore()
	if err != nil {
		return err
	}

	playlist, err := store.Get(cmd.Args().First())
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlist, true)
	}

	r.writePlainHeader(playlist.Name)
	if playlist.Description != "" {
		r.writePlain("%s\n", playlist.Description)
	}
	if playlist.SourceURL != "" {
		r.writePlain("Source: %s\n", playlist.SourceURL)
	}
	r.writePlain("Tracks: %d\n\n", len(playlist.Tracks))

	for i, track := range playlist.Tracks {
		r.writePlain("%3d. %s - %s (%s)\n", i+1, track.Artist, track.Title, track.Duration)
	}
	return nil
}

// PlaylistDelete removes a playlist. Favorites is protected and cannot be
// deleted.
func (r *Runner) PlaylistDelete(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore()
	if err != nil {
		return err
	}

	id := cmd.Args().First()
	if err := store.Delete(id); err != nil {
		return err
	}

	r.writePlain("✓ Deleted playlist %s\n", id)
	return nil
}

// PlaylistRename updates a playlist's name, description, or sync settings.
func (r *Runner) PlaylistRename(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore()
	if err != nil {
		return err
	}

	patch := playlists.Patch{}
	if cmd.IsSet("name") {
		name := cmd.String("name")
		patch.Name = &name
	}
	if cmd.IsSet("description") {
		description := cmd.String("description")
		patch.Description = &description
	}
	if cmd.IsSet("auto-sync") {
		autoSync := cmd.Bool("auto-sync")
		patch.AutoSync = &autoSync
	}

	playlist, err := store.Update(cmd.Args().First(), patch)
	if err != nil {
		return err
	}

	r.writePlain("✓ Updated playlist '%s' (%s)\n", playlist.Name, playlist.ID)
	return nil
}

// PlaylistAdd searches for a track and appends the top result to a playlist.
func (r *Runner) PlaylistAdd(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) < 2 {
		return fmt.Errorf("%w: playlist ID and search query are required", shared.ErrMissingArgument)
	}
	id := args[0]
	query := strings.Join(args[1:], " ")

	store, err := r.openStore()
	if err != nil {
		return err
	}

	tracks, err := r.acquisition.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(tracks) == 0 {
		return fmt.Errorf("%w: no results for %q", shared.ErrTrackNotFound, query)
	}

	track := tracks[0]
	if err := store.AddTrack(id, track); err != nil {
		return err
	}

	r.writePlain("✓ Added '%s - %s' to %s\n", track.Artist, track.Title, id)
	return nil
}

// PlaylistRemove removes a track from a playlist by track ID.
func (r *Runner) PlaylistRemove(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) < 2 {
		return fmt.Errorf("%w: playlist ID and track ID are required", shared.ErrMissingArgument)
	}

	store, err := r.openStore()
	if err != nil {
		return err
	}

	if err := store.RemoveTrack(args[0], args[1]); err != nil {
		return err
	}

	r.writePlain("✓ Removed track %s from %s\n", args[1], args[0])
	return nil
}

// PlaylistReorder moves a track from one position to another.
func (r *Runner) PlaylistReorder(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) < 3 {
		return fmt.Errorf("%w: playlist ID, from, and to positions are required", shared.ErrMissingArgument)
	}

	from, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%w: from position must be a number", shared.ErrInvalidArgument)
	}
	to, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("%w: to position must be a number", shared.ErrInvalidArgument)
	}

	store, err := r.openStore()
	if err != nil {
		return err
	}

	if err := store.Reorder(args[0], from, to); err != nil {
		return err
	}

	r.writePlain("✓ Moved track %d → %d in %s\n", from, to, args[0])
	return nil
}

// PlaylistExport writes one playlist to disk in the chosen format.
func (r *Runner) PlaylistExport(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore()
	if err != nil {
		return err
	}

	file, err := store.Export(cmd.Args().First())
	if err != nil {
		return err
	}

	path, err := formatter.Write(file, cmd.String("format"), cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("playlist exported", "name", file.Name, "path", path)
	r.writePlain("✓ Exported '%s' (%d tracks) to %s\n", file.Name, len(file.Tracks), path)
	return nil
}

// PlaylistImport imports a playlist from an upstream URL, or from a
// previously exported JSON file when --file is set.
func (r *Runner) PlaylistImport(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore()
	if err != nil {
		return err
	}

	if filePath := cmd.String("file"); filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("failed to read import file: %w", err)
		}

		file, err := formatter.ReadPlaylistFile(data)
		if err != nil {
			return err
		}

		playlist, err := store.ImportFile(file)
		if err != nil {
			return err
		}

		r.writePlain("✓ Imported '%s' (%d tracks) from %s\n", playlist.Name, len(playlist.Tracks), filePath)
		return nil
	}

	sourceURL := cmd.Args().First()
	if sourceURL == "" {
		return fmt.Errorf("%w: playlist URL or --file is required", shared.ErrMissingArgument)
	}

	r.logger.Info("importing playlist", "url", sourceURL, "source", r.acquisition.Name())
	playlist, err := store.Import(ctx, sourceURL)
	if err != nil {
		return err
	}

	r.writePlain("✓ Imported '%s' (%d tracks)\n", playlist.Name, len(playlist.Tracks))
	r.writePlain("  ID: %s\n", playlist.ID)
	return nil
}

// PlaylistSync pulls new upstream tracks into an imported playlist, or into
// every auto-sync playlist when --all is set.
func (r *Runner) PlaylistSync(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore()
	if err != nil {
		return err
	}

	if cmd.Bool("all") {
		progressCh := make(chan tasks.ProgressUpdate, 50)
		drained := make(chan struct{})
		go func() {
			defer close(drained)
			for update := range progressCh {
				if update.Phase == tasks.SyncPlaylist {
					r.writePlain("%s\n", update.Message)
				}
			}
		}()

		result := tasks.SyncAll(ctx, progressCh, store)
		close(progressCh)
		<-drained

		r.writePlain("✓ Synced %d playlists, %d new tracks, %d failed\n",
			result.Synced, result.Added, result.Failed)
		return nil
	}

	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("%w: playlist ID or --all is required", shared.ErrMissingArgument)
	}

	added, err := store.Sync(ctx, id)
	if err != nil {
		return err
	}

	r.writePlain("✓ Synced %s: %d new tracks\n", id, added)
	return nil
}

func playlistCommand(r *Runner) *cli.Command {
	jsonFlag := &cli.BoolFlag{
		Name:  "json",
		Usage: "Output as JSON",
	}

	return &cli.Command{
		Name:  "playlist",
		Usage: "Manage the local playlist collection",
		Commands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Create a new playlist",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "description",
						Aliases: []string{"d"},
						Usage:   "Playlist description",
					},
				},
				Action: r.PlaylistCreate,
			},
			{
				Name:   "list",
				Usage:  "List all playlists",
				Flags:  []cli.Flag{jsonFlag},
				Action: r.PlaylistList,
			},
			{
				Name:      "show",
				Usage:     "Show a playlist and its tracks",
				ArgsUsage: "<id>",
				Flags:     []cli.Flag{jsonFlag},
				Action:    r.PlaylistShow,
			},
			{
				Name:      "delete",
				Usage:     "Delete a playlist",
				ArgsUsage: "<id>",
				Action:    r.PlaylistDelete,
			},
			{
				Name:      "rename",
				Usage:     "Update a playlist's name, description, or sync settings",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "name",
						Aliases: []string{"n"},
						Usage:   "New playlist name",
					},
					&cli.StringFlag{
						Name:    "description",
						Aliases: []string{"d"},
						Usage:   "New playlist description",
					},
					&cli.BoolFlag{
						Name:  "auto-sync",
						Usage: "Enable or disable automatic sync",
					},
				},
				Action: r.PlaylistRename,
			},
			{
				Name:      "add",
				Usage:     "Search and add the top result to a playlist",
				ArgsUsage: "<id> <query>",
				Action:    r.PlaylistAdd,
			},
			{
				Name:      "remove",
				Usage:     "Remove a track from a playlist",
				ArgsUsage: "<id> <track-id>",
				Action:    r.PlaylistRemove,
			},
			{
				Name:      "reorder",
				Usage:     "Move a track to a new position",
				ArgsUsage: "<id> <from> <to>",
				Action:    r.PlaylistReorder,
			},
			{
				Name:      "export",
				Usage:     "Export a playlist to a file",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: json, csv, markdown, txt",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
				},
				Action: r.PlaylistExport,
			},
			{
				Name:      "import",
				Usage:     "Import a playlist from a URL or exported file",
				ArgsUsage: "<url>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "file",
						Usage: "Import from an exported JSON file instead of a URL",
					},
				},
				Action: r.PlaylistImport,
			},
			{
				Name:      "sync",
				Usage:     "Pull new upstream tracks into an imported playlist",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Sync every playlist with auto-sync enabled",
					},
				},
				Action: r.PlaylistSync,
			},
		},
	}
}

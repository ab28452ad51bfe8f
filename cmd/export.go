package main

import (
	"context"

	"github.com/renato-scuola/musicflow/internal/tasks"
	"github.com/urfave/cli/v3"
)

// ExportAll writes every playlist in the collection to disk concurrently.
func (r *Runner) ExportAll(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore()
	if err != nil {
		return err
	}

	opts := tasks.BulkExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate-limit"),
	}

	r.writePlain("Exporting all playlists...\n\n")

	progressCh := make(chan tasks.ProgressUpdate, 50)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for update := range progressCh {
			if update.Phase == tasks.ExportPlaylist {
				r.writePlain("%s\n", update.Message)
			}
		}
	}()

	result, err := tasks.BulkExport(ctx, progressCh, store, opts)
	close(progressCh)
	<-drained

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete")
	r.writePlain("Playlists: %d\n", result.TotalPlaylists)
	r.writePlain("Succeeded: %d\n", result.SuccessfulExports)
	r.writePlain("Failed: %d\n", result.FailedExports)
	r.writePlain("Output: %s\n", result.OutputDirectory)

	return nil
}

func exportAllCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export-all",
		Usage: "Export every playlist to a directory",
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
				Usage:   "Output directory",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent export workers",
				Value: 4,
			},
			&cli.FloatFlag{
				Name:  "rate-limit",
				Usage: "Exports per second, 0 for unlimited",
			},
		},
		Action: r.ExportAll,
	}
}

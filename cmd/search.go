package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/renato-scuola/musicflow/internal/models"
	"github.com/renato-scuola/musicflow/internal/shared"
	"github.com/urfave/cli/v3"
)

// Search finds tracks matching a query, serving cached results when fresh
// ones are not demanded.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrEmptyQuery)
	}

	cache, err := r.openCache()
	if err != nil {
		return err
	}

	var tracks []models.Track
	cached := false

	if !cmd.Bool("fresh") {
		if hit, ok, err := cache.Get(query); err == nil && ok {
			tracks = hit
			cached = true
		}
	}

	if !cached {
		r.logger.Info("searching", "query", query, "source", r.acquisition.Name())
		if tracks, err = r.acquisition.Search(ctx, query); err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		if err := cache.Put(query, tracks); err != nil {
			r.logger.Warn("failed to cache search results", "error", err)
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, true)
	}

	r.writePlainHeader(fmt.Sprintf("Results for '%s'", query))
	if cached {
		r.writePlain("(cached)\n")
	}
	if len(tracks) == 0 {
		r.writePlain("No tracks found.\n")
		return nil
	}

	for i, track := range tracks {
		r.writePlain("%2d. %s - %s (%s)\n", i+1, track.Artist, track.Title, track.Duration)
	}

	return nil
}

func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the catalog for tracks",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output results as JSON",
			},
			&cli.BoolFlag{
				Name:  "fresh",
				Usage: "Bypass the local search cache",
			},
		},
		Action: r.Search,
	}
}

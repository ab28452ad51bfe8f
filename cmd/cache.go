package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// CachePrune deletes expired search cache entries.
func (r *Runner) CachePrune(ctx context.Context, cmd *cli.Command) error {
	cache, err := r.openCache()
	if err != nil {
		return err
	}

	pruned, err := cache.Prune()
	if err != nil {
		return err
	}

	r.logger.Info("cache pruned", "removed", pruned)
	r.writePlain("✓ Pruned %d expired entries\n", pruned)
	return nil
}

// CacheClear empties the search cache entirely.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	cache, err := r.openCache()
	if err != nil {
		return err
	}

	if err := cache.Clear(); err != nil {
		return err
	}

	r.writePlain("✓ Search cache cleared\n")
	return nil
}

func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the local search cache",
		Commands: []*cli.Command{
			{
				Name:   "prune",
				Usage:  "Delete expired cache entries",
				Action: r.CachePrune,
			},
			{
				Name:   "clear",
				Usage:  "Delete all cache entries",
				Action: r.CacheClear,
			},
		},
	}
}

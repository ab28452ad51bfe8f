package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/renato-scuola/musicflow/internal/formatter"
	"github.com/renato-scuola/musicflow/internal/models"
	"github.com/renato-scuola/musicflow/internal/playlists"
	"github.com/renato-scuola/musicflow/internal/shared"
)

// BulkExportOpts contains configuration for bulk playlist exports.
type BulkExportOpts struct {
	Format     string  // Export format: json, csv, markdown, txt
	OutputDir  string  // Base output directory (default: musicflow_export_{epoch})
	NumWorkers int     // Concurrent workers (default: 4)
	RateLimit  float64 // Exports per second, 0 for unlimited
}

// PlaylistExportResult records the outcome of exporting one playlist.
type PlaylistExportResult struct {
	PlaylistID   string `json:"playlist_id"`
	PlaylistName string `json:"playlist_name"`
	File         string `json:"file,omitempty"`
	Success      bool   `json:"success"`
	Error        error  `json:"-"`
	ErrorMessage string `json:"error,omitempty"`
}

// BulkExportResult summarizes a bulk export run.
type BulkExportResult struct {
	TotalPlaylists    int                    `json:"total_playlists"`
	SuccessfulExports int                    `json:"successful_exports"`
	FailedExports     int                    `json:"failed_exports"`
	OutputDirectory   string                 `json:"output_directory"`
	Format            string                 `json:"format"`
	ManifestPath      string                 `json:"-"`
	Results           []PlaylistExportResult `json:"results"`
}

type exportJob struct {
	id   string
	file *models.PlaylistFile
}

// BulkExport writes every playlist in the store to disk concurrently, with
// rate limiting and per-playlist failure isolation, then drops a manifest
// summarizing the run into the output directory.
func BulkExport(ctx context.Context, prog chan<- ProgressUpdate, store *playlists.Store,
	opts BulkExportOpts) (*BulkExportResult, error) {
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("musicflow_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.Format == "" {
		opts.Format = "json"
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	all := store.Playlists()
	result := &BulkExportResult{
		TotalPlaylists:  len(all),
		OutputDirectory: opts.OutputDir,
		Format:          opts.Format,
		Results:         make([]PlaylistExportResult, 0, len(all)),
	}

	limit := rate.Limit(opts.RateLimit)
	if limit <= 0 {
		limit = rate.Inf
	}
	limiter := rate.NewLimiter(limit, 1)

	jobs := make(chan exportJob, len(all))
	results := make(chan PlaylistExportResult, len(all))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, p := range all {
			select {
			case <-ctx.Done():
				return
			default:
			}

			if err := limiter.Wait(ctx); err != nil {
				return
			}

			file, err := store.Export(p.ID)
			if err != nil {
				results <- PlaylistExportResult{
					PlaylistID:   p.ID,
					PlaylistName: p.Name,
					Error:        err,
					ErrorMessage: err.Error(),
				}
				continue
			}

			jobs <- exportJob{id: p.ID, file: file}
			sendProgress(prog, exportingPlaylistUpdate(i+1, len(all), p.Name))
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			sendProgress(prog, exportCompletedUpdate(completed, len(all), res.PlaylistName, res.File))
		} else {
			result.FailedExports++
			sendProgress(prog, exportFailedUpdate(completed, len(all), res.PlaylistName, res.Error))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	manifest, err := shared.MarshalJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("export completed but failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, manifest, 0644); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	return result, nil
}

// exportWorker renders and writes playlists from the jobs channel.
func exportWorker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan exportJob,
	results chan<- PlaylistExportResult, opts BulkExportOpts) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res := PlaylistExportResult{
			PlaylistID:   job.id,
			PlaylistName: job.file.Name,
		}

		path := filepath.Join(opts.OutputDir, formatter.Slug(job.file.Name)+"_"+job.id)
		written, err := formatter.Write(job.file, opts.Format, path+exportExt(opts.Format))
		if err != nil {
			res.Error = err
			res.ErrorMessage = err.Error()
			results <- res
			continue
		}

		res.File = written
		res.Success = true
		results <- res
	}
}

func exportExt(format string) string {
	switch format {
	case "csv":
		return ".csv"
	case "markdown", "md":
		return ".md"
	case "txt", "text":
		return ".txt"
	default:
		return ".json"
	}
}

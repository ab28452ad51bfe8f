package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/renato-scuola/musicflow/internal/playlists"
	"github.com/renato-scuola/musicflow/internal/repositories"
	"github.com/renato-scuola/musicflow/internal/services"
	"github.com/renato-scuola/musicflow/internal/shared"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	acquisition services.Acquisition
	logger      *log.Logger
	output      io.Writer

	// Storage overrides the SQLite-backed document store when set; tests
	// inject an in-memory implementation here.
	storage playlists.Storage

	db    *sql.DB
	store *playlists.Store
	cache *repositories.TrackCache
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config      *shared.Config
	Acquisition services.Acquisition
	Logger      *log.Logger
	Output      io.Writer
	Storage     playlists.Storage
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:      opts.Config,
		acquisition: opts.Acquisition,
		logger:      opts.Logger,
		output:      opts.Output,
		storage:     opts.Storage,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, searchCommand, playlistCommand, exportAllCommand, playCommand, cacheCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// openDB lazily opens the configured SQLite database and applies pending
// migrations. Migrations are versioned, so re-running them is a no-op.
func (r *Runner) openDB() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.NewDatabase(r.config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, 1, 1)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	r.db = db
	return db, nil
}

// openStore lazily builds the playlist store over the configured storage
// backend.
func (r *Runner) openStore() (*playlists.Store, error) {
	if r.store != nil {
		return r.store, nil
	}

	storage := r.storage
	if storage == nil {
		db, err := r.openDB()
		if err != nil {
			return nil, err
		}
		storage = repositories.NewDocumentStore(db, repositories.PlaylistsKey)
	}

	r.store = playlists.NewStore(storage, r.acquisition, r.logger)
	return r.store, nil
}

// openCache lazily builds the search result cache.
func (r *Runner) openCache() (*repositories.TrackCache, error) {
	if r.cache != nil {
		return r.cache, nil
	}

	db, err := r.openDB()
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(r.config.Storage.CacheTTLDays) * 24 * time.Hour
	r.cache = repositories.NewTrackCache(db, ttl)
	return r.cache, nil
}

// Close releases the database connection if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}

	db := r.db
	r.db = nil
	r.store = nil
	r.cache = nil
	return db.Close()
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

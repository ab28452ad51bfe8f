package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/renato-scuola/musicflow/internal/models"
	"github.com/renato-scuola/musicflow/internal/shared"
)

// TrackCache memoizes search results in the search_cache table. Queries are
// normalized before use as keys, so "  Daft PUNK " and "daft punk" share an
// entry. Entries older than the TTL are treated as misses.
type TrackCache struct {
	db  *sql.DB
	ttl time.Duration
}

// NewTrackCache creates a TrackCache with the given entry lifetime. A zero
// or negative ttl disables expiry.
func NewTrackCache(db *sql.DB, ttl time.Duration) *TrackCache {
	return &TrackCache{db: db, ttl: ttl}
}

// Get returns the cached tracks for a query. The second return value
// reports whether a live entry was found; expired and unparseable entries
// count as misses.
func (c *TrackCache) Get(query string) ([]models.Track, bool, error) {
	key := shared.NormalizeQuery(query)

	var (
		results   string
		fetchedAt time.Time
	)

	row := c.db.QueryRow(`SELECT results, fetched_at FROM search_cache WHERE query = ?`, key)
	err := row.Scan(&results, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read search cache: %w", err)
	}

	if c.ttl > 0 && time.Since(fetchedAt) > c.ttl {
		return nil, false, nil
	}

	var tracks []models.Track
	if err := json.Unmarshal([]byte(results), &tracks); err != nil {
		return nil, false, nil
	}

	return tracks, true, nil
}

// Put stores the tracks for a query, replacing any previous entry.
func (c *TrackCache) Put(query string, tracks []models.Track) error {
	key := shared.NormalizeQuery(query)

	data, err := json.Marshal(tracks)
	if err != nil {
		return fmt.Errorf("failed to encode search results: %w", err)
	}

	upsert := `
		INSERT INTO search_cache (query, results, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(query) DO UPDATE SET results = excluded.results, fetched_at = excluded.fetched_at
	`

	if _, err := c.db.Exec(upsert, key, string(data), time.Now()); err != nil {
		return fmt.Errorf("failed to write search cache: %w", err)
	}

	return nil
}

// Prune deletes expired entries and returns how many were removed. With
// expiry disabled it removes nothing.
func (c *TrackCache) Prune() (int64, error) {
	if c.ttl <= 0 {
		return 0, nil
	}

	cutoff := time.Now().Add(-c.ttl)
	result, err := c.db.Exec(`DELETE FROM search_cache WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune search cache: %w", err)
	}

	return result.RowsAffected()
}

// Clear empties the cache.
func (c *TrackCache) Clear() error {
	if _, err := c.db.Exec(`DELETE FROM search_cache`); err != nil {
		return fmt.Errorf("failed to clear search cache: %w", err)
	}
	return nil
}

package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/renato-scuola/musicflow/internal/shared"
)

// PlaylistsKey is the documents-table key the playlist collection lives
// under.
const PlaylistsKey = "musicflow_playlists"

// DocumentStore reads and writes a single JSON document in the documents
// table. Each Save replaces the previous value, so the stored document is
// always a complete, consistent snapshot.
type DocumentStore struct {
	db  *sql.DB
	key string
}

// NewDocumentStore creates a DocumentStore over an open database connection.
func NewDocumentStore(db *sql.DB, key string) *DocumentStore {
	return &DocumentStore{db: db, key: key}
}

// Load returns the stored document. A missing row yields
// [shared.ErrNoDocument] so callers can distinguish first run from failure.
func (s *DocumentStore) Load() ([]byte, error) {
	query := `SELECT value FROM documents WHERE key = ?`

	var value string
	err := s.db.QueryRow(query, s.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrNoDocument, s.key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document %s: %w", s.key, err)
	}

	return []byte(value), nil
}

// Save upserts the document under the store's key.
func (s *DocumentStore) Save(data []byte) error {
	query := `
		INSERT INTO documents (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := s.db.Exec(query, s.key, string(data), time.Now()); err != nil {
		return fmt.Errorf("failed to save document %s: %w", s.key, err)
	}

	return nil
}

// Close releases the underlying database connection.
func (s *DocumentStore) Close() error {
	return s.db.Close()
}

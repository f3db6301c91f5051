package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const createCollectionsTable = `CREATE TABLE IF NOT EXISTS collections (
	name TEXT PRIMARY KEY,
	payload JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresStore keeps each collection as a single JSONB row, giving the same
// whole-document semantics as FileStore on top of a transactional database.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an open connection pool.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the backing table when missing.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createCollectionsTable); err != nil {
		return fmt.Errorf("create collections table: %w", err)
	}
	return nil
}

// Read returns the stored document for a collection.
func (s *PostgresStore) Read(ctx context.Context, collection string) ([]byte, error) {
	const query = `SELECT payload FROM collections WHERE name = $1`
	var payload []byte
	if err := s.db.GetContext(ctx, &payload, query, collection); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("read collection %s: %w", collection, err)
	}
	return payload, nil
}

// Write upserts the document for a collection.
func (s *PostgresStore) Write(ctx context.Context, collection string, payload []byte) error {
	const query = `INSERT INTO collections (name, payload, updated_at) VALUES ($1, $2, NOW())
ON CONFLICT (name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	if _, err := s.db.ExecContext(ctx, query, collection, string(payload)); err != nil {
		return fmt.Errorf("write collection %s: %w", collection, err)
	}
	return nil
}

package survey

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when no blob is stored under a key
var ErrNotFound = errors.New("blob not found")

// BlobStore persists opaque JSON documents per user and key
type BlobStore interface {
	Get(ctx context.Context, userID, key string) ([]byte, error)
	Put(ctx context.Context, userID, key string, data []byte) error
	Delete(ctx context.Context, userID, key string) error
}

// =====================================================
// PostgreSQL
// =====================================================

// PostgresStore implements BlobStore on a user_blobs table
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a new PostgreSQL blob store
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema creates the backing table when it does not exist
const Schema = `
	CREATE TABLE IF NOT EXISTS user_blobs (
		user_id    TEXT        NOT NULL,
		blob_key   TEXT        NOT NULL,
		data       TEXT        NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id, blob_key)
	)
`

// Migrate creates the user_blobs table
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create user_blobs table: %w", err)
	}
	return nil
}

// Get reads a blob. The data column is text so a corrupt document is still
// returned to the caller rather than rejected by the database.
func (s *PostgresStore) Get(ctx context.Context, userID, key string) ([]byte, error) {
	query := `SELECT data FROM user_blobs WHERE user_id = $1 AND blob_key = $2`

	var data string
	err := s.db.QueryRowContext(ctx, query, userID, key).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get blob: %w", err)
	}
	return []byte(data), nil
}

// Put upserts a blob
func (s *PostgresStore) Put(ctx context.Context, userID, key string, data []byte) error {
	query := `
		INSERT INTO user_blobs (user_id, blob_key, data, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, blob_key) DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := s.db.ExecContext(ctx, query, userID, key, string(data), time.Now()); err != nil {
		return fmt.Errorf("failed to put blob: %w", err)
	}
	return nil
}

// Delete removes a blob
func (s *PostgresStore) Delete(ctx context.Context, userID, key string) error {
	query := `DELETE FROM user_blobs WHERE user_id = $1 AND blob_key = $2`

	if _, err := s.db.ExecContext(ctx, query, userID, key); err != nil {
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}

// =====================================================
// In-memory
// =====================================================

// MemoryStore keeps blobs in process memory
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore creates an empty in-memory blob store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func memoryKey(userID, key string) string {
	return userID + "/" + key
}

func (s *MemoryStore) Get(ctx context.Context, userID, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[memoryKey(userID, key)]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *MemoryStore) Put(ctx context.Context, userID, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	s.blobs[memoryKey(userID, key)] = stored
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, userID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.blobs, memoryKey(userID, key))
	return nil
}

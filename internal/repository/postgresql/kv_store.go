package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/senani-kuruwita/attendance-backend/internal/pkg/database"
	"github.com/senani-kuruwita/attendance-backend/internal/repository/kvstore"
)

const createKVTable = `
	CREATE TABLE IF NOT EXISTS kv_store (
		key        TEXT PRIMARY KEY,
		value      JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// KVStore keeps JSON snapshots in the kv_store table.
type KVStore struct {
	db *database.DB
}

// NewKVStore creates the table when missing.
func NewKVStore(ctx context.Context, db *database.DB) (*KVStore, error) {
	if _, err := db.Exec(ctx, createKVTable); err != nil {
		return nil, fmt.Errorf("failed to create kv_store table: %w", err)
	}
	return &KVStore{db: db}, nil
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	q := GetQuerier(ctx, s.db)

	var value []byte
	err := q.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, kvstore.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

func (s *KVStore) Put(ctx context.Context, key string, value []byte) error {
	return WithTransaction(ctx, s.db, func(ctx context.Context) error {
		query := `
			INSERT INTO kv_store (key, value, updated_at)
			VALUES ($1, $2::jsonb, NOW())
			ON CONFLICT (key) DO UPDATE
			SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
		`
		if _, err := GetQuerier(ctx, s.db).Exec(ctx, query, key, string(value)); err != nil {
			return fmt.Errorf("failed to write %s: %w", key, err)
		}
		return nil
	})
}

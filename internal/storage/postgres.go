package storage

import (
	"context"
	"database/sql"
	"errors"
)

// PostgresStore keeps values in the kv_store table.
type PostgresStore struct {
	db *sql.DB
}

const (
	getValueQuery    = `SELECT value FROM kv_store WHERE key = $1`
	upsertValueQuery = `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`
	deleteValueQuery = `DELETE FROM kv_store WHERE key = $1`
)

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var raw []byte
	if err := p.db.QueryRowContext(ctx, getValueQuery, key).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return raw, nil
}

func (p *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := p.db.ExecContext(ctx, upsertValueQuery, key, string(value))
	return err
}

func (p *PostgresStore) Delete(ctx context.Context, key string) error {
	_, err := p.db.ExecContext(ctx, deleteValueQuery, key)
	return err
}

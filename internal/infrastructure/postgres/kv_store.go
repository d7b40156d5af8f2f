package postgres

import (
	"context"

	"github.com/example/table-booker/internal/db"
	"github.com/example/table-booker/internal/migrate"
)

// KVStore is a storage backend on a single kv_store table.
type KVStore struct{ db *db.DB }

// Open connects, pings and migrates.
func Open(ctx context.Context, databaseURL string) (*KVStore, error) {
	d, err := db.Open(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := d.Ping(ctx); err != nil {
		d.Close()
		return nil, err
	}
	if err := migrate.Up(ctx, d); err != nil {
		d.Close()
		return nil, err
	}
	return NewKVStore(d), nil
}

func NewKVStore(d *db.DB) *KVStore { return &KVStore{db: d} }

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var v []byte
	err := s.db.QueryRow(ctx, `SELECT value FROM kv_store WHERE key=$1`, key).Scan(&v)
	if err != nil {
		return nil, db.WrapNotFound(err)
	}
	return v, nil
}

func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	return s.db.Exec(ctx, `
		INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, key, value)
}

func (s *KVStore) Close() error {
	s.db.Close()
	return nil
}

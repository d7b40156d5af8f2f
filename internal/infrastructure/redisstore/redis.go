package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/table-booker/internal/internaltypes"
	"github.com/redis/go-redis/v9"
)

// Store keeps each key as a plain redis string with no expiry.
type Store struct {
	rdb *redis.Client
}

func Open(ctx context.Context, url string) (*Store, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}
	s := New(redis.NewClient(opt))
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		_ = s.rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return s, nil
}

func New(c *redis.Client) *Store { return &Store{rdb: c} }

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, internaltypes.ErrNotFound
	}
	return b, err
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.rdb.Set(ctx, key, value, 0).Err()
}

func (s *Store) Close() error { return s.rdb.Close() }

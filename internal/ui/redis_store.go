package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps searches in Redis with a sliding TTL
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore wraps an existing client
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// ConnectRedis parses url and pings the server
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// Load implements Store
func (s *RedisStore) Load(ctx context.Context, session string) (*SavedSearch, error) {
	raw, err := s.rdb.Get(ctx, storageKey(session)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load search: %w", err)
	}
	return decodeSearch(raw)
}

// Save implements Store
func (s *RedisStore) Save(ctx context.Context, session string, search SavedSearch) error {
	raw, err := encodeSearch(search)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, storageKey(session), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save search: %w", err)
	}
	return nil
}

// Clear implements Store
func (s *RedisStore) Clear(ctx context.Context, session string) error {
	return s.rdb.Del(ctx, storageKey(session)).Err()
}

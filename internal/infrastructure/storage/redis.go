package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/buysmart/comparison/internal/domain"
	"github.com/redis/go-redis/v9"
)

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
}

// RedisStorage keeps slots as plain string keys under a namespace prefix
type RedisStorage struct {
	store  cmdable
	raw    *redis.Client
	prefix string
}

// NewRedisStorage parses the URL, connects and verifies connectivity
func NewRedisStorage(ctx context.Context, redisURL, prefix string) (*RedisStorage, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		raw.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStorage{store: raw, raw: raw, prefix: prefix}, nil
}

func (r *RedisStorage) key(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}

// Get returns the value stored at key
func (r *RedisStorage) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.store.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSlotNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

// Put stores value at key without expiry
func (r *RedisStorage) Put(ctx context.Context, key string, value []byte) error {
	if err := r.store.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Ping checks connectivity
func (r *RedisStorage) Ping(ctx context.Context) error {
	return r.store.Ping(ctx).Err()
}

// Close releases the connection pool
func (r *RedisStorage) Close() error {
	if r.raw == nil {
		return nil
	}
	return r.raw.Close()
}

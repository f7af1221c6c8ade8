package dedup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisKeyPrefix namespaces event keys in a shared Redis.
const redisKeyPrefix = "umigame:event:"

// RedisConfig holds configuration for the Redis store
type RedisConfig struct {
	RedisClient *redis.Client
	TTL         time.Duration
}

// RedisStore keeps event IDs as expiring keys so several bot instances
// behind one channel share the same view.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore validates cfg and checks the connection.
func NewRedisStore(ctx context.Context, cfg *RedisConfig) (*RedisStore, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("ttl must be positive")
	}

	if err := cfg.RedisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: cfg.RedisClient, ttl: cfg.TTL}, nil
}

// NewRedisClient builds a client from a redis:// or rediss:// URL.
func NewRedisClient(rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

// FirstSeen implements Store with SET NX EX.
func (s *RedisStore) FirstSeen(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return true, nil
	}
	ok, err := s.client.SetNX(ctx, redisKeyPrefix+eventID, 1, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

// Ping checks the connection. Used by the readiness probe.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

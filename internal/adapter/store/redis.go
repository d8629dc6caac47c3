package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/travel-backoffice/ticket-inventory/internal/domain"
	"github.com/travel-backoffice/ticket-inventory/internal/infrastructure/retry"
)

// RedisConfig holds the connection settings for the Redis store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Redis is a KeyValueStore backed by a Redis server, shared by every replica
// of the service.
type Redis struct {
	client *redis.Client
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// ConnectRedis dials Redis and pings it, retrying with backoff while the
// server is unreachable.
func ConnectRedis(ctx context.Context, cfg RedisConfig, log zerolog.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	policy := retry.ConnectConfig.WithOnRetry(func(attempt int, err error, wait time.Duration) {
		log.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("wait", wait).
			Str("addr", cfg.Addr).
			Msg("Redis not reachable, retrying")
	})

	err := retry.Do(ctx, func() error {
		return client.Ping(ctx).Err()
	}, policy)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Addr, err)
	}

	return &Redis{client: client}, nil
}

// Get returns the value stored at key.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

// Set stores value at key without expiry; staleness is judged by the reader.
func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Take removes key with a single GETDEL, so one flag set by any replica is
// consumed by exactly one reader.
func (r *Redis) Take(ctx context.Context, key string) (bool, error) {
	err := r.client.GetDel(ctx, key).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis getdel %s: %w", key, err)
	}
	return true, nil
}

// Ping checks the connection, for health reporting.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}

var _ domain.KeyValueStore = (*Redis)(nil)

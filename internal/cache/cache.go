// Package cache stores raw API response bodies between identical GET requests.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is a key-value store for response bodies.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Ensure RedisStore implements Store.
var _ Store = (*RedisStore)(nil)

const keyPrefix = "bvapi:response:"

// Key derives the cache key for a request.
func Key(method, url string) string {
	sum := sha256.Sum256([]byte(method + " " + url))

	return keyPrefix + hex.EncodeToString(sum[:])
}

// RedisStore keeps bodies in Redis hashes with a fixed TTL.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisStore connects to a comma separated list of addresses. A single
// address yields a plain client, several a cluster client.
func NewRedisStore(addrs string, poolSize int, ttl time.Duration) *RedisStore {
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs: strings.Split(addrs, ","),

		PoolSize:     poolSize,
		MaxRedirects: 3,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,

		MaxRetries:      3,
		MinRetryBackoff: 50 * time.Millisecond,
		MaxRetryBackoff: 500 * time.Millisecond,
	})

	return NewRedisStoreWithClient(client, ttl)
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the cached body for key; found is false on a miss.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	result := s.client.HGet(ctx, key, "data")

	if errors.Is(result.Err(), redis.Nil) {
		return "", false, nil
	}

	if result.Err() != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, result.Err())
	}

	return result.Val(), true, nil
}

// Set stores value under key together with the time it was cached.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	fields := map[string]interface{}{
		"data":      value,
		"cached_at": time.Now().Unix(),
	}

	pipe := s.client.Pipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, s.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	return nil
}

// HealthCheck pings the server.
func (s *RedisStore) HealthCheck(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying connections.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Package cache stores engine reports in Redis, keyed by a hash of the request.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonathan/resume-analyzer/internal/ingestion"
)

const keyPrefix = "resume:"

// ResultCache wraps a Redis client with JSON encoding and a fixed TTL.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to the Redis server at url (redis://host:port/db).
func New(url string, ttl time.Duration) (*ResultCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, &Error{Message: "invalid redis url", Cause: err}
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	return NewFromClient(redis.NewClient(opts), ttl), nil
}

// NewFromClient wraps an existing client. A zero ttl stores keys without expiry.
func NewFromClient(client *redis.Client, ttl time.Duration) *ResultCache {
	return &ResultCache{client: client, ttl: ttl}
}

// Key builds the cache key for a mode and its inputs.
func Key(mode string, parts ...string) string {
	return keyPrefix + mode + ":" + ingestion.ContentHash(parts...)
}

// Get decodes the value at key into v. It reports false on a miss. An entry that no
// longer decodes is evicted and reported as an error.
func (c *ResultCache) Get(ctx context.Context, key string, v any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, &Error{Message: "get " + key, Cause: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, &Error{Message: "decode " + key, Cause: errors.Join(err, c.Del(ctx, key))}
	}
	return true, nil
}

// Set stores v at key as JSON.
func (c *ResultCache) Set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return &Error{Message: "encode " + key, Cause: err}
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return &Error{Message: "set " + key, Cause: err}
	}
	return nil
}

// Del removes keys.
func (c *ResultCache) Del(ctx context.Context, keys ...string) error {
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return &Error{Message: "del", Cause: err}
	}
	return nil
}

// Ping tests the Redis connection.
func (c *ResultCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *ResultCache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

const keyPrefix = "content:"

// Breaker settings. Redis failures are a soft degrade, so trip fast and
// retry half-open after a short timeout rather than hammering a dead
// instance on every content read.
const (
	breakerMinRequests  = 5
	breakerFailureRatio = 0.5
	breakerTimeout      = 15 * time.Second
	breakerInterval     = 60 * time.Second
)

// ContentCache is a read-through JSON cache for rendered content responses.
// Misses and marshal failures are soft: callers fall back to the database.
// All Redis calls run through a circuit breaker; while it is open, every
// operation fails immediately with gobreaker.ErrOpenState.
type ContentCache struct {
	client  *redis.Client
	ttl     time.Duration
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// NewContentCache creates a Redis-backed content cache guarded by a circuit
// breaker. State changes are logged through logger.
func NewContentCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *ContentCache {
	settings := gobreaker.Settings{
		Name:     "content-cache",
		Interval: breakerInterval,
		Timeout:  breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < breakerMinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= breakerFailureRatio
		},
		// A cache miss is a healthy response, not a Redis failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("cache circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}

	return &ContentCache{
		client:  client,
		ttl:     ttl,
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

// Get retrieves a cached value into dest, reporting whether it was present.
func (c *ContentCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.breaker.Execute(func() ([]byte, error) {
		return c.client.Get(ctx, keyPrefix+key).Bytes()
	})
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("unmarshal cached %s: %w", key, err)
	}

	return true, nil
}

// Set stores a value under the key with the configured TTL.
func (c *ContentCache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	if _, err := c.breaker.Execute(func() ([]byte, error) {
		return nil, c.client.Set(ctx, keyPrefix+key, data, c.ttl).Err()
	}); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	return nil
}

// InvalidatePrefix deletes every cached key under the given prefix. Used
// after admin writes so readers never see stale content past one scan.
func (c *ContentCache) InvalidatePrefix(ctx context.Context, prefix string) error {
	if _, err := c.breaker.Execute(func() ([]byte, error) {
		iter := c.client.Scan(ctx, 0, keyPrefix+prefix+"*", 100).Iterator()
		for iter.Next(ctx) {
			if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
				return nil, fmt.Errorf("del %s: %w", iter.Val(), err)
			}
		}
		return nil, iter.Err()
	}); err != nil {
		return fmt.Errorf("redis scan %s: %w", prefix, err)
	}

	return nil
}

// State exposes the breaker state for health reporting.
func (c *ContentCache) State() gobreaker.State {
	return c.breaker.State()
}

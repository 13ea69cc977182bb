// Package cache holds the Redis-backed cache for computed title ratings.
// The cache is strictly optional: a nil *RatingCache no-ops everywhere and
// the service falls back to the database aggregate.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"reviewhub/internal/config"
)

// noRating marks a title known to have zero reviews so the absence of a
// rating is cached too.
const noRating = "none"

type RatingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRatingCache connects to Redis when configured; returns nil (disabled)
// when REDIS_URL is empty.
func NewRatingCache(cfg *config.Config) (*RatingCache, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if cfg.RedisPassword != "" {
		opts.Password = cfg.RedisPassword
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RatingCache{client: client, ttl: cfg.RatingCacheTTL}, nil
}

func key(titleID int64) string {
	return fmt.Sprintf("title:rating:%d", titleID)
}

// Get returns the cached rating and whether the cache held an entry. A nil
// rating with ok=true means the title is known to have no reviews.
func (c *RatingCache) Get(ctx context.Context, titleID int64) (*float64, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	val, err := c.client.Get(ctx, key(titleID)).Result()
	if err != nil {
		return nil, false
	}
	if val == noRating {
		return nil, true
	}
	rating, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return nil, false
	}
	return &rating, true
}

func (c *RatingCache) Set(ctx context.Context, titleID int64, rating *float64) {
	if c == nil || c.client == nil {
		return
	}

	val := noRating
	if rating != nil {
		val = strconv.FormatFloat(*rating, 'f', -1, 64)
	}
	// Cache failures are invisible to callers; the database stays the source
	// of truth.
	_ = c.client.Set(ctx, key(titleID), val, c.ttl).Err()
}

// Invalidate drops the cached rating after any review write.
func (c *RatingCache) Invalidate(ctx context.Context, titleID int64) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, key(titleID)).Err()
}

// Close releases the underlying client.
func (c *RatingCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		return err
	}
	return nil
}

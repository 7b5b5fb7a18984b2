package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	keyPrefix     = "guesthouse:recommend"
	generationKey = keyPrefix + ":gen"
)

// RecommendationCache keeps per-customer recommendations in Redis.
// Entries are keyed by a generation counter; Invalidate bumps the counter so every
// earlier entry becomes unreachable and expires on its TTL.
type RecommendationCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRecommendationCache creates a cache backed by client.
func NewRecommendationCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RecommendationCache {
	return &RecommendationCache{client: client, ttl: ttl, logger: logger}
}

// NewClient opens a Redis client for addr.
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Load decodes the cached recommendation for email into dst and returns the generation it
// read. A miss or any Redis failure reports false; a generation of -1 means Store must skip.
func (c *RecommendationCache) Load(ctx context.Context, email string, dst any) (int64, bool) {
	gen, err := c.generation(ctx)
	if err != nil {
		c.logger.Warn("recommendation cache unavailable", zap.Error(err))
		return -1, false
	}

	key := entryKey(gen, email)
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return gen, false
	}
	if err != nil {
		c.logger.Warn("recommendation cache read failed", zap.String("key", key), zap.Error(err))
		return gen, false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.logger.Warn("discarding undecodable recommendation", zap.String("key", key), zap.Error(err))
		return gen, false
	}
	return gen, true
}

// Store caches v for email under the generation returned by Load. A value computed while an
// Invalidate ran lands under the old generation and is never read.
func (c *RecommendationCache) Store(ctx context.Context, gen int64, email string, v any) {
	if gen < 0 {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		c.logger.Error("failed to encode recommendation", zap.Error(err))
		return
	}
	key := entryKey(gen, email)
	if err := c.client.Set(ctx, key, b, c.ttl).Err(); err != nil {
		c.logger.Warn("recommendation cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops every cached recommendation.
func (c *RecommendationCache) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		c.logger.Warn("recommendation cache invalidation failed", zap.Error(err))
	}
}

func (c *RecommendationCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return gen, err
}

func entryKey(gen int64, email string) string {
	return fmt.Sprintf("%s:%d:%s", keyPrefix, gen, email)
}

// Pinger adapts a Redis client to a readiness check.
type Pinger struct {
	Client *redis.Client
}

// PingContext reports whether Redis answers PING.
func (p Pinger) PingContext(ctx context.Context) error {
	return p.Client.Ping(ctx).Err()
}

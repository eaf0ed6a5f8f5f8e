package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/chat-service/internal/domain"
)

// RedisClient is the subset of go-redis used by the cache.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// StatsCache keeps per-user dashboard statistics for a short TTL. A nil client or a zero TTL
// disables caching.
type StatsCache struct {
	client RedisClient
	ttl    time.Duration
}

// NewStatsCache builds the cache.
func NewStatsCache(client RedisClient, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

func (c *StatsCache) enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

func statsKey(userID string) string {
	return "stats:user:" + userID
}

// Get returns the cached stats and whether they were present.
func (c *StatsCache) Get(ctx context.Context, userID string) (*domain.DashboardStats, bool, error) {
	if !c.enabled() {
		return nil, false, nil
	}
	raw, err := c.client.Get(ctx, statsKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read stats cache: %w", err)
	}

	var stats domain.DashboardStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, false, fmt.Errorf("decode stats cache: %w", err)
	}
	return &stats, true, nil
}

// Set stores stats for the configured TTL.
func (c *StatsCache) Set(ctx context.Context, userID string, stats *domain.DashboardStats) error {
	if !c.enabled() || stats == nil {
		return nil
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode stats cache: %w", err)
	}
	if err := c.client.Set(ctx, statsKey(userID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("write stats cache: %w", err)
	}
	return nil
}

// Invalidate drops the user's cached stats.
func (c *StatsCache) Invalidate(ctx context.Context, userID string) error {
	if !c.enabled() {
		return nil
	}
	if err := c.client.Del(ctx, statsKey(userID)).Err(); err != nil {
		return fmt.Errorf("invalidate stats cache: %w", err)
	}
	return nil
}

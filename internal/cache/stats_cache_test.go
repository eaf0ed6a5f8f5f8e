package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/chat-service/internal/domain"
)

func newTestCache(t *testing.T, ttl time.Duration) (*StatsCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStatsCache(client, ttl), mr
}

func sampleStats() *domain.DashboardStats {
	return &domain.DashboardStats{
		TotalConversations:             2,
		TotalMessages:                  4,
		AverageMessagesPerConversation: 2,
		RecentConversations: []domain.RecentConversation{
			{ID: "c1", Title: "hello", Date: "2026-03-01", MessageCount: 2},
		},
	}
}

func TestStatsCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, 30*time.Second)

	_, ok, err := c.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "u1", sampleStats()))
	assert.Equal(t, 30*time.Second, mr.TTL("stats:user:u1"))

	got, ok, err := c.Get(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sampleStats(), got)

	_, ok, err = c.Get(ctx, "u2")
	require.NoError(t, err)
	assert.False(t, ok, "entries are per user")
}

func TestStatsCache_Expires(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, 30*time.Second)

	require.NoError(t, c.Set(ctx, "u1", sampleStats()))
	mr.FastForward(31 * time.Second)

	_, ok, err := c.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStatsCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t, time.Minute)

	require.NoError(t, c.Set(ctx, "u1", sampleStats()))
	require.NoError(t, c.Invalidate(ctx, "u1"))

	_, ok, err := c.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStatsCache_UnreachableReturnsError(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Minute)
	mr.Close()

	_, ok, err := c.Get(ctx, "u1")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestStatsCache_Disabled(t *testing.T) {
	ctx := context.Background()
	c := NewStatsCache(nil, time.Minute)

	require.NoError(t, c.Set(ctx, "u1", sampleStats()))
	_, ok, err := c.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Invalidate(ctx, "u1"))
}

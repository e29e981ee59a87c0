package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := NewClientFromRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func TestNewClient(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client, err := NewClient(mr.Addr())
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Ping(context.Background()))
}

func TestNewClientUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewClient(addr)
	assert.Error(t, err)
}

func TestJSONRoundTrip(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()

	var got []string
	assert.ErrorIs(t, client.GetJSON(ctx, "catalog:categories", &got), ErrMiss)

	require.NoError(t, client.SetJSON(ctx, "catalog:categories", []string{"roots", "leafy"}, time.Minute))
	require.NoError(t, client.GetJSON(ctx, "catalog:categories", &got))
	assert.Equal(t, []string{"roots", "leafy"}, got)

	require.NoError(t, client.Delete(ctx, "catalog:categories"))
	assert.ErrorIs(t, client.GetJSON(ctx, "catalog:categories", &got), ErrMiss)
}

func TestSetJSONExpires(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, client.SetJSON(ctx, "k", 1, time.Second))
	mr.FastForward(2 * time.Second)

	var n int
	assert.ErrorIs(t, client.GetJSON(ctx, "k", &n), ErrMiss)
}

func TestIsRateLimited(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.False(t, client.IsRateLimited(ctx, "10.0.0.1", 3, time.Minute), "hit %d", i+1)
	}
	assert.True(t, client.IsRateLimited(ctx, "10.0.0.1", 3, time.Minute))
	assert.False(t, client.IsRateLimited(ctx, "10.0.0.2", 3, time.Minute))

	mr.FastForward(2 * time.Minute)
	assert.False(t, client.IsRateLimited(ctx, "10.0.0.1", 3, time.Minute))
}

func TestIsRateLimitedRepairsMissingWindow(t *testing.T) {
	mr, client := setupTestRedis(t)
	require.NoError(t, mr.Set("ratelimit:10.0.0.9", "50"))

	assert.True(t, client.IsRateLimited(context.Background(), "10.0.0.9", 3, time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("ratelimit:10.0.0.9"))

	mr.FastForward(2 * time.Minute)
	assert.False(t, client.IsRateLimited(context.Background(), "10.0.0.9", 3, time.Minute))
}

func TestIsRateLimitedKeepsWindowFromFirstHit(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()

	client.IsRateLimited(ctx, "10.0.0.3", 3, time.Minute)
	mr.FastForward(40 * time.Second)
	client.IsRateLimited(ctx, "10.0.0.3", 3, time.Minute)

	assert.Equal(t, 20*time.Second, mr.TTL("ratelimit:10.0.0.3"))
}

func TestIsRateLimitedFailsOpen(t *testing.T) {
	mr, client := setupTestRedis(t)
	mr.Close()

	assert.False(t, client.IsRateLimited(context.Background(), "10.0.0.1", 0, time.Minute))
}

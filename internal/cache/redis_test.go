package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/empleoradar/backend/internal/domain"
)

func newTestRedis(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *Redis) {
	t.Helper()

	mr := miniredis.RunT(t)
	c, err := NewRedis(context.Background(), "redis://"+mr.Addr(), ttl)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return mr, c
}

func TestRedisRoundTrip(t *testing.T) {
	_, c := newTestRedis(t, time.Minute)
	ctx := context.Background()

	_, ok := c.Get(ctx, "developer", "Madrid")
	assert.False(t, ok)

	jobs := []domain.JobRecord{record("r1"), record("r2")}
	c.Put(ctx, "developer", "Madrid", jobs)

	got, ok := c.Get(ctx, "Developer", "madrid")
	require.True(t, ok)
	assert.Equal(t, jobs, got)
}

func TestRedisTTLExpiry(t *testing.T) {
	mr, c := newTestRedis(t, time.Minute)
	ctx := context.Background()

	c.Put(ctx, "developer", "madrid", []domain.JobRecord{record("r1")})

	mr.FastForward(59 * time.Second)
	_, ok := c.Get(ctx, "developer", "madrid")
	assert.True(t, ok)

	mr.FastForward(2 * time.Second)
	_, ok = c.Get(ctx, "developer", "madrid")
	assert.False(t, ok)
}

func TestRedisCorruptPayloadIsAMiss(t *testing.T) {
	mr, c := newTestRedis(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, mr.Set(redisKeyPrefix+Key("developer", "madrid"), "{not json"))

	_, ok := c.Get(ctx, "developer", "madrid")
	assert.False(t, ok)
}

func TestNewRedisRejectsBadURL(t *testing.T) {
	_, err := NewRedis(context.Background(), "::not-a-url", time.Minute)
	assert.Error(t, err)
}

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/empleoradar/backend/internal/domain"
	"github.com/empleoradar/backend/pkg/logger"
)

const redisKeyPrefix = "jobs:"

// Redis is a ResultCache backed by a shared Redis instance, for constrained
// deployments running more than one service replica. Capacity bounding is
// delegated to Redis key expiry, so only the TTL semantics carry over from
// the memory cache.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedis parses redisURL, verifies connectivity and returns the cache.
func NewRedis(ctx context.Context, redisURL string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis: ping: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, ttl: ttl, log: logger.Named("cache.redis")}, nil
}

// Get returns the cached snapshot for the pair. A Redis error or a corrupt
// payload is treated as a miss; the cache layer never fails a request.
func (c *Redis) Get(ctx context.Context, query, location string) ([]domain.JobRecord, bool) {
	raw, err := c.client.Get(ctx, redisKeyPrefix+Key(query, location)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("redis get failed", zap.Error(err))
		}
		return nil, false
	}

	var jobs []domain.JobRecord
	if err := json.Unmarshal(raw, &jobs); err != nil {
		c.log.Warn("corrupt cache payload", zap.Error(err))
		return nil, false
	}
	return jobs, true
}

// Put stores a snapshot with the cache TTL as the key expiry.
func (c *Redis) Put(ctx context.Context, query, location string, jobs []domain.JobRecord) {
	raw, err := json.Marshal(jobs)
	if err != nil {
		c.log.Warn("marshal cache payload failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, redisKeyPrefix+Key(query, location), raw, c.ttl).Err(); err != nil {
		c.log.Warn("redis set failed", zap.Error(err))
	}
}

// Close releases the underlying client.
func (c *Redis) Close() error {
	return c.client.Close()
}

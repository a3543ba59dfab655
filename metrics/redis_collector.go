package metrics

import (
	"context"
	"fmt"
	"time"

	pbredis "github.com/marcelsud/pingback/pingback/redis"
	"github.com/redis/go-redis/v9"
)

// RedisCollector implements the Collector interface for the Redis sink
type RedisCollector struct {
	client *redis.Client
}

// NewRedisCollector creates a new Redis metrics collector
func NewRedisCollector(client *redis.Client) *RedisCollector {
	return &RedisCollector{
		client: client,
	}
}

// Collect gathers all metrics from Redis
func (c *RedisCollector) Collect(ctx context.Context) (Metrics, error) {
	stored, err := c.GetStoredCount(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting stored count: %w", err)
	}

	return Metrics{
		Stored:    stored,
		Timestamp: time.Now(),
	}, nil
}

// GetStoredCount returns the length of the verified pingback stream
func (c *RedisCollector) GetStoredCount(ctx context.Context) (int64, error) {
	length, err := c.client.XLen(ctx, pbredis.StreamKey).Result()
	if err != nil && err != redis.Nil {
		return 0, fmt.Errorf("reading stream length: %w", err)
	}
	return length, nil
}

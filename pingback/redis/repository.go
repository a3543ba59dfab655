package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/marcelsud/pingback/pingback"
	"github.com/redis/go-redis/v9"
)

/* Redis implementation of pingback.Repository
 * Verified pingbacks are kept in hashes (pingback:{id}) that expire after a TTL
 * and announced on a single stream so downstream consumers can follow along
 */

const (
	// StreamKey is the stream every verified pingback is appended to
	StreamKey  = "pingbacks:verified"
	hashPrefix = "pingback"
)

type Repository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRepository connects to Redis, ttl of zero keeps hashes forever
func NewRepository(addr, password string, db int, ttl time.Duration) (*Repository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	return &Repository{
		client: client,
		ttl:    ttl,
	}, nil
}

// Store saves the pingback hash and appends its id to the stream
func (r *Repository) Store(ctx context.Context, v pingback.Verified) (string, error) {
	hashKey := getHashKey(v.ID)

	err := r.client.HSet(ctx, hashKey, map[string]interface{}{
		"id":          v.ID,
		"source":      v.Source,
		"permalink":   v.Permalink,
		"title":       v.Title,
		"body":        v.Body,
		"received_at": v.ReceivedAt.Unix(),
	}).Err()
	if err != nil {
		return "", fmt.Errorf("storing pingback: %w", err)
	}

	if r.ttl > 0 {
		if err := r.client.Expire(ctx, hashKey, r.ttl).Err(); err != nil {
			return "", fmt.Errorf("setting TTL on pingback: %w", err)
		}
	}

	_, err = r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamKey,
		Values: map[string]interface{}{
			"id":        v.ID,
			"source":    v.Source,
			"permalink": v.Permalink,
		},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("adding to stream: %w", err)
	}

	return v.ID, nil
}

// Get retrieves a pingback by ID
func (r *Repository) Get(ctx context.Context, id string) (pingback.Verified, error) {
	data, err := r.client.HGetAll(ctx, getHashKey(id)).Result()
	if err != nil {
		return pingback.Verified{}, fmt.Errorf("getting pingback: %w", err)
	}
	if len(data) == 0 {
		return pingback.Verified{}, fmt.Errorf("%w: %s", pingback.ErrNotFound, id)
	}

	return pingback.Verified{
		ID:         data["id"],
		Source:     data["source"],
		Permalink:  data["permalink"],
		Title:      data["title"],
		Body:       data["body"],
		ReceivedAt: time.Unix(parseInt64(data["received_at"]), 0).UTC(),
	}, nil
}

// List walks the stream backwards, skipping entries whose hash already expired, other errors abort
func (r *Repository) List(ctx context.Context, limit int) ([]pingback.Verified, error) {
	if limit <= 0 {
		return []pingback.Verified{}, nil
	}

	msgs, err := r.client.XRevRangeN(ctx, StreamKey, "+", "-", int64(limit)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading stream: %w", err)
	}

	out := make([]pingback.Verified, 0, len(msgs))
	for _, msg := range msgs {
		id, ok := msg.Values["id"].(string)
		if !ok {
			continue
		}
		v, err := r.Get(ctx, id)
		if errors.Is(err, pingback.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Count returns how many pingbacks the stream holds
func (r *Repository) Count(ctx context.Context) (int64, error) {
	n, err := r.client.XLen(ctx, StreamKey).Result()
	if err != nil && err != redis.Nil {
		return 0, fmt.Errorf("reading stream length: %w", err)
	}
	return n, nil
}

// Close closes the Redis connection
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Close()
}

// GetClient returns the underlying Redis client for advanced operations
func (r *Repository) GetClient() *redis.Client {
	return r.client
}

// Helper functions

func getHashKey(id string) string {
	return fmt.Sprintf("%s:%s", hashPrefix, id)
}

func parseInt64(s string) int64 {
	var result int64
	fmt.Sscanf(s, "%d", &result)
	return result
}

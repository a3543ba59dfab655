//go:build integration

package redis_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/marcelsud/pingback/pingback"
	"github.com/marcelsud/pingback/pingback/redis"
	"github.com/stretchr/testify/require"
	testcontainersredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

/* Test Helpers for Redis Integration Tests
 * Every test gets its own container so streams never leak between cases
 */

// RedisContainer holds the Redis testcontainer and connection details
type RedisContainer struct {
	Container *testcontainersredis.RedisContainer
	Addr      string
}

// SetupRedisContainer creates and starts a Redis testcontainer
func SetupRedisContainer(t *testing.T, ctx context.Context) (*RedisContainer, func()) {
	t.Helper()

	redisContainer, err := testcontainersredis.Run(ctx,
		"redis:7-alpine",
		testcontainersredis.WithLogLevel(testcontainersredis.LogLevelVerbose),
	)
	require.NoError(t, err, "failed to start Redis container")

	addr, err := redisContainer.ConnectionString(ctx)
	require.NoError(t, err, "failed to get Redis connection string")

	cleanup := func() {
		if err := redisContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Redis container: %v", err)
		}
	}

	return &RedisContainer{
		Container: redisContainer,
		Addr:      strings.TrimPrefix(addr, "redis://"),
	}, cleanup
}

// CreateTestRepository creates a Redis repository connected to the test container
func CreateTestRepository(t *testing.T, addr string, ttl time.Duration) *redis.Repository {
	t.Helper()

	repo, err := redis.NewRepository(addr, "", 0, ttl)
	require.NoError(t, err, "failed to create Redis repository")

	return repo
}

// NewVerified builds a verified pingback for tests
func NewVerified(id, source string) pingback.Verified {
	return pingback.Verified{
		ID:         id,
		Source:     source,
		Permalink:  "http://blog.example.com/2024/05/hello",
		Title:      "Links",
		Body:       `<a href="http://blog.example.com/2024/05/hello">hello</a>`,
		ReceivedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

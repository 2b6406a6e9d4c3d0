package redis_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/graphedit/core/graph"
	"github.com/dmitrymomot/graphedit/core/graph/graphtest"
	"github.com/dmitrymomot/graphedit/integration/database/redis"
)

func connect(t *testing.T) goredis.UniversalClient {
	t.Helper()

	url := os.Getenv("GRAPHEDIT_TEST_REDIS_URL")
	if url == "" {
		t.Skip("GRAPHEDIT_TEST_REDIS_URL not set")
	}

	client, err := redis.Connect(context.Background(), redis.Config{
		ConnectionURL:  url,
		RetryAttempts:  2,
		RetryInterval:  time.Second,
		ConnectTimeout: 10 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestBackend(t *testing.T) {
	client := connect(t)

	graphtest.RunBackendSuite(t, func(t *testing.T) graph.Backend {
		b := redis.NewBackend(client, "graphedit_test", uuid.NewString())
		t.Cleanup(func() { _ = b.Purge(context.Background()) })
		return b
	})
}

func TestHealthcheck(t *testing.T) {
	client := connect(t)
	assert.NoError(t, redis.Healthcheck(client)(context.Background()))
}

func TestConnect_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want error
	}{
		{"empty", "", redis.ErrEmptyConnectionURL},
		{"wrong scheme", "http://localhost:6379", redis.ErrFailedToParseRedisConnString},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := redis.Connect(context.Background(), redis.Config{ConnectionURL: tt.url})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

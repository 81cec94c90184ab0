//go:build integration

package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"idlink/internal/platform/config"
	"idlink/internal/platform/redis"
	"idlink/pkg/testutil/containers"
)

func TestClientHealth(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	rc := containers.GetManager().GetRedis(t)
	ctx := context.Background()

	client, err := redis.New(ctx, config.RedisConfig{
		URL:         rc.Addr,
		PoolSize:    4,
		DialTimeout: 2 * time.Second,
	})
	require.NoError(t, err)
	require.NotNil(t, client)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Health(ctx))
}

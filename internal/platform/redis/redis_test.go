package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telewall/internal/common/metrics"
)

func TestOpen(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := Open(context.Background(), Options{Addr: mr.Addr(), PoolSize: 2, DialTimeout: time.Second})
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.HealthCheck(context.Background()))
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(context.Background(), Options{})
	assert.Error(t, err)

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	_, err = Open(context.Background(), Options{Addr: addr, DialTimeout: 100 * time.Millisecond})
	assert.Error(t, err)
}

func TestRegisterPoolMetrics(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := Open(context.Background(), Options{Addr: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	client.RegisterPoolMetrics()
	assert.NotPanics(t, client.RegisterPoolMetrics)

	families, err := metrics.Registry.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "telewall_redis_pool_total_conns")
}

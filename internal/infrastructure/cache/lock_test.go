package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Vallas-api/internal/infrastructure/cache"
	"github.com/jhoicas/Vallas-api/pkg/config"
)

func setupLocker(t *testing.T) (*cache.Locker, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := cache.NewClient(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewLocker(client), mr
}

func TestLocker_Exclusion(t *testing.T) {
	l, mr := setupLocker(t)
	ctx := context.Background()

	lock, ok, err := l.Acquire(ctx, "vallas:reconciliation:overdue", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, mr.Exists("vallas:reconciliation:overdue"))

	_, ok, err = l.Acquire(ctx, "vallas:reconciliation:overdue", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "segundo intento debe fallar mientras el candado está tomado")

	require.NoError(t, lock.Release(ctx))
	assert.False(t, mr.Exists("vallas:reconciliation:overdue"))

	_, ok, err = l.Acquire(ctx, "vallas:reconciliation:overdue", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocker_VencidoNoLiberaAlNuevoDueno(t *testing.T) {
	l, mr := setupLocker(t)
	ctx := context.Background()

	first, ok, err := l.Acquire(ctx, "k", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)

	second, ok, err := l.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, first.Release(ctx))
	assert.True(t, mr.Exists("k"), "el primer dueño no puede liberar el candado ajeno")

	require.NoError(t, second.Release(ctx))
	assert.False(t, mr.Exists("k"))
}

func TestNewClient_SinServidor(t *testing.T) {
	_, err := cache.NewClient(context.Background(), config.RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}

package cache_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Salon-api/internal/infrastructure/cache"
)

func newCache(t *testing.T, ttl time.Duration) (*cache.StockCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewStockCache(client, ttl), mr
}

func TestStockCache_GetSetInvalidate(t *testing.T) {
	c, mr := newCache(t, time.Minute)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "gel")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "gel", 7))
	level, ok, err := c.Get(ctx, "gel")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(7), level)
	assert.True(t, mr.Exists("salon:stock:gel"))

	require.NoError(t, c.Set(ctx, "shampoo", 2))
	require.NoError(t, c.Invalidate(ctx, "gel", "shampoo"))
	require.NoError(t, c.Invalidate(ctx))
	_, ok, err = c.Get(ctx, "gel")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStockCache_TTL(t *testing.T) {
	c, mr := newCache(t, 30*time.Second)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "gel", 4))
	mr.FastForward(31 * time.Second)

	_, ok, err := c.Get(ctx, "gel")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStockCache_ValorInvalido(t *testing.T) {
	c, mr := newCache(t, time.Minute)
	require.NoError(t, mr.Set("salon:stock:gel", "muchos"))

	_, _, err := c.Get(context.Background(), "gel")
	assert.Error(t, err)
}

func TestStockCache_LoadCachea(t *testing.T) {
	c, _ := newCache(t, time.Minute)
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) (int64, error) {
		calls++
		return 12, nil
	}
	level, err := c.Load(ctx, "gel", loader)
	require.NoError(t, err)
	assert.Equal(t, int64(12), level)

	level, err = c.Load(ctx, "gel", loader)
	require.NoError(t, err)
	assert.Equal(t, int64(12), level)
	assert.Equal(t, 1, calls, "la segunda lectura sale del caché")

	require.NoError(t, c.Invalidate(ctx, "gel"))
	_, err = c.Load(ctx, "gel", loader)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestStockCache_LoadPropagaError(t *testing.T) {
	c, _ := newCache(t, time.Minute)
	ctx := context.Background()
	boom := errors.New("ledger caído")

	_, err := c.Load(ctx, "gel", func(context.Context) (int64, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	_, ok, err := c.Get(ctx, "gel")
	require.NoError(t, err)
	assert.False(t, ok, "un error no deja valor cacheado")
}

func TestStockCache_TTLNoPositivoUsaDefault(t *testing.T) {
	c, mr := newCache(t, 0)
	assert.Equal(t, cache.DefaultStockTTL, c.TTL())

	require.NoError(t, c.Set(context.Background(), "gel", 3))
	assert.Equal(t, cache.DefaultStockTTL, mr.TTL("salon:stock:gel"), "ninguna clave queda sin expiración")
}

// Cancelar a quien inició la carga no corta la carga compartida.
func TestStockCache_LoadSobreviveCancelacionDelPrimero(t *testing.T) {
	c, _ := newCache(t, time.Minute)

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	loader := func(ctx context.Context) (int64, error) {
		once.Do(func() { close(started) })
		<-release
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		return 9, nil
	}

	ctx1, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := c.Load(ctx1, "gel", loader)
		first <- err
	}()
	<-started
	cancel()
	assert.ErrorIs(t, <-first, context.Canceled)

	second := make(chan int64, 1)
	go func() {
		level, err := c.Load(context.Background(), "gel", loader)
		assert.NoError(t, err)
		second <- level
	}()
	close(release)
	assert.Equal(t, int64(9), <-second)

	level, ok, err := c.Get(context.Background(), "gel")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(9), level)
}

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/infrastructure/cache"
)

type summary struct {
	Inventory int `json:"inventory"`
	Users     int `json:"users"`
}

func newCache(t *testing.T) (*cache.StatsCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return cache.NewStatsCache(rdb), mr
}

func TestStatsCache_SetYGet(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "stats:c1:summary", summary{Inventory: 12, Users: 3}, time.Minute))

	var got summary
	ok, err := c.Get(ctx, "stats:c1:summary", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, summary{Inventory: 12, Users: 3}, got)
	assert.Equal(t, time.Minute, mr.TTL("stats:c1:summary"))
}

func TestStatsCache_ClaveInexistente(t *testing.T) {
	c, _ := newCache(t)
	var got summary
	ok, err := c.Get(context.Background(), "stats:c1:nada", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStatsCache_Expira(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", summary{Users: 1}, time.Second))

	mr.FastForward(2 * time.Second)

	ok, err := c.Get(ctx, "k", &summary{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStatsCache_ValorCorrupto(t *testing.T) {
	c, mr := newCache(t)
	require.NoError(t, mr.Set("k", "{no-json"))

	_, err := c.Get(context.Background(), "k", &summary{})
	assert.Error(t, err)
}

func TestStatsCache_ServidorCaido(t *testing.T) {
	c, mr := newCache(t)
	mr.Close()

	_, err := c.Get(context.Background(), "k", &summary{})
	assert.Error(t, err)
}

func TestStatsCache_DeletePrefixSoloLaEmpresa(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()
	for _, k := range []string{"stats:c1:summary", "stats:c1:top-selling::", "stats:c2:summary"} {
		require.NoError(t, c.Set(ctx, k, summary{Users: 1}, time.Minute))
	}

	require.NoError(t, c.DeletePrefix(ctx, "stats:c1:"))

	assert.False(t, mr.Exists("stats:c1:summary"))
	assert.False(t, mr.Exists("stats:c1:top-selling::"))
	assert.True(t, mr.Exists("stats:c2:summary"))
	assert.NoError(t, c.DeletePrefix(ctx, "stats:c9:"))
}

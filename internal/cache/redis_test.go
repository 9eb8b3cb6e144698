// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package cache

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupMiniRedis creates a test Redis server using miniredis.
func setupMiniRedis(t *testing.T) (*miniredis.Miniredis, *RedisCache) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, newRedisCache(client, "", zerolog.Nop())
}

func TestRedisCache_SetGet(t *testing.T) {
	mr, cache := setupMiniRedis(t)

	cache.Set("test-key", []byte(`{"a":1}`), 5*time.Minute)

	val, found := cache.Get("test-key")
	require.True(t, found, "expected value to be found")
	assert.Equal(t, []byte(`{"a":1}`), val)
	assert.True(t, mr.Exists(DefaultRedisPrefix+"test-key"), "key should be stored under the prefix")

	stats := cache.Stats()
	assert.Equal(t, int64(1), stats.Sets)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, 1, stats.CurrentSize)
}

func TestRedisCache_GetMissing(t *testing.T) {
	_, cache := setupMiniRedis(t)

	val, found := cache.Get("nonexistent")
	assert.False(t, found)
	assert.Nil(t, val)
	assert.Equal(t, int64(1), cache.Stats().Misses)
}

func TestRedisCache_Expiration(t *testing.T) {
	mr, cache := setupMiniRedis(t)

	cache.Set("expiring", []byte("v"), time.Second)
	mr.FastForward(2 * time.Second)

	_, found := cache.Get("expiring")
	assert.False(t, found, "expected value to be expired")
}

func TestRedisCache_ClearKeepsForeignKeys(t *testing.T) {
	mr, cache := setupMiniRedis(t)
	require.NoError(t, mr.Set("other:key", "keep"))

	cache.Set("a", []byte("1"), time.Minute)
	cache.Set("b", []byte("2"), time.Minute)
	cache.Delete("a")
	_, found := cache.Get("a")
	assert.False(t, found)

	cache.Clear()

	_, found = cache.Get("b")
	assert.False(t, found)
	assert.True(t, mr.Exists("other:key"))
	assert.Equal(t, 0, cache.Stats().CurrentSize)
}

func TestRedisCache_ConnectionError(t *testing.T) {
	mr, cache := setupMiniRedis(t)
	mr.Close()

	cache.Set("key", []byte("v"), time.Minute)
	_, found := cache.Get("key")
	assert.False(t, found)
	assert.Equal(t, int64(0), cache.Stats().Sets)
}

func TestNewRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)

	cache, err := NewRedisCache(RedisConfig{Addr: mr.Addr()}, zerolog.Nop())
	require.NoError(t, err)
	defer cache.Close()
	assert.Equal(t, "redis", cache.Name())
	assert.NoError(t, cache.HealthCheck(t.Context()))

	_, err = NewRedisCache(RedisConfig{Addr: "127.0.0.1:1"}, zerolog.Nop())
	assert.Error(t, err)
}

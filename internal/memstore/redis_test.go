package memstore

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) *Redis {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedis(client, "test")
}

func TestRedisStorePutGet(t *testing.T) {
	store := newTestRedisStore(t)

	require.NoError(t, store.Put("k1", map[string]any{"a": 1.0}))

	v, ok, err := store.Get("k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"a": 1.0}, v)

	has, err := store.Has("k1")
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, store.Remove("k1"))
	has, err = store.Has("k1")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestRedisStoreMissingKey(t *testing.T) {
	store := newTestRedisStore(t)
	_, ok, err := store.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

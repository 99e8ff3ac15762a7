package memstore

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStorePutGetHasRemove(t *testing.T) {
	store := NewInMemory()

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

func TestInMemoryStoreMissingKey(t *testing.T) {
	store := NewInMemory()
	_, ok, err := store.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewInMemory()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Put("k", i)
			_, _, _ = store.Get("k")
			_, _ = store.Has("k")
		}(i)
	}
	wg.Wait()
	_, ok, err := store.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
}

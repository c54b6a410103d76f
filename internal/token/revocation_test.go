package token

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T) (*RedisRevocationStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisRevocationStore(client), mr
}

func TestRedisRevocationStore(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "hash-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "hash-1", time.Hour))

	revoked, err = store.IsRevoked(ctx, "hash-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// Entries prune themselves once the token would have expired.
	mr.FastForward(2 * time.Hour)

	revoked, err = store.IsRevoked(ctx, "hash-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryRevocationStore(t *testing.T) {
	store := NewMemoryRevocationStore()
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "hash-1", time.Hour))

	revoked, err := store.IsRevoked(ctx, "hash-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	revoked, err = store.IsRevoked(ctx, "hash-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	// A later write prunes the stale entry.
	require.NoError(t, store.Revoke(ctx, "hash-2", time.Hour))
	store.mu.RLock()
	_, stale := store.entries["hash-1"]
	store.mu.RUnlock()
	assert.False(t, stale)
}

func TestMemoryRevocationStoreConcurrent(t *testing.T) {
	store := NewMemoryRevocationStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			hash := string(rune('a' + n%8))
			_ = store.Revoke(ctx, hash, time.Hour)
			_, _ = store.IsRevoked(ctx, hash)
		}(i)
	}
	wg.Wait()

	revoked, err := store.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.True(t, revoked)
}

package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestRedisStore(t *testing.T) {
	mr, rdb := setupTestRedis(t)
	store := NewRedisStore(rdb, time.Hour)
	ctx := context.Background()

	token, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Set(ctx, "abc", "tok-1"))
	assert.True(t, mr.Exists("token:abc"))
	assert.Equal(t, time.Hour, mr.TTL("token:abc"))

	token, err = store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	mr.FastForward(40 * time.Minute)
	token, err = store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.Equal(t, time.Hour, mr.TTL("token:abc"))

	mr.FastForward(40 * time.Minute)
	token, err = store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token, "read refreshed the expiry")

	require.NoError(t, store.Delete(ctx, "abc"))
	assert.False(t, mr.Exists("token:abc"))

	require.NoError(t, store.Set(ctx, "abc", "tok-2"))
	mr.FastForward(2 * time.Hour)
	token, err = store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestRedisStore_Unavailable(t *testing.T) {
	mr, rdb := setupTestRedis(t)
	store := NewRedisStore(rdb, time.Hour)
	mr.Close()

	_, err := store.Get(context.Background(), "abc")
	assert.Error(t, err)
	assert.Error(t, store.Set(context.Background(), "abc", "tok"))
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	token, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Set(ctx, "abc", "tok-1"))
	token, _ = store.Get(ctx, "abc")
	assert.Equal(t, "tok-1", token)

	other, _ := store.Get(ctx, "xyz")
	assert.Empty(t, other)

	require.NoError(t, store.Delete(ctx, "abc"))
	token, _ = store.Get(ctx, "abc")
	assert.Empty(t, token)
}

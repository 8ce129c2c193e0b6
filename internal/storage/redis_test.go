package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, "petshop"), mr
}

func TestRedisStore_SetGet(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "cart.items", []byte(`[{"id":1}]`)))

	stored, err := mr.Get("petshop:cart.items")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, stored)
	assert.Zero(t, mr.TTL("petshop:cart.items"))

	got, err := store.Get(ctx, "cart.items")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, string(got))
}

func TestRedisStore_Miss(t *testing.T) {
	store, _ := setupTestRedis(t)

	_, err := store.Get(context.Background(), "nothing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_Delete(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()
	require.NoError(t, mr.Set("petshop:k", "1"))

	require.NoError(t, store.Delete(ctx, "k"))
	assert.False(t, mr.Exists("petshop:k"))

	// deleting a missing key is not an error
	assert.NoError(t, store.Delete(ctx, "k"))
}

func TestRedisStore_BackendDown(t *testing.T) {
	store, mr := setupTestRedis(t)
	mr.Close()

	_, err := store.Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.ErrorContains(t, err, "redis get failed")
}

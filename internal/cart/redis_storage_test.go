package cart

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisStorage instance
func setupTestRedis(t *testing.T) (*RedisStorage, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	storage := NewRedisStorage(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return storage, mr, cleanup
}

func TestRedisLoad_Success(t *testing.T) {
	storage, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	items := []StoredItem{
		{ProductID: "p1", Quantity: 2, Size: "M", Color: "negro"},
		{ProductID: "p1", Quantity: 1, Size: "L", Color: "negro"},
	}
	data, _ := json.Marshal(items)
	mr.Set(storageKey("s1"), string(data))

	result, err := storage.Load(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "p1", result[0].ProductID)
	assert.Equal(t, "L", result[1].Size)
}

func TestRedisLoad_NotFound(t *testing.T) {
	storage, _, cleanup := setupTestRedis(t)
	defer cleanup()

	result, err := storage.Load(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrCartNotFound)
	assert.Nil(t, result)
}

func TestRedisLoad_CorruptPayload(t *testing.T) {
	storage, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	mr.Set(storageKey("s1"), "{not json")

	_, err := storage.Load(context.Background(), "s1")
	require.ErrorContains(t, err, "unmarshal cart failed")
}

func TestRedisSave_RoundTrip(t *testing.T) {
	storage, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	items := []StoredItem{{ProductID: "p2", Quantity: 3, Size: "S", Color: "rojo"}}

	err := storage.Save(ctx, "s2", items)
	require.NoError(t, err)

	loaded, err := storage.Load(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, items, loaded)

	// Carts expire eventually; the TTL is base plus jitter.
	ttl := mr.TTL(storageKey("s2"))
	assert.True(t, ttl >= cartBaseTTL, "TTL should be at least base TTL")
	assert.True(t, ttl <= cartBaseTTL+2*time.Hour, "TTL should be base + max jitter")
}

func TestRedisDelete(t *testing.T) {
	storage, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, storage.Save(ctx, "s3", []StoredItem{{ProductID: "p1", Quantity: 1}}))
	assert.True(t, mr.Exists(storageKey("s3")))

	require.NoError(t, storage.Delete(ctx, "s3"))
	assert.False(t, mr.Exists(storageKey("s3")))
}

func TestStorageKey_Format(t *testing.T) {
	assert.Equal(t, "cart:abc", storageKey("abc"))
}

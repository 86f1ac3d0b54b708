package cart

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorageFunc_ReturnsSameStoragePerSession(t *testing.T) {
	ctx := context.Background()
	storageFor := MemoryStorageFunc()

	require.NoError(t, storageFor("a").Save(ctx, StorageKey, []byte(`{"items":[]}`)))

	data, err := storageFor("a").Load(ctx, StorageKey)
	require.NoError(t, err)
	assert.Equal(t, `{"items":[]}`, string(data))

	data, err = storageFor("b").Load(ctx, StorageKey)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestMemoryStorage_CopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStorage()

	value := []byte("abc")
	require.NoError(t, m.Save(ctx, "k", value))
	value[0] = 'z'

	data, err := m.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))
}

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("redis not available at %s: %v", addr, err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedisStorage(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()
	session := uuid.NewString()

	s := NewRedisStorage(client, session, time.Minute)
	t.Cleanup(func() { client.Del(ctx, "cart:"+session+":"+StorageKey) })

	data, err := s.Load(ctx, StorageKey)
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, s.Save(ctx, StorageKey, []byte(`{"items":[]}`)))

	raw, err := client.Get(ctx, "cart:"+session+":"+StorageKey).Result()
	require.NoError(t, err)
	assert.Equal(t, `{"items":[]}`, raw)

	ttl, err := client.TTL(ctx, "cart:"+session+":"+StorageKey).Result()
	require.NoError(t, err)
	assert.True(t, ttl > 0)
}

func TestRedisStorage_Unavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	s := NewRedisStorage(client, "sess", time.Minute)
	_, err := s.Load(context.Background(), StorageKey)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorIs(t, s.Save(context.Background(), StorageKey, []byte("{}")), ErrStorageUnavailable)

	store := NewStore(s)
	store.Hydrate(context.Background())
	assert.Empty(t, store.Items())
}

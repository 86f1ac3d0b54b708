// internal/cart/storage.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrStorageUnavailable is returned by storages that cannot be reached.
// Callers treat it like any other persistence failure: the write is skipped.
var ErrStorageUnavailable = errors.New("cart storage unavailable")

// Storage is a per-session key/value blob store. Load returns (nil, nil)
// for a missing key.
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}

// StorageFunc returns the storage for one cart session.
type StorageFunc func(sessionID string) Storage

// MemoryStorage keeps blobs in process memory.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

func (m *MemoryStorage) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), value...), nil
}

func (m *MemoryStorage) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = append([]byte(nil), value...)
	return nil
}

// MemoryStorageFunc hands out one MemoryStorage per session and keeps it for
// the life of the process, so an evicted session rehydrates its last state.
func MemoryStorageFunc() StorageFunc {
	var mu sync.Mutex
	stores := make(map[string]*MemoryStorage)

	return func(sessionID string) Storage {
		mu.Lock()
		defer mu.Unlock()

		s, ok := stores[sessionID]
		if !ok {
			s = NewMemoryStorage()
			stores[sessionID] = s
		}
		return s
	}
}

// RedisStorage stores blobs under cart:<session>:<key> with a sliding TTL.
type RedisStorage struct {
	client    redis.Cmdable
	namespace string
	ttl       time.Duration
}

func NewRedisStorage(client redis.Cmdable, sessionID string, ttl time.Duration) *RedisStorage {
	return &RedisStorage{
		client:    client,
		namespace: fmt.Sprintf("cart:%s:", sessionID),
		ttl:       ttl,
	}
}

func RedisStorageFunc(client redis.Cmdable, ttl time.Duration) StorageFunc {
	return func(sessionID string) Storage {
		return NewRedisStorage(client, sessionID, ttl)
	}
}

func (r *RedisStorage) Load(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.namespace+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return value, nil
}

func (r *RedisStorage) Save(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.namespace+key, value, r.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

package token

import (
	"context"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RevocationStore records tokens invalidated before their natural expiry.
// Keys are token hashes; entries must disappear once the ttl passes.
// Implementations must be safe for concurrent use.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenHash string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenHash string) (bool, error)
}

// RedisRevocationStore shares the revocation set across instances.
// Expiry is delegated to redis key TTLs.
type RedisRevocationStore struct {
	client *goredis.Client
	prefix string
}

func NewRedisRevocationStore(client *goredis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{
		client: client,
		prefix: "revoked:",
	}
}

func (r *RedisRevocationStore) key(tokenHash string) string {
	return r.prefix + tokenHash
}

func (r *RedisRevocationStore) Revoke(ctx context.Context, tokenHash string, ttl time.Duration) error {
	return r.client.Set(ctx, r.key(tokenHash), "1", ttl).Err()
}

func (r *RedisRevocationStore) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(tokenHash)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MemoryRevocationStore is a process-local revocation set for tests and
// single-instance deployments. Expired entries are pruned lazily on
// writes.
type MemoryRevocationStore struct {
	mu      sync.RWMutex
	entries map[string]time.Time // hash -> expiry

	now func() time.Time
}

func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (m *MemoryRevocationStore) Revoke(_ context.Context, tokenHash string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, exp := range m.entries {
		if exp.Before(now) {
			delete(m.entries, k)
		}
	}
	m.entries[tokenHash] = now.Add(ttl)
	return nil
}

func (m *MemoryRevocationStore) IsRevoked(_ context.Context, tokenHash string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	exp, ok := m.entries[tokenHash]
	if !ok {
		return false, nil
	}
	return exp.After(m.now()), nil
}

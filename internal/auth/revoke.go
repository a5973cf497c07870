package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revoker records logged-out token IDs until the token would have expired anyway.
type Revoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

var (
	_ Revoker = (*RedisRevoker)(nil)
	_ Revoker = (*MemoryRevoker)(nil)
)

const revokedKeyPrefix = "fitlog:revoked:"

// RedisRevoker keeps revoked token IDs in Redis with a TTL, so revocations are
// shared across instances and survive restarts.
type RedisRevoker struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisRevoker connects to Redis and verifies the connection.
func NewRedisRevoker(ctx context.Context, addr, password string, db int) (*RedisRevoker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return &RedisRevoker{client: client, now: time.Now}, nil
}

func revokedKey(jti string) string {
	return revokedKeyPrefix + jti
}

func (r *RedisRevoker) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, revokedKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}
	return nil
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("checking revocation: %w", err)
	}
	return n > 0, nil
}

// Close closes the Redis client.
func (r *RedisRevoker) Close() error {
	return r.client.Close()
}

// MemoryRevoker keeps revoked token IDs in process memory.
type MemoryRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{revoked: make(map[string]time.Time), now: time.Now}
}

func (m *MemoryRevoker) Revoke(_ context.Context, jti string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if !until.After(now) {
		return nil
	}
	m.revoked[jti] = until
	for id, exp := range m.revoked {
		if !exp.After(now) {
			delete(m.revoked, id)
		}
	}
	return nil
}

func (m *MemoryRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	exp, ok := m.revoked[jti]
	if !ok {
		return false, nil
	}
	if !exp.After(m.now()) {
		delete(m.revoked, jti)
		return false, nil
	}
	return true, nil
}

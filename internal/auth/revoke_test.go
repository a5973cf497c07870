package auth

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRevoker(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemoryRevoker()
	m.now = func() time.Time { return now }

	revoked, err := m.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, m.Revoke(ctx, "a", now.Add(time.Hour)))
	revoked, _ = m.IsRevoked(ctx, "a")
	assert.True(t, revoked)

	// Already expired tokens need no entry.
	require.NoError(t, m.Revoke(ctx, "b", now.Add(-time.Minute)))
	revoked, _ = m.IsRevoked(ctx, "b")
	assert.False(t, revoked)

	now = now.Add(2 * time.Hour)
	revoked, _ = m.IsRevoked(ctx, "a")
	assert.False(t, revoked, "entry should lapse with the token")
}

func TestMemoryRevokerConcurrent(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryRevoker()
	until := time.Now().Add(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			jti := uuid.NewString()
			assert.NoError(t, m.Revoke(ctx, jti, until))
			revoked, err := m.IsRevoked(ctx, jti)
			assert.NoError(t, err)
			assert.True(t, revoked)
		}()
	}
	wg.Wait()
}

// TestRedisRevoker runs against a real Redis when FITLOG_TEST_REDIS_ADDR is set.
func TestRedisRevoker(t *testing.T) {
	addr := os.Getenv("FITLOG_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("FITLOG_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()

	r, err := NewRedisRevoker(ctx, addr, "", 0)
	require.NoError(t, err)
	defer r.Close()

	jti := uuid.NewString()
	revoked, err := r.IsRevoked(ctx, jti)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, jti, time.Now().Add(time.Minute)))
	revoked, err = r.IsRevoked(ctx, jti)
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl, err := r.client.TTL(ctx, revokedKey(jti)).Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, time.Minute)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestNewRedisRevokerUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisRevoker(ctx, "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}

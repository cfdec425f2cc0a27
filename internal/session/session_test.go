package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/liftlink/internal/config"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, ttl), mr
}

// exercises the Store contract against both backends
func runStoreContract(t *testing.T, s Store) {
	ctx := context.Background()

	a1, err := s.Create(ctx, "alice")
	require.NoError(t, err)
	a2, err := s.Create(ctx, "alice")
	require.NoError(t, err)
	b1, err := s.Create(ctx, "bob")
	require.NoError(t, err)
	assert.NotEqual(t, a1, a2, "tokens must be unique")

	uid, err := s.Resolve(ctx, a1)
	require.NoError(t, err)
	assert.Equal(t, "alice", uid)

	_, err = s.Resolve(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	// logout of one session leaves the other intact
	require.NoError(t, s.Delete(ctx, a1))
	_, err = s.Resolve(ctx, a1)
	assert.ErrorIs(t, err, ErrNotFound)
	uid, err = s.Resolve(ctx, a2)
	require.NoError(t, err)
	assert.Equal(t, "alice", uid)

	require.NoError(t, s.Delete(ctx, "unknown"))

	require.NoError(t, s.DeleteUser(ctx, "alice"))
	_, err = s.Resolve(ctx, a2)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Resolve(ctx, b1)
	require.NoError(t, err)

	require.NoError(t, s.Flush(ctx))
	_, err = s.Resolve(ctx, b1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Contract(t *testing.T) {
	runStoreContract(t, NewMemoryStore(0))
}

func TestRedisStore_Contract(t *testing.T) {
	s, _ := newRedisStore(t, 0)
	runStoreContract(t, s)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	tok, err := s.Create(ctx, "alice")
	require.NoError(t, err)

	now = now.Add(59 * time.Second)
	_, err = s.Resolve(ctx, tok)
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = s.Resolve(ctx, tok)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t, time.Minute)

	tok, err := s.Create(ctx, "alice")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	_, err = s.Resolve(ctx, tok)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_FlushKeepsForeignKeys(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t, 0)

	require.NoError(t, mr.Set("other:key", "v"))
	_, err := s.Create(ctx, "alice")
	require.NoError(t, err)

	require.NoError(t, s.Flush(ctx))
	assert.True(t, mr.Exists("other:key"))
	assert.Len(t, mr.Keys(), 1)
}

func TestNew_SelectsBackend(t *testing.T) {
	ctx := context.Background()

	cfg := &config.Config{}
	s, err := New(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg.Session.Backend = "redis"
	cfg.Redis.Addr = mr.Addr()
	s, err = New(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, s)
	_ = s.(*RedisStore).Client.Close()

	cfg.Session.Backend = "etcd"
	_, err = New(ctx, cfg)
	assert.Error(t, err)
}

package cachestore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// runStoreContract checks the behaviour every Store must share.
func runStoreContract(t *testing.T, store Store) {
	t.Helper()
	req := require.New(t)
	ctx := context.Background()
	key := Key("speak like a pirate", "ahoy matey")

	// Given nothing cached
	_, ok, err := store.Get(ctx, key)
	req.NoError(err)
	req.False(ok)

	// When a verdict is stored
	req.NoError(store.Set(ctx, key, "NO: not piratey enough"))

	// Then it can be read back
	val, ok, err := store.Get(ctx, key)
	req.NoError(err)
	req.True(ok)
	req.Equal("NO: not piratey enough", val)

	// When it is purged
	req.NoError(store.Purge(ctx, key))

	// Then it is gone
	_, ok, err = store.Get(ctx, key)
	req.NoError(err)
	req.False(ok)
}

func TestMemStore_Contract(t *testing.T) {
	runStoreContract(t, NewMemStore(16, time.Minute))
}

func TestRedisStore_Contract(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})

	runStoreContract(t, NewRedisStoreFromClient(client))
}

func TestRedisStore_Expires_With_TTL(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := NewRedisStoreFromClient(client, WithTTL(time.Minute), WithPrefix("test:"))

	// Given a cached verdict
	req.NoError(store.Set(ctx, "k", "YES"))
	req.True(mr.Exists("test:k"))

	// When its TTL elapses
	mr.FastForward(2 * time.Minute)

	// Then it is a miss
	_, ok, err := store.Get(ctx, "k")
	req.NoError(err)
	req.False(ok)
}

func TestNewRedisStore_Fails_When_Unreachable(t *testing.T) {
	req := require.New(t)
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisStore(context.Background(), addr)
	req.Error(err)
}

func TestMemStore_Evicts_Least_Recently_Used(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	store := NewMemStore(2, time.Minute)

	req.NoError(store.Set(ctx, "a", "YES"))
	req.NoError(store.Set(ctx, "b", "YES"))
	req.NoError(store.Set(ctx, "c", "YES"))

	_, ok, _ := store.Get(ctx, "a")
	req.False(ok)
	_, ok, _ = store.Get(ctx, "c")
	req.True(ok)
}

func TestKey_Distinguishes_Rule_And_Message(t *testing.T) {
	req := require.New(t)

	req.Equal(Key("rule", "msg"), Key("rule", "msg"))
	req.NotEqual(Key("rule", "msg"), Key("rule", "other"))
	// The separator keeps boundaries apart
	req.NotEqual(Key("ab", "c"), Key("a", "bc"))
	req.Len(Key("rule", "msg"), 32)
}

func TestNop_Never_Hits(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()

	req.NoError(Nop{}.Set(ctx, "k", "YES"))
	_, ok, err := Nop{}.Get(ctx, "k")
	req.NoError(err)
	req.False(ok)
}

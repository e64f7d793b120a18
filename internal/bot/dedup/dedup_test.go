package dedup

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		_ = client.Close()
		mr.Close()
	}

	return client, cleanup
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRedisStoreFirstSeenOnce(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	t.Cleanup(cleanup)

	store := NewRedisStore(client, testLogger())
	ctx := context.Background()

	first, err := store.FirstSeen(ctx, 1001, time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	// Redelivery of the same update is dropped within the TTL window.
	second, err := store.FirstSeen(ctx, 1001, time.Minute)
	require.NoError(t, err)
	assert.False(t, second)

	// A different update is independent.
	other, err := store.FirstSeen(ctx, 1002, time.Minute)
	require.NoError(t, err)
	assert.True(t, other)
}

func TestRedisStoreMarkerExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})

	store := NewRedisStore(client, testLogger())
	ctx := context.Background()

	first, err := store.FirstSeen(ctx, 7, time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	mr.FastForward(2 * time.Minute)

	again, err := store.FirstSeen(ctx, 7, time.Minute)
	require.NoError(t, err)
	assert.True(t, again)
}

func TestRedisStoreFailsOpen(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	cleanup() // connection is gone before the call

	store := NewRedisStore(client, testLogger())

	// Storage failure reports the update as fresh so the user still gets a
	// reply; the error is surfaced for logging.
	first, err := store.FirstSeen(context.Background(), 42, time.Minute)
	assert.Error(t, err)
	assert.True(t, first)
}

func TestNoopAlwaysFresh(t *testing.T) {
	var d Deduper = Noop{}

	for i := 0; i < 3; i++ {
		first, err := d.FirstSeen(context.Background(), 5, time.Minute)
		require.NoError(t, err)
		assert.True(t, first)
	}
}

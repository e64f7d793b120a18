// Package dedup suppresses duplicate Telegram update deliveries. Telegram
// redelivers updates that were not acknowledged in time; without a marker a
// slow gateway call would make the bot answer the same message twice.
package dedup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Deduper marks updates as seen. FirstSeen returns true exactly once per key
// within the TTL window.
type Deduper interface {
	FirstSeen(ctx context.Context, updateID int, ttl time.Duration) (bool, error)
}

// RedisStore implements Deduper with SETNX markers.
type RedisStore struct {
	client *redis.Client
	log    *slog.Logger
}

// NewRedisStore constructs a RedisStore.
func NewRedisStore(client *redis.Client, log *slog.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		log:    log,
	}
}

// FirstSeen atomically claims updateID. Storage failures report the update as
// fresh: answering twice is better than not answering at all.
func (s *RedisStore) FirstSeen(ctx context.Context, updateID int, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("update:%d", updateID)

	claimed, err := s.client.SetNX(ctx, key, 1, ttl).Result()
	if err != nil {
		if s.log != nil {
			s.log.Error("dedup marker failed", slog.Int("update_id", updateID), slog.Any("error", err))
		}
		return true, err
	}

	return claimed, nil
}

// Noop treats every update as fresh; used when Redis is not configured.
type Noop struct{}

func (Noop) FirstSeen(ctx context.Context, updateID int, ttl time.Duration) (bool, error) {
	return true, nil
}

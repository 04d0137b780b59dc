// Package cache holds the Redis-backed read caches.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	unreadKeyPrefix    = "notif:unread:"
	unreadGenKeyPrefix = "notif:unread:gen:"
	unreadGenTTL       = 24 * time.Hour
)

// UnreadLookup is the result of a cache read. Version identifies the
// invalidation generation the read observed and must be handed back to Set.
type UnreadLookup struct {
	Count   int64
	Hit     bool
	Version int64
}

// UnreadCounter caches per-user unread notification counts. The store remains
// the source of truth; Set drops a refill when the user was invalidated after
// the Get that produced its version.
type UnreadCounter interface {
	Get(ctx context.Context, userID string) (UnreadLookup, error)
	Set(ctx context.Context, userID string, count, version int64) error
	Invalidate(ctx context.Context, userIDs ...string) error
}

type RedisUnreadCounter struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisUnreadCounter(client *redis.Client, ttl time.Duration) *RedisUnreadCounter {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisUnreadCounter{client: client, ttl: ttl}
}

func unreadKey(userID string) string {
	return unreadKeyPrefix + userID
}

func unreadGenKey(userID string) string {
	return unreadGenKeyPrefix + userID
}

func parseInt(v any) (int64, bool, error) {
	str, ok := v.(string)
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

func (c *RedisUnreadCounter) Get(ctx context.Context, userID string) (UnreadLookup, error) {
	vals, err := c.client.MGet(ctx, unreadKey(userID), unreadGenKey(userID)).Result()
	if err != nil {
		return UnreadLookup{}, fmt.Errorf("get unread count: %w", err)
	}
	var res UnreadLookup
	if res.Count, res.Hit, err = parseInt(vals[0]); err != nil {
		return UnreadLookup{}, fmt.Errorf("parse unread count: %w", err)
	}
	if res.Version, _, err = parseInt(vals[1]); err != nil {
		return UnreadLookup{}, fmt.Errorf("parse unread generation: %w", err)
	}
	return res, nil
}

// Set stores count only if no invalidation happened since version was read.
func (c *RedisUnreadCounter) Set(ctx context.Context, userID string, count, version int64) error {
	key, genKey := unreadKey(userID), unreadGenKey(userID)
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		gen, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if gen != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, count, c.ttl)
			return nil
		})
		return err
	}, genKey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("set unread count: %w", err)
	}
	return nil
}

func (c *RedisUnreadCounter) Invalidate(ctx context.Context, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range userIDs {
			pipe.Incr(ctx, unreadGenKey(id))
			pipe.Expire(ctx, unreadGenKey(id), unreadGenTTL)
			pipe.Del(ctx, unreadKey(id))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("invalidate unread count: %w", err)
	}
	return nil
}

// NopUnreadCounter always misses.
type NopUnreadCounter struct{}

func (NopUnreadCounter) Get(context.Context, string) (UnreadLookup, error) { return UnreadLookup{}, nil }
func (NopUnreadCounter) Set(context.Context, string, int64, int64) error   { return nil }
func (NopUnreadCounter) Invalidate(context.Context, ...string) error       { return nil }

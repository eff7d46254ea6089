package wastecode

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"emanifest/internal/platform/redis"
)

// CachedStore is a read-through Redis cache in front of a Store. Cache
// failures degrade to the underlying store; they never fail a lookup.
type CachedStore struct {
	store  Store
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedStore wraps store with a Redis cache. A nil client returns the
// store unwrapped.
func NewCachedStore(store Store, client *redis.Client, ttl time.Duration, logger *slog.Logger) Store {
	if client == nil {
		return store
	}
	return &CachedStore{store: store, client: client, ttl: ttl, logger: logger}
}

func cacheKey(t ListType) string {
	return "wastecode:list:" + string(t)
}

// List serves from Redis when a fresh entry exists, falling back to the
// underlying store and repopulating on miss.
func (c *CachedStore) List(ctx context.Context, t ListType) ([]Code, error) {
	raw, err := c.client.Get(ctx, cacheKey(t)).Bytes()
	if err == nil {
		var codes []Code
		if jsonErr := json.Unmarshal(raw, &codes); jsonErr == nil {
			return codes, nil
		}
		// Corrupt entry: fall through and overwrite.
	} else if err != goredis.Nil {
		c.logger.WarnContext(ctx, "waste code cache read failed", "list", string(t), "error", err.Error())
	}

	codes, err := c.store.List(ctx, t)
	if err != nil {
		return nil, err
	}

	if raw, jsonErr := json.Marshal(codes); jsonErr == nil {
		if setErr := c.client.Set(ctx, cacheKey(t), raw, c.ttl).Err(); setErr != nil {
			c.logger.WarnContext(ctx, "waste code cache write failed", "list", string(t), "error", setErr.Error())
		}
	}
	return codes, nil
}

package feed

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const nameCacheTTL = 5 * time.Minute

// nameCache is a best-effort redis cache in front of the profile lookup
// stage. Cache trouble is logged and treated as a miss; the pipeline never
// fails because of it.
type nameCache struct {
	rdb *redis.Client
}

func newNameCache(rdb *redis.Client) *nameCache {
	return &nameCache{rdb: rdb}
}

func (c *nameCache) key(userID string) string {
	return "worksync:display_name:" + userID
}

// Lookup returns the cached names and the ids that still need a store fetch.
func (c *nameCache) Lookup(ctx context.Context, ids []string) (map[string]string, []string) {
	if c == nil || c.rdb == nil || len(ids) == 0 {
		return map[string]string{}, ids
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.key(id)
	}

	values, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		slog.Warn("Display name cache lookup failed", slog.Any("error", err))
		return map[string]string{}, ids
	}

	found := map[string]string{}
	missing := []string{}
	for i, v := range values {
		name, ok := v.(string)
		if !ok {
			missing = append(missing, ids[i])
			continue
		}
		found[ids[i]] = name
	}
	return found, missing
}

func (c *nameCache) Store(ctx context.Context, names map[string]string) {
	if c == nil || c.rdb == nil || len(names) == 0 {
		return
	}

	pipe := c.rdb.Pipeline()
	for id, name := range names {
		pipe.Set(ctx, c.key(id), name, nameCacheTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Warn("Display name cache store failed", slog.Any("error", err))
	}
}

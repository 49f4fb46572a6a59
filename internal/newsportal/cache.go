package newsportal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	ristretto_store "github.com/eko/gocache/store/ristretto/v4"
)

const (
	cacheTagArticles = "articles"
	cacheTagTaxonomy = "taxonomy"
)

// Cache is a process-local read cache for public listings. A nil *Cache is a
// valid, disabled cache.
//
// Stored keys carry the generation of their tag. invalidate bumps the
// generation, so entries written before it can no longer be read even while
// the store is still dropping them.
type Cache struct {
	client  *ristretto.Cache
	marshal *marshaler.Marshaler
	ttl     time.Duration
	logger  *slog.Logger

	mu   sync.Mutex
	gens map[string]uint64
}

func NewCache(maxCost int64, ttl time.Duration, logger *slog.Logger) (*Cache, error) {
	if maxCost <= 0 {
		maxCost = 1 << 10
	}

	client, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxCost * 10,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create ristretto cache: %w", err)
	}

	manager := cache.New[any](ristretto_store.NewRistretto(client))

	return &Cache{
		client:  client,
		marshal: marshaler.New(manager),
		ttl:     ttl,
		logger:  logger,
		gens:    make(map[string]uint64),
	}, nil
}

// cached returns the value stored under key or loads, stores and returns it.
func cached[T any](ctx context.Context, c *Cache, key string, tag string, load func() (T, error)) (T, error) {
	if c == nil {
		return load()
	}

	gen := c.generation(tag)
	storeKey := fmt.Sprintf("%s#%d:%s", tag, gen, key)

	if v, err := c.marshal.Get(ctx, storeKey, new(T)); err == nil {
		if hit, ok := v.(*T); ok {
			return *hit, nil
		}
	}

	value, err := load()
	if err != nil {
		return value, err
	}

	// An invalidation that ran during load makes value stale.
	if c.generation(tag) != gen {
		return value, nil
	}

	if err := c.marshal.Set(ctx, storeKey, value,
		store.WithExpiration(c.ttl),
		store.WithCost(1),
		store.WithTags([]string{tag}),
	); err != nil {
		c.logger.WarnContext(ctx, "cache set failed", "key", key, "error", err)
	}
	c.client.Wait()

	return value, nil
}

func (c *Cache) generation(tag string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[tag]
}

func (c *Cache) invalidate(ctx context.Context, tags ...string) {
	if c == nil {
		return
	}

	c.mu.Lock()
	for _, tag := range tags {
		c.gens[tag]++
	}
	c.mu.Unlock()

	if err := c.marshal.Invalidate(ctx, store.WithInvalidateTags(tags)); err != nil {
		c.logger.WarnContext(ctx, "cache invalidate failed", "tags", tags, "error", err)
	}
	c.client.Wait()
}

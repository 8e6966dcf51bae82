package cache

import (
	"catalog-service/pkg/cache"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type memoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache creates a go-cache backed store.
// defaultExpiration: TTL applied when a caller passes 0
// cleanupInterval: how often expired items are purged; <= 0 disables the janitor
func NewMemoryCache(defaultExpiration, cleanupInterval time.Duration) cache.CacheService {
	return &memoryCache{
		store: gocache.New(defaultExpiration, cleanupInterval),
	}
}

func (c *memoryCache) Get(key string) (interface{}, bool) {
	return c.store.Get(key)
}

func (c *memoryCache) Set(key string, value interface{}, duration time.Duration) {
	c.store.Set(key, value, duration)
}

func (c *memoryCache) Add(key string, value interface{}, duration time.Duration) error {
	if err := c.store.Add(key, value, duration); err != nil {
		return cache.ErrExists
	}
	return nil
}

func (c *memoryCache) Delete(key string) {
	c.store.Delete(key)
}

func (c *memoryCache) Items() map[string]interface{} {
	items := c.store.Items()
	out := make(map[string]interface{}, len(items))
	for k, it := range items {
		out[k] = it.Object
	}
	return out
}

func (c *memoryCache) Count() int {
	return c.store.ItemCount()
}

func (c *memoryCache) Flush() {
	c.store.Flush()
}

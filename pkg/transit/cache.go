package transit

import (
	"context"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	gocachestore "github.com/eko/gocache/store/go_cache/v4"
	redisstore "github.com/eko/gocache/store/redis/v4"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// defaultCacheTTL determines how long lookup responses are reused
const defaultCacheTTL = 10 * time.Minute

// LookupCache keeps raw station lookup responses keyed by request URL.
// Journey responses are never stored since they carry realtime data.
type LookupCache struct {
	cache *cache.Cache[string]
	ttl   time.Duration
}

// NewMemoryCache returns a process-local cache.
func NewMemoryCache(ttl time.Duration) *LookupCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	client := gocache.New(ttl, 2*ttl)
	memoryStore := gocachestore.NewGoCache(client, store.WithExpiration(ttl))

	return &LookupCache{
		cache: cache.New[string](memoryStore),
		ttl:   ttl,
	}
}

// NewRedisCache returns a cache shared through the redis server at addr.
func NewRedisCache(addr string, ttl time.Duration) *LookupCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	redisStore := redisstore.NewRedis(client, store.WithExpiration(ttl))

	return &LookupCache{
		cache: cache.New[string](redisStore),
		ttl:   ttl,
	}
}

func cacheKey(reqURL string) string {
	return fmt.Sprintf("trans:lookup:%s", reqURL)
}

// Get returns the cached body for reqURL. Any store error counts as a miss.
func (c *LookupCache) Get(ctx context.Context, reqURL string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}

	value, err := c.cache.Get(ctx, cacheKey(reqURL))
	if err != nil || value == "" {
		return nil, false
	}
	return []byte(value), true
}

// Set stores body for reqURL.
func (c *LookupCache) Set(ctx context.Context, reqURL string, body []byte) error {
	if c == nil {
		return nil
	}
	return c.cache.Set(ctx, cacheKey(reqURL), string(body), store.WithExpiration(c.ttl))
}

package relmap

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache is the interface for caching resolved relation maps.
// Users can implement this interface with their preferred caching solution
// (e.g., Redis, Memcached); MemoryCache is the in-process default.
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns nil, nil if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with an optional TTL.
	// If ttl is 0, the value should not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes all values with the given prefix.
	DeletePrefix(ctx context.Context, prefix string) error

	// Clear removes all values from the cache.
	Clear(ctx context.Context) error
}

// CacheKey identifies one resolved export: the schema contents, the
// resolver configuration, the instruction and the constraints flag.
// Schema comes first so that a schema prefix matches all its entries.
type CacheKey struct {
	Schema      string // schema digest
	Config      string // resolver settings that change the result, e.g. the language table
	Instruction string
	Constraints bool
}

// String returns the string representation of the cache key.
func (k CacheKey) String() string {
	return k.Schema + ":" + k.Config + ":" + k.Instruction + ":" + strconv.FormatBool(k.Constraints)
}

// MemoryCache is an in-process Cache backed by an expirable LRU.
// Entries honor the ttl given to Set; the LRU bounds the number of
// entries and, optionally, their maximum lifetime.
type MemoryCache struct {
	lru *expirable.LRU[string, memoryItem]
	now func() time.Time
}

type memoryItem struct {
	value   []byte
	expires time.Time // zero means no expiry
}

// MemoryCacheOption configures a MemoryCache.
type MemoryCacheOption func(*memoryCacheConfig)

type memoryCacheConfig struct {
	size int
	ttl  time.Duration
}

// WithMaxEntries bounds the cache to n entries, evicting the least
// recently used. Zero means unbounded.
func WithMaxEntries(n int) MemoryCacheOption {
	return func(c *memoryCacheConfig) { c.size = n }
}

// WithMaxTTL caps the lifetime of every entry regardless of the ttl
// passed to Set. Zero means no cap.
func WithMaxTTL(d time.Duration) MemoryCacheOption {
	return func(c *memoryCacheConfig) { c.ttl = d }
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache(opts ...MemoryCacheOption) *MemoryCache {
	var cfg memoryCacheConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return &MemoryCache{
		lru: expirable.NewLRU[string, memoryItem](max(cfg.size, 0), nil, cfg.ttl),
		now: time.Now,
	}
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	item, ok := c.lru.Get(key)
	if !ok {
		return nil, nil
	}
	if !item.expires.IsZero() && !c.now().Before(item.expires) {
		c.lru.Remove(key)
		return nil, nil
	}
	return item.value, nil
}

// Set implements Cache.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	item := memoryItem{value: value}
	if ttl > 0 {
		item.expires = c.now().Add(ttl)
	}
	c.lru.Add(key, item)
	return nil
}

// Delete implements Cache.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

// DeletePrefix implements Cache.
func (c *MemoryCache) DeletePrefix(_ context.Context, prefix string) error {
	for _, key := range c.lru.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.lru.Remove(key)
		}
	}
	return nil
}

// Clear implements Cache.
func (c *MemoryCache) Clear(_ context.Context) error {
	c.lru.Purge()
	return nil
}

// Len returns the number of stored entries. Entries past the ttl given
// to Set are counted until they are read or evicted.
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}

package providers

import (
	"treats/internal/structures"

	"github.com/coocood/freecache"
)

// CacheProviderInterface stores rendered JSON responses keyed by workspace
// revision, user and request URI.
type CacheProviderInterface interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Clear()
	Stats() CacheStats
}

type CacheStats struct {
	Enabled bool    `json:"enabled"`
	Entries int64   `json:"entries"`
	Expired int64   `json:"expired"`
	Evicted int64   `json:"evicted"`
	HitRate float64 `json:"hit_rate"`
}

// ResponseCache keeps responses in a freecache ring of cache.size MiB.
// Entries live cache.ttl seconds; older revisions simply age out.
type ResponseCache struct {
	store  *freecache.Cache
	ttl    int
	logger Logger
}

func NewCacheProvider(conf *structures.Config, logger Logger) CacheProviderInterface {
	if !conf.Cache.Enabled || conf.Cache.Size <= 0 {
		logger.Infof(TypeApp, "Response cache disabled")
		return disabledCache{}
	}
	ttl := conf.Cache.TTL
	if ttl < 1 {
		ttl = 1
	}
	logger.Infof(TypeApp, "Response cache: %d MiB, entries live %ds", conf.Cache.Size, ttl)
	return &ResponseCache{
		store:  freecache.NewCache(conf.Cache.Size << 20),
		ttl:    ttl,
		logger: logger,
	}
}

func (c *ResponseCache) Get(key string) ([]byte, bool) {
	body, err := c.store.Get([]byte(key))
	if err != nil {
		return nil, false
	}
	return body, true
}

// Set drops responses freecache refuses, such as bodies over 1/1024 of the
// ring.
func (c *ResponseCache) Set(key string, value []byte) {
	if err := c.store.Set([]byte(key), value, c.ttl); err != nil {
		c.logger.Debugf(TypeApp, "Response for %s not cached: %s", key, err)
	}
}

func (c *ResponseCache) Clear() {
	c.store.Clear()
	c.logger.Debugf(TypeApp, "Response cache cleared")
}

func (c *ResponseCache) Stats() CacheStats {
	return CacheStats{
		Enabled: true,
		Entries: c.store.EntryCount(),
		Expired: c.store.ExpiredCount(),
		Evicted: c.store.EvacuateCount(),
		HitRate: c.store.HitRate(),
	}
}

// disabledCache misses every lookup.
type disabledCache struct{}

func (disabledCache) Get(string) ([]byte, bool) { return nil, false }
func (disabledCache) Set(string, []byte)        {}
func (disabledCache) Clear()                    {}
func (disabledCache) Stats() CacheStats         { return CacheStats{} }

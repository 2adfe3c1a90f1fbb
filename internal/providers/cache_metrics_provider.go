package providers

import "treats/internal/structures"

// instrumentedCache reports every lookup as a hit or a miss.
type instrumentedCache struct {
	CacheProviderInterface
	metrics MetricsProviderInterface
}

func (c *instrumentedCache) Get(key string) ([]byte, bool) {
	body, ok := c.CacheProviderInterface.Get(key)
	if !ok {
		c.metrics.IncCacheMisses()
		return nil, false
	}
	c.metrics.IncCacheHits()
	return body, true
}

// NewInstrumentedCacheProvider builds the response cache and counts its hits
// and misses. A disabled cache is left bare, all its lookups would be misses.
func NewInstrumentedCacheProvider(conf *structures.Config, logger Logger, metrics MetricsProviderInterface) CacheProviderInterface {
	cache := NewCacheProvider(conf, logger)
	if _, disabled := cache.(disabledCache); disabled {
		return cache
	}
	return &instrumentedCache{CacheProviderInterface: cache, metrics: metrics}
}

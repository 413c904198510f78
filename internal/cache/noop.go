package cache

import "time"

// NoopCache is used when REDIS_ENABLED is false: every read misses and
// every write succeeds, so the service layer needs no special casing.
type NoopCache struct{}

func NewNoopCache() *NoopCache {
	return &NoopCache{}
}

func (n *NoopCache) Set(key string, value interface{}, ttl time.Duration) error { return nil }

func (n *NoopCache) Get(key string, dest interface{}) error { return ErrCacheMiss }

func (n *NoopCache) Delete(key string) error { return nil }

func (n *NoopCache) DeletePattern(pattern string) error { return nil }

func (n *NoopCache) Exists(key string) (bool, error) { return false, nil }

func (n *NoopCache) Stats() map[string]interface{} {
	return map[string]interface{}{"backend": "noop"}
}

func (n *NoopCache) Health() error { return nil }

func (n *NoopCache) Close() error { return nil }

package rolemap

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// ProgramCache stores compiled expression programs keyed by expression strings.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// NewProgramCache returns a TTL-bounded ProgramCache backed by
// patrickmn/go-cache. A zero ttl keeps programs until the process exits.
func NewProgramCache(ttl, sweep time.Duration) ProgramCache {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &programCache{cache: gocache.New(ttl, sweep)}
}

type programCache struct {
	cache *gocache.Cache
}

func (c *programCache) Get(key string) (any, bool) {
	return c.cache.Get(key)
}

func (c *programCache) Set(key string, value any) {
	c.cache.SetDefault(key, value)
}

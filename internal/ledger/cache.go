package ledger

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// CompletedCache remembers message ids this process has seen reach the
// processed state. It is bounded and evicts the oldest id first; a repeated
// Add does not refresh an id.
//
// Processed is terminal, so a hit can short-circuit a store lookup. A miss
// means nothing; the store stays authoritative. A nil cache is a no-op.
type CompletedCache struct {
	ids *lru.Cache[string, struct{}]
}

// NewCompletedCache returns a cache holding up to size ids, or nil when
// size is not positive.
func NewCompletedCache(size int) *CompletedCache {
	if size <= 0 {
		return nil
	}
	// lru.New only fails for a non-positive size
	ids, _ := lru.New[string, struct{}](size)
	return &CompletedCache{ids: ids}
}

// Add records id as processed
func (c *CompletedCache) Add(id string) {
	if c == nil || id == "" {
		return
	}
	c.ids.ContainsOrAdd(id, struct{}{})
}

// Contains reports whether id was recorded and not yet evicted
func (c *CompletedCache) Contains(id string) bool {
	if c == nil {
		return false
	}
	return c.ids.Contains(id)
}

// Len returns the number of cached ids
func (c *CompletedCache) Len() int {
	if c == nil {
		return 0
	}
	return c.ids.Len()
}

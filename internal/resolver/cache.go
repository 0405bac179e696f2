package resolver

import (
	"sync"

	"github.com/vmunix/flickd/internal/omdb"
)

// cache is a process-lifetime memoization of resolved detail records.
// Entries never expire: a record for a given identifier is treated as
// immutable once fetched, so last-writer-wins on identical keys is fine.
type cache struct {
	mu      sync.RWMutex
	entries map[string]*omdb.Detail
}

func newCache() *cache {
	return &cache{
		entries: make(map[string]*omdb.Detail),
	}
}

func (c *cache) get(imdbID string) (*omdb.Detail, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	d, ok := c.entries[imdbID]
	return d, ok
}

func (c *cache) set(imdbID string, d *omdb.Detail) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[imdbID] = d
}

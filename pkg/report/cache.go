package report

import (
	"context"
	"sync"

	"github.com/rich-armb/IAM-Reporting-Script/pkg/gcp"
	"github.com/rich-armb/IAM-Reporting-Script/pkg/model"
)

// Cache memoizes directory lookups per resource reference for the lifetime
// of a run. Results are cached whether the lookup succeeded or failed, so a
// resource that could not be resolved is not retried. Entries are written
// once and read many times; concurrent callers for the same key share a
// single in-flight lookup.
type Cache struct {
	dir gcp.Directory

	mu      sync.Mutex
	entries map[model.ResourceRef]*cacheEntry
}

type cacheEntry struct {
	done chan struct{}
	res  gcp.Resource
	err  error
}

func NewCache(dir gcp.Directory) *Cache {
	return &Cache{dir: dir, entries: make(map[model.ResourceRef]*cacheEntry)}
}

// Lookup returns the directory result for ref, performing at most one
// external call per distinct reference. A caller that finds a lookup
// already in flight waits for its result, or bails out when its own
// context is canceled first.
func (c *Cache) Lookup(ctx context.Context, ref model.ResourceRef) (gcp.Resource, error) {
	c.mu.Lock()
	e, ok := c.entries[ref]
	if !ok {
		e = &cacheEntry{done: make(chan struct{})}
		c.entries[ref] = e
		c.mu.Unlock()

		e.res, e.err = c.dir.Lookup(ctx, ref)
		close(e.done)
		return e.res, e.err
	}
	c.mu.Unlock()

	select {
	case <-e.done:
		return e.res, e.err
	case <-ctx.Done():
		return gcp.Resource{}, ctx.Err()
	}
}

// Len reports how many distinct references have been looked up.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

package resolver

import (
	"fmt"
	"strconv"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/fluidtypo3/fluxactions/internal/catalog"
	"github.com/fluidtypo3/fluxactions/internal/ir"
)

// DefaultCacheSize is the number of distinct inputs a Cache keeps.
const DefaultCacheSize = 256

// Cache memoizes Resolve results keyed by input content hash and catalog
// revision. Catalogs that do not implement catalog.Revisioned are never
// cached, since a stale entry could not be detected.
type Cache struct {
	resolver *Resolver
	entries  *lru.Cache[string, []ir.ResolvedItem]
	hits     atomic.Uint64
	misses   atomic.Uint64
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
	Len    int    `json:"len"`
}

// NewCache wraps r with an LRU of the given size (DefaultCacheSize if <= 0).
func NewCache(r *Resolver, size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[string, []ir.ResolvedItem](size)
	if err != nil {
		return nil, fmt.Errorf("creating resolution cache: %w", err)
	}
	return &Cache{resolver: r, entries: entries}, nil
}

// Resolver returns the wrapped resolver.
func (c *Cache) Resolver() *Resolver {
	return c.resolver
}

// Resolve returns cached items for in, resolving on a miss.
// The returned slice is a copy and may be modified by the caller.
func (c *Cache) Resolve(in Input) []ir.ResolvedItem {
	key, ok := c.key(in)
	if !ok {
		c.misses.Add(1)
		return c.resolver.Resolve(in)
	}
	if items, found := c.entries.Get(key); found {
		c.hits.Add(1)
		return clone(items)
	}
	c.misses.Add(1)
	items := c.resolver.Resolve(in)
	c.entries.Add(key, clone(items))
	return items
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.entries.Purge()
}

// Stats returns hit and miss counters.
func (c *Cache) Stats() CacheStats {
	return CacheStats{Hits: c.hits.Load(), Misses: c.misses.Load(), Len: c.entries.Len()}
}

func (c *Cache) key(in Input) (string, bool) {
	rev, ok := c.resolver.catalog.(catalog.Revisioned)
	if !ok {
		return "", false
	}
	h, err := ir.FieldHash(ir.FieldSpec{
		Naming:     in.Naming,
		Actions:    in.Actions,
		SubActions: in.SubActions,
		Exclusions: in.Exclusions,
	})
	if err != nil {
		return "", false
	}
	return h + "@" + strconv.FormatUint(rev.Revision(), 10), true
}

func clone(items []ir.ResolvedItem) []ir.ResolvedItem {
	out := make([]ir.ResolvedItem, len(items))
	copy(out, items)
	return out
}

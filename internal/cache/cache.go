// Package cache implements C3: a token cache keyed by raw path text, so
// repeated Get/Set/Find calls against the same path string skip
// retokenizing (spec §4.3). The engine empties it whenever the syntax
// table mutates (via syntax.Table.OnMutate) or caching is re-enabled after
// being turned off.
package cache

import (
	"sync"

	"github.com/pathgraph/pathkit/internal/token"
)

// Entry is one cached compilation result.
type Entry struct {
	Program *token.Program
}

// Cache is a concurrency-safe path-text -> Entry map.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	enabled bool
}

// New returns an enabled, empty Cache.
func New() *Cache {
	return &Cache{entries: make(map[string]Entry), enabled: true}
}

// SetEnabled turns caching on or off (spec §6.2 "useCache"). Disabling does
// not clear existing entries; Lookup simply stops consulting them until
// re-enabled. Re-enabling a previously disabled cache wipes it first (spec
// §4.3 "full wipe on any syntax-table mutation, or when useCache is
// re-enabled") since entries recorded while disabled are never stored, but
// any path compiled elsewhere under a syntax table that has since changed
// must not resurface once caching resumes.
func (c *Cache) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if enabled && !c.enabled {
		c.entries = make(map[string]Entry)
	}
	c.enabled = enabled
}

// Enabled reports whether the cache is currently consulted.
func (c *Cache) Enabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.enabled
}

// Lookup returns the cached entry for text, if caching is enabled and an
// entry exists.
func (c *Cache) Lookup(text string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.enabled {
		return Entry{}, false
	}
	e, ok := c.entries[text]
	return e, ok
}

// Store records the compiled entry for text, if caching is enabled.
func (c *Cache) Store(text string, e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return
	}
	c.entries[text] = e
}

// Clear empties the cache (spec §4.1(d): every syntax mutation invalidates
// it, since the same text can now compile to a different Program).
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]Entry)
}

// Len reports the number of cached entries, for diagnostics/tests.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

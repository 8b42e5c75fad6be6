package render

import (
	"encoding/hex"
	"fmt"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// cacheKey derives a stable content address for a request. Layout and output
// options participate so the same source with different geometry does not
// collide.
func (p *Pipeline) cacheKey(req Request) string {
	h, _ := blake2b.New256(nil)
	fmt.Fprintf(h, "%s\x00%v\x00%d\x00%.3f\x00%.3f\x00%.3f",
		req.Source, req.Formats, req.PNGWidth,
		req.Layout.RowSep, req.Layout.ColSep, req.Layout.Scale)
	return hex.EncodeToString(h.Sum(nil))
}

// cache is a bounded map of rendered results. Eviction drops an arbitrary
// entry once the bound is reached; render inputs are small and repeat-heavy
// (editors re-render the same circuit), so recency tracking buys little.
type cache struct {
	mu      sync.Mutex
	max     int
	entries map[string]*Result
}

func newCache(max int) *cache {
	return &cache{max: max, entries: make(map[string]*Result)}
}

func (c *cache) get(key string) (*Result, bool) {
	if c.max <= 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	res, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return res.clone(), true
}

func (c *cache) put(key string, res *Result) {
	if c.max <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.max {
		for k := range c.entries {
			delete(c.entries, k)
			break
		}
	}
	c.entries[key] = res.clone()
}

// Purge drops all cached results.
func (p *Pipeline) Purge() {
	c := p.cache
	if c == nil || c.max <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Result)
}

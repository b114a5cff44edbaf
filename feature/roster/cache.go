package roster

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// summaryCache holds the last computed summary.
type summaryCache struct {
	mu      sync.RWMutex
	summary *Summary
	ttl     time.Duration
	sf      singleflight.Group
}

func newSummaryCache(ttl time.Duration) *summaryCache {
	return &summaryCache{ttl: ttl}
}

// isFresh returns true if the cached summary is younger than the TTL.
func (c *summaryCache) isFresh(s *Summary) bool {
	if s == nil || c.ttl == 0 {
		return false
	}
	return time.Since(s.LoadedAt) <= c.ttl
}

// getOrBuild returns the cached summary or builds a new one.
// Concurrent callers share a single build.
func (c *summaryCache) getOrBuild(ctx context.Context, build func(context.Context) (*Summary, error)) (*Summary, error) {
	// Fast path: check if summary exists and is fresh
	c.mu.RLock()
	cached := c.summary
	c.mu.RUnlock()

	if c.isFresh(cached) {
		return cached, nil
	}

	result, err, _ := c.sf.Do("summary", func() (interface{}, error) {
		// Double-check after acquiring singleflight lock
		c.mu.RLock()
		cached := c.summary
		c.mu.RUnlock()

		if c.isFresh(cached) {
			return cached, nil
		}

		built, err := build(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.summary = built
		c.mu.Unlock()

		return built, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*Summary), nil
}

// invalidate drops the cached summary.
func (c *summaryCache) invalidate() {
	c.mu.Lock()
	c.summary = nil
	c.mu.Unlock()
}

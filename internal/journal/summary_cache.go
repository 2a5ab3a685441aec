package journal

import (
	"sync"

	"tradify/internal/analytics"
)

// ChangeListener is invoked after a user's trade collection changed and a
// fresh summary was computed.
type ChangeListener func(userID string, summary analytics.Summary)

// summaryCache holds the latest Summary per user. Summaries are derived
// values: the cache never mutates one in place, it only swaps in the result
// of a full recomputation.
type summaryCache struct {
	mu   sync.RWMutex
	data map[string]analytics.Summary
}

func newSummaryCache() *summaryCache {
	return &summaryCache{data: make(map[string]analytics.Summary)}
}

func (c *summaryCache) Get(userID string) (analytics.Summary, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.data[userID]
	return s, ok
}

func (c *summaryCache) Set(userID string, summary analytics.Summary) {
	c.mu.Lock()
	c.data[userID] = summary
	c.mu.Unlock()
}

func (c *summaryCache) Invalidate(userID string) {
	c.mu.Lock()
	delete(c.data, userID)
	c.mu.Unlock()
}

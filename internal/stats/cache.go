package stats

import (
	"sync"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
)

// DefaultTTL bounds how long a cached aggregation result may serve reads.
// One second collapses the burst of near-simultaneous reads a single UI
// refresh produces, while a running timer's display never lags more than
// one tick.
const DefaultTTL = time.Second

type cacheEntry struct {
	stats      AggregatedStats
	computedAt time.Time
}

// Cache memoizes aggregation results per task. Mutating actions must
// invalidate the affected task and its ancestors synchronously, in the
// same call that applied the mutation; readers immediately after an
// action must never see pre-mutation numbers.
//
// A Cache instance is owned by whoever composes the application and is
// passed down explicitly; there is no process-wide instance.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	clock   func() time.Time
	entries map[string]cacheEntry
}

// NewCache creates a cache with DefaultTTL and the wall clock.
func NewCache() *Cache {
	return NewCacheWithClock(DefaultTTL, time.Now)
}

// NewCacheWithClock creates a cache with an explicit TTL and clock,
// for tests that need deterministic expiry.
func NewCacheWithClock(ttl time.Duration, clock func() time.Time) *Cache {
	return &Cache{
		ttl:     ttl,
		clock:   clock,
		entries: make(map[string]cacheEntry),
	}
}

// Stats returns the memoized aggregation for the task if a fresh entry
// exists, and otherwise computes, stores, and returns it. Freshness is
// judged by the cache's own clock, not the aggregation now, so tests can
// pin either independently.
func (c *Cache) Stats(task *domain.Task, all Snapshot, now time.Time) AggregatedStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	tick := c.clock()
	if e, ok := c.entries[task.ID]; ok && tick.Sub(e.computedAt) < c.ttl {
		return e.stats
	}

	s := ComputeStats(task, all, now)
	c.entries[task.ID] = cacheEntry{stats: s, computedAt: tick}
	return s
}

// Invalidate drops the cached entry for one task.
func (c *Cache) Invalidate(taskID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, taskID)
}

// InvalidateLineage drops the cached entries for a task and every ancestor
// whose total depends on it.
func (c *Cache) InvalidateLineage(task *domain.Task, all Snapshot) {
	c.Invalidate(task.ID)
	for parentID := task.ParentID; parentID != nil; {
		c.Invalidate(*parentID)
		parent := all.ByID(*parentID)
		if parent == nil {
			break
		}
		parentID = parent.ParentID
	}
}

// InvalidateAll clears the cache. Bulk operations (moving a subtask,
// bulk delete) use this instead of chasing individual lineages.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

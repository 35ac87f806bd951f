package comments

import (
	"context"
	"log/slog"
	"sync"
)

// StatsCache keeps the last computed Stats. Computation runs behind a
// try-lock so concurrent readers never queue up behind it.
type StatsCache struct {
	store Store

	mu    sync.RWMutex
	stats *Stats
}

func NewStatsCache(store Store) *StatsCache {
	return &StatsCache{store: store}
}

// Get returns the cached stats, or nil while they are missing or being computed.
func (c *StatsCache) Get() *Stats {
	if !c.mu.TryRLock() {
		return nil
	}
	defer c.mu.RUnlock()
	return c.stats
}

// Compute refreshes the cache. Unless force is set it gives up when another
// computation is already running.
func (c *StatsCache) Compute(ctx context.Context, force bool) *Stats {
	if force {
		c.mu.Lock()
	} else if !c.mu.TryLock() {
		return nil
	}
	defer c.mu.Unlock()

	stats, err := c.store.Stats(ctx)
	if err != nil {
		slog.Error("Failed to compute comment stats", "error", err)
		return nil
	}
	c.stats = stats
	return stats
}

// Invalidate drops the cached stats.
func (c *StatsCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = nil
}

package core

import "github.com/ethlayer/chaindb/core/rawdb"

// Process advances the cache-usage generation window. It is a
// best-effort periodic tick (typically driven every ~100ms by a
// caller's own timer) that must never contend with an in-flight
// Import: it attempts the import lock and skips this tick entirely on
// contention rather than blocking.
func (c *Chain) Process() bool {
	if !c.importMu.TryLock() {
		return false
	}
	defer c.importMu.Unlock()
	c.store.Process()
	return true
}

// GarbageCollect forces a full cache sweep when force is true, or when
// the store's own staleness interval has elapsed. Like Process it
// yields to a running import rather than blocking it.
func (c *Chain) GarbageCollect(force bool) bool {
	if !c.importMu.TryLock() {
		return false
	}
	defer c.importMu.Unlock()
	c.store.GarbageCollect(force)
	return true
}

// Usage reports current cache occupancy across every extras kind.
func (c *Chain) Usage() rawdb.Statistics {
	return c.store.Usage()
}

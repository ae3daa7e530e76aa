package store

import (
	"sync"

	"github.com/fulviofreitas/eero-exporter/internal/domain"
)

// SnapshotCache holds the last fully-built snapshot. The scheduler is the
// only writer; HTTP handlers read. Snapshots are immutable after creation,
// so handing out the pointer is safe.
type SnapshotCache struct {
	mu   sync.RWMutex
	snap *domain.Snapshot
}

func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{}
}

// Read returns the current snapshot, or ok=false before the first
// successful cycle.
func (c *SnapshotCache) Read() (*domain.Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap, c.snap != nil
}

// Replace swaps in a new snapshot as a whole. A reader holding the old
// pointer keeps a consistent view; the next Read sees the new one.
func (c *SnapshotCache) Replace(s *domain.Snapshot) {
	c.mu.Lock()
	c.snap = s
	c.mu.Unlock()
}

package store

import (
	"testing"
	"time"

	"github.com/fulviofreitas/eero-exporter/internal/domain"
)

func TestSnapshotCacheEmpty(t *testing.T) {
	c := NewSnapshotCache()
	if snap, ok := c.Read(); ok || snap != nil {
		t.Fatalf("Read on empty cache = (%v, %v), want (nil, false)", snap, ok)
	}
}

func TestSnapshotCacheReplace(t *testing.T) {
	c := NewSnapshotCache()

	first := &domain.Snapshot{Sequence: 0, Success: true, CollectedAt: time.Now()}
	c.Replace(first)

	got, ok := c.Read()
	if !ok {
		t.Fatalf("Read after Replace reported no snapshot")
	}
	if got != first {
		t.Fatalf("Read returned a different snapshot than was stored")
	}

	second := &domain.Snapshot{Sequence: 1, Success: true, CollectedAt: time.Now()}
	c.Replace(second)

	got, _ = c.Read()
	if got.Sequence != 1 {
		t.Fatalf("Read after second Replace returned sequence %d, want 1", got.Sequence)
	}
	// The old pointer stays valid for readers that grabbed it earlier.
	if first.Sequence != 0 {
		t.Fatalf("previous snapshot was mutated")
	}
}

package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"sjsage522/offerwatch/internal/offer"

	"github.com/google/uuid"
)

// MemoryStore is a process-local SnapshotStore for development runs
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots []offer.Snapshot
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save appends a copy of snapshot
func (s *MemoryStore) Save(_ context.Context, snapshot offer.Snapshot) error {
	if snapshot.ID == "" {
		snapshot.ID = uuid.NewString()
	}
	snapshot.Products = slices.Clone(snapshot.Products)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, snapshot)
	return nil
}

// LastBefore returns the latest snapshot strictly before t. Ties keep the one saved last.
func (s *MemoryStore) LastBefore(_ context.Context, t time.Time) (*offer.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *offer.Snapshot
	for i := range s.snapshots {
		snap := &s.snapshots[i]
		if !snap.ScrapedAt.Before(t) {
			continue
		}
		if latest == nil || !snap.ScrapedAt.Before(latest.ScrapedAt) {
			latest = snap
		}
	}
	if latest == nil {
		return nil, nil
	}

	result := *latest
	result.Products = slices.Clone(latest.Products)
	return &result, nil
}

// Len returns the number of stored snapshots
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshots)
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}

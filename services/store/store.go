package store

import (
	"context"
	"time"

	"sjsage522/offerwatch/internal/offer"
)

// SnapshotStore persists extraction results and answers "what did the page look
// like before this moment"
type SnapshotStore interface {
	// Save appends snapshot. Snapshots are never updated or deleted.
	Save(ctx context.Context, snapshot offer.Snapshot) error

	// LastBefore returns the latest snapshot with ScrapedAt strictly before t,
	// or nil when there is none
	LastBefore(ctx context.Context, t time.Time) (*offer.Snapshot, error)

	// Close releases the underlying connection
	Close() error
}

package repository

import (
	"context"

	"github.com/segyhp/loanshrk/internal/domain"
)

// DefaultSlotKey is the fixed key the ledger snapshot lives under
const DefaultSlotKey = "loanshrk:data"

// SlotStore defines read-one/write-one access to raw blobs stored by key
type SlotStore interface {
	// Get returns the blob stored under key; found is false when nothing is stored
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set overwrites the blob stored under key
	Set(ctx context.Context, key string, value []byte) error

	// Ping checks that the backend is reachable
	Ping(ctx context.Context) error

	// Close releases backend resources
	Close() error
}

// SnapshotRepository defines whole-collection persistence of the ledger
type SnapshotRepository interface {
	// Load reads the stored borrower collection; an absent snapshot yields an empty collection
	Load(ctx context.Context) ([]*domain.Borrower, error)

	// Save replaces the stored borrower collection
	Save(ctx context.Context, borrowers []*domain.Borrower) error

	// Backup copies the current snapshot under a suffixed key and returns that key
	Backup(ctx context.Context, suffix string) (string, error)
}

package store

import (
	"context"

	"github.com/maloquacious/wastewater/internal/models"
)

// StoreState represents the initialization state of the datastore.
type StoreState int

const (
	StateMissing       StoreState = iota // File doesn't exist
	StateUninitialized                   // File exists but no schema
	StatePartial                         // Table exists but one or both indexes are missing
	StateReady                           // Table and both indexes present
)

// Store defines the wastewater datastore contract.
// Implementations must be safe for concurrent use.
type Store interface {
	// Open opens the datastore connection
	Open() error

	// Close closes the datastore connection
	Close() error

	// InitSchema ensures the samples table and its two indexes exist.
	// All three statements run inside a single transaction: either all
	// take effect or the store is left in its pre-run state.
	InitSchema(ctx context.Context) error

	// Verify returns the current state of the datastore
	Verify(ctx context.Context) (StoreState, error)

	// UpsertSamples inserts samples, updating concentration, date_updated
	// and poll_timestamp in place when the primary key already exists.
	// Returns the number of rows written.
	UpsertSamples(ctx context.Context, samples []models.Sample) (int, error)

	// GetSample returns the sample with the given identity, or nil if absent
	GetSample(ctx context.Context, key models.Key) (*models.Sample, error)

	// PolledSince returns samples with poll_timestamp >= ts, oldest first
	PolledSince(ctx context.Context, ts int64) ([]models.Sample, error)

	// UpdatedSince returns samples revised at the source on or after the
	// given YYYY-MM-DD date, oldest first
	UpdatedSince(ctx context.Context, date string) ([]models.Sample, error)

	// CountSamples returns the total number of stored samples
	CountSamples(ctx context.Context) (int64, error)
}

package storage

import (
	"context"

	"github.com/esinocchi/ClassMate/core"
)

// CollectionData is the persisted state of one collection: everything
// needed to reconstruct an index snapshot without re-chunking or
// re-embedding.
type CollectionData struct {
	Meta    core.CollectionMeta
	Items   []*core.ContentItem
	Courses []*core.Course
	Chunks  []*core.Chunk
}

// CollectionRepository persists collection state across process restarts.
// Implementations must be thread-safe and support concurrent access.
type CollectionRepository interface {
	// SaveCollection atomically replaces the persisted state of a
	// collection with the given data. Prior contents of the collection
	// are removed in the same transaction.
	SaveCollection(ctx context.Context, data *CollectionData) error

	// LoadCollection retrieves the persisted state of a collection.
	// Returns ErrNotFound if the collection has never been saved.
	LoadCollection(ctx context.Context, collectionID string) (*CollectionData, error)

	// ListCollections returns the IDs of all persisted collections.
	ListCollections(ctx context.Context) ([]string, error)

	// DeleteCollection removes a collection and all its records.
	// Deleting a collection that doesn't exist is not an error.
	DeleteCollection(ctx context.Context, collectionID string) error

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

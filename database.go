// Copyright 2025 The ClassMate Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package classmate

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/esinocchi/ClassMate/ai"
	"github.com/esinocchi/ClassMate/ai/openai"
	"github.com/esinocchi/ClassMate/bm25"
	"github.com/esinocchi/ClassMate/core"
	"github.com/esinocchi/ClassMate/index"
	"github.com/esinocchi/ClassMate/ingestion"
	"github.com/esinocchi/ClassMate/search"
	"github.com/esinocchi/ClassMate/storage"
	"github.com/esinocchi/ClassMate/storage/badger"
)

// Database is the top-level entry point: it owns the persistent store, the
// embedding provider, and one in-memory collection holder per collection.
type Database struct {
	repo     storage.CollectionRepository
	provider ai.Provider
	pipeline *ingestion.Pipeline
	searcher *search.Searcher
	logger   *slog.Logger

	mu          sync.Mutex
	collections map[string]*index.Collection
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig     *ai.Config
	provider     ai.Provider
	inMemory     bool
	pipelineOpts []ingestion.Option
	searcherOpts []search.Option
}

// WithAIConfig sets the embedding endpoint configuration used when no
// explicit provider is supplied.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = config
	}
}

// WithProvider supplies an embedding provider directly, bypassing the
// OpenAI-compatible default. The database takes ownership and closes it.
func WithProvider(provider ai.Provider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithInMemoryStorage keeps all persisted state in memory. Intended for
// tests and throwaway sessions; the path argument is ignored.
func WithInMemoryStorage() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// WithPipelineOptions forwards options to the ingestion pipeline.
func WithPipelineOptions(opts ...ingestion.Option) DatabaseOption {
	return func(o *databaseOptions) {
		o.pipelineOpts = append(o.pipelineOpts, opts...)
	}
}

// WithSearcherOptions forwards options to the searcher.
func WithSearcherOptions(opts ...search.Option) DatabaseOption {
	return func(o *databaseOptions) {
		o.searcherOpts = append(o.searcherOpts, opts...)
	}
}

// NewDatabase opens a database at the given path.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open storage
	var repo storage.CollectionRepository
	var err error
	if options.inMemory {
		repo, err = badger.NewMemoryRepository()
	} else {
		repo, err = badger.NewCollectionRepository(filePath)
	}
	if err != nil {
		return nil, err
	}

	// Create AI provider with configured settings
	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			repo.Close()
			return nil, err
		}
	}

	pipeline, err := ingestion.NewPipeline(provider, options.pipelineOpts...)
	if err != nil {
		provider.Close()
		repo.Close()
		return nil, err
	}

	searcher, err := search.NewSearcher(provider, options.searcherOpts...)
	if err != nil {
		pipeline.Release()
		provider.Close()
		repo.Close()
		return nil, err
	}

	return &Database{
		repo:        repo,
		provider:    provider,
		pipeline:    pipeline,
		searcher:    searcher,
		logger:      slog.Default(),
		collections: make(map[string]*index.Collection),
	}, nil
}

// Close releases the provider, the worker pool, and the storage backend.
func (db *Database) Close() error {
	db.pipeline.Release()

	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.repo.Close(); err != nil {
		db.logger.Error("error closing storage", "err", err)
		return err
	}
	return nil
}

// ReindexOption configures a single Reindex call.
type ReindexOption func(*reindexOptions)

type reindexOptions struct {
	courses []*core.Course
	persist bool
}

// WithCourses supplies course metadata alongside the content items so
// search results can render course names and codes.
func WithCourses(courses []*core.Course) ReindexOption {
	return func(o *reindexOptions) {
		o.courses = courses
	}
}

// WithoutPersistence skips writing the rebuilt collection to storage.
func WithoutPersistence() ReindexOption {
	return func(o *reindexOptions) {
		o.persist = false
	}
}

// Reindex rebuilds a collection from the full current item set and
// atomically replaces its published snapshot. At most one rebuild per
// collection runs at a time; a concurrent attempt fails fast with
// core.ErrRebuildInProgress. Queries against the old snapshot are never
// disturbed.
func (db *Database) Reindex(ctx context.Context, collectionID string, items []*core.ContentItem, opts ...ReindexOption) (*ingestion.Result, error) {
	options := &reindexOptions{persist: true}
	for _, opt := range opts {
		opt(options)
	}

	col := db.collection(collectionID)
	release, err := col.BeginRebuild()
	if err != nil {
		return nil, err
	}
	defer release()

	snap, result, err := db.pipeline.Build(ctx, items, options.courses)
	if err != nil {
		return result, err
	}
	col.Publish(snap)

	if options.persist {
		data := &storage.CollectionData{
			Meta: core.CollectionMeta{
				CollectionId: collectionID,
				Version:      snap.Version,
				SavedAt:      time.Now().UTC(),
			},
			Items:   items,
			Courses: options.courses,
			Chunks:  snap.Chunks,
		}
		if err := db.repo.SaveCollection(ctx, data); err != nil {
			// The snapshot is already live; treat persistence as
			// best-effort and surface the failure to the caller.
			db.logger.Error("error persisting collection", "collection", collectionID, "err", err)
			return result, err
		}
	}

	db.logger.Info("collection reindexed",
		"collection", collectionID,
		"items", result.ItemCount,
		"chunks", result.ChunkCount,
		"version", snap.Version)
	return result, nil
}

// Search runs a hybrid search against the collection's current snapshot.
// A collection that was persisted by an earlier process is loaded lazily on
// first access. Searching a collection that has never been indexed returns
// core.ErrUnknownCollection.
func (db *Database) Search(ctx context.Context, collectionID string, req search.Request) ([]*core.SearchResult, error) {
	col := db.collection(collectionID)
	snap := col.Snapshot()

	if snap == nil {
		loaded, err := db.loadCollection(ctx, col)
		if err != nil {
			return nil, err
		}
		snap = loaded
	}

	return db.searcher.Search(ctx, snap, req)
}

// Collections returns the IDs of all persisted collections.
func (db *Database) Collections(ctx context.Context) ([]string, error) {
	return db.repo.ListCollections(ctx)
}

// collection returns the in-memory holder for a collection, creating it on
// first access.
func (db *Database) collection(collectionID string) *index.Collection {
	db.mu.Lock()
	defer db.mu.Unlock()

	col, ok := db.collections[collectionID]
	if !ok {
		col = index.NewCollection(collectionID)
		db.collections[collectionID] = col
	}
	return col
}

// loadCollection restores a persisted collection into the holder. The
// restore slot serializes concurrent cold readers without touching the
// rebuild slot, so a query is never failed with the rebuild-busy signal;
// when a reindex races the load and publishes first, its fresher snapshot
// is kept.
func (db *Database) loadCollection(ctx context.Context, col *index.Collection) (*index.Snapshot, error) {
	release := col.BeginRestore()
	defer release()

	if snap := col.Snapshot(); snap != nil {
		return snap, nil
	}

	data, err := db.repo.LoadCollection(ctx, col.ID())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, core.ErrUnknownCollection
		}
		return nil, err
	}

	snap := index.NewSnapshot(data.Chunks, data.Items, data.Courses, bm25.DefaultParams())
	published := col.Restore(snap, data.Meta.Version)

	db.logger.Info("collection restored from storage",
		"collection", col.ID(),
		"chunks", len(data.Chunks),
		"version", data.Meta.Version)
	return published, nil
}

// NewPipeline creates a standalone ingestion pipeline sharing the
// database's provider.
func (db *Database) NewPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.provider, opts...)
}

// NewSearcher creates a standalone searcher sharing the database's provider.
func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(db.provider, opts...)
}

package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/esinocchi/ClassMate/ai"
	"github.com/esinocchi/ClassMate/bm25"
	"github.com/esinocchi/ClassMate/chunker"
	"github.com/esinocchi/ClassMate/core"
	"github.com/esinocchi/ClassMate/index"
)

// DefaultBatchSize is the default number of chunk texts per embedding call.
const DefaultBatchSize = 64

// DefaultMaxRetries is the default retry ceiling for a failed embedding batch.
const DefaultMaxRetries = 3

// DefaultRetryBaseDelay is the default base delay for exponential backoff.
const DefaultRetryBaseDelay = 500 * time.Millisecond

// Pipeline builds collection snapshots from raw content items.
// It normalizes and chunks item text, generates embeddings in concurrent
// batches, and assembles the immutable snapshot the searcher runs against.
type Pipeline struct {
	embedder       ai.Embedder
	chunker        *chunker.Chunker
	pool           *ants.Pool
	batchSize      int
	maxRetries     int
	retryBaseDelay time.Duration
	bm25Params     bm25.Params
	logger         *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding batches.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets the number of chunk texts sent per embedding call.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size > 0 {
			p.batchSize = size
		}
		return nil
	}
}

// WithRetry sets the retry ceiling and backoff base delay for embedding calls.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Pipeline) error {
		if maxAttempts < 1 {
			return ErrInvalidMaxAttempts
		}
		p.maxRetries = maxAttempts
		p.retryBaseDelay = baseDelay
		return nil
	}
}

// WithChunker sets a custom chunker.
func WithChunker(c *chunker.Chunker) Option {
	return func(p *Pipeline) error {
		if c != nil {
			p.chunker = c
		}
		return nil
	}
}

// WithBM25Params sets the keyword scoring parameters baked into snapshots.
func WithBM25Params(params bm25.Params) Option {
	return func(p *Pipeline) error {
		p.bm25Params = params
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new snapshot build pipeline.
func NewPipeline(provider ai.Provider, opts ...Option) (*Pipeline, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		embedder:       provider.Embedder(),
		chunker:        chunker.New(),
		pool:           pool,
		batchSize:      DefaultBatchSize,
		maxRetries:     DefaultMaxRetries,
		retryBaseDelay: DefaultRetryBaseDelay,
		bm25Params:     bm25.DefaultParams(),
		logger:         slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Result reports what a rebuild produced, including partial failures.
type Result struct {
	ItemCount  int // Items that contributed at least one chunk
	ChunkCount int

	// SkippedItems are items rejected by validation. They are logged and
	// excluded without aborting the rebuild.
	SkippedItems []core.ID

	// EmptyItems counts items whose text normalized to nothing.
	EmptyItems int

	// KeywordOnlyChunks counts chunks whose embedding batch failed after
	// retries. They stay searchable through the keyword path.
	KeywordOnlyChunks int

	// EmbedErr carries the joined embedding failures, nil when none.
	EmbedErr error
}

// Partial reports whether the rebuild succeeded with degraded coverage.
func (r *Result) Partial() bool {
	return r.KeywordOnlyChunks > 0 || len(r.SkippedItems) > 0
}

// Build constructs a new snapshot from the given items. The snapshot is
// fully built off to the side; the caller decides when to publish it.
//
// Item-level failures degrade (skip, log, continue); embedding-batch
// failures degrade affected chunks to keyword-only searchability. Only
// total embedding unavailability aborts the build, leaving whatever
// snapshot was previously published untouched.
func (p *Pipeline) Build(ctx context.Context, items []*core.ContentItem, courses []*core.Course) (*index.Snapshot, *Result, error) {
	result := &Result{}

	var chunks []*core.Chunk
	var indexed []*core.ContentItem
	for _, item := range items {
		if err := core.ValidateContentItem(item); err != nil {
			p.logger.Warn("skipping malformed item", "err", err)
			if item != nil {
				result.SkippedItems = append(result.SkippedItems, item.Id)
			} else {
				result.SkippedItems = append(result.SkippedItems, 0)
			}
			continue
		}

		itemChunks := p.chunker.Chunk(item)
		if len(itemChunks) == 0 {
			// Nothing searchable. Not an error.
			result.EmptyItems++
			continue
		}

		chunks = append(chunks, itemChunks...)
		indexed = append(indexed, item)
	}

	result.ItemCount = len(indexed)
	result.ChunkCount = len(chunks)

	if len(chunks) > 0 {
		if err := p.embedChunks(ctx, chunks, result); err != nil {
			return nil, nil, err
		}
	}

	snapshot := index.NewSnapshot(chunks, indexed, courses, p.bm25Params)

	p.logger.Info("snapshot built",
		"items", result.ItemCount,
		"chunks", result.ChunkCount,
		"skipped", len(result.SkippedItems),
		"keywordOnly", result.KeywordOnlyChunks)

	return snapshot, result, nil
}

// embedChunks generates embeddings for all chunks in concurrent batches.
// Each batch owns a distinct slice of the chunk set, so workers never write
// to the same chunk.
func (p *Pipeline) embedChunks(ctx context.Context, chunks []*core.Chunk, result *Result) error {
	var wg sync.WaitGroup
	var mu sync.Mutex
	var batchErrs []error
	failedBatches := 0
	totalBatches := 0

	for start := 0; start < len(chunks); start += p.batchSize {
		end := min(start+p.batchSize, len(chunks))
		batch := chunks[start:end]
		totalBatches++

		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()

			err := p.embedBatch(ctx, batch)
			if err == nil {
				return
			}

			p.logger.Error("embedding batch failed, degrading to keyword-only",
				"chunks", len(batch), "err", err)

			mu.Lock()
			batchErrs = append(batchErrs, err)
			failedBatches++
			result.KeywordOnlyChunks += len(batch)
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			batchErrs = append(batchErrs, submitErr)
			failedBatches++
			result.KeywordOnlyChunks += len(batch)
			mu.Unlock()
		}
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	// Every batch failing means the backend is down outright. Abort rather
	// than publish a snapshot with no semantic index at all.
	if failedBatches == totalBatches && totalBatches > 0 {
		return errors.Join(ErrEmbeddingUnavailable, errors.Join(batchErrs...))
	}

	result.EmbedErr = errors.Join(batchErrs...)
	return nil
}

// embedBatch embeds one batch with bounded retry and assigns the
// unit-normalized vectors to the batch's chunks.
func (p *Pipeline) embedBatch(ctx context.Context, batch []*core.Chunk) error {
	texts := make([]string, len(batch))
	for i, chunk := range batch {
		texts[i] = chunk.Text
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var embedErr error
		embeddings, embedErr = p.embedder.EmbedTexts(ctx, texts)
		return embedErr
	}, p.maxRetries, p.retryBaseDelay)
	if err != nil {
		return err
	}

	if len(embeddings) != len(batch) {
		return fmt.Errorf("embedding result mismatch. expected %d, received %d", len(batch), len(embeddings))
	}

	for i := range batch {
		batch[i].Vector = core.NormalizeVector(embeddings[i])
	}
	return nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

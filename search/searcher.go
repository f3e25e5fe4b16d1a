package search

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/esinocchi/ClassMate/ai"
	"github.com/esinocchi/ClassMate/core"
	"github.com/esinocchi/ClassMate/filter"
	"github.com/esinocchi/ClassMate/index"
	"github.com/esinocchi/ClassMate/text"
)

// DefaultTopK is the result cap used when a request doesn't set one.
const DefaultTopK = 5

// Weights control how the two normalized score ranges are combined.
// The exact balance is a product-level tuning knob; equal weighting is the
// uncalibrated default.
type Weights struct {
	Semantic float64
	Keyword  float64
}

// DefaultWeights returns equal weighting for both signals.
func DefaultWeights() Weights {
	return Weights{Semantic: 0.5, Keyword: 0.5}
}

// Request describes one hybrid search.
type Request struct {
	// Query is the raw natural-language question.
	Query string

	// Filters restrict the candidate set before scoring.
	Filters filter.Constraints

	// TopK caps the result count after deduplication.
	// Zero or negative uses DefaultTopK.
	TopK int

	// Weights override the fusion weighting. Nil uses DefaultWeights.
	Weights *Weights

	// MultiChunk keeps every matching chunk of an item instead of only its
	// best one. Off by default so one long document can't monopolize the
	// result list.
	MultiChunk bool
}

// Searcher runs hybrid semantic and keyword search over collection snapshots.
// A Searcher is stateless with respect to collections; the snapshot to
// search is passed per call, so in-flight searches are unaffected by
// rebuild swaps.
type Searcher struct {
	embedder   ai.Embedder
	processors []PostProcessor
	logger     *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithPostProcessors replaces the post-processing chain.
// Default is the display augmenter followed by the no-op extension points.
func WithPostProcessors(processors ...PostProcessor) Option {
	return func(s *Searcher) error {
		s.processors = processors
		return nil
	}
}

// NewSearcher creates a new hybrid searcher.
func NewSearcher(provider ai.Provider, opts ...Option) (*Searcher, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}

	s := &Searcher{
		embedder: provider.Embedder(),
		processors: []PostProcessor{
			NewDisplayProcessor(time.Local),
			ExactPhrasePriority(),
			RelatedDocuments(),
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search runs a hybrid search against the given snapshot.
// Returns at most TopK results. An empty snapshot, an empty query, or
// filters matching nothing yield an empty slice, never an error.
func (s *Searcher) Search(ctx context.Context, snap *index.Snapshot, req Request) ([]*core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, snap, req, nil)
}

// SearchWithMonitor runs a hybrid search with monitoring callbacks at each
// stage of the process.
func (s *Searcher) SearchWithMonitor(ctx context.Context, snap *index.Snapshot, req Request, monitor Monitor) ([]*core.SearchResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(req.Query)

	if snap == nil || len(snap.Chunks) == 0 {
		return []*core.SearchResult{}, nil
	}

	normalizedQuery := text.Normalize(req.Query)
	if normalizedQuery == "" {
		return []*core.SearchResult{}, nil
	}
	terms := text.Tokenize(normalizedQuery)

	// 1. Restrict the candidate set. The predicate applies ahead of both
	// scoring paths, so neither can resurface a filtered-out chunk.
	pred := filter.Build(req.Filters)
	candidates := make([]*core.Chunk, 0, len(snap.Chunks))
	for _, chunk := range snap.Chunks {
		item := snap.Item(chunk.ItemId)
		if item == nil {
			continue
		}
		if pred.Match(item) {
			candidates = append(candidates, chunk)
		}
	}
	monitor.AfterFilter(len(candidates))

	if len(candidates) == 0 {
		return []*core.SearchResult{}, nil
	}

	// 2. Semantic scores. Chunks degraded to keyword-only score zero here.
	queryVector, err := s.embedder.EmbedText(ctx, normalizedQuery)
	if err != nil {
		s.logger.Error("error generating embedding for query", "err", err)
		return nil, err
	}
	queryVector = core.NormalizeVector(queryVector)

	semantic := make([]float64, len(candidates))
	for i, chunk := range candidates {
		if len(chunk.Vector) > 0 {
			semantic[i] = core.DotProduct(queryVector, chunk.Vector)
		}
	}
	monitor.AfterSemanticScoring(semantic)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 3. Keyword scores. An all-stop-word query scores zero everywhere and
	// fusion degrades to semantic-only ranking.
	keyword := make([]float64, len(candidates))
	for i, chunk := range candidates {
		keyword[i] = snap.Stats.Score(chunk, terms)
	}
	monitor.AfterKeywordScoring(keyword)

	// 4. Fuse. Each range is normalized independently so neither signal
	// dominates by scale alone.
	weights := DefaultWeights()
	if req.Weights != nil {
		weights = *req.Weights
	}
	semNorm := minMaxNormalize(semantic)
	kwNorm := minMaxNormalize(keyword)

	results := make([]*core.SearchResult, len(candidates))
	for i, chunk := range candidates {
		results[i] = &core.SearchResult{
			Chunk:           chunk,
			Item:            snap.Item(chunk.ItemId),
			SemanticScore:   semantic[i],
			KeywordScore:    keyword[i],
			Score:           weights.Semantic*semNorm[i] + weights.Keyword*kwNorm[i],
			MatchedKeywords: matchedTerms(chunk, terms),
		}
	}

	if !req.MultiChunk {
		results = dedupeByItem(results)
	}
	sortResults(results)
	monitor.AfterFusion(results)

	topK := req.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	if len(results) > topK {
		results = results[:topK]
	}

	// 5. Post-process: pure read-only augmentation, no scoring.
	for _, proc := range s.processors {
		results, err = proc.Process(ctx, snap, req, results)
		if err != nil {
			s.logger.Error("post-processor failed", "processor", proc.Name(), "err", err)
			return nil, err
		}
	}

	monitor.Finish(results)
	return results, nil
}

// minMaxNormalize rescales scores into [0, 1]. A degenerate range maps to
// all-ones when the shared value is positive and all-zeros otherwise, so a
// signal with no spread neither dominates nor disappears arbitrarily.
func minMaxNormalize(scores []float64) []float64 {
	if len(scores) == 0 {
		return nil
	}

	lo, hi := scores[0], scores[0]
	for _, v := range scores[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	normalized := make([]float64, len(scores))
	if hi == lo {
		if hi > 0 {
			for i := range normalized {
				normalized[i] = 1
			}
		}
		return normalized
	}

	for i, v := range scores {
		normalized[i] = (v - lo) / (hi - lo)
	}
	return normalized
}

// matchedTerms returns the query terms present in the chunk, in query order.
func matchedTerms(chunk *core.Chunk, terms []string) []string {
	var matched []string
	seen := make(map[string]bool, len(terms))
	for _, term := range terms {
		if seen[term] {
			continue
		}
		seen[term] = true
		if chunk.TermFreqs[term] > 0 {
			matched = append(matched, term)
		}
	}
	return matched
}

// dedupeByItem keeps only the best-scoring chunk per parent item.
// Ties within an item resolve to the lower ordinal for reproducibility.
func dedupeByItem(results []*core.SearchResult) []*core.SearchResult {
	best := make(map[core.ID]*core.SearchResult, len(results))
	order := make([]core.ID, 0, len(results))

	for _, r := range results {
		current, ok := best[r.Chunk.ItemId]
		if !ok {
			best[r.Chunk.ItemId] = r
			order = append(order, r.Chunk.ItemId)
			continue
		}
		if r.Score > current.Score ||
			(r.Score == current.Score && r.Chunk.Ordinal < current.Chunk.Ordinal) {
			best[r.Chunk.ItemId] = r
		}
	}

	deduped := make([]*core.SearchResult, 0, len(order))
	for _, id := range order {
		deduped = append(deduped, best[id])
	}
	return deduped
}

// sortResults orders by fused score descending. Equal scores break
// deterministically: newer item timestamp first, then lower item ID, then
// lower chunk ordinal, so identical inputs always produce identical order.
func sortResults(results []*core.SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}

		at, bt := a.Item.EffectiveTime(), b.Item.EffectiveTime()
		if !at.Equal(bt) {
			return at.After(bt)
		}
		if a.Item.Id != b.Item.Id {
			return a.Item.Id < b.Item.Id
		}
		return a.Chunk.Ordinal < b.Chunk.Ordinal
	})
}

package search

import "github.com/esinocchi/ClassMate/core"

// Monitor receives callbacks at each stage of a search. Implementations
// must be safe for use from a single search at a time; the searcher never
// shares one monitor between concurrent calls.
type Monitor interface {
	// Start is called once with the raw query before any work happens.
	Start(query string)

	// AfterFilter reports how many chunks survived constraint filtering.
	AfterFilter(candidates int)

	// AfterSemanticScoring receives the raw cosine similarities, one per
	// candidate in candidate order.
	AfterSemanticScoring(scores []float64)

	// AfterKeywordScoring receives the raw BM25 scores, one per candidate
	// in candidate order.
	AfterKeywordScoring(scores []float64)

	// AfterFusion receives the fused, deduplicated, sorted results before
	// truncation and post-processing.
	AfterFusion(results []*core.SearchResult)

	// Finish is called once with the final result list.
	Finish(results []*core.SearchResult)
}

type noopMonitor struct{}

func (m *noopMonitor) Start(query string)                       {}
func (m *noopMonitor) AfterFilter(candidates int)               {}
func (m *noopMonitor) AfterSemanticScoring(scores []float64)    {}
func (m *noopMonitor) AfterKeywordScoring(scores []float64)     {}
func (m *noopMonitor) AfterFusion(results []*core.SearchResult) {}
func (m *noopMonitor) Finish(results []*core.SearchResult)      {}

// Package bm25 implements Okapi BM25 keyword scoring over chunk term
// statistics. Statistics are computed wholesale for each collection snapshot
// and are immutable afterwards, so scoring is safe for concurrent queries.
//
// Tokenization is not performed here: callers pass terms produced by the
// shared text package, which guarantees the keyword and semantic paths score
// the same chunk identity.
package bm25

import (
	"math"

	"github.com/esinocchi/ClassMate/core"
)

// DefaultK1 is the default term-frequency saturation parameter.
const DefaultK1 = 1.5

// DefaultB is the default document-length normalization parameter.
const DefaultB = 0.75

// Params holds the tunable BM25 parameters.
type Params struct {
	// K1 controls term-frequency saturation. Higher values give more weight
	// to repeated terms. Typical range: 1.2-2.0.
	K1 float64

	// B controls document-length normalization. 0 disables normalization,
	// 1 applies it fully.
	B float64
}

// DefaultParams returns the standard parameter values.
func DefaultParams() Params {
	return Params{K1: DefaultK1, B: DefaultB}
}

// Stats holds per-snapshot collection statistics: document frequency per
// term, average chunk length and total chunk count.
type Stats struct {
	params       Params
	docFrequency map[string]int
	avgLength    float64
	chunkCount   int
}

// Compute builds collection statistics from the full chunk set of a snapshot.
// Term frequencies are read from the chunks; they were produced by the same
// tokenization that queries go through.
func Compute(chunks []*core.Chunk, params Params) *Stats {
	s := &Stats{
		params:       params,
		docFrequency: make(map[string]int),
		chunkCount:   len(chunks),
	}

	totalLength := 0
	for _, chunk := range chunks {
		totalLength += chunk.TokenCount
		for term := range chunk.TermFreqs {
			s.docFrequency[term]++
		}
	}
	if len(chunks) > 0 {
		s.avgLength = float64(totalLength) / float64(len(chunks))
	}

	return s
}

// ChunkCount returns the number of chunks the statistics were computed over.
func (s *Stats) ChunkCount() int {
	return s.chunkCount
}

// DocFrequency returns the number of chunks containing the term.
func (s *Stats) DocFrequency(term string) int {
	return s.docFrequency[term]
}

// Score calculates the BM25 relevance of a chunk for the given query terms.
// Terms absent from the chunk contribute zero; an empty term list or an
// empty chunk scores zero.
func (s *Stats) Score(chunk *core.Chunk, terms []string) float64 {
	if chunk.TokenCount == 0 || s.avgLength == 0 {
		return 0
	}

	score := 0.0
	for _, term := range terms {
		tf := chunk.TermFreqs[term]
		if tf == 0 {
			continue
		}
		df := s.docFrequency[term]
		if df == 0 {
			continue
		}
		score += s.termScore(tf, df, chunk.TokenCount)
	}
	return score
}

// termScore computes the BM25 contribution of a single term.
// See https://en.wikipedia.org/wiki/Okapi_BM25 for the formula.
func (s *Stats) termScore(tf, df, chunkLength int) float64 {
	idf := math.Log((float64(s.chunkCount) - float64(df) + 0.5) / (float64(df) + 0.5))
	// Clamp: terms in more than half the chunks would otherwise go negative.
	idf = math.Max(idf, 0)

	lengthNorm := (1 - s.params.B) + s.params.B*(float64(chunkLength)/s.avgLength)
	return idf * (float64(tf) * (s.params.K1 + 1)) / (float64(tf) + s.params.K1*lengthNorm)
}

// Package chunker splits normalized item text into bounded, overlapping
// chunks. Chunking is deterministic: unchanged input and configuration
// always produce identical chunk IDs and spans, which reindexing relies on.
package chunker

import (
	"strings"

	"github.com/esinocchi/ClassMate/core"
	"github.com/esinocchi/ClassMate/text"
)

// DefaultChunkSize is the default number of word tokens per chunk.
const DefaultChunkSize = 200

// DefaultChunkOverlap is the default number of word tokens shared by
// consecutive chunks. Overlap keeps context that straddles a boundary
// retrievable from both sides.
const DefaultChunkOverlap = 40

// Chunker splits content items into chunks.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures a Chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in word tokens.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks in word tokens.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a Chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}
	for _, opt := range opts {
		opt(c)
	}

	// Overlap must leave room to advance.
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}
	return c
}

// Chunk normalizes the item's indexable text and splits it into chunks.
// Empty or whitespace-only text yields zero chunks; text shorter than the
// chunk bound yields exactly one. Each chunk carries the term statistics
// computed from its own text, so the keyword and semantic paths always
// describe the same span.
func (c *Chunker) Chunk(item *core.ContentItem) []*core.Chunk {
	normalized := text.Normalize(core.IndexableText(item))
	if normalized == "" {
		return nil
	}

	words := strings.Fields(normalized)
	step := c.chunkSize - c.overlap

	chunks := make([]*core.Chunk, 0, len(words)/step+1)
	for start := 0; start < len(words); start += step {
		end := min(start+c.chunkSize, len(words))
		span := strings.Join(words[start:end], " ")

		tokens := text.Tokenize(span)
		ordinal := len(chunks)
		chunks = append(chunks, &core.Chunk{
			Id:         core.ChunkID(item.Id, ordinal),
			ItemId:     item.Id,
			Ordinal:    ordinal,
			Text:       span,
			TokenCount: len(tokens),
			TermFreqs:  text.TermFreqs(tokens),
		})

		if end == len(words) {
			break
		}
	}

	return chunks
}

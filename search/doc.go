// Package search implements hybrid retrieval over index snapshots.
//
// A search runs both scoring paths over the filtered candidate set: cosine
// similarity between the query embedding and chunk embeddings, and BM25
// over the shared tokenized vocabulary. The two raw score ranges are
// min-max normalized independently and combined with a weighted sum, then
// results are deduplicated per item, ordered deterministically, truncated,
// and handed to a post-processing chain for display augmentation.
package search

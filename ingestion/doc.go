// Package ingestion provides the rebuild pipeline that turns raw course
// content into collection snapshots.
//
// The Pipeline type manages the rebuild workflow:
//   - validating and chunking item text
//   - generating embeddings in concurrent, bounded batches with retry
//   - assembling the immutable snapshot with its keyword statistics
//
// Embedding batches run on a worker pool to maximize throughput. A batch
// that keeps failing degrades its chunks to keyword-only searchability and
// is reported in the build Result instead of aborting the rebuild.
package ingestion

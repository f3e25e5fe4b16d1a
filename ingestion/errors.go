package ingestion

import "errors"

var (
	// ErrProviderRequired is returned when an embedding provider is not provided.
	ErrProviderRequired = errors.New("embedding provider required")

	// ErrInvalidMaxAttempts is returned when a retry ceiling below 1 is requested.
	ErrInvalidMaxAttempts = errors.New("max attempts must be greater than zero")

	// ErrEmbeddingUnavailable is returned when every embedding batch of a
	// rebuild failed after retries. The rebuild is aborted so the prior
	// snapshot stays authoritative.
	ErrEmbeddingUnavailable = errors.New("embedding backend unavailable")
)

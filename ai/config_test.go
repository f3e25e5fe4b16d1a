package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "e5-small-v2", cfg.EmbeddingModel)
	assert.Equal(t, 384, cfg.Dimensions)
	assert.NoError(t, cfg.Validate())
}

func TestNewConfigOptions(t *testing.T) {
	cfg := NewConfig(
		WithHost("http://embeddings.internal:8080/v1"),
		WithModel("text-embedding-3-small"),
		WithDimensions(1536),
	)
	assert.Equal(t, "http://embeddings.internal:8080/v1", cfg.EmbeddingHost)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	assert.Equal(t, 1536, cfg.Dimensions)
}

func TestNormalizeAddsV1Suffix(t *testing.T) {
	t.Run("missing suffix", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434"))
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	})

	t.Run("trailing slash", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434/"))
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	})

	t.Run("already canonical", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434/v1"))
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	})
}

func TestValidate(t *testing.T) {
	t.Run("missing host", func(t *testing.T) {
		cfg := NewConfig(WithHost(""))
		require.Error(t, cfg.Validate())
	})

	t.Run("missing model", func(t *testing.T) {
		cfg := NewConfig(WithModel(""))
		require.Error(t, cfg.Validate())
	})

	t.Run("non-positive dimensions", func(t *testing.T) {
		cfg := NewConfig(WithDimensions(0))
		require.Error(t, cfg.Validate())
	})
}

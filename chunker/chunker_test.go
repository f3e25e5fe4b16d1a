package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esinocchi/ClassMate/core"
)

func makeItem(id uint64, body string) *core.ContentItem {
	return &core.ContentItem{
		Id:   core.ID(id),
		Type: core.ItemTypeAssignment,
		Body: body,
	}
}

func wordText(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("word%d", i)
	}
	return strings.Join(words, " ")
}

func TestChunkEmpty(t *testing.T) {
	c := New()

	assert.Empty(t, c.Chunk(makeItem(1, "")))
	assert.Empty(t, c.Chunk(makeItem(1, " \t\n ")))
}

func TestChunkShortText(t *testing.T) {
	c := New()

	chunks := c.Chunk(makeItem(7, "Submit problem set three by Friday midnight"))
	require.Len(t, chunks, 1)

	chunk := chunks[0]
	assert.Equal(t, core.ID(7), chunk.ItemId)
	assert.Equal(t, 0, chunk.Ordinal)
	assert.Equal(t, "Submit problem set three by Friday midnight", chunk.Text)
	assert.Positive(t, chunk.TokenCount)
	assert.Positive(t, chunk.TermFreqs["friday"])
}

func TestChunkOverlap(t *testing.T) {
	c := New(WithChunkSize(10), WithOverlap(4))

	chunks := c.Chunk(makeItem(3, wordText(16)))
	require.Len(t, chunks, 2)

	// Second chunk starts at word 6 and repeats the last 4 words of the first.
	first := strings.Fields(chunks[0].Text)
	second := strings.Fields(chunks[1].Text)
	assert.Len(t, first, 10)
	assert.Equal(t, first[6:], second[:4])
	assert.Equal(t, "word15", second[len(second)-1])
}

func TestChunkBounds(t *testing.T) {
	c := New(WithChunkSize(10), WithOverlap(4))

	for _, n := range []int{1, 9, 10, 11, 25, 100} {
		chunks := c.Chunk(makeItem(5, wordText(n)))
		require.NotEmpty(t, chunks, "n=%d", n)

		total := 0
		for i, chunk := range chunks {
			words := strings.Fields(chunk.Text)
			assert.LessOrEqual(t, len(words), 10, "n=%d chunk=%d", n, i)
			assert.Equal(t, i, chunk.Ordinal)
			total += len(words)
		}
		// Overlapping words are counted once per chunk they appear in.
		assert.GreaterOrEqual(t, total, n, "n=%d", n)
	}
}

func TestChunkDeterministicIDs(t *testing.T) {
	c := New(WithChunkSize(10), WithOverlap(4))
	item := makeItem(11, wordText(30))

	a := c.Chunk(item)
	b := c.Chunk(item)
	require.Equal(t, len(a), len(b))

	for i := range a {
		assert.Equal(t, a[i].Id, b[i].Id)
		assert.Equal(t, core.ChunkID(item.Id, i), a[i].Id)
	}

	// A different item with identical text gets different chunk IDs.
	other := c.Chunk(makeItem(12, wordText(30)))
	assert.NotEqual(t, a[0].Id, other[0].Id)
}

func TestChunkJoinsItemFields(t *testing.T) {
	c := New()
	item := &core.ContentItem{
		Id:             9,
		Type:           core.ItemTypeAssignment,
		Title:          "Essay Two",
		Body:           "Compare the two readings.",
		AttachmentText: "Rubric attached.",
	}

	chunks := c.Chunk(item)
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].Text, "Essay Two")
	assert.Contains(t, chunks[0].Text, "Compare the two readings.")
	assert.Contains(t, chunks[0].Text, "Rubric attached.")
}

func TestNewClampsOverlap(t *testing.T) {
	// Overlap >= size would never advance; it is clamped instead.
	c := New(WithChunkSize(8), WithOverlap(20))

	chunks := c.Chunk(makeItem(2, wordText(40)))
	require.NotEmpty(t, chunks)
	assert.Greater(t, len(chunks), 1)
}

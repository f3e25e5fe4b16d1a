package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateContentItem(t *testing.T) {
	t.Run("valid item", func(t *testing.T) {
		err := ValidateContentItem(&ContentItem{Id: 1, Type: ItemTypeAssignment})
		assert.NoError(t, err)
	})

	t.Run("nil item", func(t *testing.T) {
		assert.ErrorIs(t, ValidateContentItem(nil), ErrInvalidContentItem)
	})

	t.Run("missing id", func(t *testing.T) {
		err := ValidateContentItem(&ContentItem{Type: ItemTypeAssignment})
		assert.ErrorIs(t, err, ErrEmptyItemID)
	})

	t.Run("unknown type", func(t *testing.T) {
		err := ValidateContentItem(&ContentItem{Id: 1, Type: ItemType(42)})
		assert.ErrorIs(t, err, ErrInvalidItemType)
	})

	t.Run("empty body is allowed", func(t *testing.T) {
		err := ValidateContentItem(&ContentItem{Id: 1, Type: ItemTypeFile})
		assert.NoError(t, err)
	})
}

func TestIndexableText(t *testing.T) {
	t.Run("joins all fields", func(t *testing.T) {
		item := &ContentItem{Title: "Essay", Body: "Prompt.", AttachmentText: "Rubric."}
		assert.Equal(t, "Essay\n\nPrompt.\n\nRubric.", IndexableText(item))
	})

	t.Run("skips empty fields", func(t *testing.T) {
		item := &ContentItem{Title: "Essay", AttachmentText: "Rubric."}
		assert.Equal(t, "Essay\n\nRubric.", IndexableText(item))
	})

	t.Run("empty item", func(t *testing.T) {
		assert.Equal(t, "", IndexableText(&ContentItem{}))
	})
}

func TestNormalizeVector(t *testing.T) {
	t.Run("unit length", func(t *testing.T) {
		v := NormalizeVector([]float32{3, 4})
		assert.InDelta(t, 0.6, v[0], 1e-6)
		assert.InDelta(t, 0.8, v[1], 1e-6)
	})

	t.Run("zero vector stays zero", func(t *testing.T) {
		v := NormalizeVector([]float32{0, 0, 0})
		assert.Equal(t, []float32{0, 0, 0}, v)
	})

	t.Run("empty vector", func(t *testing.T) {
		assert.Empty(t, NormalizeVector(nil))
	})
}

func TestDotProduct(t *testing.T) {
	t.Run("computes product", func(t *testing.T) {
		assert.InDelta(t, 11.0, DotProduct([]float32{1, 2}, []float32{3, 4}), 1e-6)
	})

	t.Run("mismatched lengths score zero", func(t *testing.T) {
		assert.Zero(t, DotProduct([]float32{1, 2}, []float32{3}))
	})
}

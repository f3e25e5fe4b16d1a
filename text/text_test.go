package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Run("empty string", func(t *testing.T) {
		assert.Equal(t, "", Normalize(""))
	})

	t.Run("collapses whitespace runs", func(t *testing.T) {
		assert.Equal(t, "Problem Set 3", Normalize("Problem   Set\t\t3"))
	})

	t.Run("newlines become spaces", func(t *testing.T) {
		assert.Equal(t, "due Friday at midnight", Normalize("due Friday\nat\r\nmidnight"))
	})

	t.Run("smart quotes become ascii", func(t *testing.T) {
		assert.Equal(t, `Einstein's "theory" - revisited`, Normalize("Einstein’s “theory” — revisited"))
	})

	t.Run("preserves case", func(t *testing.T) {
		assert.Equal(t, "Midterm Exam CS101", Normalize("Midterm Exam CS101"))
	})

	t.Run("whitespace only yields empty", func(t *testing.T) {
		assert.Equal(t, "", Normalize(" \t\n "))
	})

	t.Run("idempotent", func(t *testing.T) {
		raw := "The  “quick”\nbrown fox"
		once := Normalize(raw)
		assert.Equal(t, once, Normalize(once))
	})
}

func TestTokenize(t *testing.T) {
	t.Run("empty string", func(t *testing.T) {
		assert.Nil(t, Tokenize(""))
	})

	t.Run("lowercases and strips punctuation", func(t *testing.T) {
		assert.Equal(t, []string{"midterm", "exam", "chapters"},
			Tokenize("Midterm Exam: Chapters!"))
	})

	t.Run("drops stop words", func(t *testing.T) {
		assert.Equal(t, []string{"assignment", "due", "friday"},
			Tokenize("the assignment is due on Friday"))
	})

	t.Run("drops short tokens", func(t *testing.T) {
		assert.Equal(t, []string{"due"}, Tokenize("go to due"))
	})

	t.Run("keeps course codes", func(t *testing.T) {
		assert.Equal(t, []string{"cs101", "homework"}, Tokenize("CS101 homework"))
		assert.Equal(t, []string{"math2415", "quiz"}, Tokenize("MATH2415 quiz"))
	})

	t.Run("keeps hyphenated tokens", func(t *testing.T) {
		assert.Equal(t, []string{"e5-small", "model"}, Tokenize("e5-small model"))
	})

	t.Run("trims stray hyphens", func(t *testing.T) {
		assert.Equal(t, []string{"deadline"}, Tokenize("-deadline-"))
	})

	t.Run("all stop words yields nil", func(t *testing.T) {
		assert.Nil(t, Tokenize("what is the"))
	})

	t.Run("only punctuation yields nil", func(t *testing.T) {
		assert.Nil(t, Tokenize("?! ... ??"))
	})
}

func TestTermFreqs(t *testing.T) {
	t.Run("counts repeats", func(t *testing.T) {
		freqs := TermFreqs([]string{"exam", "review", "exam"})
		assert.Equal(t, map[string]int{"exam": 2, "review": 1}, freqs)
	})

	t.Run("nil tokens yields nil", func(t *testing.T) {
		assert.Nil(t, TermFreqs(nil))
	})
}

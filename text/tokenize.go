package text

import (
	"regexp"
	"strings"
)

// Stop words excluded from the shared vocabulary. A query reduced to nothing
// but stop words scores zero on the keyword path.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "when": true, "what": true, "how": true,
}

var (
	// Everything except word characters, whitespace and hyphens becomes a
	// separator. Hyphens survive so "e5-small" stays one token.
	punctPattern = regexp.MustCompile(`[^\w\s\-]`)

	// Academic course codes like cs101 or math203 are kept even when short.
	courseCodePattern = regexp.MustCompile(`^[a-z]+\d+$`)
)

// Tokenize splits text into the lowercase terms both the keyword index and
// the query side score against. Short tokens are dropped unless they look
// like course codes.
func Tokenize(s string) []string {
	if s == "" {
		return nil
	}

	cleaned := punctPattern.ReplaceAllString(strings.ToLower(s), " ")
	fields := strings.Fields(cleaned)

	tokens := make([]string, 0, len(fields))
	for _, tok := range fields {
		tok = strings.Trim(tok, "-")
		if tok == "" || stopWords[tok] {
			continue
		}
		if len(tok) > 2 || courseCodePattern.MatchString(tok) {
			tokens = append(tokens, tok)
		}
	}
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}

// TermFreqs counts term occurrences in the tokenized text.
func TermFreqs(tokens []string) map[string]int {
	if len(tokens) == 0 {
		return nil
	}
	freqs := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		freqs[tok]++
	}
	return freqs
}

// Package text provides the shared normalization and tokenization used by
// the chunker and the keyword index. Both scoring paths must see the same
// vocabulary, so this package is the only place text is cleaned or split.
package text

import (
	"strings"
	"unicode"
)

var quoteReplacer = strings.NewReplacer(
	"’", "'", "‘", "'",
	"“", `"`, "”", `"`,
	"–", "-", "—", "-",
	" ", " ",
)

// Normalize cleans raw item text for indexing while preserving case:
// smart quotes and dashes become their ASCII forms, control characters are
// stripped, and whitespace runs collapse to single spaces.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	s = quoteReplacer.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsControl(r):
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

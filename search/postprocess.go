// Copyright 2025 The ClassMate Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package search

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/esinocchi/ClassMate/core"
	"github.com/esinocchi/ClassMate/index"
)

// snippetRadius is the number of characters kept on each side of the
// strongest keyword match when building a snippet.
const snippetRadius = 120

// PostProcessor augments finished results for presentation. Processors run
// in order after ranking and truncation; they must not change scores or
// result order.
type PostProcessor interface {
	// Name identifies the processor in logs.
	Name() string

	// Process returns the (possibly replaced) result slice.
	Process(ctx context.Context, snap *index.Snapshot, req Request, results []*core.SearchResult) ([]*core.SearchResult, error)
}

// DisplayProcessor fills the presentation fields of each result: snippet,
// localized due date, relative time, and course identification.
type DisplayProcessor struct {
	location *time.Location
}

// NewDisplayProcessor creates a display processor that renders timestamps
// in the given location. A nil location falls back to time.Local.
func NewDisplayProcessor(location *time.Location) *DisplayProcessor {
	if location == nil {
		location = time.Local
	}
	return &DisplayProcessor{location: location}
}

func (p *DisplayProcessor) Name() string {
	return "display"
}

func (p *DisplayProcessor) Process(ctx context.Context, snap *index.Snapshot, req Request, results []*core.SearchResult) ([]*core.SearchResult, error) {
	now := time.Now().In(p.location)

	for _, r := range results {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		r.Snippet = buildSnippet(r.Chunk.Text, r.MatchedKeywords)

		if r.Item != nil {
			if r.Item.DueAt != nil {
				due := r.Item.DueAt.In(p.location)
				r.LocalDueAt = due.Format("Mon, Jan 2 2006 at 3:04 PM")
				r.RelativeTime = relativeDays(now, due)
			}
			if course := snap.Course(r.Item.CourseId); course != nil {
				r.CourseName = course.Name
				r.CourseCode = course.Code
			}
		}
	}
	return results, nil
}

// buildSnippet extracts a window around the earliest matched keyword, or
// the head of the chunk when nothing matched (pure semantic hit). The
// window is measured in runes so multi-byte text never gets cut mid-rune.
func buildSnippet(chunkText string, matched []string) string {
	runes := []rune(chunkText)

	pos := matchPosition(runes, matched)

	start, end := 0, len(runes)
	if pos >= 0 {
		start = pos - snippetRadius
		end = pos + snippetRadius
	} else if end > 2*snippetRadius {
		end = 2 * snippetRadius
	}
	if start < 0 {
		start = 0
	}
	if end > len(runes) {
		end = len(runes)
	}

	// Trim to word boundaries so snippets never start or end mid-word.
	snippet := string(runes[start:end])
	if start > 0 {
		if i := strings.IndexByte(snippet, ' '); i >= 0 {
			snippet = snippet[i+1:]
		}
		snippet = "…" + snippet
	}
	if end < len(runes) {
		if i := strings.LastIndexByte(snippet, ' '); i > 0 {
			snippet = snippet[:i]
		}
		snippet += "…"
	}
	return snippet
}

// matchPosition returns the rune offset of the earliest whole-word match of
// any keyword, or -1. Words are compared lowercased with surrounding
// punctuation trimmed, so "Due." matches the keyword "due" while "endued"
// does not, and case folding never shifts the reported offset.
func matchPosition(runes []rune, matched []string) int {
	if len(matched) == 0 {
		return -1
	}
	terms := make(map[string]bool, len(matched))
	for _, term := range matched {
		terms[term] = true
	}

	wordStart := -1
	for i := 0; i <= len(runes); i++ {
		if i < len(runes) && !unicode.IsSpace(runes[i]) {
			if wordStart < 0 {
				wordStart = i
			}
			continue
		}
		if wordStart >= 0 {
			word := strings.ToLower(strings.TrimFunc(string(runes[wordStart:i]), unicode.IsPunct))
			if terms[word] {
				return wordStart
			}
			wordStart = -1
		}
	}
	return -1
}

// relativeDays renders the calendar-day distance between now and then.
// Both dates collapse to UTC midnights before differencing, so a 23-hour
// DST day still counts as one calendar day.
func relativeDays(now, then time.Time) string {
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	thenDay := time.Date(then.Year(), then.Month(), then.Day(), 0, 0, 0, 0, time.UTC)
	days := int(thenDay.Sub(nowDay).Hours() / 24)

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 1:
		return fmt.Sprintf("In %d days", days)
	default:
		return fmt.Sprintf("%d days ago", -days)
	}
}

// exactPhraseProcessor is a reserved extension point for boosting results
// whose chunk contains the query verbatim. It currently passes results
// through untouched.
type exactPhraseProcessor struct{}

// ExactPhrasePriority returns the exact-phrase extension point.
func ExactPhrasePriority() PostProcessor {
	return &exactPhraseProcessor{}
}

func (p *exactPhraseProcessor) Name() string {
	return "exact-phrase"
}

func (p *exactPhraseProcessor) Process(_ context.Context, _ *index.Snapshot, _ Request, results []*core.SearchResult) ([]*core.SearchResult, error) {
	return results, nil
}

// relatedDocumentsProcessor is a reserved extension point for pulling in
// documents linked from result items. It currently passes results through
// untouched.
type relatedDocumentsProcessor struct{}

// RelatedDocuments returns the related-documents extension point.
func RelatedDocuments() PostProcessor {
	return &relatedDocumentsProcessor{}
}

func (p *relatedDocumentsProcessor) Name() string {
	return "related-documents"
}

func (p *relatedDocumentsProcessor) Process(_ context.Context, _ *index.Snapshot, _ Request, results []*core.SearchResult) ([]*core.SearchResult, error) {
	return results, nil
}

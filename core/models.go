package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Content items carry the ID assigned by Canvas; chunk IDs are derived
// deterministically from the parent item ID and the chunk ordinal.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ChunkID derives the ID for a chunk from its parent item ID and ordinal.
// Reindexing unchanged content must yield the same chunk IDs, so the
// derivation depends on nothing but the two inputs.
func ChunkID(itemID ID, ordinal int) ID {
	return IDFromContent(strconv.FormatUint(uint64(itemID), 10) + ":" + strconv.Itoa(ordinal))
}

// ItemType identifies the kind of Canvas entity a content item came from.
type ItemType int

const (
	// ItemTypeAssignment represents a Canvas assignment.
	ItemTypeAssignment ItemType = iota + 1
	// ItemTypeAnnouncement represents a course announcement.
	ItemTypeAnnouncement
	// ItemTypeFile represents an uploaded course file.
	ItemTypeFile
	// ItemTypeQuiz represents a quiz.
	ItemTypeQuiz
	// ItemTypeSyllabus represents a syllabus section.
	ItemTypeSyllabus
	// ItemTypeCalendarEvent represents a calendar event.
	ItemTypeCalendarEvent
)

var itemTypeNames = map[ItemType]string{
	ItemTypeAssignment:    "assignment",
	ItemTypeAnnouncement:  "announcement",
	ItemTypeFile:          "file",
	ItemTypeQuiz:          "quiz",
	ItemTypeSyllabus:      "syllabus",
	ItemTypeCalendarEvent: "calendar_event",
}

// String returns the canonical lowercase name for the item type.
func (t ItemType) String() string {
	if name, ok := itemTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseItemType parses a canonical item type name.
// Returns false when the name is not a known type.
func ParseItemType(name string) (ItemType, bool) {
	for t, n := range itemTypeNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}

// ContentItem is one Canvas entity supplied by the ingestion collaborator.
// The retrieval core treats it as read-only.
type ContentItem struct {
	Id             ID
	CourseId       int64
	Type           ItemType
	Title          string
	Body           string
	AttachmentText string // Plain text extracted from attachments by the extraction layer
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DueAt          *time.Time // Assignments and quizzes
	EventAt        *time.Time // Calendar events
	SourceURL      string
}

// EffectiveTime returns the timestamp used by time-based filters and
// tie-breaking: the due date when present, then the event date, then the
// last update.
func (item *ContentItem) EffectiveTime() time.Time {
	if item.DueAt != nil {
		return *item.DueAt
	}
	if item.EventAt != nil {
		return *item.EventAt
	}
	return item.UpdatedAt
}

// Chunk is a bounded span of normalized text derived from exactly one
// content item. Chunks are the atomic unit of indexing and scoring.
type Chunk struct {
	Id         ID
	ItemId     ID
	Ordinal    int
	Text       string // Normalized, original case, used for display and embedding
	TokenCount int
	Vector     []float32      // Unit-normalized embedding; nil when degraded to keyword-only
	TermFreqs  map[string]int // Term frequencies over the shared tokenization
}

// Course carries display metadata for a Canvas course.
type Course struct {
	Id   int64
	Name string
	Code string
}

// CollectionMeta records when a persisted collection was last rebuilt and
// which snapshot version that rebuild produced.
type CollectionMeta struct {
	CollectionId string
	Version      uint64
	SavedAt      time.Time
}

// SearchResult is one ranked hit from a hybrid search. Results are
// constructed fresh per query and never persisted.
type SearchResult struct {
	Chunk *Chunk
	Item  *ContentItem

	SemanticScore float64
	KeywordScore  float64
	Score         float64 // Fused score the ranking is ordered by

	MatchedKeywords []string

	// Display fields populated by post-processing.
	Snippet      string
	LocalDueAt   string
	RelativeTime string
	CourseName   string
	CourseCode   string
}

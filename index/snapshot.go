// Package index holds the immutable collection snapshots queries run
// against, and the per-collection holder that swaps them atomically on
// rebuild. Readers never block on a rebuild: a query dereferences the
// current snapshot once and keeps using it even if a swap happens mid-query.
package index

import (
	"time"

	"github.com/esinocchi/ClassMate/bm25"
	"github.com/esinocchi/ClassMate/core"
)

// Snapshot is one fully built, immutable version of a collection's index.
// Nothing mutates a snapshot after it is published; rebuilds construct a new
// one off to the side.
type Snapshot struct {
	Chunks  []*core.Chunk
	Items   map[core.ID]*core.ContentItem
	Courses map[int64]*core.Course
	Stats   *bm25.Stats
	BuiltAt time.Time
	Version uint64
}

// NewSnapshot assembles a snapshot from a built chunk set, computing the
// keyword statistics wholesale over it.
func NewSnapshot(chunks []*core.Chunk, items []*core.ContentItem, courses []*core.Course, params bm25.Params) *Snapshot {
	itemMap := make(map[core.ID]*core.ContentItem, len(items))
	for _, item := range items {
		itemMap[item.Id] = item
	}
	courseMap := make(map[int64]*core.Course, len(courses))
	for _, course := range courses {
		courseMap[course.Id] = course
	}

	return &Snapshot{
		Chunks:  chunks,
		Items:   itemMap,
		Courses: courseMap,
		Stats:   bm25.Compute(chunks, params),
		BuiltAt: time.Now().UTC(),
	}
}

// Empty returns a snapshot with no content. Queries against it yield no
// results without error.
func Empty() *Snapshot {
	return NewSnapshot(nil, nil, nil, bm25.DefaultParams())
}

// Item returns the parent item for a chunk, or nil when unknown.
func (s *Snapshot) Item(id core.ID) *core.ContentItem {
	return s.Items[id]
}

// Course returns course display metadata, or nil when unknown.
func (s *Snapshot) Course(id int64) *core.Course {
	return s.Courses[id]
}

// Package filter compiles structured query constraints into predicates over
// content-item metadata. Predicates are evaluated before scoring to shrink
// the candidate set, and the same predicate applies to both scoring paths,
// so a filtered-out chunk can never surface from either.
package filter

import (
	"time"

	"github.com/esinocchi/ClassMate/core"
)

// Constraints is the typed form of a query's structured filters.
// Zero values mean "no constraint".
type Constraints struct {
	// CourseIds restricts results to items from these courses.
	CourseIds []int64

	// Types restricts results to these item types.
	Types []core.ItemType

	// After and Before bound the item timestamp to [After, Before).
	After  *time.Time
	Before *time.Time

	// OnDate matches items whose timestamp falls on this calendar day,
	// ignoring time-of-day. Evaluated in Location.
	OnDate *time.Time

	// Location is the timezone for date-only comparisons.
	// Defaults to time.Local.
	Location *time.Location
}

// Predicate reports whether an item passes a filter. Implementations are
// immutable and safe for concurrent use.
type Predicate interface {
	Match(item *core.ContentItem) bool
}

// Build compiles constraints into a single AND-composed predicate.
// Impossible ranges compile to a predicate that matches nothing, and absent
// constraints compile to match-all; malformed input is never an error.
func Build(c Constraints) Predicate {
	var preds conjunction

	if len(c.CourseIds) > 0 {
		preds = append(preds, newCourseSet(c.CourseIds))
	}
	if len(c.Types) > 0 {
		preds = append(preds, newTypeSet(c.Types))
	}
	if c.After != nil || c.Before != nil {
		if c.After != nil && c.Before != nil && !c.After.Before(*c.Before) {
			// end <= start can never match
			return matchNone{}
		}
		preds = append(preds, timeRange{after: c.After, before: c.Before})
	}
	if c.OnDate != nil {
		loc := c.Location
		if loc == nil {
			loc = time.Local
		}
		y, m, d := c.OnDate.In(loc).Date()
		preds = append(preds, exactDate{year: y, month: m, day: d, loc: loc})
	}

	if len(preds) == 0 {
		return matchAll{}
	}
	return preds
}

// conjunction ANDs its member predicates.
type conjunction []Predicate

func (c conjunction) Match(item *core.ContentItem) bool {
	for _, p := range c {
		if !p.Match(item) {
			return false
		}
	}
	return true
}

// matchAll passes every item.
type matchAll struct{}

func (matchAll) Match(*core.ContentItem) bool { return true }

// matchNone rejects every item. Compiled from impossible constraints.
type matchNone struct{}

func (matchNone) Match(*core.ContentItem) bool { return false }

// courseSet matches items whose course ID is in the set.
type courseSet map[int64]bool

func newCourseSet(ids []int64) courseSet {
	set := make(courseSet, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func (s courseSet) Match(item *core.ContentItem) bool {
	return s[item.CourseId]
}

// typeSet matches items whose type is in the set.
type typeSet map[core.ItemType]bool

func newTypeSet(types []core.ItemType) typeSet {
	set := make(typeSet, len(types))
	for _, t := range types {
		set[t] = true
	}
	return set
}

func (s typeSet) Match(item *core.ContentItem) bool {
	return s[item.Type]
}

// timeRange matches items whose effective timestamp is in [after, before).
type timeRange struct {
	after  *time.Time
	before *time.Time
}

func (r timeRange) Match(item *core.ContentItem) bool {
	ts := item.EffectiveTime()
	if ts.IsZero() {
		return false
	}
	if r.after != nil && ts.Before(*r.after) {
		return false
	}
	if r.before != nil && !ts.Before(*r.before) {
		return false
	}
	return true
}

// exactDate matches items whose effective timestamp falls on one calendar
// day in the configured location.
type exactDate struct {
	year  int
	month time.Month
	day   int
	loc   *time.Location
}

func (d exactDate) Match(item *core.ContentItem) bool {
	ts := item.EffectiveTime()
	if ts.IsZero() {
		return false
	}
	y, m, day := ts.In(d.loc).Date()
	return y == d.year && m == d.month && day == d.day
}

package index

import (
	"sync"
	"sync/atomic"

	"github.com/esinocchi/ClassMate/core"
)

// Collection is the holder for one collection's current snapshot.
//
// Queries load the pointer once and work on that snapshot for their whole
// lifetime. Rebuilds are serialized per collection: at most one may run, and
// a second request fails fast with core.ErrRebuildInProgress so the caller
// can retry later rather than having two rebuilds interleave.
type Collection struct {
	id        string
	current   atomic.Pointer[Snapshot]
	rebuildMu sync.Mutex
	restoreMu sync.Mutex
	version   atomic.Uint64
}

// NewCollection creates a collection holder with no snapshot published yet.
func NewCollection(id string) *Collection {
	return &Collection{id: id}
}

// ID returns the collection identifier.
func (c *Collection) ID() string {
	return c.id
}

// Snapshot returns the currently published snapshot, or nil if the
// collection has never been built.
func (c *Collection) Snapshot() *Snapshot {
	return c.current.Load()
}

// BeginRebuild claims the collection's rebuild slot. It returns a release
// function on success and core.ErrRebuildInProgress when another rebuild
// holds the slot. The release function must be called exactly once,
// whether or not the rebuild published a snapshot.
func (c *Collection) BeginRebuild() (release func(), err error) {
	if !c.rebuildMu.TryLock() {
		return nil, core.ErrRebuildInProgress
	}
	return c.rebuildMu.Unlock, nil
}

// Publish makes a fully built snapshot visible atomically. In-flight queries
// keep the snapshot they started with; the superseded snapshot becomes
// unreachable for new queries the moment this returns.
func (c *Collection) Publish(s *Snapshot) {
	s.Version = c.version.Add(1)
	c.current.Store(s)
}

// BeginRestore claims the restore slot, blocking until it is free.
// Restores serialize among themselves but never contend with the rebuild
// slot, so a query is never rejected because a rebuild happens to be
// running.
func (c *Collection) BeginRestore() (release func()) {
	c.restoreMu.Lock()
	return c.restoreMu.Unlock
}

// Restore publishes a snapshot reloaded from storage and resumes the
// version sequence from its persisted value, so the next rebuild continues
// counting rather than restarting at one. When a rebuild raced the load and
// already published, the published snapshot is fresher; it is kept and
// returned instead of the reloaded one.
func (c *Collection) Restore(s *Snapshot, version uint64) *Snapshot {
	s.Version = version
	if !c.current.CompareAndSwap(nil, s) {
		return c.current.Load()
	}

	for {
		cur := c.version.Load()
		if cur >= version || c.version.CompareAndSwap(cur, version) {
			return s
		}
	}
}

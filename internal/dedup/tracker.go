// Package dedup tracks which incident ids have already been notified so
// each incident is dispatched at most once.
package dedup

import "sync"

// Tracker records notified incident ids.
type Tracker interface {
	Seen(id string) bool
	Mark(id string)
}

// MemoryTracker is the default in-process tracker. History is lost on
// restart, which the current delivery policy accepts.
type MemoryTracker struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// Ensure MemoryTracker implements Tracker
var _ Tracker = (*MemoryTracker)(nil)

// NewMemoryTracker creates an empty in-memory tracker.
func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{seen: make(map[string]struct{})}
}

// Seen reports whether the id was already marked.
func (t *MemoryTracker) Seen(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.seen[id]
	return ok
}

// Mark records the id as notified.
func (t *MemoryTracker) Mark(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.seen[id] = struct{}{}
}

// Len returns the number of tracked ids.
func (t *MemoryTracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.seen)
}

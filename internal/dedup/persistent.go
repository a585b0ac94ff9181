package dedup

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/bvofrades/incident-bot/internal/storage"
	"github.com/sirupsen/logrus"
)

const seenBlobName = "seen-incidents.json"

// PersistentTracker extends MemoryTracker with a durable copy of the seen
// set, so at-most-once delivery survives process restarts. The blob is
// written on every mark; volume is a handful of incidents per cycle, so the
// extra round trip is not a concern.
type PersistentTracker struct {
	memory *MemoryTracker
	store  storage.BlobStore
}

var _ Tracker = (*PersistentTracker)(nil)

// NewPersistentTracker loads the previously persisted seen set. A missing
// blob is treated as an empty history (first run).
func NewPersistentTracker(store storage.BlobStore) (*PersistentTracker, error) {
	t := &PersistentTracker{
		memory: NewMemoryTracker(),
		store:  store,
	}

	data, err := store.Retrieve(seenBlobName)
	if err != nil {
		if !strings.Contains(err.Error(), "BlobNotFound") {
			return nil, fmt.Errorf("failed to load seen set: %w", err)
		}
		logrus.Info("No persisted seen set found, starting empty")
		return t, nil
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("failed to parse persisted seen set: %w", err)
	}

	for _, id := range ids {
		t.memory.Mark(id)
	}

	logrus.Infof("Loaded %d persisted incident ids", len(ids))
	return t, nil
}

// Seen reports whether the id was already marked.
func (t *PersistentTracker) Seen(id string) bool {
	return t.memory.Seen(id)
}

// Mark records the id and persists the full set. A persistence failure is
// logged but does not undo the in-memory mark; at worst one restart
// re-notifies the affected incidents.
func (t *PersistentTracker) Mark(id string) {
	t.memory.Mark(id)

	ids := t.memory.snapshot()
	data, err := json.Marshal(ids)
	if err != nil {
		logrus.Errorf("Failed to marshal seen set: %v", err)
		return
	}

	if err := t.store.Store(seenBlobName, data); err != nil {
		logrus.Errorf("Failed to persist seen set: %v", err)
	}
}

func (t *MemoryTracker) snapshot() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]string, 0, len(t.seen))
	for id := range t.seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

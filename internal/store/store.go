// Package store holds the published snapshot of the conformed and
// dimensional layers. A snapshot is built off to the side and published
// with a single atomic pointer swap, so concurrent readers either see the
// previous complete snapshot or the new one, never a half-loaded state.
package store

import (
	"sync/atomic"
	"time"

	"starforge/pkg/models"
)

// Snapshot is one complete, immutable result of a batch run. Readers must
// not mutate it after publication.
type Snapshot struct {
	Conformed   *models.ConformedBatch
	Dimensional *models.DimensionalBatch
	PublishedAt time.Time
}

// Store is the single-writer container for the current snapshot.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// New creates an empty store with no published snapshot.
func New() *Store {
	return &Store{}
}

// Publish makes snap the current snapshot. A failed run never calls
// Publish, which is what keeps previously published data untouched.
func (s *Store) Publish(snap *Snapshot) {
	snap.PublishedAt = time.Now()
	s.current.Store(snap)
}

// Current returns the last published snapshot, or nil when no run has
// completed yet.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

package entitycache

import "github.com/puzpuzpuz/xsync/v3"

// PrimaryStore is the canonical id → record mapping. It performs no I/O and
// holds at most one representation per id; the latest successful write or
// fetch replaces the prior value in place.
//
// Reads are lock-free. Writes happen only from the store's commit step, so
// the structure never needs its own coordination beyond the map.
type PrimaryStore[T Entity] struct {
	records *xsync.MapOf[string, T]
}

// NewPrimaryStore creates an empty primary store.
func NewPrimaryStore[T Entity]() *PrimaryStore[T] {
	return &PrimaryStore[T]{records: xsync.NewMapOf[string, T]()}
}

// Get returns the record for id, if present.
func (s *PrimaryStore[T]) Get(id string) (T, bool) {
	return s.records.Load(id)
}

// Put upserts the record by its id. Putting the same record twice is
// indistinguishable from putting it once.
func (s *PrimaryStore[T]) Put(record T) {
	s.records.Store(record.EntityID(), record)
}

// Remove deletes the record for id. Removing a missing id is a no-op.
func (s *PrimaryStore[T]) Remove(id string) {
	s.records.Delete(id)
}

// Len reports the number of cached records.
func (s *PrimaryStore[T]) Len() int {
	return s.records.Size()
}

// Range calls fn for each cached record until fn returns false.
func (s *PrimaryStore[T]) Range(fn func(id string, record T) bool) {
	s.records.Range(fn)
}

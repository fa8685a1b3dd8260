package ecs

import (
	"iter"

	"github.com/kamstrup/intmap"
)

const (
	sparseInitialCapacity = 64
)

type sparseEntry[T any] struct {
	generation uint32
	value      T
}

// Sparse stores components in a hash map keyed by entity index.
// Use it for components that only a small fraction of entities carry.
type Sparse[T any] struct {
	entities *Entities
	entries  *intmap.Map[uint32, *sparseEntry[T]]
}

// NewSparse creates a sparse storage bound to entities.
func NewSparse[T any](entities *Entities) *Sparse[T] {
	return &Sparse[T]{
		entities: entities,
		entries:  intmap.New[uint32, *sparseEntry[T]](sparseInitialCapacity),
	}
}

// lookup returns the entry written for this exact id, ignoring liveness.
func (s *Sparse[T]) lookup(id EntityId) *sparseEntry[T] {
	entry, ok := s.entries.Get(id.Index())
	if !ok || entry.generation != id.Generation() {
		return nil
	}
	return entry
}

// Get returns a pointer to the component for id, or nil.
func (s *Sparse[T]) Get(id EntityId) *T {
	if !s.entities.IsAlive(id) {
		return nil
	}
	return s.GetUnchecked(id)
}

// GetUnchecked returns the component written for id without checking liveness.
func (s *Sparse[T]) GetUnchecked(id EntityId) *T {
	if entry := s.lookup(id); entry != nil {
		return &entry.value
	}
	return nil
}

// Has checks if a live id has a component in this storage.
func (s *Sparse[T]) Has(id EntityId) bool {
	return s.Get(id) != nil
}

// Set stores value for id.
func (s *Sparse[T]) Set(id EntityId, value T) error {
	s.entities.mu.RLock()
	defer s.entities.mu.RUnlock()

	if !s.entities.aliveLocked(id) {
		return ErrNoSuchEntity
	}
	s.SetUnchecked(id, value)
	return nil
}

// SetUnchecked stores value for id without checking liveness.
// An entry left behind by an earlier generation of the same index is reused.
func (s *Sparse[T]) SetUnchecked(id EntityId, value T) {
	if entry, ok := s.entries.Get(id.Index()); ok {
		entry.generation = id.Generation()
		entry.value = value
		return
	}
	s.entries.Put(id.Index(), &sparseEntry[T]{
		generation: id.Generation(),
		value:      value,
	})
}

// Remove deletes the entry for id and returns the previous value.
func (s *Sparse[T]) Remove(id EntityId) (T, bool) {
	entry := s.lookup(id)
	if entry == nil {
		var zero T
		return zero, false
	}
	s.entries.Del(id.Index())
	return entry.value, true
}

// Len returns the number of entries, see Dense.Len for despawned entities.
func (s *Sparse[T]) Len() int {
	return s.entries.Len()
}

// Clear drops every entry.
func (s *Sparse[T]) Clear() {
	s.entries.Clear()
}

// Iter yields live entities with a value. Order is unspecified.
func (s *Sparse[T]) Iter() iter.Seq2[EntityId, *T] {
	return func(yield func(EntityId, *T) bool) {
		s.entries.ForEach(func(index uint32, entry *sparseEntry[T]) bool {
			id := NewEntityId(entry.generation, index)
			if !s.entities.IsAlive(id) {
				return true
			}
			return yield(id, &entry.value)
		})
	}
}

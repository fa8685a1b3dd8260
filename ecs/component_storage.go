package ecs

import "iter"

// ComponentStorage is a container mapping live entities to a value of exactly one component type.
// Dense and Sparse are the two implementations; generated worlds expose one of them per
// declared component as an independent field.
//
// Storages are not synchronized. Different storages may be used from different goroutines,
// a single storage must have one owner at a time.
type ComponentStorage[T any] interface {
	// Get returns a pointer to the stored value, or nil if id is dead or has no value.
	Get(id EntityId) *T
	// GetUnchecked is Get without consulting the registry, for use inside Entities.Guard.
	GetUnchecked(id EntityId) *T
	// Has reports whether Get would return a value.
	Has(id EntityId) bool
	// Set stores value for id, overwriting any previous value.
	// It fails with ErrNoSuchEntity, leaving the storage untouched, if id is not live.
	Set(id EntityId, value T) error
	// SetUnchecked stores value for id without consulting the registry.
	// Callers must already know id is live, typically from inside Entities.Guard.
	SetUnchecked(id EntityId, value T)
	// Remove clears the value for id and returns it.
	Remove(id EntityId) (T, bool)
	// Len returns the number of stored values.
	Len() int
	// Iter yields every live entity holding a value, in ascending index order for Dense
	// and unspecified order for Sparse.
	Iter() iter.Seq2[EntityId, *T]
	// Clear drops every value.
	Clear()
}

var (
	_ ComponentStorage[struct{}] = (*Dense[struct{}])(nil)
	_ ComponentStorage[struct{}] = (*Sparse[struct{}])(nil)
)

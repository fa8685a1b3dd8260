package ecs

import (
	"iter"
	"sync"
)

type entitySlot struct {
	generation uint32
	alive      bool
}

// Entities allocates entity identities and tracks which of them are live.
// Readers (IsAlive, Iter, Guard and every storage access) share the lock,
// Spawn, Despawn and Clear take it exclusively.
type Entities struct {
	mu    sync.RWMutex
	slots []entitySlot
	free  []uint32
	live  int
}

// NewEntities creates a registry with room for capacity entities before it has to grow.
func NewEntities(capacity int) *Entities {
	if capacity < 0 {
		capacity = 0
	}
	return &Entities{
		slots: make([]entitySlot, 0, capacity),
	}
}

// Spawn allocates a new entity and marks it live.
// Freed indices are reused most-recently-freed first, with a bumped generation.
func (e *Entities) Spawn() EntityId {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.live++

	if len(e.free) > 0 {
		index := e.free[len(e.free)-1]
		e.free = e.free[:len(e.free)-1]

		slot := &e.slots[index]
		slot.alive = true
		return NewEntityId(slot.generation, index)
	}

	index := uint32(len(e.slots))
	e.slots = append(e.slots, entitySlot{alive: true})
	return NewEntityId(0, index)
}

// IsAlive reports whether id refers to a live entity.
func (e *Entities) IsAlive(id EntityId) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.aliveLocked(id)
}

func (e *Entities) aliveLocked(id EntityId) bool {
	index := id.Index()
	if int(index) >= len(e.slots) {
		return false
	}
	slot := e.slots[index]
	return slot.alive && slot.generation == id.Generation()
}

// Despawn marks id as dead. It does not touch any component storage.
func (e *Entities) Despawn(id EntityId) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.aliveLocked(id) {
		return ErrNoSuchEntity
	}

	index := id.Index()
	slot := &e.slots[index]
	slot.alive = false
	slot.generation++
	e.free = append(e.free, index)
	e.live--
	return nil
}

// Clear despawns every live entity.
func (e *Entities) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := len(e.slots) - 1; i >= 0; i-- {
		slot := &e.slots[i]
		if !slot.alive {
			continue
		}
		slot.alive = false
		slot.generation++
		e.free = append(e.free, uint32(i))
	}
	e.live = 0
}

// Guard runs fn while holding the read lock, provided id is live.
// Despawn cannot run concurrently with fn, so everything fn writes for id
// belongs to a live entity. fn must not call back into Spawn, Despawn or Clear,
// nor into anything that takes the read lock again (IsAlive, Iter, Len, Snapshot,
// Guard, or a storage's Get, Has and Set): a writer waiting for the lock blocks
// those calls and fn never returns. Use GetUnchecked and SetUnchecked instead.
func (e *Entities) Guard(id EntityId, fn func()) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.aliveLocked(id) {
		return ErrNoSuchEntity
	}
	fn()
	return nil
}

// Len returns the number of live entities.
func (e *Entities) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.live
}

// Snapshot returns the live entities in ascending index order.
func (e *Entities) Snapshot() []EntityId {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ids := make([]EntityId, 0, e.live)
	for index, slot := range e.slots {
		if slot.alive {
			ids = append(ids, NewEntityId(slot.generation, uint32(index)))
		}
	}
	return ids
}

// Iter returns an iterator over the live entities in ascending index order.
// Each traversal works on its own snapshot, so it never observes a half-finished
// Spawn and the iterator can be ranged over again.
func (e *Entities) Iter() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		for _, id := range e.Snapshot() {
			if !yield(id) {
				return
			}
		}
	}
}

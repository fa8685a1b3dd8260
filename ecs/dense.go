package ecs

import "iter"

const (
	denseBlockSize = 64
)

type denseSlot[T any] struct {
	generation uint32
	filled     bool
	value      T
}

type denseBlock[T any] [denseBlockSize]denseSlot[T]

// Dense stores components in fixed-size blocks addressed directly by entity index.
// Use it for components that most entities carry. Blocks are never moved once
// allocated, so pointers returned by Get stay valid until the value is removed.
type Dense[T any] struct {
	entities *Entities
	blocks   []*denseBlock[T]
	count    int
}

// NewDense creates a dense storage bound to entities with room for capacity
// entity indices before it has to grow.
func NewDense[T any](entities *Entities, capacity int) *Dense[T] {
	d := &Dense[T]{entities: entities}
	if capacity > 0 {
		d.grow(uint32(capacity - 1))
	}
	return d
}

// grow makes sure the slot for index exists. The block table at least doubles
// every time it is reallocated; new blocks start out empty.
func (d *Dense[T]) grow(index uint32) {
	needed := int(index)/denseBlockSize + 1
	if needed <= len(d.blocks) {
		return
	}

	if needed > cap(d.blocks) {
		blocks := make([]*denseBlock[T], len(d.blocks), max(2*cap(d.blocks), needed))
		copy(blocks, d.blocks)
		d.blocks = blocks
	}

	for len(d.blocks) < needed {
		d.blocks = append(d.blocks, new(denseBlock[T]))
	}
}

func (d *Dense[T]) slot(index uint32) *denseSlot[T] {
	blockIdx := int(index) / denseBlockSize
	slotIdx := int(index) % denseBlockSize

	if blockIdx >= len(d.blocks) {
		return nil
	}
	return &d.blocks[blockIdx][slotIdx]
}

// lookup returns the filled slot written for this exact id, ignoring liveness.
func (d *Dense[T]) lookup(id EntityId) *denseSlot[T] {
	s := d.slot(id.Index())
	if s == nil || !s.filled || s.generation != id.Generation() {
		return nil
	}
	return s
}

// Get returns a pointer to the component for id, or nil.
func (d *Dense[T]) Get(id EntityId) *T {
	if !d.entities.IsAlive(id) {
		return nil
	}
	return d.GetUnchecked(id)
}

// GetUnchecked returns the component written for id without checking liveness.
func (d *Dense[T]) GetUnchecked(id EntityId) *T {
	if s := d.lookup(id); s != nil {
		return &s.value
	}
	return nil
}

// Has checks if a live id has a component in this storage.
func (d *Dense[T]) Has(id EntityId) bool {
	return d.Get(id) != nil
}

// Set stores value for id, growing the storage if id is beyond its current size.
func (d *Dense[T]) Set(id EntityId, value T) error {
	d.entities.mu.RLock()
	defer d.entities.mu.RUnlock()

	if !d.entities.aliveLocked(id) {
		return ErrNoSuchEntity
	}
	d.SetUnchecked(id, value)
	return nil
}

// SetUnchecked stores value for id without checking liveness.
func (d *Dense[T]) SetUnchecked(id EntityId, value T) {
	index := id.Index()
	d.grow(index)

	s := d.slot(index)
	if !s.filled {
		d.count++
	}
	s.generation = id.Generation()
	s.filled = true
	s.value = value
}

// Remove marks the slot for id as empty and returns the previous value.
func (d *Dense[T]) Remove(id EntityId) (T, bool) {
	var zero T

	s := d.lookup(id)
	if s == nil {
		return zero, false
	}

	old := s.value
	s.value = zero // Zero out the value
	s.filled = false
	d.count--
	return old, true
}

// Len returns the number of filled slots. Values of entities despawned directly
// through Entities, rather than through a generated world, are counted until overwritten.
func (d *Dense[T]) Len() int {
	return d.count
}

// Clear empties every slot but keeps the allocated blocks.
func (d *Dense[T]) Clear() {
	for _, block := range d.blocks {
		*block = denseBlock[T]{}
	}
	d.count = 0
}

// Iter yields live entities with a value in ascending index order.
func (d *Dense[T]) Iter() iter.Seq2[EntityId, *T] {
	return func(yield func(EntityId, *T) bool) {
		for blockIdx, block := range d.blocks {
			for slotIdx := range block {
				s := &block[slotIdx]
				if !s.filled {
					continue
				}

				id := NewEntityId(s.generation, uint32(blockIdx*denseBlockSize+slotIdx))
				if !d.entities.IsAlive(id) {
					continue
				}
				if !yield(id, &s.value) {
					return
				}
			}
		}
	}
}

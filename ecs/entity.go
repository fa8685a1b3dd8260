package ecs

import "fmt"

// EntityId encodes both the generation (upper 32 bits) and the entity index (lower 32 bits)
type EntityId uint64

// NewEntityId creates an EntityId from a generation and entity index
func NewEntityId(generation uint32, index uint32) EntityId {
	return EntityId(uint64(generation)<<32 | uint64(index))
}

// Generation extracts the generation from the entity ID
func (e EntityId) Generation() uint32 {
	return uint32(e >> 32)
}

// Index extracts the entity index from the entity ID
func (e EntityId) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

func (e EntityId) String() string {
	return fmt.Sprintf("%d#%d", e.Index(), e.Generation())
}

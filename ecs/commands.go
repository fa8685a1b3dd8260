package ecs

import (
	"errors"
	"sync"
)

// Despawner is anything that can remove an entity together with its components,
// such as a generated world.
type Despawner interface {
	Despawn(id EntityId) error
}

// Commands provides a buffer for deferred structural changes.
// Code that owns a single storage must not despawn entities itself, because despawning
// touches every storage of the world. It queues the despawn here instead, and the
// owner of the whole world flushes the buffer once the concurrent work has finished.
// Queueing is safe from multiple goroutines.
type Commands struct {
	mu       sync.Mutex
	despawns []EntityId
	defers   []func()
}

// NewCommands creates an empty command buffer.
func NewCommands() *Commands {
	return &Commands{}
}

// Despawn queues an entity despawn.
func (c *Commands) Despawn(id EntityId) {
	c.mu.Lock()
	c.despawns = append(c.despawns, id)
	c.mu.Unlock()
}

// Defer queues a function execution operation.
func (c *Commands) Defer(fn func()) {
	c.mu.Lock()
	c.defers = append(c.defers, fn)
	c.mu.Unlock()
}

// Len returns the number of queued operations.
func (c *Commands) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.despawns) + len(c.defers)
}

// Flush applies all despawns to target, then runs the deferred functions in the
// order they were queued, and resets the buffer.
// An entity queued twice is despawned once. Despawns of entities that were already
// dead are reported in the returned error; they do not stop the flush.
func (c *Commands) Flush(target Despawner) error {
	c.mu.Lock()
	despawns, defers := c.despawns, c.defers
	c.despawns, c.defers = nil, nil
	c.mu.Unlock()

	var errs []error
	seen := make(map[EntityId]bool, len(despawns))
	for _, id := range despawns {
		if seen[id] {
			continue
		}
		seen[id] = true

		if err := target.Despawn(id); err != nil {
			errs = append(errs, &DespawnError{Id: id, Err: err})
		}
	}

	for _, fn := range defers {
		fn()
	}

	return errors.Join(errs...)
}

// DespawnError reports a queued despawn that could not be applied.
type DespawnError struct {
	Id  EntityId
	Err error
}

func (e *DespawnError) Error() string {
	return "despawn " + e.Id.String() + ": " + e.Err.Error()
}

func (e *DespawnError) Unwrap() error {
	return e.Err
}

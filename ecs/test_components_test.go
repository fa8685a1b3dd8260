package ecs_test

import "github.com/plus3/splitecs/ecs"

// Common test component types
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Health struct {
	Current int
	Max     int
}

type Inventory struct {
	Items []string
}

// Custom primitive types for testing non-struct components
type Score int32
type Tag string

type storageFactory[T any] func(entities *ecs.Entities, capacity int) ecs.ComponentStorage[T]

func denseFactory[T any]() storageFactory[T] {
	return func(entities *ecs.Entities, capacity int) ecs.ComponentStorage[T] {
		return ecs.NewDense[T](entities, capacity)
	}
}

func sparseFactory[T any]() storageFactory[T] {
	return func(entities *ecs.Entities, _ int) ecs.ComponentStorage[T] {
		return ecs.NewSparse[T](entities)
	}
}

// storageKinds runs a test body once against each storage implementation.
func storageKinds[T any]() map[string]storageFactory[T] {
	return map[string]storageFactory[T]{
		"dense":  denseFactory[T](),
		"sparse": sparseFactory[T](),
	}
}

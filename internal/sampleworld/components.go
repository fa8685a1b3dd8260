// Package sampleworld is a small generated world used by the end-to-end tests and the stress tool.
package sampleworld

//go:generate go run github.com/plus3/splitecs/cmd/ecsgen --type=schema

// Index is carried by nearly every entity.
type Index struct {
	Value uint64
}

// Name is only given to a few entities.
type Name struct {
	Value string
}

type Position struct {
	X, Y float32
}

// Rare marks a handful of entities.
type Rare struct {
	Data uint32
}

type schema struct {
	Index    Index    `template:"Index"`
	Name     Name     `ecs:"sparse"`
	Position Position `ecs:"dense"`
	Rare     Rare     `ecs:"sparse" template:"RareData"`
}

// Package schema describes the component layout of a generated world and validates it.
//
// A schema is declared as a Go struct. Each field is one component descriptor: the field
// name becomes the world's storage field, the field type is the component type, and the
// `ecs` and `template` struct tags choose the storage kind and the template field alias.
//
//	type schema struct {
//		Index Index `ecs:"dense" template:"Index"`
//		Name  Name  `ecs:"sparse"`
//	}
package schema

import (
	"go/token"
	"strings"

	"github.com/rotisserie/eris"
)

// StorageKind selects the storage implementation backing a component.
type StorageKind int

const (
	Dense StorageKind = iota
	Sparse
)

func (k StorageKind) String() string {
	switch k {
	case Dense:
		return "dense"
	case Sparse:
		return "sparse"
	default:
		return "unknown"
	}
}

// StorageType returns the name of the runtime type implementing k.
func (k StorageKind) StorageType() string {
	switch k {
	case Sparse:
		return "Sparse"
	default:
		return "Dense"
	}
}

// ParseStorageKind parses the value of an `ecs` struct tag. An empty tag means Dense.
func ParseStorageKind(tag string) (StorageKind, error) {
	switch strings.TrimSpace(tag) {
	case "", "dense":
		return Dense, nil
	case "sparse":
		return Sparse, nil
	default:
		return 0, eris.Errorf("invalid ecs tag value: %q (only \"dense\" and \"sparse\" are supported)", tag)
	}
}

// Component is a single descriptor of the schema.
type Component struct {
	// Field is the name of the storage field on the world.
	Field string
	// Type is the component type name, declared in the same package as the schema.
	Type string
	// Kind is the storage implementation.
	Kind StorageKind
	// Alias is the template field name.
	Alias string
}

// World is a complete, ordered schema together with the names of the generated types.
type World struct {
	Package    string
	Source     string
	Name       string
	Kind       string
	Template   string
	Components []Component
}

// runtimePackage is the name under which generated files import the runtime.
const runtimePackage = "ecs"

// reservedFields are the world's own field and method names.
var reservedFields = map[string]string{
	"Entities":   "entity registry",
	"Spawn":      "Spawn method",
	"Despawn":    "Despawn method",
	"Clear":      "Clear method",
	"Register":   "Register method",
	"Components": "Components method",
	"TemplateOf": "TemplateOf method",
}

// Validate rejects schemas whose registration bindings would be ambiguous or whose
// generated declarations would not compile.
func (w *World) Validate() error {
	if len(w.Components) == 0 {
		return eris.Errorf("schema %s declares no components", w.Source)
	}

	generated := map[string]string{
		w.Name:                 "world",
		w.Kind:                 "component kind",
		w.Template:             "template",
		"New" + w.Name:         "constructor",
		w.Name + "Registrable": "registrable",
	}
	for name, what := range generated {
		if !token.IsIdentifier(name) || !token.IsExported(name) {
			return eris.Errorf("%s name %q is not an exported identifier", what, name)
		}
	}
	if len(generated) != 5 {
		return eris.Errorf("world, kind and template names must be distinct")
	}

	types := make(map[string]string, len(w.Components))
	fields := make(map[string]bool, len(w.Components))
	aliases := make(map[string]string, len(w.Components))

	for _, c := range w.Components {
		if other, ok := types[c.Type]; ok {
			return eris.Errorf("component type %s is declared by both %s and %s", c.Type, other, c.Field)
		}
		types[c.Type] = c.Field

		if !token.IsExported(c.Field) {
			return eris.Errorf("field %s must be exported to become a storage field", c.Field)
		}
		if what, ok := reservedFields[c.Field]; ok {
			return eris.Errorf("field name %s is reserved for the %s", c.Field, what)
		}
		if fields[c.Field] {
			return eris.Errorf("duplicate field %s", c.Field)
		}
		fields[c.Field] = true

		if !token.IsIdentifier(c.Alias) || !token.IsExported(c.Alias) {
			return eris.Errorf("template alias %q of %s is not an exported identifier", c.Alias, c.Field)
		}
		if other, ok := aliases[c.Alias]; ok {
			return eris.Errorf("template alias %s is used by both %s and %s", c.Alias, other, c.Field)
		}
		aliases[c.Alias] = c.Field

		if _, clash := generated[c.Type]; clash {
			return eris.Errorf("component type %s clashes with a generated declaration", c.Type)
		}
		if c.Type == runtimePackage {
			return eris.Errorf("component type %s clashes with the %s import of the generated file", c.Type, runtimePackage)
		}
	}

	return nil
}

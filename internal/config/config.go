// Package config loads tool defaults from the environment.
package config

import (
	jlconfig "github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
)

// Generator holds the ecsgen defaults. Flags given on the command line win.
type Generator struct {
	World    string `config:"ECSGEN_WORLD"`
	Kind     string `config:"ECSGEN_KIND"`
	Template string `config:"ECSGEN_TEMPLATE"`
	Verbose  bool   `config:"ECSGEN_VERBOSE"`
}

// DefaultGenerator returns the names used when neither flags nor environment set them.
func DefaultGenerator() Generator {
	return Generator{
		World:    "World",
		Kind:     "Component",
		Template: "Template",
	}
}

// Stress holds the ecs-stress defaults.
type Stress struct {
	Entities       int  `config:"STRESS_ENTITIES"`
	DespawnEvery   int  `config:"STRESS_DESPAWN_EVERY"`
	GCPauseMetrics bool `config:"STRESS_GC_PAUSE_METRICS"`
}

// DefaultStress returns the stress defaults used when the environment is empty.
func DefaultStress() Stress {
	return Stress{
		Entities:     10000,
		DespawnEvery: 50,
	}
}

// Load overlays matching environment variables onto defaults.
// Fields in PascalCase match snake case variables unless a `config` tag names them exactly.
func Load[T any](defaults T) (T, error) {
	c := defaults
	if err := jlconfig.FromEnv().To(&c); err != nil {
		return defaults, eris.Wrap(err, "loading config from environment")
	}
	return c, nil
}

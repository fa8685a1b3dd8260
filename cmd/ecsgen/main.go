// Command ecsgen generates a world type from a schema struct.
//
// Typical use is a go:generate directive next to the schema:
//
//	//go:generate go run github.com/plus3/splitecs/cmd/ecsgen --type=schema
//
// The generated file contains the world with one storage field per component, the
// component kind interface, the template type and the registration bindings.
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/plus3/splitecs/internal/config"
	"github.com/plus3/splitecs/internal/gen"
	"github.com/plus3/splitecs/internal/schema"
)

type flags struct {
	typeName string
	world    string
	kind     string
	template string
	output   string
	dir      string
	tags     []string
	verbose  bool
}

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := newRootCmd(&log).Execute(); err != nil {
		log.Error().Err(err).Msg("ecsgen failed")
		os.Exit(1)
	}
}

func newRootCmd(log *zerolog.Logger) *cobra.Command {
	defaults, err := config.Load(config.DefaultGenerator())
	if err != nil {
		log.Warn().Err(err).Msg("ignoring environment defaults")
		defaults = config.DefaultGenerator()
	}

	f := &flags{}
	cmd := &cobra.Command{
		Use:           "ecsgen --type=<schema>",
		Short:         "Generate a world with one independent storage field per component",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(f, log)
		},
	}

	cmd.Flags().StringVar(&f.typeName, "type", "", "name of the schema struct (required)")
	cmd.Flags().StringVar(&f.world, "world", defaults.World, "name of the generated world type")
	cmd.Flags().StringVar(&f.kind, "kind", defaults.Kind, "name of the generated component kind interface")
	cmd.Flags().StringVar(&f.template, "template", defaults.Template, "name of the generated template type")
	cmd.Flags().StringVar(&f.output, "output", "", "output file name; default <type>_ecs.go")
	cmd.Flags().StringVar(&f.dir, "dir", ".", "directory of the package declaring the schema")
	cmd.Flags().StringSliceVar(&f.tags, "tags", nil, "build tags applied when loading the package")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", defaults.Verbose, "log loader details")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func run(f *flags, log *zerolog.Logger) error {
	level := zerolog.InfoLevel
	if f.verbose {
		level = zerolog.DebugLevel
	}
	logger := log.Level(level)

	output := f.output
	if output == "" {
		output = strings.ToLower(f.typeName) + "_ecs.go"
	}
	path := output
	if !filepath.IsAbs(path) {
		path = filepath.Join(f.dir, output)
	}

	world, err := schema.Load(schema.Options{
		Dir:       f.dir,
		TypeName:  f.typeName,
		World:     f.world,
		Kind:      f.kind,
		Template:  f.template,
		Output:    filepath.Base(path),
		BuildTags: f.tags,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	if err := gen.WriteFile(world, path); err != nil {
		return err
	}

	logger.Info().
		Str("type", f.typeName).
		Str("world", world.Name).
		Int("components", len(world.Components)).
		Str("output", path).
		Msg("generated world")
	return nil
}

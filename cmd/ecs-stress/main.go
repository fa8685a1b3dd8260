// Command ecs-stress hammers a generated world with one goroutine per storage.
//
// Every frame each storage is updated by its own worker. Despawns found by the
// workers are queued in an ecs.Commands buffer and applied between frames, after
// which the world is topped back up to the configured entity count.
package main

import (
	"context"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/plus3/splitecs/ecs"
	"github.com/plus3/splitecs/internal/config"
	"github.com/plus3/splitecs/internal/sampleworld"
)

type flags struct {
	duration       time.Duration
	entities       int
	despawnEvery   int
	gcPauseMetrics bool
}

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := newRootCmd(&log).Execute(); err != nil {
		log.Error().Err(err).Msg("stress test failed")
		os.Exit(1)
	}
}

func newRootCmd(log *zerolog.Logger) *cobra.Command {
	defaults, err := config.Load(config.DefaultStress())
	if err != nil {
		log.Warn().Err(err).Msg("ignoring environment defaults")
		defaults = config.DefaultStress()
	}

	f := &flags{}
	cmd := &cobra.Command{
		Use:           "ecs-stress",
		Short:         "Stress a generated world with concurrent per-storage workers",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := run(cmd.Context(), f, log)
			if err != nil {
				return err
			}
			return report.Generate(cmd.OutOrStdout())
		},
	}

	cmd.Flags().DurationVar(&f.duration, "duration", 10*time.Second, "total duration the test should run for")
	cmd.Flags().IntVar(&f.entities, "entities", defaults.Entities, "number of live entities kept in the world")
	cmd.Flags().IntVar(&f.despawnEvery, "despawn-every", defaults.DespawnEvery, "despawn an entity once its index value is a multiple of this")
	cmd.Flags().BoolVar(&f.gcPauseMetrics, "gc-pause-metrics", defaults.GCPauseMetrics, "include GC pause metrics in the report")

	return cmd
}

func run(ctx context.Context, f *flags, log *zerolog.Logger) (*Report, error) {
	world := sampleworld.NewWorld(f.entities)
	commands := ecs.NewCommands()

	log.Info().Int("entities", f.entities).Msg("populating world")
	var next uint64
	populate(world, f.entities, &next)

	report := &Report{
		Duration:       f.duration,
		Entities:       f.entities,
		Storages:       storageCount,
		GCPauseMetrics: f.gcPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	log.Info().Dur("duration", f.duration).Msg("running simulation")
	ctx, cancel := context.WithTimeout(ctx, f.duration)
	defer cancel()

	startTime := time.Now()
	lastFrameTime := startTime

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
		}

		dt := float32(time.Since(lastFrameTime).Seconds())
		lastFrameTime = time.Now()

		updateStart := time.Now()
		if err := frame(world, commands, dt, uint64(f.despawnEvery)); err != nil {
			return nil, err
		}
		despawned := commands.Len()
		if err := commands.Flush(world); err != nil {
			return nil, err
		}
		populate(world, f.entities-world.Entities.Len(), &next)
		report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))

		report.TotalUpdates++
		report.Despawned += int64(despawned)
	}

	report.TotalTime = time.Since(startTime)
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)
	report.Live = world.Entities.Len()

	log.Info().
		Int64("updates", report.TotalUpdates).
		Int64("despawned", report.Despawned).
		Msg("simulation finished")
	return report, nil
}

const storageCount = 4

// frame runs one worker per storage. Each worker only touches its own field of
// the world, so they need no coordination beyond the final Wait.
func frame(world *sampleworld.World, commands *ecs.Commands, dt float32, despawnEvery uint64) error {
	var g errgroup.Group

	g.Go(func() error {
		for id, index := range world.Index.Iter() {
			index.Value++
			if despawnEvery > 0 && index.Value%despawnEvery == 0 {
				commands.Despawn(id)
			}
		}
		return nil
	})

	g.Go(func() error {
		for _, pos := range world.Position.Iter() {
			pos.X += dt
			pos.Y -= dt
		}
		return nil
	})

	g.Go(func() error {
		for _, name := range world.Name.Iter() {
			if len(name.Value) > 32 {
				name.Value = name.Value[:1]
			} else {
				name.Value += "."
			}
		}
		return nil
	})

	g.Go(func() error {
		for _, rare := range world.Rare.Iter() {
			rare.Data = rare.Data*31 + 7
		}
		return nil
	})

	return g.Wait()
}

// populate spawns n entities with a random subset of components.
func populate(world *sampleworld.World, n int, next *uint64) {
	for range n {
		id := world.Spawn()
		*next++

		t := sampleworld.Template{
			Index:    &sampleworld.Index{Value: *next},
			Position: &sampleworld.Position{X: rand.Float32(), Y: rand.Float32()},
		}
		if rand.IntN(8) == 0 {
			t.Name = &sampleworld.Name{Value: "e"}
		}
		if rand.IntN(64) == 0 {
			t.RareData = &sampleworld.Rare{Data: rand.Uint32()}
		}

		// The id was spawned just above, so registration cannot fail.
		_ = world.Register(id, t)
	}
}

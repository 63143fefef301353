// Package main provides the level generator binary: it builds one level from
// a seed, prints it, and optionally stores it.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cory-johannsen/dungeon/internal/config"
	"github.com/cory-johannsen/dungeon/internal/game/dice"
	"github.com/cory-johannsen/dungeon/internal/game/mapgen"
	"github.com/cory-johannsen/dungeon/internal/observability"
	"github.com/cory-johannsen/dungeon/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	seed := flag.Int64("seed", 0, "RNG seed; 0 uses generation.seed or a random seed")
	depth := flag.Int("depth", 1, "dungeon depth of the generated level")
	save := flag.Bool("save", false, "store the generated level in PostgreSQL")
	walls := flag.Bool("walls", true, "draw walls with box-drawing glyphs")
	flag.Parse()
	if err := validateDepth(*depth); err != nil {
		log.Fatalf("invalid -depth: %v", err)
	}

	// A missing .env is fine; it only supplies optional overrides.
	_ = godotenv.Load()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	tp, err := observability.NewTracerProvider(ctx, cfg.Telemetry)
	if err != nil {
		logger.Fatal("initializing tracing", zap.Error(err))
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Warn("flushing traces", zap.Error(err))
		}
	}()

	if *seed == 0 {
		*seed = cfg.Generation.Seed
	}
	if *seed == 0 {
		*seed = dice.RandomSeed()
	}

	fallback := mapgen.Params{
		Width:       cfg.Generation.Width,
		Height:      cfg.Generation.Height,
		MaxRooms:    cfg.Generation.MaxRooms,
		MinRoomSize: cfg.Generation.MinRoomSize,
		MaxRoomSize: cfg.Generation.MaxRoomSize,
	}
	var profiles []mapgen.Profile
	if cfg.Generation.ProfilesDir != "" {
		profiles, err = mapgen.LoadProfiles(cfg.Generation.ProfilesDir)
		if err != nil {
			logger.Fatal("loading generation profiles", zap.Error(err))
		}
	}
	set, err := mapgen.NewProfileSet(profiles, fallback)
	if err != nil {
		logger.Fatal("building profile set", zap.Error(err))
	}
	params, profile := set.ForDepth(*depth)

	gen := mapgen.NewGenerator(logger.Named("mapgen"), tp.Tracer("mapgen"))
	src := dice.NewLoggedSource(dice.NewSeededSource(*seed), logger.Named("rng"))
	m, err := gen.Generate(ctx, *depth, params, src)
	if err != nil {
		logger.Fatal("generating level", zap.Int64("seed", *seed), zap.Error(err))
	}

	if *walls {
		m.RevealAll()
	}
	out, err := Render(m)
	if err != nil {
		logger.Fatal("rendering level", zap.Error(err))
	}
	if _, err := fmt.Fprint(os.Stdout, out); err != nil {
		logger.Fatal("writing level", zap.Error(err))
	}

	logger.Info("level generated",
		zap.Int64("seed", *seed),
		zap.Int("depth", *depth),
		zap.String("profile", profile),
		zap.Int("rooms", len(m.Rooms)),
		zap.Int("rng_draws", src.Draws()),
		zap.Duration("elapsed", time.Since(start)),
	)

	if !*save {
		return
	}
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	defer pool.Close()

	id, err := pool.Levels().Save(ctx, m)
	if err != nil {
		logger.Fatal("saving level", zap.Error(err))
	}
	logger.Info("level saved", zap.Stringer("level_id", id))
}

// validateDepth rejects depths the level store cannot hold.
func validateDepth(depth int) error {
	if depth < 1 {
		return fmt.Errorf("depth must be >= 1, got %d", depth)
	}
	return nil
}

// Package main provides the headless simulation daemon: it generates a level,
// stages melee bouts on it, and runs turns until they settle.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cory-johannsen/dungeon/internal/config"
	"github.com/cory-johannsen/dungeon/internal/observability"
	"github.com/cory-johannsen/dungeon/internal/server"
	"github.com/cory-johannsen/dungeon/internal/sim"
	"github.com/cory-johannsen/dungeon/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	persist := flag.Bool("persist", false, "store the final level in PostgreSQL")
	flag.Parse()

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

	var saver sim.LevelSaver
	if *persist {
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		if err := pool.Health(ctx, 5*time.Second); err != nil {
			logger.Fatal("database health check", zap.Error(err))
		}
		saver = pool.Levels()
	}

	svc, err := sim.NewService(cfg, logger.Named("sim"), tp, saver)
	if err != nil {
		logger.Fatal("creating simulation", zap.Error(err))
	}

	lc := server.NewLifecycle(logger)
	lc.Add("simulation", svc)

	logger.Info("simd ready",
		zap.Int64("seed", cfg.Generation.Seed),
		zap.Int("depth", cfg.Simulation.Depth),
		zap.Duration("tick", cfg.Simulation.TickInterval),
		zap.Duration("startup", time.Since(start)),
	)
	if err := lc.Run(ctx); err != nil {
		logger.Fatal("simulation failed", zap.Error(err))
	}

	res := svc.Result()
	logger.Info("simd exiting",
		zap.Int("turns", res.Turns),
		zap.Int("delvers", res.Delvers),
		zap.Int("monsters", res.Monsters),
	)
}

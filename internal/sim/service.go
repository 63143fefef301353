package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/cory-johannsen/dungeon/internal/config"
	"github.com/cory-johannsen/dungeon/internal/game/combat"
	"github.com/cory-johannsen/dungeon/internal/game/dice"
	"github.com/cory-johannsen/dungeon/internal/game/mapgen"
	"github.com/cory-johannsen/dungeon/internal/game/turn"
	"github.com/cory-johannsen/dungeon/internal/game/world"
)

// LevelSaver persists a finished level.
type LevelSaver interface {
	Save(ctx context.Context, m *world.Map) (uuid.UUID, error)
}

// Tracers supplies per-component tracers.
type Tracers interface {
	Tracer(component string) trace.Tracer
}

// Result summarises a finished run.
type Result struct {
	Seed      int64
	Depth     int
	Profile   string
	Turns     int
	Spawned   int
	Delvers   int
	Monsters  int
	LogLines  int
	SavedAs   uuid.UUID
	Quiescent bool
}

// Service generates one level, stages an arena on it, and runs turns until
// no combatant can reach an enemy, MaxTurns is hit, or Stop is called.
type Service struct {
	cfg      config.Config
	logger   *zap.Logger
	tracer   trace.Tracer
	gen      *mapgen.Generator
	profiles *mapgen.ProfileSet
	resolver *combat.MeleeResolver
	bestiary *Bestiary
	saver    LevelSaver

	stop     chan struct{}
	stopOnce sync.Once

	mu     sync.Mutex
	state  *turn.State
	result Result
}

// NewService builds a Service from cfg. saver may be nil to skip persistence.
//
// Postcondition: returns an error when the profile directory cannot be loaded.
func NewService(cfg config.Config, logger *zap.Logger, tracers Tracers, saver LevelSaver) (*Service, error) {
	fallback := mapgen.Params{
		Width:       cfg.Generation.Width,
		Height:      cfg.Generation.Height,
		MaxRooms:    cfg.Generation.MaxRooms,
		MinRoomSize: cfg.Generation.MinRoomSize,
		MaxRoomSize: cfg.Generation.MaxRoomSize,
	}
	var profiles []mapgen.Profile
	if dir := cfg.Generation.ProfilesDir; dir != "" {
		loaded, err := mapgen.LoadProfiles(dir)
		if err != nil {
			return nil, fmt.Errorf("loading generation profiles: %w", err)
		}
		profiles = loaded
	}
	set, err := mapgen.NewProfileSet(profiles, fallback)
	if err != nil {
		return nil, err
	}

	bestiary := DefaultBestiary()
	if dir := cfg.Simulation.BestiaryDir; dir != "" {
		bestiary, err = LoadBestiary(dir)
		if err != nil {
			return nil, fmt.Errorf("loading bestiary: %w", err)
		}
	}

	return &Service{
		cfg:      cfg,
		logger:   logger,
		tracer:   tracers.Tracer("sim"),
		gen:      mapgen.NewGenerator(logger.Named("mapgen"), tracers.Tracer("mapgen")),
		profiles: set,
		resolver: combat.NewMeleeResolver(combat.Config{
			Strict:           cfg.Combat.Strict,
			ParticleLifetime: cfg.Combat.ParticleLifetime,
		}, logger.Named("combat"), tracers.Tracer("combat")),
		bestiary: bestiary,
		saver:    saver,
		stop:     make(chan struct{}),
	}, nil
}

// Start runs the simulation to completion.
func (s *Service) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-s.stop:
			cancel()
		case <-ctx.Done():
		}
	}()
	_, err := s.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Stop asks a running simulation to finish after the current turn.
func (s *Service) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Result returns the summary of the last completed run.
func (s *Service) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// State returns the live turn state, or nil before Run has generated a level.
func (s *Service) State() *turn.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Run generates the level, populates it, and drives turns until done.
//
// Postcondition: on success the Result is recorded and, when a saver is
// configured, the final level is persisted.
func (s *Service) Run(ctx context.Context) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "sim.run")
	defer span.End()

	seed := s.cfg.Generation.Seed
	if seed == 0 {
		seed = dice.RandomSeed()
	}
	depth := s.cfg.Simulation.Depth
	params, profile := s.profiles.ForDepth(depth)
	src := dice.NewSeededSource(seed)

	m, err := s.gen.Generate(ctx, depth, params, dice.NewLoggedSource(src, s.logger.Named("rng")))
	if err != nil {
		return Result{}, fmt.Errorf("generating level (seed %d): %w", seed, err)
	}

	st := turn.NewState(m)
	arena := NewArena(s.bestiary)
	spawned, err := arena.Populate(st, src)
	if err != nil {
		return Result{}, fmt.Errorf("populating arena: %w", err)
	}
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()

	pipeline, err := turn.NewPipeline(s.logger.Named("turn"), s.tracer,
		turn.MapIndexSystem{},
		arena.EngageSystem(),
		turn.MeleeSystem{Resolver: s.resolver},
		turn.DamageSystem{Logger: s.logger.Named("damage")},
		arena.ReapSystem(),
	)
	if err != nil {
		return Result{}, err
	}

	s.logger.Info("simulation starting",
		zap.Int64("seed", seed),
		zap.Int("depth", depth),
		zap.String("profile", profile),
		zap.Int("rooms", len(m.Rooms)),
		zap.Int("combatants", spawned),
	)

	res := Result{Seed: seed, Depth: depth, Profile: profile, Spawned: spawned}
	var tick <-chan time.Time
	if s.cfg.Simulation.TickInterval > 0 {
		ticker := time.NewTicker(s.cfg.Simulation.TickInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for s.cfg.Simulation.MaxTurns == 0 || st.Turn < s.cfg.Simulation.MaxTurns {
		if tick != nil {
			select {
			case <-ctx.Done():
				return res, ctx.Err()
			case <-tick:
			}
		}
		if err := pipeline.Run(ctx, st); err != nil {
			return res, err
		}
		if arena.Engaged() == 0 {
			res.Quiescent = true
			break
		}
	}

	res.Turns = st.Turn
	res.Delvers = len(arena.Combatants(st.Store, Delvers))
	res.Monsters = len(arena.Combatants(st.Store, Monsters))
	res.LogLines = st.Log.Len()

	if s.saver != nil {
		id, err := s.saver.Save(ctx, m)
		if err != nil {
			return res, fmt.Errorf("saving level: %w", err)
		}
		res.SavedAs = id
	}

	s.logger.Info("simulation finished",
		zap.Int("turns", res.Turns),
		zap.Int("delvers", res.Delvers),
		zap.Int("monsters", res.Monsters),
		zap.Int("bloodstains", m.Bloodstains.Size()),
		zap.Bool("quiescent", res.Quiescent),
		zap.Stringer("level_id", res.SavedAs),
	)
	s.mu.Lock()
	s.result = res
	s.mu.Unlock()
	return res, nil
}

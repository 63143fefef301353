package combat

import (
	"context"
	"fmt"

	"github.com/cory-johannsen/dungeon/internal/game/component"
	"github.com/cory-johannsen/dungeon/internal/game/ecs"
	"github.com/cory-johannsen/dungeon/internal/game/gamelog"
	"github.com/cory-johannsen/dungeon/internal/game/particle"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// WellFedBonus is added to the attacker's offense while well fed.
const WellFedBonus = 1

// Outcome records how one intent was resolved.
type Outcome struct {
	Attacker ecs.ID
	Target   ecs.ID
	Kind     OutcomeKind
	Offense  int
	Defense  int
	Damage   int
}

// MeleeResolver turns queued WantsToMelee intents into SufferDamage entries,
// narrative lines and impact particles.
type MeleeResolver struct {
	cfg    Config
	logger *zap.Logger
	tracer trace.Tracer
}

// NewMeleeResolver creates a MeleeResolver.
//
// Precondition: logger and tracer must be non-nil.
func NewMeleeResolver(cfg Config, logger *zap.Logger, tracer trace.Tracer) *MeleeResolver {
	if cfg.ParticleLifetime <= 0 {
		cfg.ParticleLifetime = DefaultParticleLifetime
	}
	return &MeleeResolver{cfg: cfg, logger: logger, tracer: tracer}
}

// Resolve processes every queued intent in arrival order.
//
// Precondition: s, log and particles must be non-nil.
// Postcondition: the intent queue is empty on return, including when an
// error is returned. In strict mode the first malformed intent aborts
// resolution; otherwise it is logged at warn level and skipped.
func (r *MeleeResolver) Resolve(ctx context.Context, s *component.Store, log *gamelog.Log, particles *particle.Builder) ([]Outcome, error) {
	_, span := r.tracer.Start(ctx, "combat.resolve")
	defer span.End()
	defer s.Intents.Clear()

	intents := s.Intents.Items()
	span.SetAttributes(attribute.Int("combat.intents", len(intents)))

	outcomes := make([]Outcome, 0, len(intents))
	hits := 0
	for _, intent := range intents {
		out, err := r.resolveOne(s, log, particles, intent)
		if err != nil {
			if r.cfg.Strict {
				span.RecordError(err)
				span.SetStatus(codes.Error, "malformed intent")
				return outcomes, err
			}
			r.logger.Warn("skipping malformed melee intent",
				zap.Uint32("attacker", uint32(intent.Attacker)),
				zap.Uint32("target", uint32(intent.Target)),
				zap.Error(err),
			)
		}
		if out.Kind == Hit {
			hits++
		}
		outcomes = append(outcomes, out)
	}
	span.SetAttributes(attribute.Int("combat.hits", hits))
	return outcomes, nil
}

func (r *MeleeResolver) resolveOne(s *component.Store, log *gamelog.Log, particles *particle.Builder, intent component.WantsToMelee) (Outcome, error) {
	out := Outcome{Attacker: intent.Attacker, Target: intent.Target, Kind: Invalid}

	attackerName, err := requireName(s, intent.Attacker, "attacker")
	if err != nil {
		return out, err
	}
	attackerStats, ok := s.Stats.Get(intent.Attacker)
	if !ok {
		return out, fmt.Errorf("%w: attacker %d has no Stats", ErrMissingComponent, intent.Attacker)
	}
	if attackerStats.HP <= 0 {
		out.Kind = AttackerDown
		return out, nil
	}

	targetName, err := requireName(s, intent.Target, "target")
	if err != nil {
		return out, err
	}
	targetStats, ok := s.Stats.Get(intent.Target)
	if !ok {
		return out, fmt.Errorf("%w: target %d has no Stats", ErrMissingComponent, intent.Target)
	}
	if targetStats.HP <= 0 {
		out.Kind = TargetDown
		return out, nil
	}

	out.Offense = attackerStats.Power + s.PowerBonusFor(intent.Attacker)
	if s.IsWellFed(intent.Attacker) {
		out.Offense += WellFedBonus
	}
	out.Defense = targetStats.Defense + s.DefenseBonusFor(intent.Target)

	if pos, ok := s.Positions.Get(intent.Target); ok {
		particles.Request(pos.X, pos.Y, particle.GlyphImpact, r.cfg.ParticleLifetime)
	}

	out.Damage = ComputeDamage(out.Offense, out.Defense)
	if out.Damage == 0 {
		out.Kind = NoDamage
		log.Appendf("%s is unable to hurt %s", attackerName, targetName)
	} else {
		out.Kind = Hit
		log.Appendf("%s hits %s, for %d hp.", attackerName, targetName, out.Damage)
		s.AddDamage(intent.Target, out.Damage)
	}

	r.logger.Debug("melee resolved",
		zap.String("attacker", attackerName),
		zap.String("target", targetName),
		zap.Int("offense", out.Offense),
		zap.Int("defense", out.Defense),
		zap.Int("damage", out.Damage),
	)
	return out, nil
}

func requireName(s *component.Store, id ecs.ID, role string) (string, error) {
	n, ok := s.Names.Get(id)
	if !ok {
		return "", fmt.Errorf("%w: %s %d has no Name", ErrMissingComponent, role, id)
	}
	return n.Name, nil
}

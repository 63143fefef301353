// Package combat resolves melee intents into damage and narrative.
package combat

import (
	"errors"
	"time"
)

// ErrMissingComponent is returned when an intent names an entity that lacks a
// component melee resolution requires.
var ErrMissingComponent = errors.New("missing component")

// DefaultParticleLifetime is how long the impact particle lingers.
const DefaultParticleLifetime = 200 * time.Millisecond

// Config controls melee resolution.
type Config struct {
	// Strict makes a malformed intent abort resolution with an error instead
	// of being logged and skipped.
	Strict bool
	// ParticleLifetime is the lifetime of impact particles.
	ParticleLifetime time.Duration
}

// DefaultConfig returns a non-strict Config with the default particle lifetime.
func DefaultConfig() Config {
	return Config{ParticleLifetime: DefaultParticleLifetime}
}

// OutcomeKind classifies one intent's resolution.
type OutcomeKind int

const (
	// Hit means positive damage was queued.
	Hit OutcomeKind = iota
	// NoDamage means defense absorbed the whole attack.
	NoDamage
	// AttackerDown means the attacker had no HP left.
	AttackerDown
	// TargetDown means the target had no HP left.
	TargetDown
	// Invalid means the intent referenced an entity missing required components.
	Invalid
)

// String returns a human-readable label.
func (k OutcomeKind) String() string {
	switch k {
	case Hit:
		return "hit"
	case NoDamage:
		return "no damage"
	case AttackerDown:
		return "attacker down"
	case TargetDown:
		return "target down"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// ComputeDamage returns the damage dealt for the given offense and defense.
//
// Postcondition: result == max(0, offense-defense).
func ComputeDamage(offense, defense int) int {
	return max(0, offense-defense)
}

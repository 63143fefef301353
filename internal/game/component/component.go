// Package component defines the entity components shared by the turn systems
// and the Store that holds one table per component type.
package component

import (
	"fmt"

	"github.com/cory-johannsen/dungeon/internal/game/ecs"
)

// Name is an entity's display name.
type Name struct {
	Name string
}

// Position is an entity's tile coordinate.
type Position struct {
	X int
	Y int
}

// BlocksTile marks an entity that prevents others from entering its tile.
type BlocksTile struct{}

// Stats holds combat statistics.
type Stats struct {
	MaxHP   int
	HP      int
	Defense int
	Power   int
}

// MeleePowerBonus is an item's contribution to its owner's offense.
type MeleePowerBonus struct {
	Power int
}

// DefenseBonus is an item's contribution to its owner's defense.
type DefenseBonus struct {
	Defense int
}

// Equipped marks an item as worn or wielded by Owner.
type Equipped struct {
	Owner ecs.ID
}

// HungerState is a stage of the hunger clock.
type HungerState int

const (
	WellFed HungerState = iota
	Normal
	Hungry
	Starving
)

// String returns the state's canonical name, or "unknown".
func (h HungerState) String() string {
	switch h {
	case WellFed:
		return "well_fed"
	case Normal:
		return "normal"
	case Hungry:
		return "hungry"
	case Starving:
		return "starving"
	default:
		return "unknown"
	}
}

// ParseHungerState converts a canonical name to a HungerState.
func ParseHungerState(s string) (HungerState, error) {
	for _, h := range []HungerState{WellFed, Normal, Hungry, Starving} {
		if h.String() == s {
			return h, nil
		}
	}
	return Normal, fmt.Errorf("unknown hunger state %q", s)
}

// HungerClock tracks an entity's hunger stage and the turns left in it.
type HungerClock struct {
	State    HungerState
	Duration int
}

// WantsToMelee is a pending request for Attacker to strike Target.
type WantsToMelee struct {
	Attacker ecs.ID
	Target   ecs.ID
}

// SufferDamage accumulates damage dealt to an entity this turn.
type SufferDamage struct {
	Amounts []int
}

// Total returns the sum of the accumulated amounts.
func (s SufferDamage) Total() int {
	total := 0
	for _, a := range s.Amounts {
		total += a
	}
	return total
}

// Package turn runs the ordered per-turn systems over a level and its entities.
package turn

import (
	"context"

	"github.com/cory-johannsen/dungeon/internal/game/component"
	"github.com/cory-johannsen/dungeon/internal/game/gamelog"
	"github.com/cory-johannsen/dungeon/internal/game/particle"
	"github.com/cory-johannsen/dungeon/internal/game/world"
)

// Resource names a piece of shared state a system touches.
type Resource int

const (
	Tiles Resource = iota
	Blocked
	Content
	Visibility
	Bloodstains
	Positions
	Names
	Stats
	Equipment
	Hunger
	Intents
	Damage
	Log
	Particles
)

// String returns the resource's name, or "unknown".
func (r Resource) String() string {
	switch r {
	case Tiles:
		return "tiles"
	case Blocked:
		return "blocked"
	case Content:
		return "content"
	case Visibility:
		return "visibility"
	case Bloodstains:
		return "bloodstains"
	case Positions:
		return "positions"
	case Names:
		return "names"
	case Stats:
		return "stats"
	case Equipment:
		return "equipment"
	case Hunger:
		return "hunger"
	case Intents:
		return "intents"
	case Damage:
		return "damage"
	case Log:
		return "log"
	case Particles:
		return "particles"
	default:
		return "unknown"
	}
}

// Access declares what a system reads and writes.
type Access struct {
	Reads  []Resource
	Writes []Resource
}

// State is the mutable world a turn operates on.
type State struct {
	Map       *world.Map
	Store     *component.Store
	Log       *gamelog.Log
	Particles *particle.Builder
	// Turn counts completed turns.
	Turn int
}

// NewState wraps m with an empty entity store, log and particle queue.
func NewState(m *world.Map) *State {
	return &State{
		Map:       m,
		Store:     component.NewStore(),
		Log:       gamelog.New(),
		Particles: particle.NewBuilder(),
	}
}

// System is one step of a turn.
type System interface {
	Name() string
	Access() Access
	Run(ctx context.Context, st *State) error
}

// FuncSystem adapts a function to the System interface.
type FuncSystem struct {
	SystemName string
	Declared   Access
	Fn         func(ctx context.Context, st *State) error
}

// Name returns SystemName.
func (f FuncSystem) Name() string { return f.SystemName }

// Access returns Declared.
func (f FuncSystem) Access() Access { return f.Declared }

// Run calls Fn.
func (f FuncSystem) Run(ctx context.Context, st *State) error { return f.Fn(ctx, st) }

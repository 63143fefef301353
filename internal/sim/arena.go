// Package sim runs headless combat simulations on generated levels.
package sim

import (
	"context"
	"fmt"

	"github.com/cory-johannsen/dungeon/internal/game/component"
	"github.com/cory-johannsen/dungeon/internal/game/dice"
	"github.com/cory-johannsen/dungeon/internal/game/ecs"
	"github.com/cory-johannsen/dungeon/internal/game/turn"
	"github.com/cory-johannsen/dungeon/internal/game/world"
)

// Faction groups combatants that do not attack each other.
type Faction int

const (
	Delvers Faction = iota
	Monsters
)

// String returns the faction's name, or "unknown".
func (f Faction) String() string {
	switch f {
	case Delvers:
		return "delver"
	case Monsters:
		return "monster"
	default:
		return "unknown"
	}
}

// Arena owns the combatants placed on a level and their factions.
type Arena struct {
	bestiary *Bestiary
	factions *ecs.Table[Faction]
	engaged  int
}

// NewArena creates an empty Arena that spawns from bestiary.
func NewArena(bestiary *Bestiary) *Arena {
	return &Arena{bestiary: bestiary, factions: ecs.NewTable[Faction]()}
}

// Populate places one delver and one monster side by side at the center of
// every room, drawing archetypes and unset hunger states from src.
//
// Postcondition: returns the number of combatants spawned.
func (a *Arena) Populate(st *turn.State, src dice.Source) (int, error) {
	spawned := 0
	for i, room := range st.Map.Rooms {
		cx, cy := room.Center()
		for side, f := range []Faction{Delvers, Monsters} {
			x := cx + side
			if _, err := st.Map.Index(x, cy); err != nil {
				return spawned, fmt.Errorf("room %d: %w", i, err)
			}
			kinds := a.bestiary.Of(f)
			kind := kinds[src.Intn(len(kinds))]
			a.spawn(st.Store, src, kind, fmt.Sprintf("%s %d", kind.Name, i+1), x, cy)
			spawned++
		}
	}
	return spawned, nil
}

func (a *Arena) spawn(s *component.Store, src dice.Source, kind *Archetype, name string, x, y int) ecs.ID {
	id := s.Entities.Create()
	s.Names.Insert(id, component.Name{Name: name})
	s.Stats.Insert(id, kind.Stats())
	s.Positions.Insert(id, component.Position{X: x, Y: y})
	s.Blockers.Insert(id, component.BlocksTile{})
	hunger := component.HungerState(src.Intn(3))
	if kind.hunger != nil {
		hunger = *kind.hunger
	}
	s.Hunger.Insert(id, component.HungerClock{State: hunger, Duration: 20})
	a.factions.Insert(id, kind.faction)

	for _, g := range kind.Gear {
		item := s.Entities.Create()
		s.Names.Insert(item, component.Name{Name: g.Name})
		if g.Power != 0 {
			s.PowerBonuses.Insert(item, component.MeleePowerBonus{Power: g.Power})
		}
		if g.Defense != 0 {
			s.DefenseBonuses.Insert(item, component.DefenseBonus{Defense: g.Defense})
		}
		s.Equipped.Insert(item, component.Equipped{Owner: id})
	}
	return id
}

// Engaged reports how many intents the last engage pass queued.
func (a *Arena) Engaged() int {
	return a.engaged
}

// Combatants returns the living combatants of faction f.
func (a *Arena) Combatants(s *component.Store, f Faction) []ecs.ID {
	var out []ecs.ID
	a.factions.Each(func(id ecs.ID, got *Faction) {
		if *got != f {
			return
		}
		if st, ok := s.Stats.Get(id); ok && st.HP > 0 {
			out = append(out, id)
		}
	})
	return out
}

// EngageSystem queues a melee intent for every living combatant standing
// next to a living enemy.
func (a *Arena) EngageSystem() turn.System {
	return turn.FuncSystem{
		SystemName: "engage",
		Declared: turn.Access{
			Reads:  []turn.Resource{turn.Content, turn.Positions, turn.Stats},
			Writes: []turn.Resource{turn.Intents},
		},
		Fn: a.engage,
	}
}

func (a *Arena) engage(_ context.Context, st *turn.State) error {
	a.engaged = 0
	s := st.Store
	var err error
	a.factions.Each(func(id ecs.ID, f *Faction) {
		if err != nil || !alive(s, id) {
			return
		}
		pos, ok := s.Positions.Get(id)
		if !ok {
			return
		}
		target, found, ferr := a.adjacentEnemy(st.Map, s, pos, *f)
		if ferr != nil {
			err = ferr
			return
		}
		if found {
			s.Intents.Push(id, target)
			a.engaged++
		}
	})
	return err
}

func (a *Arena) adjacentEnemy(m *world.Map, s *component.Store, pos component.Position, f Faction) (ecs.ID, bool, error) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 || !m.InBounds(pos.X+dx, pos.Y+dy) {
				continue
			}
			idx, err := m.Index(pos.X+dx, pos.Y+dy)
			if err != nil {
				return ecs.None, false, err
			}
			for _, other := range m.Content(idx) {
				of, ok := a.factions.Get(other)
				if ok && of != f && alive(s, other) {
					return other, true, nil
				}
			}
		}
	}
	return ecs.None, false, nil
}

// ReapSystem despawns combatants whose HP has run out, along with their gear.
func (a *Arena) ReapSystem() turn.System {
	return turn.FuncSystem{
		SystemName: "reap",
		Declared: turn.Access{
			Reads:  []turn.Resource{turn.Stats, turn.Equipment},
			Writes: []turn.Resource{turn.Positions, turn.Names, turn.Stats, turn.Equipment},
		},
		Fn: a.reap,
	}
}

func (a *Arena) reap(_ context.Context, st *turn.State) error {
	s := st.Store
	for _, id := range a.factions.IDs() {
		if alive(s, id) {
			continue
		}
		var gear []ecs.ID
		s.Equipped.Each(func(item ecs.ID, eq *component.Equipped) {
			if eq.Owner == id {
				gear = append(gear, item)
			}
		})
		for _, item := range gear {
			s.Despawn(item)
		}
		s.Despawn(id)
		a.factions.Remove(id)
	}
	return nil
}

func alive(s *component.Store, id ecs.ID) bool {
	st, ok := s.Stats.Get(id)
	return ok && st.HP > 0
}

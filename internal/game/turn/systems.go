package turn

import (
	"context"
	"fmt"

	"github.com/cory-johannsen/dungeon/internal/game/combat"
	"github.com/cory-johannsen/dungeon/internal/game/component"
	"github.com/cory-johannsen/dungeon/internal/game/ecs"
	"go.uber.org/zap"
)

// MapIndexSystem rebuilds Blocked and the per-tile content index from terrain
// and entity positions.
type MapIndexSystem struct{}

// Name returns "map_index".
func (MapIndexSystem) Name() string { return "map_index" }

// Access declares the index outputs.
func (MapIndexSystem) Access() Access {
	return Access{
		Reads:  []Resource{Tiles, Positions},
		Writes: []Resource{Blocked, Content},
	}
}

// Run recomputes the index. An entity positioned off the grid is an error.
func (MapIndexSystem) Run(_ context.Context, st *State) error {
	m := st.Map
	m.PopulateBlocked()
	m.ClearContentIndex()
	var err error
	st.Store.Positions.Each(func(id ecs.ID, pos *component.Position) {
		if err != nil {
			return
		}
		idx, ierr := m.Index(pos.X, pos.Y)
		if ierr != nil {
			err = fmt.Errorf("entity %d: %w", id, ierr)
			return
		}
		if st.Store.Blockers.Has(id) {
			m.Blocked[idx] = true
		}
		m.AddContent(idx, id)
	})
	return err
}

// MeleeSystem resolves queued melee intents.
type MeleeSystem struct {
	Resolver *combat.MeleeResolver
}

// Name returns "melee".
func (MeleeSystem) Name() string { return "melee" }

// Access declares the resolver's inputs and outputs.
func (MeleeSystem) Access() Access {
	return Access{
		Reads:  []Resource{Intents, Names, Stats, Equipment, Hunger, Positions},
		Writes: []Resource{Intents, Damage, Log, Particles},
	}
}

// Run resolves and clears the intent queue.
func (s MeleeSystem) Run(ctx context.Context, st *State) error {
	_, err := s.Resolver.Resolve(ctx, st.Store, st.Log, st.Particles)
	return err
}

// DamageSystem applies accumulated damage and records deaths.
type DamageSystem struct {
	Logger *zap.Logger
}

// Name returns "damage".
func (DamageSystem) Name() string { return "damage" }

// Access declares the damage inputs and outputs.
func (DamageSystem) Access() Access {
	return Access{
		Reads:  []Resource{Damage, Positions, Names},
		Writes: []Resource{Stats, Damage, Bloodstains, Log},
	}
}

// Run applies damage. Entities that die are named in the log.
func (s DamageSystem) Run(_ context.Context, st *State) error {
	for _, id := range combat.ApplyDamage(st.Store, st.Map) {
		name := "something"
		if n, ok := st.Store.Names.Get(id); ok {
			name = n.Name
		}
		st.Log.Appendf("%s dies.", name)
		if s.Logger != nil {
			s.Logger.Debug("entity died", zap.Uint32("entity", uint32(id)), zap.String("name", name))
		}
	}
	return nil
}

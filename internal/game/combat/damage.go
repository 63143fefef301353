package combat

import (
	"github.com/cory-johannsen/dungeon/internal/game/component"
	"github.com/cory-johannsen/dungeon/internal/game/ecs"
	"github.com/cory-johannsen/dungeon/internal/game/world"
)

// ApplyDamage subtracts every accumulated SufferDamage total from its
// target's HP, stains the target's tile, and clears the accumulators.
//
// Postcondition: s.Damage is empty. Returns the entities whose HP reached
// zero or below this call, in accumulation order.
func ApplyDamage(s *component.Store, m *world.Map) []ecs.ID {
	var dead []ecs.ID
	s.Damage.Each(func(id ecs.ID, acc *component.SufferDamage) {
		stats := s.Stats.Ptr(id)
		if stats == nil {
			return
		}
		wasAlive := stats.HP > 0
		stats.HP -= acc.Total()
		if pos, ok := s.Positions.Get(id); ok {
			if idx, err := m.Index(pos.X, pos.Y); err == nil {
				m.AddBloodstain(idx)
			}
		}
		if wasAlive && stats.HP <= 0 {
			dead = append(dead, id)
		}
	})
	s.Damage.Clear()
	return dead
}

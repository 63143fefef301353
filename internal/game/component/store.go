package component

import "github.com/cory-johannsen/dungeon/internal/game/ecs"

// IntentQueue holds melee intents in arrival order.
type IntentQueue struct {
	items []WantsToMelee
}

// Push appends an intent.
func (q *IntentQueue) Push(attacker, target ecs.ID) {
	q.items = append(q.items, WantsToMelee{Attacker: attacker, Target: target})
}

// Items returns the queued intents in arrival order. The slice is only valid
// until the next Push or Clear.
func (q *IntentQueue) Items() []WantsToMelee {
	return q.items
}

// Len returns the number of queued intents.
func (q *IntentQueue) Len() int {
	return len(q.items)
}

// Clear drops every queued intent.
func (q *IntentQueue) Clear() {
	q.items = q.items[:0]
}

// Store owns the entity registry and one table per component type.
type Store struct {
	Entities       *ecs.Registry
	Names          *ecs.Table[Name]
	Positions      *ecs.Table[Position]
	Blockers       *ecs.Table[BlocksTile]
	Stats          *ecs.Table[Stats]
	PowerBonuses   *ecs.Table[MeleePowerBonus]
	DefenseBonuses *ecs.Table[DefenseBonus]
	Equipped       *ecs.Table[Equipped]
	Hunger         *ecs.Table[HungerClock]
	Damage         *ecs.Table[SufferDamage]
	Intents        *IntentQueue
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		Entities:       ecs.NewRegistry(),
		Names:          ecs.NewTable[Name](),
		Positions:      ecs.NewTable[Position](),
		Blockers:       ecs.NewTable[BlocksTile](),
		Stats:          ecs.NewTable[Stats](),
		PowerBonuses:   ecs.NewTable[MeleePowerBonus](),
		DefenseBonuses: ecs.NewTable[DefenseBonus](),
		Equipped:       ecs.NewTable[Equipped](),
		Hunger:         ecs.NewTable[HungerClock](),
		Damage:         ecs.NewTable[SufferDamage](),
		Intents:        &IntentQueue{},
	}
}

// Despawn removes id from every table and retires it.
func (s *Store) Despawn(id ecs.ID) {
	s.Names.Remove(id)
	s.Positions.Remove(id)
	s.Blockers.Remove(id)
	s.Stats.Remove(id)
	s.PowerBonuses.Remove(id)
	s.DefenseBonuses.Remove(id)
	s.Equipped.Remove(id)
	s.Hunger.Remove(id)
	s.Damage.Remove(id)
	s.Entities.Destroy(id)
}

// AddDamage appends amount to target's damage accumulator, creating it if needed.
func (s *Store) AddDamage(target ecs.ID, amount int) {
	if acc := s.Damage.Ptr(target); acc != nil {
		acc.Amounts = append(acc.Amounts, amount)
		return
	}
	s.Damage.Insert(target, SufferDamage{Amounts: []int{amount}})
}

// PowerBonusFor sums MeleePowerBonus over items equipped by owner.
func (s *Store) PowerBonusFor(owner ecs.ID) int {
	total := 0
	s.Equipped.Each(func(item ecs.ID, eq *Equipped) {
		if eq.Owner != owner {
			return
		}
		if b, ok := s.PowerBonuses.Get(item); ok {
			total += b.Power
		}
	})
	return total
}

// DefenseBonusFor sums DefenseBonus over items equipped by owner.
func (s *Store) DefenseBonusFor(owner ecs.ID) int {
	total := 0
	s.Equipped.Each(func(item ecs.ID, eq *Equipped) {
		if eq.Owner != owner {
			return
		}
		if b, ok := s.DefenseBonuses.Get(item); ok {
			total += b.Defense
		}
	})
	return total
}

// IsWellFed reports whether id carries a HungerClock in the WellFed state.
func (s *Store) IsWellFed(id ecs.ID) bool {
	h, ok := s.Hunger.Get(id)
	return ok && h.State == WellFed
}

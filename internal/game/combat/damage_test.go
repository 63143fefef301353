package combat_test

import (
	"testing"

	"github.com/cory-johannsen/dungeon/internal/game/combat"
	"github.com/cory-johannsen/dungeon/internal/game/component"
	"github.com/cory-johannsen/dungeon/internal/game/ecs"
	"github.com/cory-johannsen/dungeon/internal/game/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDamage(t *testing.T) {
	f := newFixture()
	m := world.NewMap(1, 10, 10)

	orc := f.spawn("Orc", component.Stats{HP: 10})
	f.store.Positions.Insert(orc, component.Position{X: 2, Y: 3})
	rat := f.spawn("Rat", component.Stats{HP: 4})
	f.store.Positions.Insert(rat, component.Position{X: 5, Y: 5})

	f.store.AddDamage(orc, 3)
	f.store.AddDamage(orc, 2)
	f.store.AddDamage(rat, 4)

	dead := combat.ApplyDamage(f.store, m)
	assert.Equal(t, []ecs.ID{rat}, dead)

	orcStats, _ := f.store.Stats.Get(orc)
	assert.Equal(t, 5, orcStats.HP)
	ratStats, _ := f.store.Stats.Get(rat)
	assert.Equal(t, 0, ratStats.HP)

	idx, err := m.Index(2, 3)
	require.NoError(t, err)
	assert.True(t, m.HasBloodstain(idx))
	assert.Zero(t, f.store.Damage.Len())
}

func TestApplyDamage_AlreadyDeadNotReported(t *testing.T) {
	f := newFixture()
	m := world.NewMap(1, 4, 4)
	zombie := f.spawn("Zombie", component.Stats{HP: 0})
	f.store.AddDamage(zombie, 2)

	assert.Empty(t, combat.ApplyDamage(f.store, m))
	s, _ := f.store.Stats.Get(zombie)
	assert.Equal(t, -2, s.HP)
}

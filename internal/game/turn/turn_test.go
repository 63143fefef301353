package turn_test

import (
	"context"
	"errors"
	"testing"

	"github.com/cory-johannsen/dungeon/internal/game/combat"
	"github.com/cory-johannsen/dungeon/internal/game/component"
	"github.com/cory-johannsen/dungeon/internal/game/ecs"
	"github.com/cory-johannsen/dungeon/internal/game/turn"
	"github.com/cory-johannsen/dungeon/internal/game/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"
)

func tracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer("test")
}

// arena returns a 10x10 level with an open interior.
func arena() *world.Map {
	m := world.NewMap(1, 10, 10)
	for y := 1; y < 9; y++ {
		for x := 1; x < 9; x++ {
			idx, _ := m.Index(x, y)
			m.Tiles[idx] = world.Floor
		}
	}
	m.PopulateBlocked()
	return m
}

func intentWriter(name string) turn.System {
	return turn.FuncSystem{
		SystemName: name,
		Declared:   turn.Access{Reads: []turn.Resource{turn.Content}, Writes: []turn.Resource{turn.Intents}},
		Fn:         func(context.Context, *turn.State) error { return nil },
	}
}

func standardSystems(t *testing.T) []turn.System {
	resolver := combat.NewMeleeResolver(combat.DefaultConfig(), zaptest.NewLogger(t), tracer())
	return []turn.System{
		turn.MapIndexSystem{},
		intentWriter("intents"),
		turn.MeleeSystem{Resolver: resolver},
		turn.DamageSystem{Logger: zaptest.NewLogger(t)},
	}
}

func TestNewPipeline_AcceptsStandardOrder(t *testing.T) {
	p, err := turn.NewPipeline(zaptest.NewLogger(t), tracer(), standardSystems(t)...)
	require.NoError(t, err)
	assert.Equal(t, []string{"map_index", "intents", "melee", "damage"}, p.Systems())
}

func TestNewPipeline_RejectsContentReaderBeforeIndex(t *testing.T) {
	sys := standardSystems(t)
	_, err := turn.NewPipeline(zaptest.NewLogger(t), tracer(), sys[1], sys[0], sys[2], sys[3])
	require.ErrorIs(t, err, turn.ErrOrdering)
	assert.Contains(t, err.Error(), `"intents" reads content`)
}

func TestNewPipeline_RejectsMeleeBeforeIntentWriter(t *testing.T) {
	sys := standardSystems(t)
	_, err := turn.NewPipeline(zaptest.NewLogger(t), tracer(), sys[0], sys[2], sys[1], sys[3])
	require.ErrorIs(t, err, turn.ErrOrdering)
	assert.Contains(t, err.Error(), `"melee" reads intents`)
}

func TestNewPipeline_MeleeAloneConsumesExternalIntents(t *testing.T) {
	sys := standardSystems(t)
	_, err := turn.NewPipeline(zaptest.NewLogger(t), tracer(), sys[0], sys[2], sys[3])
	assert.NoError(t, err)
}

func TestNewPipeline_RejectsDuplicateNames(t *testing.T) {
	_, err := turn.NewPipeline(zaptest.NewLogger(t), tracer(), turn.MapIndexSystem{}, turn.MapIndexSystem{})
	require.ErrorIs(t, err, turn.ErrOrdering)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestPipeline_RunResolvesCombat(t *testing.T) {
	st := turn.NewState(arena())
	s := st.Store
	hero := s.Entities.Create()
	s.Names.Insert(hero, component.Name{Name: "Hero"})
	s.Stats.Insert(hero, component.Stats{HP: 30, MaxHP: 30, Power: 10})
	s.Positions.Insert(hero, component.Position{X: 2, Y: 2})
	s.Blockers.Insert(hero, component.BlocksTile{})

	orc := s.Entities.Create()
	s.Names.Insert(orc, component.Name{Name: "Orc"})
	s.Stats.Insert(orc, component.Stats{HP: 5, MaxHP: 5, Defense: 1})
	s.Positions.Insert(orc, component.Position{X: 3, Y: 2})

	p, err := turn.NewPipeline(zaptest.NewLogger(t), tracer(), standardSystems(t)...)
	require.NoError(t, err)

	s.Intents.Push(hero, orc)
	require.NoError(t, p.Run(context.Background(), st))

	assert.Equal(t, 1, st.Turn)
	assert.Equal(t, []string{"Hero hits Orc, for 9 hp.", "Orc dies."}, st.Log.Entries())
	orcStats, _ := s.Stats.Get(orc)
	assert.Equal(t, -4, orcStats.HP)

	heroIdx, _ := st.Map.Index(2, 2)
	orcIdx, _ := st.Map.Index(3, 2)
	assert.True(t, st.Map.Blocked[heroIdx], "blockers mark their tile")
	assert.False(t, st.Map.Blocked[orcIdx])
	assert.Equal(t, []ecs.ID{orc}, st.Map.Content(orcIdx))
	assert.True(t, st.Map.HasBloodstain(orcIdx))
	assert.Len(t, st.Particles.Drain(), 1)
}

func TestPipeline_ContentIndexHasNoStaleEntries(t *testing.T) {
	st := turn.NewState(arena())
	id := st.Store.Entities.Create()
	st.Store.Positions.Insert(id, component.Position{X: 4, Y: 4})

	p, err := turn.NewPipeline(zaptest.NewLogger(t), tracer(), turn.MapIndexSystem{})
	require.NoError(t, err)
	require.NoError(t, p.Run(context.Background(), st))

	st.Store.Positions.Ptr(id).X = 5
	require.NoError(t, p.Run(context.Background(), st))

	oldIdx, _ := st.Map.Index(4, 4)
	newIdx, _ := st.Map.Index(5, 4)
	assert.Empty(t, st.Map.Content(oldIdx))
	assert.Equal(t, []ecs.ID{id}, st.Map.Content(newIdx))
}

func TestMapIndexSystem_OffGridPositionFails(t *testing.T) {
	st := turn.NewState(arena())
	id := st.Store.Entities.Create()
	st.Store.Positions.Insert(id, component.Position{X: 40, Y: 1})

	p, err := turn.NewPipeline(zaptest.NewLogger(t), tracer(), turn.MapIndexSystem{})
	require.NoError(t, err)
	err = p.Run(context.Background(), st)
	require.ErrorIs(t, err, world.ErrOutOfBounds)
	assert.Contains(t, err.Error(), "system map_index")
	assert.Zero(t, st.Turn)
}

func TestPipeline_StopsOnCancelledContext(t *testing.T) {
	st := turn.NewState(arena())
	p, err := turn.NewPipeline(zaptest.NewLogger(t), tracer(), turn.MapIndexSystem{})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.True(t, errors.Is(p.Run(ctx, st), context.Canceled))
}

func TestTryMove(t *testing.T) {
	m := arena()
	pos := &component.Position{X: 1, Y: 1}

	assert.False(t, turn.TryMove(m, pos, -1, 0), "walls stop movement")
	assert.Equal(t, component.Position{X: 1, Y: 1}, *pos)

	assert.True(t, turn.TryMove(m, pos, 1, 1))
	assert.Equal(t, component.Position{X: 2, Y: 2}, *pos)
}

func TestTryMove_NeverLeavesGrid(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		m := world.NewMap(1, 6, 6)
		for i := range m.Tiles {
			m.Tiles[i] = world.Floor
		}
		pos := &component.Position{
			X: rapid.IntRange(0, 5).Draw(rt, "x"),
			Y: rapid.IntRange(0, 5).Draw(rt, "y"),
		}
		dx := rapid.IntRange(-100, 100).Draw(rt, "dx")
		dy := rapid.IntRange(-100, 100).Draw(rt, "dy")
		turn.TryMove(m, pos, dx, dy)
		assert.True(rt, m.InBounds(pos.X, pos.Y))
	})
}

func TestResource_String(t *testing.T) {
	assert.Equal(t, "content", turn.Content.String())
	assert.Equal(t, "unknown", turn.Resource(99).String())
}

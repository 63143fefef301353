package world_test

import (
	"testing"

	"github.com/cory-johannsen/dungeon/internal/game/ecs"
	"github.com/cory-johannsen/dungeon/internal/game/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// openMap returns a map whose interior is floor and whose outer ring is wall.
func openMap(w, h int) *world.Map {
	m := world.NewMap(1, w, h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			idx, _ := m.Index(x, y)
			m.Tiles[idx] = world.Floor
		}
	}
	m.PopulateBlocked()
	return m
}

func TestNewMap_AllWall(t *testing.T) {
	m := world.NewMap(3, 10, 5)
	require.NoError(t, m.Validate())
	assert.Equal(t, 3, m.Depth)
	assert.Len(t, m.Tiles, 50)
	for _, tile := range m.Tiles {
		assert.Equal(t, world.Wall, tile)
	}
	assert.Empty(t, m.Rooms)
}

func TestIndexCoords_RoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		w := rapid.IntRange(1, 100).Draw(rt, "w")
		h := rapid.IntRange(1, 100).Draw(rt, "h")
		m := world.NewMap(1, w, h)
		x := rapid.IntRange(0, w-1).Draw(rt, "x")
		y := rapid.IntRange(0, h-1).Draw(rt, "y")

		idx, err := m.Index(x, y)
		require.NoError(rt, err)
		assert.Equal(rt, y*w+x, idx)
		gx, gy := m.Coords(idx)
		assert.Equal(rt, x, gx)
		assert.Equal(rt, y, gy)
	})
}

func TestIndex_OutOfBounds(t *testing.T) {
	m := world.NewMap(1, 10, 10)
	for _, c := range [][2]int{{-1, 0}, {0, -1}, {10, 0}, {0, 10}} {
		_, err := m.Index(c[0], c[1])
		assert.ErrorIs(t, err, world.ErrOutOfBounds, "(%d,%d)", c[0], c[1])
	}
}

func TestIsOpaque_PanicsOutOfRange(t *testing.T) {
	m := world.NewMap(1, 4, 4)
	assert.Panics(t, func() { m.IsOpaque(16) })
	assert.True(t, m.IsOpaque(0))
}

func TestValidate_DetectsLengthMismatch(t *testing.T) {
	m := world.NewMap(1, 4, 4)
	m.Revealed = m.Revealed[:3]
	m.Tiles[2] = world.Tile(9)
	err := m.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "revealed has 3 entries")
	assert.Contains(t, err.Error(), "unknown kind 9")
}

func TestTile_ParseAndString(t *testing.T) {
	for _, tile := range []world.Tile{world.Wall, world.Floor, world.DownStairs} {
		parsed, err := world.ParseTile(tile.String())
		require.NoError(t, err)
		assert.Equal(t, tile, parsed)
	}
	_, err := world.ParseTile("lava")
	assert.ErrorContains(t, err, `"lava"`)
	assert.Equal(t, "unknown", world.Tile(7).String())

	_, err = world.TileFromCode(3)
	assert.Error(t, err)
	tile, err := world.TileFromCode(2)
	require.NoError(t, err)
	assert.Equal(t, world.DownStairs, tile)
}

func TestRoom_GeometryAndCenter(t *testing.T) {
	r := world.NewRoom(2, 3, 6, 8)
	assert.Equal(t, world.Room{X1: 2, Y1: 3, X2: 8, Y2: 11}, r)
	cx, cy := r.Center()
	assert.Equal(t, 5, cx)
	assert.Equal(t, 7, cy)
	assert.Equal(t, 6, r.Width())
	assert.Equal(t, 8, r.Height())
}

func TestRoom_IntersectsIsInclusive(t *testing.T) {
	a := world.NewRoom(0, 0, 5, 5)
	touching := world.NewRoom(5, 0, 5, 5)
	apart := world.NewRoom(6, 0, 5, 5)
	assert.True(t, a.Intersects(touching), "rooms sharing an edge overlap")
	assert.False(t, a.Intersects(apart))
}

func TestRoom_IntersectsSymmetric(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		gen := func(label string) world.Room {
			return world.NewRoom(
				rapid.IntRange(0, 50).Draw(rt, label+"x"),
				rapid.IntRange(0, 50).Draw(rt, label+"y"),
				rapid.IntRange(1, 10).Draw(rt, label+"w"),
				rapid.IntRange(1, 10).Draw(rt, label+"h"),
			)
		}
		a, b := gen("a"), gen("b")
		assert.Equal(rt, a.Intersects(b), b.Intersects(a))
		assert.True(rt, a.Intersects(a))
	})
}

func TestAvailableExits_OpenInterior(t *testing.T) {
	m := openMap(10, 10)
	idx, _ := m.Index(5, 5)
	exits := m.AvailableExits(idx)
	require.Len(t, exits, 8)
	var cardinal, diagonal int
	for _, e := range exits {
		switch e.Cost {
		case world.CardinalCost:
			cardinal++
		case world.DiagonalCost:
			diagonal++
		}
	}
	assert.Equal(t, 4, cardinal)
	assert.Equal(t, 4, diagonal)
}

func TestAvailableExits_NeverLeavesInterior(t *testing.T) {
	m := openMap(6, 6)
	for idx := 0; idx < m.Len(); idx++ {
		for _, e := range m.AvailableExits(idx) {
			x, y := m.Coords(e.Index)
			assert.True(t, x >= 1 && x <= 4 && y >= 1 && y <= 4, "exit (%d,%d) from %d", x, y, idx)
		}
	}
}

func TestAvailableExits_Symmetric(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		w := rapid.IntRange(3, 20).Draw(rt, "w")
		h := rapid.IntRange(3, 20).Draw(rt, "h")
		m := world.NewMap(1, w, h)
		for i := range m.Tiles {
			if rapid.Bool().Draw(rt, "floor") {
				m.Tiles[i] = world.Floor
			}
		}
		m.PopulateBlocked()

		for a := 0; a < m.Len(); a++ {
			if m.Blocked[a] {
				continue
			}
			ax, ay := m.Coords(a)
			if ax < 1 || ax > w-2 || ay < 1 || ay > h-2 {
				continue
			}
			for _, e := range m.AvailableExits(a) {
				back := false
				for _, r := range m.AvailableExits(e.Index) {
					if r.Index == a {
						back = true
						assert.Equal(rt, e.Cost, r.Cost)
					}
				}
				assert.True(rt, back, "exit %d -> %d has no reverse", a, e.Index)
			}
		}
	})
}

func TestPathingDistance(t *testing.T) {
	m := world.NewMap(1, 10, 10)
	a, _ := m.Index(1, 1)
	b, _ := m.Index(4, 5)
	assert.InDelta(t, 5.0, m.PathingDistance(a, b), 1e-9)
	assert.Zero(t, m.PathingDistance(a, a))
}

func TestPopulateBlocked_MatchesWalls(t *testing.T) {
	m := openMap(5, 5)
	m.Blocked[12] = false
	m.Tiles[12] = world.Wall
	m.PopulateBlocked()
	for i, tile := range m.Tiles {
		assert.Equal(t, tile == world.Wall, m.Blocked[i])
	}
}

func TestContentIndex_ClearEmptiesEveryTile(t *testing.T) {
	m := openMap(5, 5)
	m.AddContent(6, 1)
	m.AddContent(6, 2)
	m.AddContent(7, 3)
	assert.Len(t, m.Content(6), 2)

	m.ClearContentIndex()
	for i := 0; i < m.Len(); i++ {
		assert.Empty(t, m.Content(i))
	}
}

func TestContent_SurvivesNextTurnIndex(t *testing.T) {
	m := openMap(5, 5)
	m.AddContent(6, 7)
	last := m.Content(6)

	m.ClearContentIndex()
	m.AddContent(6, 42)

	assert.Equal(t, []ecs.ID{7}, last)
	assert.Equal(t, []ecs.ID{42}, m.Content(6))
}

func TestReveal_KeepsVisibilityAndPersists(t *testing.T) {
	m := openMap(5, 5)
	m.Reveal(12)
	assert.True(t, m.IsRevealed(12))
	assert.False(t, m.IsVisible(12))

	require.NoError(t, m.SetVisible([]int{6}))
	require.NoError(t, m.SetVisible(nil))
	assert.True(t, m.IsRevealed(12))
	assert.True(t, m.IsRevealed(6))
	assert.False(t, m.IsVisible(6))
	assert.Panics(t, func() { m.Reveal(-1) })
}

func TestSetVisible_RevealedMonotonic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		m := world.NewMap(1, 8, 8)
		steps := rapid.IntRange(1, 10).Draw(rt, "steps")
		for s := 0; s < steps; s++ {
			before := append([]bool(nil), m.Revealed...)
			vis := rapid.SliceOf(rapid.IntRange(0, m.Len()-1)).Draw(rt, "visible")
			require.NoError(rt, m.SetVisible(vis))
			for i := range before {
				if before[i] {
					assert.True(rt, m.Revealed[i], "revealed tile %d was cleared", i)
				}
				if m.Visible[i] {
					assert.True(rt, m.Revealed[i], "visible tile %d is not revealed", i)
				}
			}
		}
	})
}

func TestSetVisible_ReplacesPreviousSet(t *testing.T) {
	m := world.NewMap(1, 4, 4)
	require.NoError(t, m.SetVisible([]int{1, 2}))
	require.NoError(t, m.SetVisible([]int{3}))
	assert.False(t, m.IsVisible(1))
	assert.True(t, m.IsVisible(3))
	assert.True(t, m.IsRevealed(1))

	err := m.SetVisible([]int{99})
	assert.ErrorIs(t, err, world.ErrOutOfBounds)
	assert.True(t, m.IsVisible(3), "a rejected update leaves visibility untouched")
}

func TestBloodstains(t *testing.T) {
	m := world.NewMap(1, 4, 4)
	m.AddBloodstain(9)
	m.AddBloodstain(3)
	m.AddBloodstain(9)
	assert.True(t, m.HasBloodstain(9))
	assert.False(t, m.HasBloodstain(4))
	assert.Equal(t, []int{3, 9}, m.BloodstainIndices())
}

func TestResetTransient_RebuildsBlockedAndContent(t *testing.T) {
	src := openMap(5, 5)
	loaded := &world.Map{
		Tiles:    src.Tiles,
		Width:    5,
		Height:   5,
		Revealed: make([]bool, 25),
		Visible:  make([]bool, 25),
	}
	loaded.ResetTransient()
	require.NoError(t, loaded.Validate())
	assert.Equal(t, src.Blocked, loaded.Blocked)
	assert.Empty(t, loaded.Content(6))
	loaded.AddBloodstain(6)
	assert.True(t, loaded.HasBloodstain(6))
}

func TestWallGlyphForMask_Bijective(t *testing.T) {
	seen := map[rune]uint8{}
	for mask := uint8(0); mask < 16; mask++ {
		g, err := world.WallGlyphForMask(mask)
		require.NoError(t, err)
		prev, dup := seen[g]
		assert.False(t, dup, "mask %d and %d share glyph %q", mask, prev, g)
		assert.NotEqual(t, world.BorderGlyph, g)
		seen[g] = mask
	}
	_, err := world.WallGlyphForMask(16)
	assert.Error(t, err)
}

func TestWallGlyph(t *testing.T) {
	m := world.NewMap(1, 5, 5)
	m.RevealAll()

	g, err := m.WallGlyph(0, 2)
	require.NoError(t, err)
	assert.Equal(t, world.BorderGlyph, g)

	// Every interior tile is a revealed wall, so (2,2) sees walls on all sides.
	g, err = m.WallGlyph(2, 2)
	require.NoError(t, err)
	assert.Equal(t, '╬', g)

	idx, _ := m.Index(2, 1)
	m.Tiles[idx] = world.Floor
	mask, err := m.WallMask(2, 2)
	require.NoError(t, err)
	assert.Equal(t, world.MaskSouth|world.MaskWest|world.MaskEast, mask)

	_, err = m.WallMask(0, 0)
	assert.ErrorIs(t, err, world.ErrOutOfBounds)
}

func TestWallMask_IgnoresUnrevealed(t *testing.T) {
	m := world.NewMap(1, 5, 5)
	mask, err := m.WallMask(2, 2)
	require.NoError(t, err)
	assert.Zero(t, mask)
}

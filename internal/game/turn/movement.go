package turn

import (
	"github.com/cory-johannsen/dungeon/internal/game/component"
	"github.com/cory-johannsen/dungeon/internal/game/world"
)

// TryMove moves pos by (dx, dy) unless the destination is a wall. The
// destination is clamped to the grid before it is looked up.
//
// Postcondition: reports whether pos changed.
func TryMove(m *world.Map, pos *component.Position, dx, dy int) bool {
	x := min(max(pos.X+dx, 0), m.Width-1)
	y := min(max(pos.Y+dy, 0), m.Height-1)
	idx, err := m.Index(x, y)
	if err != nil {
		return false
	}
	if m.Tiles[idx] == world.Wall {
		return false
	}
	if x == pos.X && y == pos.Y {
		return false
	}
	pos.X, pos.Y = x, y
	return true
}

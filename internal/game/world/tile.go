// Package world models a single dungeon level: its tile grid, rooms, and the
// per-tile knowledge and occupancy layers derived from it.
package world

import "fmt"

// Tile is the terrain at one grid cell.
type Tile uint8

// Tile kinds. The numeric values are persisted and must not be renumbered.
const (
	Wall Tile = iota
	Floor
	DownStairs
)

// String returns the tile's canonical name, or "unknown".
func (t Tile) String() string {
	switch t {
	case Wall:
		return "wall"
	case Floor:
		return "floor"
	case DownStairs:
		return "down_stairs"
	default:
		return "unknown"
	}
}

// Valid reports whether t is one of the defined tile kinds.
func (t Tile) Valid() bool {
	return t <= DownStairs
}

// ParseTile converts a canonical tile name to a Tile.
//
// Postcondition: returns an error naming the input when it is not a known tile.
func ParseTile(s string) (Tile, error) {
	switch s {
	case "wall":
		return Wall, nil
	case "floor":
		return Floor, nil
	case "down_stairs":
		return DownStairs, nil
	default:
		return Wall, fmt.Errorf("unknown tile %q", s)
	}
}

// TileFromCode converts a persisted tile code to a Tile.
func TileFromCode(code int) (Tile, error) {
	if code < 0 || !Tile(code).Valid() {
		return Wall, fmt.Errorf("unknown tile code %d", code)
	}
	return Tile(code), nil
}

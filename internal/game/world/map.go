package world

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/cory-johannsen/dungeon/internal/game/ecs"
	"github.com/zyedidia/generic/mapset"
)

// ErrOutOfBounds is returned when a coordinate or index falls outside the grid.
var ErrOutOfBounds = errors.New("out of bounds")

// Movement costs reported by AvailableExits.
const (
	CardinalCost = 1.0
	DiagonalCost = 1.45
)

// Exit is a neighbouring tile a walker may step to, with its step cost.
type Exit struct {
	Index int
	Cost  float64
}

// Map is one dungeon level.
//
// Invariant: Tiles, Revealed, Visible and Blocked all have length
// Width*Height, and tile (x, y) lives at index y*Width + x.
type Map struct {
	Tiles       []Tile
	Rooms       []Room
	Width       int
	Height      int
	Depth       int
	Revealed    []bool
	Visible     []bool
	Blocked     []bool
	Bloodstains mapset.Set[int]

	// content is rebuilt every turn and is never persisted.
	content [][]ecs.ID
}

// NewMap returns a level of the given size filled with Wall.
//
// Precondition: width > 0 and height > 0.
// Postcondition: every per-tile slice has length width*height; no rooms.
func NewMap(depth, width, height int) *Map {
	n := width * height
	tiles := make([]Tile, n)
	for i := range tiles {
		tiles[i] = Wall
	}
	return &Map{
		Tiles:       tiles,
		Width:       width,
		Height:      height,
		Depth:       depth,
		Revealed:    make([]bool, n),
		Visible:     make([]bool, n),
		Blocked:     make([]bool, n),
		Bloodstains: mapset.New[int](),
		content:     make([][]ecs.ID, n),
	}
}

// Validate checks the length invariants, typically after loading a stored level.
func (m *Map) Validate() error {
	n := m.Width * m.Height
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("map dimensions %dx%d must be positive", m.Width, m.Height)
	}
	var errs []error
	check := func(name string, got int) {
		if got != n {
			errs = append(errs, fmt.Errorf("%s has %d entries, want %d", name, got, n))
		}
	}
	check("tiles", len(m.Tiles))
	check("revealed", len(m.Revealed))
	check("visible", len(m.Visible))
	check("blocked", len(m.Blocked))
	for i, t := range m.Tiles {
		if !t.Valid() {
			errs = append(errs, fmt.Errorf("tile %d has unknown kind %d", i, t))
			break
		}
	}
	return errors.Join(errs...)
}

// Len returns Width*Height.
func (m *Map) Len() int {
	return m.Width * m.Height
}

// InBounds reports whether (x, y) lies on the grid.
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

// ValidIndex reports whether idx addresses a tile.
func (m *Map) ValidIndex(idx int) bool {
	return idx >= 0 && idx < m.Len()
}

// Index converts (x, y) to a tile index.
//
// Postcondition: returns an error wrapping ErrOutOfBounds when (x, y) is off the grid.
func (m *Map) Index(x, y int) (int, error) {
	if !m.InBounds(x, y) {
		return 0, fmt.Errorf("%w: (%d, %d) on %dx%d map", ErrOutOfBounds, x, y, m.Width, m.Height)
	}
	return y*m.Width + x, nil
}

// Coords converts a tile index back to (x, y).
//
// Precondition: m.ValidIndex(idx).
func (m *Map) Coords(idx int) (int, int) {
	return idx % m.Width, idx / m.Width
}

func (m *Map) mustValid(idx int) {
	if !m.ValidIndex(idx) {
		panic(fmt.Sprintf("world: %v: index %d on %dx%d map", ErrOutOfBounds, idx, m.Width, m.Height))
	}
}

// Dimensions returns (Width, Height).
func (m *Map) Dimensions() (int, int) {
	return m.Width, m.Height
}

// IsOpaque reports whether the tile at idx blocks sight.
//
// Precondition: m.ValidIndex(idx). Panics naming the index otherwise.
func (m *Map) IsOpaque(idx int) bool {
	m.mustValid(idx)
	return m.Tiles[idx] == Wall
}

// PathingDistance returns the Euclidean distance between two tiles.
//
// Precondition: both indices are valid.
func (m *Map) PathingDistance(a, b int) float64 {
	m.mustValid(a)
	m.mustValid(b)
	ax, ay := m.Coords(a)
	bx, by := m.Coords(b)
	return math.Hypot(float64(ax-bx), float64(ay-by))
}

var neighbourOffsets = [8]struct {
	dx, dy int
	cost   float64
}{
	{-1, 0, CardinalCost},
	{1, 0, CardinalCost},
	{0, -1, CardinalCost},
	{0, 1, CardinalCost},
	{-1, -1, DiagonalCost},
	{1, -1, DiagonalCost},
	{-1, 1, DiagonalCost},
	{1, 1, DiagonalCost},
}

// isExitValid reports whether (x, y) is an interior tile that is not blocked.
// The outermost ring of the grid is never a destination.
func (m *Map) isExitValid(x, y int) bool {
	if x < 1 || x > m.Width-2 || y < 1 || y > m.Height-2 {
		return false
	}
	return !m.Blocked[y*m.Width+x]
}

// AvailableExits lists the unblocked interior neighbours of idx with their costs.
// Cardinal neighbours come first, then diagonals.
//
// Precondition: m.ValidIndex(idx).
func (m *Map) AvailableExits(idx int) []Exit {
	m.mustValid(idx)
	x, y := m.Coords(idx)
	exits := make([]Exit, 0, len(neighbourOffsets))
	for _, o := range neighbourOffsets {
		nx, ny := x+o.dx, y+o.dy
		if m.isExitValid(nx, ny) {
			exits = append(exits, Exit{Index: ny*m.Width + nx, Cost: o.cost})
		}
	}
	return exits
}

// PopulateBlocked recomputes Blocked from terrain alone.
//
// Postcondition: Blocked[i] == (Tiles[i] == Wall) for every i.
func (m *Map) PopulateBlocked() {
	for i, t := range m.Tiles {
		m.Blocked[i] = t == Wall
	}
}

// ClearContentIndex empties every tile's occupant list.
func (m *Map) ClearContentIndex() {
	if len(m.content) != m.Len() {
		m.content = make([][]ecs.ID, m.Len())
		return
	}
	for i := range m.content {
		m.content[i] = m.content[i][:0]
	}
}

// AddContent records id as occupying idx.
//
// Precondition: m.ValidIndex(idx).
func (m *Map) AddContent(idx int, id ecs.ID) {
	m.mustValid(idx)
	m.content[idx] = append(m.content[idx], id)
}

// Content returns a copy of the occupants recorded at idx this turn.
//
// Precondition: m.ValidIndex(idx).
func (m *Map) Content(idx int) []ecs.ID {
	m.mustValid(idx)
	return slices.Clone(m.content[idx])
}

// AddBloodstain marks idx as stained.
func (m *Map) AddBloodstain(idx int) {
	m.mustValid(idx)
	m.Bloodstains.Put(idx)
}

// BloodstainIndices returns the stained tile indices in ascending order.
func (m *Map) BloodstainIndices() []int {
	out := make([]int, 0, m.Bloodstains.Size())
	m.Bloodstains.Each(func(idx int) {
		out = append(out, idx)
	})
	slices.Sort(out)
	return out
}

// HasBloodstain reports whether idx is stained.
func (m *Map) HasBloodstain(idx int) bool {
	return m.Bloodstains.Has(idx)
}

// ResetTransient restores the layers that are never persisted. Call it after
// building a Map from storage.
func (m *Map) ResetTransient() {
	m.content = make([][]ecs.ID, m.Len())
	if m.Bloodstains.Size() == 0 {
		m.Bloodstains = mapset.New[int]()
	}
	if m.Blocked == nil || len(m.Blocked) != m.Len() {
		m.Blocked = make([]bool, m.Len())
	}
	m.PopulateBlocked()
}

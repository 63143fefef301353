package world

import "fmt"

// Wall mask bits, one per cardinal neighbour that is a revealed wall.
const (
	MaskNorth uint8 = 1
	MaskSouth uint8 = 2
	MaskWest  uint8 = 4
	MaskEast  uint8 = 8
)

// BorderGlyph is drawn for walls on the outermost ring of the grid.
const BorderGlyph = '#'

// wallGlyphs maps each 4-bit mask to a distinct box-drawing glyph.
var wallGlyphs = [16]rune{
	'○', // isolated pillar
	'╨', // N
	'╥', // S
	'║', // N S
	'╡', // W
	'╝', // N W
	'╗', // S W
	'╣', // N S W
	'╞', // E
	'╚', // N E
	'╔', // S E
	'╠', // N S E
	'═', // W E
	'╩', // N W E
	'╦', // S W E
	'╬', // all
}

func (m *Map) isRevealedWall(x, y int) bool {
	idx := y*m.Width + x
	return m.Tiles[idx] == Wall && m.Revealed[idx]
}

// WallMask returns the neighbour mask for the interior tile (x, y).
//
// Precondition: 1 <= x <= Width-2 and 1 <= y <= Height-2.
func (m *Map) WallMask(x, y int) (uint8, error) {
	if x < 1 || x > m.Width-2 || y < 1 || y > m.Height-2 {
		return 0, fmt.Errorf("%w: wall mask at (%d, %d) needs an interior tile", ErrOutOfBounds, x, y)
	}
	var mask uint8
	if m.isRevealedWall(x, y-1) {
		mask |= MaskNorth
	}
	if m.isRevealedWall(x, y+1) {
		mask |= MaskSouth
	}
	if m.isRevealedWall(x-1, y) {
		mask |= MaskWest
	}
	if m.isRevealedWall(x+1, y) {
		mask |= MaskEast
	}
	return mask, nil
}

// WallGlyphForMask returns the glyph for mask.
//
// Postcondition: distinct masks in 0..15 map to distinct glyphs; any other
// mask is an error.
func WallGlyphForMask(mask uint8) (rune, error) {
	if int(mask) >= len(wallGlyphs) {
		return 0, fmt.Errorf("wall mask %d out of range 0..15", mask)
	}
	return wallGlyphs[mask], nil
}

// WallGlyph returns the glyph for the wall at (x, y): BorderGlyph on the
// outermost ring, otherwise the glyph for its neighbour mask.
func (m *Map) WallGlyph(x, y int) (rune, error) {
	if !m.InBounds(x, y) {
		return 0, fmt.Errorf("%w: wall glyph at (%d, %d)", ErrOutOfBounds, x, y)
	}
	if x == 0 || y == 0 || x == m.Width-1 || y == m.Height-1 {
		return BorderGlyph, nil
	}
	mask, err := m.WallMask(x, y)
	if err != nil {
		return 0, err
	}
	return WallGlyphForMask(mask)
}

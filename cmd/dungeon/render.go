package main

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/dungeon/internal/game/world"
)

// Render draws m as text, one row per line. Revealed walls use box-drawing
// glyphs; unrevealed walls are blank.
//
// Postcondition: returns an error when a wall has no glyph.
func Render(m *world.Map) (string, error) {
	var b strings.Builder
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			idx := y*m.Width + x
			g, err := glyphAt(m, idx, x, y)
			if err != nil {
				return "", fmt.Errorf("rendering (%d, %d): %w", x, y, err)
			}
			b.WriteRune(g)
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func glyphAt(m *world.Map, idx, x, y int) (rune, error) {
	switch m.Tiles[idx] {
	case world.Floor:
		if m.HasBloodstain(idx) {
			return '%', nil
		}
		return '.', nil
	case world.DownStairs:
		return '>', nil
	case world.Wall:
		if !m.Revealed[idx] {
			return ' ', nil
		}
		return m.WallGlyph(x, y)
	default:
		return 0, fmt.Errorf("unknown tile %d", m.Tiles[idx])
	}
}

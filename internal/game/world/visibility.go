package world

import "fmt"

// SetVisible replaces the visible set with indices and reveals each of them.
//
// Postcondition: Visible[i] is true exactly for i in indices, and every
// visible tile is also revealed. Revealed is never cleared.
func (m *Map) SetVisible(indices []int) error {
	for _, idx := range indices {
		if !m.ValidIndex(idx) {
			return fmt.Errorf("%w: visible index %d on %dx%d map", ErrOutOfBounds, idx, m.Width, m.Height)
		}
	}
	clear(m.Visible)
	for _, idx := range indices {
		m.Visible[idx] = true
		m.Revealed[idx] = true
	}
	return nil
}

// Reveal marks idx as revealed without changing visibility.
func (m *Map) Reveal(idx int) {
	m.mustValid(idx)
	m.Revealed[idx] = true
}

// RevealAll marks every tile as revealed.
func (m *Map) RevealAll() {
	for i := range m.Revealed {
		m.Revealed[i] = true
	}
}

// IsRevealed reports whether idx has ever been seen.
func (m *Map) IsRevealed(idx int) bool {
	m.mustValid(idx)
	return m.Revealed[idx]
}

// IsVisible reports whether idx is in the current field of view.
func (m *Map) IsVisible(idx int) bool {
	m.mustValid(idx)
	return m.Visible[idx]
}

// Package particle queues short-lived cosmetic effects for a renderer to draw.
package particle

import "time"

// Glyphs used by built-in effects.
const (
	GlyphImpact = '☼'
)

// Request is one particle to spawn at a tile.
type Request struct {
	X        int
	Y        int
	Glyph    rune
	Lifetime time.Duration
}

// Builder collects particle requests until they are drained.
type Builder struct {
	pending []Request
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Request queues a particle at (x, y).
func (b *Builder) Request(x, y int, glyph rune, lifetime time.Duration) {
	b.pending = append(b.pending, Request{X: x, Y: y, Glyph: glyph, Lifetime: lifetime})
}

// Len returns the number of pending requests.
func (b *Builder) Len() int {
	return len(b.pending)
}

// Drain returns every pending request in order and empties the queue.
func (b *Builder) Drain() []Request {
	out := b.pending
	b.pending = nil
	return out
}

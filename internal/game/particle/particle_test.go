package particle_test

import (
	"testing"
	"time"

	"github.com/cory-johannsen/dungeon/internal/game/particle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_DrainEmpties(t *testing.T) {
	b := particle.NewBuilder()
	b.Request(3, 4, particle.GlyphImpact, 200*time.Millisecond)
	b.Request(5, 6, 'x', time.Second)
	require.Equal(t, 2, b.Len())

	got := b.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, particle.Request{X: 3, Y: 4, Glyph: '☼', Lifetime: 200 * time.Millisecond}, got[0])
	assert.Zero(t, b.Len())
	assert.Empty(t, b.Drain())
}

package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/dungeon/internal/game/world"
)

func sampleLevel() *world.Map {
	m := world.NewMap(2, 6, 5)
	room := world.NewRoom(1, 1, 3, 2)
	m.Rooms = append(m.Rooms, room)
	for y := room.Y1 + 1; y <= room.Y2; y++ {
		for x := room.X1 + 1; x <= room.X2; x++ {
			idx, _ := m.Index(x, y)
			m.Tiles[idx] = world.Floor
		}
	}
	idx, _ := m.Index(3, 2)
	m.Tiles[idx] = world.DownStairs
	m.PopulateBlocked()
	_ = m.SetVisible([]int{idx, idx - 1})
	m.AddBloodstain(idx)
	return m
}

func TestLevelCodec_RoundTrip(t *testing.T) {
	m := sampleLevel()
	row, err := encodeLevel(m)
	require.NoError(t, err)
	assert.Len(t, row.tiles, 30)
	assert.JSONEq(t, `[{"x1":1,"y1":1,"x2":4,"y2":3}]`, string(row.rooms))

	got, err := decodeLevel(row)
	require.NoError(t, err)
	assert.Equal(t, m.Tiles, got.Tiles)
	assert.Equal(t, m.Rooms, got.Rooms)
	assert.Equal(t, m.Revealed, got.Revealed)
	assert.Equal(t, m.Visible, got.Visible)
	assert.Equal(t, m.Blocked, got.Blocked)
	assert.Equal(t, m.BloodstainIndices(), got.BloodstainIndices())
	assert.Equal(t, 2, got.Depth)
}

func TestLevelCodec_EmptyRoomsEncodeAsArray(t *testing.T) {
	row, err := encodeLevel(world.NewMap(1, 3, 3))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(row.rooms))
}

func TestDecodeLevel_RejectsUnknownTileCode(t *testing.T) {
	row, err := encodeLevel(sampleLevel())
	require.NoError(t, err)
	row.tiles[4] = 7
	_, err = decodeLevel(row)
	assert.ErrorContains(t, err, "unknown tile code 7")
}

func TestDecodeLevel_RejectsLengthMismatch(t *testing.T) {
	row, err := encodeLevel(sampleLevel())
	require.NoError(t, err)
	row.revealed = row.revealed[:10]
	_, err = decodeLevel(row)
	assert.ErrorContains(t, err, "revealed has 10 entries")
}

func TestDecodeLevel_RejectsBloodstainOffGrid(t *testing.T) {
	row, err := encodeLevel(sampleLevel())
	require.NoError(t, err)
	row.bloodstains = append(row.bloodstains, 999)
	_, err = decodeLevel(row)
	assert.ErrorIs(t, err, world.ErrOutOfBounds)
}

func TestEncodeLevel_RejectsInvalidMap(t *testing.T) {
	m := sampleLevel()
	m.Visible = nil
	_, err := encodeLevel(m)
	assert.Error(t, err)
}

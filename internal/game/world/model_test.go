package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestWorld(t *testing.T) *World {
	t.Helper()
	b := NewBuilder()
	require.NoError(t, b.AddRoom(0, "A dusty library."))
	require.NoError(t, b.AddRoom(1, "A cold cavern."))
	require.NoError(t, b.AddRoom(7, "A cramped tunnel."))
	require.NoError(t, b.Connect(0, North, 1))
	require.NoError(t, b.Connect(1, South, 0))
	require.NoError(t, b.Connect(1, East, 7))
	w, err := b.Build()
	require.NoError(t, err)
	return w
}

func TestParseDirection(t *testing.T) {
	cases := map[string]Direction{
		"n": North, "north": North,
		"s": South, "south": South,
		"e": East, "east": East,
		"w": West, "west": West,
	}
	for token, want := range cases {
		got, ok := ParseDirection(token)
		assert.True(t, ok, "token %q", token)
		assert.Equal(t, want, got, "token %q", token)
	}

	for _, token := range []string{"", "up", "N", "North", "northeast", "x"} {
		_, ok := ParseDirection(token)
		assert.False(t, ok, "token %q should not parse", token)
	}
}

func TestDirectionOpposite(t *testing.T) {
	assert.Equal(t, South, North.Opposite())
	assert.Equal(t, North, South.Opposite())
	assert.Equal(t, West, East.Opposite())
	assert.Equal(t, East, West.Opposite())
	assert.Equal(t, Direction(""), Direction("up").Opposite())
}

func TestFindRoom(t *testing.T) {
	w := buildTestWorld(t)

	room, ok := w.FindRoom(7)
	require.True(t, ok)
	assert.Equal(t, 7, room.ID)
	assert.Equal(t, "A cramped tunnel.", room.Description)

	_, ok = w.FindRoom(42)
	assert.False(t, ok)
}

func TestExit(t *testing.T) {
	w := buildTestWorld(t)

	target, ok := w.Exit(0, North)
	require.True(t, ok)
	assert.Equal(t, 1, target.ID)

	// Edges are unidirectional: 1→east→7 has no declared reverse.
	_, ok = w.Exit(7, West)
	assert.False(t, ok)

	_, ok = w.Exit(0, East)
	assert.False(t, ok)

	_, ok = w.Exit(42, North)
	assert.False(t, ok)
}

func TestExitDirectionsEnumerationOrder(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddRoom(0, "hub"))
	require.NoError(t, b.AddRoom(1, "spoke"))
	// Connect in scrambled order; listing must still be N,S,E,W.
	require.NoError(t, b.Connect(0, West, 1))
	require.NoError(t, b.Connect(0, North, 1))
	require.NoError(t, b.Connect(0, East, 1))
	require.NoError(t, b.Connect(0, South, 1))
	w, err := b.Build()
	require.NoError(t, err)

	room, ok := w.FindRoom(0)
	require.True(t, ok)
	assert.Equal(t, []Direction{North, South, East, West}, room.ExitDirections())
}

func TestExitDirectionsEmpty(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddRoom(0, "sealed vault"))
	w, err := b.Build()
	require.NoError(t, err)

	room, _ := w.FindRoom(0)
	assert.Empty(t, room.ExitDirections())
}

func TestBuilderDuplicateRoomID(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddRoom(3, "first"))
	err := b.AddRoom(3, "second")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate room ID 3")
}

func TestBuilderConnectUnknownEndpoint(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddRoom(0, "only room"))

	err := b.Connect(0, North, 9)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown room ID 9")

	err = b.Connect(9, North, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown room ID 9")
}

func TestBuilderConnectInvalidDirection(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddRoom(0, "a"))
	require.NoError(t, b.AddRoom(1, "b"))
	err := b.Connect(0, Direction("up"), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid direction")
}

func TestBuilderConnectOverwrites(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddRoom(0, "a"))
	require.NoError(t, b.AddRoom(1, "b"))
	require.NoError(t, b.AddRoom(2, "c"))
	require.NoError(t, b.Connect(0, North, 1))
	require.NoError(t, b.Connect(0, North, 2))
	w, err := b.Build()
	require.NoError(t, err)

	target, ok := w.Exit(0, North)
	require.True(t, ok)
	assert.Equal(t, 2, target.ID)
}

func TestBuilderEmptyWorld(t *testing.T) {
	_, err := NewBuilder().Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one room")
}

func TestBuilderFrozenAfterBuild(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddRoom(0, "a"))
	_, err := b.Build()
	require.NoError(t, err)

	assert.Error(t, b.AddRoom(1, "late"))
	assert.Error(t, b.Connect(0, North, 0))
	_, err = b.Build()
	assert.Error(t, err)
}

func TestRoomIDs(t *testing.T) {
	w := buildTestWorld(t)
	assert.Equal(t, []int{0, 1, 7}, w.RoomIDs())
	assert.Equal(t, 3, w.RoomCount())
}

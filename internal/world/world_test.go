package world_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/roomgraph/internal/config"
	"github.com/gyaneshwarpardhi/roomgraph/internal/graph"
	"github.com/gyaneshwarpardhi/roomgraph/internal/world"
)

func buildTestWorld(t *testing.T) *world.World {
	t.Helper()
	cfg := &config.Layout{
		Version: "v1",
		Rooms: []config.RoomDef{
			{ID: 1, Name: "Entrance", Exits: []config.ExitDef{{To: 2, TwoWay: true}, {To: 5}}},
			{ID: 2, Name: "Gallery", Depth: 1, Exits: []config.ExitDef{{To: 3}}},
			{ID: 3, Name: "Stair", Depth: 2, Exits: []config.ExitDef{{To: 4}}},
			{ID: 4, Name: "Vault", Depth: 3},
			{ID: 5, Name: "Chute", Depth: 1, Exits: []config.ExitDef{{To: 4}}},
			{ID: 9, Name: "Sealed", Depth: 9},
		},
	}
	require.NoError(t, config.Validate(cfg))
	w, err := world.Build(cfg)
	require.NoError(t, err)
	return w
}

func TestBuild(t *testing.T) {
	w := buildTestWorld(t)

	assert.Equal(t, world.Stats{Rooms: 6, Exits: 6, FreeSlots: graph.Capacity - 1 - 6}, w.Stats())

	r, ok := w.Room(2)
	require.True(t, ok)
	assert.Equal(t, world.Room{ID: 2, Name: "Gallery", Depth: 1}, r)

	_, ok = w.Room(6)
	assert.False(t, ok)
	_, ok = w.Room(0)
	assert.False(t, ok)

	rooms := w.Rooms()
	require.Len(t, rooms, 6)
	assert.Equal(t, graph.NodeID(1), rooms[0].ID)
	assert.Equal(t, graph.NodeID(9), rooms[5].ID)

	exits, err := w.Exits(1)
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{5, 2}, exits)
	assert.True(t, w.HasExit(2, 1))
	assert.False(t, w.HasExit(4, 3))
}

func TestBuildTwoWaySelfLoop(t *testing.T) {
	w, err := world.Build(&config.Layout{
		Version: "v1",
		Rooms: []config.RoomDef{
			{ID: 1, Name: "Well", Exits: []config.ExitDef{{To: 1, TwoWay: true}}},
		},
	})
	require.NoError(t, err)

	exits, err := w.Exits(1)
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{1}, exits)
	assert.Equal(t, 1, w.Stats().Exits)
}

func TestRoute(t *testing.T) {
	w := buildTestWorld(t)

	route, err := w.Route(1, 4)
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{1, 5, 4}, route.Rooms)
	assert.Equal(t, 2, route.Hops)
	assert.Positive(t, route.Expanded)

	route, err = w.Route(3, 3)
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{3}, route.Rooms)
	assert.Zero(t, route.Hops)

	_, err = w.Route(4, 1)
	assert.ErrorIs(t, err, world.ErrNoRoute)
	_, err = w.Route(1, 9)
	assert.ErrorIs(t, err, world.ErrNoRoute)
	_, err = w.Route(1, 6)
	assert.ErrorIs(t, err, world.ErrUnknownRoom)
	_, err = w.Route(0, 1)
	assert.ErrorIs(t, err, world.ErrInvalidRoom)
	_, err = w.Route(1, graph.Capacity)
	assert.ErrorIs(t, err, world.ErrInvalidRoom)
}

func TestRouteAfterCollapse(t *testing.T) {
	w := buildTestWorld(t)

	require.NoError(t, w.RemoveRoom(5))
	assert.Equal(t, 5, w.Stats().Rooms)
	assert.Equal(t, 4, w.Stats().Exits)

	route, err := w.Route(1, 4)
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{1, 2, 3, 4}, route.Rooms)

	assert.ErrorIs(t, w.RemoveRoom(5), world.ErrUnknownRoom)
	assert.ErrorIs(t, w.Connect(1, 5), world.ErrUnknownRoom)

	require.NoError(t, w.AddRoom(world.Room{ID: 5, Name: "Rebuilt"}))
	exits, err := w.Exits(5)
	require.NoError(t, err)
	assert.Empty(t, exits)
}

func TestConnectDisconnect(t *testing.T) {
	w := buildTestWorld(t)

	require.NoError(t, w.Connect(4, 1))
	require.NoError(t, w.Connect(4, 1))
	route, err := w.Route(4, 2)
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{4, 1, 2}, route.Rooms)

	require.NoError(t, w.Disconnect(4, 1))
	assert.True(t, w.HasExit(4, 1))
	require.NoError(t, w.Disconnect(4, 1))
	assert.False(t, w.HasExit(4, 1))
	assert.ErrorIs(t, w.Disconnect(4, 1), world.ErrNoExit)

	assert.ErrorIs(t, w.Connect(1, 0), world.ErrInvalidRoom)
}

func TestAddRoomErrors(t *testing.T) {
	w := world.New()
	require.NoError(t, w.AddRoom(world.Room{ID: 1, Name: "a"}))
	assert.ErrorIs(t, w.AddRoom(world.Room{ID: 1, Name: "b"}), world.ErrDuplicateRoom)
	assert.ErrorIs(t, w.AddRoom(world.Room{ID: 0, Name: "c"}), world.ErrInvalidRoom)
	assert.ErrorIs(t, w.AddRoom(world.Room{ID: graph.Capacity, Name: "d"}), world.ErrInvalidRoom)
}

func TestLayoutFull(t *testing.T) {
	w := world.New()
	require.NoError(t, w.AddRoom(world.Room{ID: 1, Name: "a"}))
	require.NoError(t, w.AddRoom(world.Room{ID: 2, Name: "b"}))
	for i := 0; i < graph.Capacity-1; i++ {
		require.NoError(t, w.Connect(1, 2))
	}
	assert.ErrorIs(t, w.Connect(2, 1), world.ErrLayoutFull)
	assert.Equal(t, 0, w.Stats().FreeSlots)
}

func TestReachable(t *testing.T) {
	w := buildTestWorld(t)

	got, err := w.Reachable(2)
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{2, 3, 1, 4, 5}, got)

	got, err = w.Reachable(9)
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{9}, got)
}

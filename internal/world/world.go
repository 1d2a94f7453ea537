// Package world keeps the room tables and the layout graph that connects
// them.
//
// Room attributes are flat arrays indexed by room id, the same id space as
// graph.NodeID. Exits are directed graph edges. Nothing here is safe for
// concurrent use; the engine package serialises access.
package world

import (
	"errors"
	"fmt"

	"github.com/gyaneshwarpardhi/roomgraph/internal/graph"
	"github.com/gyaneshwarpardhi/roomgraph/internal/pathfind"
)

var (
	ErrInvalidRoom   = errors.New("room id out of range")
	ErrDuplicateRoom = errors.New("room already exists")
	ErrUnknownRoom   = errors.New("unknown room")
	ErrLayoutFull    = errors.New("no exit slots left")
	ErrNoExit        = errors.New("no such exit")
	ErrNoRoute       = errors.New("no route")
)

// Room is one location.
type Room struct {
	ID          graph.NodeID `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Depth       uint16       `json:"depth"`
}

// Route is a fewest-hops walk between two rooms.
type Route struct {
	Rooms    []graph.NodeID `json:"rooms"`
	Hops     int            `json:"hops"`
	Expanded int            `json:"expanded"`
}

// Stats summarises the world.
type Stats struct {
	Rooms     int `json:"rooms"`
	Exits     int `json:"exits"`
	FreeSlots int `json:"free_slots"`
}

// World is the set of rooms and their exits.
type World struct {
	names        [graph.Capacity]string
	descriptions [graph.Capacity]string
	depth        [graph.Capacity]uint16
	live         [graph.Capacity]bool
	rooms        int

	layout graph.Graph
	finder pathfind.Finder
	path   pathfind.Path
}

// New returns an empty world.
func New() *World {
	w := &World{}
	w.layout.Init()
	return w
}

func (w *World) known(id graph.NodeID) error {
	if !graph.Valid(id) {
		return fmt.Errorf("room %d: %w", id, ErrInvalidRoom)
	}
	if !w.live[id] {
		return fmt.Errorf("room %d: %w", id, ErrUnknownRoom)
	}
	return nil
}

// AddRoom registers r under r.ID.
func (w *World) AddRoom(r Room) error {
	if !graph.Valid(r.ID) {
		return fmt.Errorf("room %d: %w", r.ID, ErrInvalidRoom)
	}
	if w.live[r.ID] {
		return fmt.Errorf("room %d: %w", r.ID, ErrDuplicateRoom)
	}
	w.names[r.ID] = r.Name
	w.descriptions[r.ID] = r.Description
	w.depth[r.ID] = r.Depth
	w.live[r.ID] = true
	w.rooms++
	return nil
}

// Room returns the room with the given id.
func (w *World) Room(id graph.NodeID) (Room, bool) {
	if !graph.Valid(id) || !w.live[id] {
		return Room{}, false
	}
	return Room{
		ID:          id,
		Name:        w.names[id],
		Description: w.descriptions[id],
		Depth:       w.depth[id],
	}, true
}

// Rooms lists every room in ascending id order.
func (w *World) Rooms() []Room {
	out := make([]Room, 0, w.rooms)
	for id := graph.NodeID(1); id < graph.Capacity; id++ {
		if r, ok := w.Room(id); ok {
			out = append(out, r)
		}
	}
	return out
}

// Connect opens a one-way exit from -> to. Several exits between the same
// pair of rooms are allowed.
func (w *World) Connect(from, to graph.NodeID) error {
	if err := w.known(from); err != nil {
		return err
	}
	if err := w.known(to); err != nil {
		return err
	}
	if !w.layout.InsertEdge(from, to) {
		return fmt.Errorf("exit %d->%d: %w", from, to, ErrLayoutFull)
	}
	return nil
}

// Disconnect closes one exit from -> to.
func (w *World) Disconnect(from, to graph.NodeID) error {
	if err := w.known(from); err != nil {
		return err
	}
	if err := w.known(to); err != nil {
		return err
	}
	if !w.layout.DeleteEdge(from, to) {
		return fmt.Errorf("exit %d->%d: %w", from, to, ErrNoExit)
	}
	return nil
}

// RemoveRoom deletes a room together with every exit into or out of it.
// It touches every exit in the world.
func (w *World) RemoveRoom(id graph.NodeID) error {
	if err := w.known(id); err != nil {
		return err
	}
	w.layout.DeleteNode(id)
	w.names[id] = ""
	w.descriptions[id] = ""
	w.depth[id] = 0
	w.live[id] = false
	w.rooms--
	return nil
}

// HasExit reports whether at least one exit from -> to exists.
func (w *World) HasExit(from, to graph.NodeID) bool {
	if w.known(from) != nil || w.known(to) != nil {
		return false
	}
	return w.layout.HasEdge(from, to)
}

// Exits returns the rooms reachable in one step from id, newest exit first.
func (w *World) Exits(id graph.NodeID) ([]graph.NodeID, error) {
	if err := w.known(id); err != nil {
		return nil, err
	}
	return w.layout.AppendNeighbors(nil, id), nil
}

// Route finds a fewest-hops route between two rooms.
func (w *World) Route(from, to graph.NodeID) (Route, error) {
	if err := w.known(from); err != nil {
		return Route{}, err
	}
	if err := w.known(to); err != nil {
		return Route{}, err
	}
	n, ok := w.finder.ShortestPath(&w.layout, from, to, &w.path)
	if !ok {
		return Route{Expanded: w.finder.Expanded()}, fmt.Errorf("%d->%d: %w", from, to, ErrNoRoute)
	}
	rooms := make([]graph.NodeID, n)
	copy(rooms, w.path[:n])
	return Route{Rooms: rooms, Hops: n - 1, Expanded: w.finder.Expanded()}, nil
}

// Reachable lists every room reachable from id, id included, nearest first.
func (w *World) Reachable(id graph.NodeID) ([]graph.NodeID, error) {
	if err := w.known(id); err != nil {
		return nil, err
	}
	var out []graph.NodeID
	w.finder.Reachable(&w.layout, id, func(n graph.NodeID) bool {
		out = append(out, n)
		return true
	})
	return out, nil
}

// Stats returns room and exit counts.
func (w *World) Stats() Stats {
	return Stats{
		Rooms:     w.rooms,
		Exits:     w.layout.Count(),
		FreeSlots: w.layout.Free(),
	}
}

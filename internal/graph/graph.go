// Package graph implements a fixed-capacity directed multigraph.
//
// Nodes are small integers in [1, Capacity). Edges live in a fixed array of
// slots; every slot is threaded on exactly one singly linked list at a time,
// either the adjacency list of some node (rooted at head[node]) or the free
// list (rooted at freeHead). Slot and node 0 are reserved as the list
// terminator and never hold data, which is why None doubles as "no node" and
// "no edge".
//
// Inserting and deleting an edge never allocates: a slot is popped from or
// pushed onto the free list. Out-of-range ids and use before Init are
// programming errors and panic; running out of slots or deleting an edge
// that does not exist is reported through the boolean result and leaves the
// graph unchanged.
//
// A Graph is not safe for concurrent use.
package graph

import "fmt"

// Capacity bounds both node ids and edge slots.
const Capacity = 1024

// NodeID identifies a node. Valid ids are in [1, Capacity).
type NodeID uint16

// EdgeID identifies an edge slot. Valid slots are in [1, Capacity).
type EdgeID uint16

// None is the shared null value for NodeID and EdgeID.
const None = 0

// Graph is the slot storage. The zero value is not ready; call Init or use New.
type Graph struct {
	head     [Capacity]EdgeID // node -> first outgoing slot
	target   [Capacity]NodeID // slot -> destination node
	next     [Capacity]EdgeID // slot -> next slot on its list
	gen      [Capacity]uint32 // slot -> bumped every time the slot is freed
	freeHead EdgeID
	count    int
	ready    bool
}

// New returns an initialised, empty graph.
func New() *Graph {
	g := &Graph{}
	g.Init()
	return g
}

// Init resets g to the canonical empty state regardless of its previous
// contents: no edges, and every slot in [1, Capacity) on the free list in
// ascending order.
func (g *Graph) Init() {
	*g = Graph{}
	for i := 1; i < Capacity-1; i++ {
		g.next[i] = EdgeID(i + 1)
	}
	g.next[Capacity-1] = None
	g.freeHead = 1
	g.ready = true
}

// Count returns the number of edges in use.
func (g *Graph) Count() int {
	g.mustBeReady()
	return g.count
}

// Free returns the number of slots still available for InsertEdge.
func (g *Graph) Free() int {
	g.mustBeReady()
	return Capacity - 1 - g.count
}

// FreeHead returns the slot the next InsertEdge will use, or None when full.
func (g *Graph) FreeHead() EdgeID {
	g.mustBeReady()
	return g.freeHead
}

// InsertEdge adds the edge from -> to in front of from's adjacency list.
// Parallel edges are allowed. It returns false without modifying g when
// every slot is in use.
func (g *Graph) InsertEdge(from, to NodeID) bool {
	_, ok := g.InsertEdgeRef(from, to)
	return ok
}

// InsertEdgeRef is InsertEdge that also returns a reference to the slot it
// used. The reference stops being Live once the edge is deleted, even if the
// slot is later reused.
func (g *Graph) InsertEdgeRef(from, to NodeID) (EdgeRef, bool) {
	g.mustBeReady()
	checkNode(from)
	checkNode(to)

	slot := g.freeHead
	if slot == None {
		return EdgeRef{}, false
	}
	g.freeHead = g.next[slot]

	g.target[slot] = to
	g.next[slot] = g.head[from]
	g.head[from] = slot
	g.count++

	return EdgeRef{Slot: slot, Gen: g.gen[slot], From: from, To: to}, true
}

// DeleteEdge removes the first edge from -> to found on from's adjacency
// list, which is the most recently inserted one. A parallel edge needs a
// second call. It returns false without modifying g when there is no such
// edge.
func (g *Graph) DeleteEdge(from, to NodeID) bool {
	g.mustBeReady()
	checkNode(from)
	checkNode(to)

	prev := EdgeID(None)
	slot := g.head[from]
	// The bound stops a corrupted (cyclic) list from hanging the caller.
	for steps := 0; slot != None && steps < Capacity; steps++ {
		if g.target[slot] != to {
			prev = slot
			slot = g.next[slot]
			continue
		}

		if prev == None {
			g.head[from] = g.next[slot]
		} else {
			g.next[prev] = g.next[slot]
		}
		g.release(slot)
		return true
	}
	return false
}

// release pushes slot onto the free list.
func (g *Graph) release(slot EdgeID) {
	g.target[slot] = None
	g.next[slot] = g.freeHead
	g.freeHead = slot
	g.gen[slot]++
	g.count--
}

// DeleteNode removes every edge leaving or entering node. Incoming edges are
// found by scanning every other node's adjacency list, so the cost grows
// with the total number of edges.
func (g *Graph) DeleteNode(node NodeID) {
	g.mustBeReady()
	checkNode(node)

	// Deleting the edge the cursor just returned is safe: the cursor has
	// already moved to its successor.
	it := g.Neighbors(node)
	for to, ok := it.Next(); ok; to, ok = it.Next() {
		g.DeleteEdge(node, to)
	}

	for from := NodeID(1); from < Capacity; from++ {
		if g.head[from] == None {
			continue
		}
		for g.DeleteEdge(from, node) {
		}
	}

	g.head[node] = None
}

// HasEdge reports whether at least one edge from -> to exists.
func (g *Graph) HasEdge(from, to NodeID) bool {
	g.mustBeReady()
	checkNode(to)

	it := g.Neighbors(from)
	for n, ok := it.Next(); ok; n, ok = it.Next() {
		if n == to {
			return true
		}
	}
	return false
}

// OutDegree returns the number of edges leaving node, parallel edges included.
func (g *Graph) OutDegree(node NodeID) int {
	g.mustBeReady()

	deg := 0
	it := g.Neighbors(node)
	for _, ok := it.Next(); ok; _, ok = it.Next() {
		deg++
	}
	return deg
}

// InDegree returns the number of edges entering node. It scans every
// adjacency list.
func (g *Graph) InDegree(node NodeID) int {
	g.mustBeReady()
	checkNode(node)

	deg := 0
	for from := NodeID(1); from < Capacity; from++ {
		for slot := g.head[from]; slot != None; slot = g.next[slot] {
			if g.target[slot] == node {
				deg++
			}
		}
	}
	return deg
}

// AppendNeighbors appends node's out-neighbours to dst in iteration order
// and returns the extended slice. Unlike Neighbors the result is a snapshot,
// so the caller may mutate g while walking it.
func (g *Graph) AppendNeighbors(dst []NodeID, node NodeID) []NodeID {
	g.mustBeReady()

	it := g.Neighbors(node)
	for n, ok := it.Next(); ok; n, ok = it.Next() {
		dst = append(dst, n)
	}
	return dst
}

// Neighbors returns a cursor over node's outgoing edges, newest first.
//
// The cursor follows the live list rather than a copy. Deleting the edge
// that Next just returned, or any edge already passed, is safe. Deleting an
// edge the cursor has not reached yet is not: the freed slot may be handed
// out again and then be read as a different edge. Use AppendNeighbors when
// the walk needs to mutate the graph.
func (g *Graph) Neighbors(node NodeID) Iterator {
	g.mustBeReady()
	checkNode(node)
	return Iterator{g: g, cursor: g.head[node]}
}

// Live reports whether ref still names the edge it was created for.
func (g *Graph) Live(ref EdgeRef) bool {
	g.mustBeReady()
	if ref.Slot == None || int(ref.Slot) >= Capacity {
		return false
	}
	return g.gen[ref.Slot] == ref.Gen && g.target[ref.Slot] == ref.To && g.onList(ref.From, ref.Slot)
}

func (g *Graph) onList(from NodeID, slot EdgeID) bool {
	if from == None || int(from) >= Capacity {
		return false
	}
	for s := g.head[from]; s != None; s = g.next[s] {
		if s == slot {
			return true
		}
	}
	return false
}

// EdgeRef names one edge instance. Gen tells a slot's current occupant apart
// from earlier ones.
type EdgeRef struct {
	Slot EdgeID
	Gen  uint32
	From NodeID
	To   NodeID
}

// Iterator is a cursor over one node's adjacency list.
type Iterator struct {
	g      *Graph
	cursor EdgeID
}

// Next returns the target of the current edge and advances the cursor. The
// second result is false once the list is exhausted.
func (it *Iterator) Next() (NodeID, bool) {
	if it.g == nil {
		panic(fmt.Errorf("graph: zero Iterator: %w", ErrUninitialized))
	}
	if it.cursor == None {
		return None, false
	}
	to := it.g.target[it.cursor]
	it.cursor = it.g.next[it.cursor]
	return to, true
}

func (g *Graph) mustBeReady() {
	if g == nil || !g.ready {
		panic(fmt.Errorf("graph: %w", ErrUninitialized))
	}
}

func checkNode(n NodeID) {
	if n == None || int(n) >= Capacity {
		panic(fmt.Errorf("graph: node %d: %w", n, ErrOutOfRange))
	}
}

// Ready reports whether g has been initialised.
func (g *Graph) Ready() bool {
	return g != nil && g.ready
}

// Valid reports whether n is a usable node id.
func Valid(n NodeID) bool {
	return n != None && int(n) < Capacity
}

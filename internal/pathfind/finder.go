// Package pathfind answers reachability and fewest-hops questions over a
// graph.Graph with breadth-first search.
//
// A Finder carries its own visited table and frontier, so a search never
// allocates; keep one Finder per graph owner and reuse it. Searches expand
// neighbours in adjacency order (newest edge first), which makes the path
// chosen among several equally short ones deterministic but dependent on
// insertion order.
package pathfind

import (
	"fmt"

	"github.com/gyaneshwarpardhi/roomgraph/internal/graph"
	"github.com/gyaneshwarpardhi/roomgraph/internal/queue"
)

// Path receives a search result: the nodes from start to goal, followed by
// None entries.
type Path [graph.Capacity]graph.NodeID

// State is where the last search ended up.
type State uint8

const (
	StateInit State = iota
	StateExpanding
	StateFound
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateExpanding:
		return "expanding"
	case StateFound:
		return "found"
	case StateExhausted:
		return "exhausted"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Finder runs breadth-first searches. The zero value is ready to use.
// A Finder must not be shared between goroutines.
type Finder struct {
	// parent[n] is the node n was discovered from; None means unvisited and
	// the start node is its own parent.
	parent   [graph.Capacity]graph.NodeID
	frontier queue.Ring[graph.NodeID]
	state    State
	expanded int
}

// State reports how the most recent search finished.
func (f *Finder) State() State { return f.state }

// Expanded returns how many nodes the most recent search expanded.
func (f *Finder) Expanded() int { return f.expanded }

// ShortestPath finds a path from start to goal with the fewest edges and
// writes it to out. It returns the number of nodes written and true, or 0
// and false when goal is unreachable, in which case out is zeroed. When
// start == goal the path is just [start].
//
// Ids outside [1, graph.Capacity) panic with graph.ErrOutOfRange.
func (f *Finder) ShortestPath(g *graph.Graph, start, goal graph.NodeID, out *Path) (int, bool) {
	if out == nil {
		panic("pathfind: nil output path")
	}
	f.seed(g, start)
	mustBeValid(goal)

	for !f.frontier.IsEmpty() {
		current := f.frontier.Pop()
		if current == goal {
			n := f.reconstruct(start, goal, out)
			if n == 0 {
				break
			}
			f.state = StateFound
			return n, true
		}
		f.expand(g, current)
	}

	f.state = StateExhausted
	clear(out[:])
	return 0, false
}

// Reachable visits every node reachable from start, start included, in
// breadth-first order. It stops early when visit returns false and returns
// the number of nodes visited.
func (f *Finder) Reachable(g *graph.Graph, start graph.NodeID, visit func(graph.NodeID) bool) int {
	f.seed(g, start)

	visited := 0
	for !f.frontier.IsEmpty() {
		current := f.frontier.Pop()
		visited++
		if visit != nil && !visit(current) {
			break
		}
		f.expand(g, current)
	}
	f.state = StateExhausted
	return visited
}

func (f *Finder) seed(g *graph.Graph, start graph.NodeID) {
	if !g.Ready() {
		panic(fmt.Errorf("pathfind: %w", graph.ErrUninitialized))
	}
	mustBeValid(start)

	f.state = StateInit
	f.expanded = 0
	clear(f.parent[:])
	f.frontier.Init()

	f.parent[start] = start
	f.frontier.Push(start)
	f.state = StateExpanding
}

func (f *Finder) expand(g *graph.Graph, current graph.NodeID) {
	f.expanded++
	it := g.Neighbors(current)
	for n, ok := it.Next(); ok; n, ok = it.Next() {
		if f.parent[n] != graph.None {
			continue
		}
		f.parent[n] = current
		// Every node is pushed at most once and the ring holds
		// Capacity-1 ids, so this cannot fail on a consistent graph.
		if !f.frontier.Push(n) {
			panic("pathfind: frontier overflow")
		}
	}
}

// reconstruct walks parent links back from goal and writes the path in
// start-to-goal order. It returns 0 if the chain does not lead to start.
func (f *Finder) reconstruct(start, goal graph.NodeID, out *Path) int {
	size := 0
	node := goal
	for node != start && size < len(out)-1 {
		out[size] = node
		size++
		node = f.parent[node]
	}
	if node != start {
		return 0
	}
	out[size] = start
	size++

	for i, j := 0, size-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	clear(out[size:])
	return size
}

func mustBeValid(n graph.NodeID) {
	if !graph.Valid(n) {
		panic(fmt.Errorf("pathfind: node %d: %w", n, graph.ErrOutOfRange))
	}
}

// ShortestPath runs a single search with a throwaway Finder.
func ShortestPath(g *graph.Graph, start, goal graph.NodeID, out *Path) (int, bool) {
	var f Finder
	return f.ShortestPath(g, start, goal, out)
}

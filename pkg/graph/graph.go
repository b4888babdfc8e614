package graph

import (
	"fmt"
	"slices"

	"github.com/SpacialCircumstances/viste/internal/errors"
)

// NodeIndex is a stable handle into a Graph's node arena.
// It stays valid until the node is removed; afterwards the slot may be
// handed out again by AddNode.
type NodeIndex int

// String formats the index as "#n".
func (i NodeIndex) String() string {
	return fmt.Sprintf("#%d", int(i))
}

// Continuation tells a search whether to descend into a node's children.
type Continuation uint8

const (
	// Continue visits the children of the current node.
	Continue Continuation = iota
	// Stop prunes the search below the current node.
	Stop
)

// adjacency holds the ordered neighbor lists of a node.
type adjacency struct {
	parents  []NodeIndex
	children []NodeIndex
}

type slot[T any] struct {
	value  T
	adj    adjacency
	filled bool
}

// Graph is a directed graph stored as an arena of nodes with symmetric
// adjacency lists. Removed slots go onto a FIFO free queue and are reused by
// later insertions, so graphs with heavy churn do not grow without bound.
//
// Graph is not safe for concurrent use.
type Graph[T any] struct {
	nodes []slot[T]
	free  []NodeIndex
	edges int
}

// New creates an empty graph.
func New[T any]() *Graph[T] {
	return &Graph[T]{}
}

// AddNode stores value in a new node and returns its index.
func (g *Graph[T]) AddNode(value T) NodeIndex {
	n := slot[T]{value: value, filled: true}
	if len(g.free) > 0 {
		idx := g.free[0]
		g.free = g.free[1:]
		g.nodes[idx] = n
		return idx
	}
	g.nodes = append(g.nodes, n)
	return NodeIndex(len(g.nodes) - 1)
}

// RemoveNode deletes a node, severs every edge incident to it and returns
// its value. Removing an empty slot panics.
func (g *Graph[T]) RemoveNode(idx NodeIndex) T {
	n := g.slot(idx)
	for _, p := range n.adj.parents {
		parent := g.slot(p)
		parent.adj.children = removeFirst(parent.adj.children, idx)
		g.edges--
	}
	for _, c := range n.adj.children {
		child := g.slot(c)
		child.adj.parents = removeFirst(child.adj.parents, idx)
		g.edges--
	}
	value := n.value
	g.nodes[idx] = slot[T]{}
	g.free = append(g.free, idx)
	return value
}

// AddEdge adds an edge from parent to child.
// Both endpoints must be live nodes.
func (g *Graph[T]) AddEdge(from, to NodeIndex) {
	parent := g.slot(from)
	child := g.slot(to)
	parent.adj.children = append(parent.adj.children, to)
	child.adj.parents = append(child.adj.parents, from)
	g.edges++
}

// RemoveEdge removes one edge from parent to child. If the graph holds
// several identical edges only one is removed. Removing an edge that does
// not exist panics.
func (g *Graph[T]) RemoveEdge(from, to NodeIndex) {
	parent := g.slot(from)
	child := g.slot(to)
	pos := slices.Index(parent.adj.children, to)
	if pos < 0 {
		panic(errors.New("E003").WithDetailf("no edge %v -> %v", from, to))
	}
	parent.adj.children = slices.Delete(parent.adj.children, pos, pos+1)
	child.adj.parents = removeFirst(child.adj.parents, from)
	g.edges--
}

// HasEdge reports whether at least one edge from parent to child exists.
func (g *Graph[T]) HasEdge(from, to NodeIndex) bool {
	return slices.Contains(g.slot(from).adj.children, to)
}

// Contains reports whether idx addresses a live node.
func (g *Graph[T]) Contains(idx NodeIndex) bool {
	return idx >= 0 && int(idx) < len(g.nodes) && g.nodes[idx].filled
}

// Get returns the value stored at idx.
func (g *Graph[T]) Get(idx NodeIndex) T {
	return g.slot(idx).value
}

// Ptr returns a pointer to the value stored at idx. The pointer is
// invalidated by the next AddNode.
func (g *Graph[T]) Ptr(idx NodeIndex) *T {
	return &g.slot(idx).value
}

// Set overwrites the value stored at idx.
func (g *Graph[T]) Set(idx NodeIndex, value T) {
	g.slot(idx).value = value
}

// Parents returns a copy of the parents of idx in insertion order.
func (g *Graph[T]) Parents(idx NodeIndex) []NodeIndex {
	return slices.Clone(g.slot(idx).adj.parents)
}

// Children returns a copy of the children of idx in insertion order.
func (g *Graph[T]) Children(idx NodeIndex) []NodeIndex {
	return slices.Clone(g.slot(idx).adj.children)
}

// NodeCount returns the number of live nodes.
func (g *Graph[T]) NodeCount() int {
	return len(g.nodes) - len(g.free)
}

// EdgeCount returns the number of edges.
func (g *Graph[T]) EdgeCount() int {
	return g.edges
}

// Capacity returns the number of slots in the arena, live or free.
func (g *Graph[T]) Capacity() int {
	return len(g.nodes)
}

// Nodes returns the live node indices in arena order.
func (g *Graph[T]) Nodes() []NodeIndex {
	out := make([]NodeIndex, 0, g.NodeCount())
	for i := range g.nodes {
		if g.nodes[i].filled {
			out = append(out, NodeIndex(i))
		}
	}
	return out
}

func (g *Graph[T]) slot(idx NodeIndex) *slot[T] {
	if !g.Contains(idx) {
		panic(errors.New("E004").WithDetailf("node %v", idx))
	}
	return &g.nodes[idx]
}

func removeFirst(list []NodeIndex, idx NodeIndex) []NodeIndex {
	pos := slices.Index(list, idx)
	if pos < 0 {
		panic(errors.New("E003").WithDetailf("adjacency of %v is inconsistent", idx))
	}
	return slices.Delete(list, pos, pos+1)
}

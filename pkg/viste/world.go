package viste

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/SpacialCircumstances/viste/pkg/graph"
)

// NodeIndex identifies a node in a World's dependency graph.
type NodeIndex = graph.NodeIndex

// DirtyFlag is the dirtiness of a single node. A node is either clean,
// dirty for an unknown reason (all), or dirty because a known set of
// parents produced new data. The zero DirtyFlag is clean.
type DirtyFlag struct {
	all    bool
	causes []NodeIndex
}

// Dirty returns a flag that is unconditionally dirty.
func Dirty() DirtyFlag {
	return DirtyFlag{all: true}
}

// DirtyFrom returns a flag dirtied by the given parents.
func DirtyFrom(parents ...NodeIndex) DirtyFlag {
	f := DirtyFlag{}
	for _, p := range parents {
		f.addCause(p)
	}
	return f
}

// IsDirty reports whether the flag is dirty at all.
func (f DirtyFlag) IsDirty() bool {
	return f.all || len(f.causes) > 0
}

// All reports whether the node must treat every parent as changed.
func (f DirtyFlag) All() bool {
	return f.all
}

// Causes returns the parents that dirtied the node, in the order they were
// recorded. It is empty when the flag is clean or All is set.
func (f DirtyFlag) Causes() []NodeIndex {
	if f.all {
		return nil
	}
	return slices.Clone(f.causes)
}

func (f DirtyFlag) String() string {
	switch {
	case f.all:
		return "dirty"
	case len(f.causes) > 0:
		return fmt.Sprintf("dirty%v", f.causes)
	default:
		return "clean"
	}
}

func (f *DirtyFlag) addCause(parent NodeIndex) {
	if f.all || slices.Contains(f.causes, parent) {
		return
	}
	f.causes = append(f.causes, parent)
}

func (f *DirtyFlag) markAll() {
	f.all = true
	f.causes = nil
}

// Cause describes why a node is being marked dirty.
type Cause struct {
	parent     NodeIndex
	fromParent bool
}

// External is the cause used by entry points whose data changed outside
// the graph (a setter call, a pushed event). The node becomes
// unconditionally dirty.
func External() Cause {
	return Cause{}
}

// FromParent records parent as the reason for the dirtiness.
func FromParent(parent NodeIndex) Cause {
	return Cause{parent: parent, fromParent: true}
}

func (c Cause) String() string {
	if c.fromParent {
		return "parent " + c.parent.String()
	}
	return "external"
}

// World owns the dependency graph shared by every signal built on it.
//
// Nodes are created dirty. MarkDirty pushes dirtiness eagerly down the
// graph; recomputation happens later, when a consumer pulls a value.
//
// A World is single-threaded. All calls on a World and on signals built
// from it must come from one goroutine at a time; pkg/inspect shows how to
// drive a World from concurrent callers.
type World struct {
	deps     *graph.Graph[DirtyFlag]
	logger   *slog.Logger
	observer Observer
}

// WorldOption configures a World.
type WorldOption func(*World)

// WithLogger sets the logger used for node lifecycle debug output.
func WithLogger(logger *slog.Logger) WorldOption {
	return func(w *World) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithObserver installs hooks that receive graph events.
// Use Observers to install several.
func WithObserver(o Observer) WorldOption {
	return func(w *World) {
		if o != nil {
			w.observer = o
		}
	}
}

// NewWorld creates an empty World.
func NewWorld(opts ...WorldOption) *World {
	w := &World{
		deps:     graph.New[DirtyFlag](),
		logger:   slog.Default().With("component", "viste"),
		observer: NoopObserver{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Logger returns the World's logger.
func (w *World) Logger() *slog.Logger {
	return w.logger
}

// CreateNode adds a new, dirty node to the graph.
func (w *World) CreateNode() NodeIndex {
	node := w.deps.AddNode(Dirty())
	w.observer.OnNodeCreated(node)
	return node
}

// DestroyNode removes node together with all its incident edges.
func (w *World) DestroyNode(node NodeIndex) {
	edges := len(w.deps.Parents(node)) + len(w.deps.Children(node))
	w.deps.RemoveNode(node)
	w.observer.OnNodeDestroyed(node, edges)
}

// AddDependency records that child is computed from parent.
func (w *World) AddDependency(parent, child NodeIndex) {
	w.deps.AddEdge(parent, child)
	w.observer.OnDependencyAdded(parent, child)
}

// RemoveDependency removes one parent -> child edge. It panics with E003
// if no such edge exists.
func (w *World) RemoveDependency(parent, child NodeIndex) {
	w.deps.RemoveEdge(parent, child)
	w.observer.OnDependencyRemoved(parent, child)
}

// MarkDirty marks node dirty for the given cause and propagates the
// dirtiness to all descendants. Each child records the parent it was
// reached from. The walk stops below any node that was already dirty,
// since everything beneath it is dirty too; such a node still gains the
// new cause. Marking an unconditionally dirty node is a no-op.
func (w *World) MarkDirty(node NodeIndex, cause Cause) {
	flag := w.deps.Ptr(node)
	if flag.all {
		return
	}
	start := time.Now()
	marked := 0
	if !flag.IsDirty() {
		marked++
	}
	if cause.fromParent {
		flag.addCause(cause.parent)
	} else {
		flag.markAll()
	}

	graph.SearchChildrenMut(w.deps, node, node,
		func(child NodeIndex, f *DirtyFlag, parent NodeIndex) (NodeIndex, graph.Continuation) {
			wasDirty := f.IsDirty()
			f.addCause(parent)
			if wasDirty {
				return child, graph.Stop
			}
			marked++
			return child, graph.Continue
		})

	w.observer.OnMarkDirty(node, marked, time.Since(start))
}

// IsDirty reports whether node is dirty.
func (w *World) IsDirty(node NodeIndex) bool {
	return w.deps.Get(node).IsDirty()
}

// DirtyState returns the current flag of node without changing it.
func (w *World) DirtyState(node NodeIndex) DirtyFlag {
	f := w.deps.Get(node)
	f.causes = slices.Clone(f.causes)
	return f
}

// Unmark clears the dirty flag of node.
func (w *World) Unmark(node NodeIndex) {
	w.deps.Set(node, DirtyFlag{})
}

// ResetDirtyState clears the dirty flag of node and returns the flag it
// had, so multi-parent nodes can pull only the parents that changed.
func (w *World) ResetDirtyState(node NodeIndex) DirtyFlag {
	old := w.deps.Get(node)
	w.deps.Set(node, DirtyFlag{})
	return old
}

// NodeCount returns the number of live nodes.
func (w *World) NodeCount() int {
	return w.deps.NodeCount()
}

// EdgeCount returns the number of dependency edges.
func (w *World) EdgeCount() int {
	return w.deps.EdgeCount()
}

// NodeInfo is the state of one node in a Snapshot.
type NodeInfo struct {
	Node     NodeIndex   `json:"node"`
	Dirty    bool        `json:"dirty"`
	All      bool        `json:"all,omitempty"`
	Causes   []NodeIndex `json:"causes,omitempty"`
	Children []NodeIndex `json:"children,omitempty"`
}

// Snapshot is a point-in-time copy of the dependency graph.
type Snapshot struct {
	Nodes []NodeInfo `json:"nodes"`
	Edges int        `json:"edges"`
}

// Snapshot copies the current graph structure and dirty flags.
func (w *World) Snapshot() Snapshot {
	nodes := w.deps.Nodes()
	s := Snapshot{Nodes: make([]NodeInfo, 0, len(nodes)), Edges: w.deps.EdgeCount()}
	for _, n := range nodes {
		f := w.deps.Get(n)
		s.Nodes = append(s.Nodes, NodeInfo{
			Node:     n,
			Dirty:    f.IsDirty(),
			All:      f.all,
			Causes:   slices.Clone(f.causes),
			Children: w.deps.Children(n),
		})
	}
	return s
}


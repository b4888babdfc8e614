package viste

// NodeState is the graph identity of one computation node: the World it
// lives in and its own NodeIndex. Node implementations embed it to get the
// dependency and dirtiness half of ComputationCore for free.
type NodeState struct {
	world *World
	node  NodeIndex
}

// NewNodeState creates a fresh, dirty node in w. kind is used for logging.
func NewNodeState(w *World, kind string) NodeState {
	n := NodeState{world: w, node: w.CreateNode()}
	w.logger.Debug("node created", "kind", kind, "node", n.node)
	return n
}

// World returns the World the node belongs to.
func (n NodeState) World() *World {
	return n.world
}

// Node returns the node's index.
func (n NodeState) Node() NodeIndex {
	return n.node
}

// AddDependency registers child as computed from this node.
func (n NodeState) AddDependency(child NodeIndex) {
	n.world.AddDependency(n.node, child)
}

// RemoveDependency removes the edge to child.
func (n NodeState) RemoveDependency(child NodeIndex) {
	n.world.RemoveDependency(n.node, child)
}

// IsDirty reports whether the node needs recomputation.
func (n NodeState) IsDirty() bool {
	return n.world.IsDirty(n.node)
}

// Clean clears the node's dirty flag.
func (n NodeState) Clean() {
	n.world.Unmark(n.node)
}

// ResetDirtyState clears the node's dirty flag and returns its old value.
func (n NodeState) ResetDirtyState() DirtyFlag {
	return n.world.ResetDirtyState(n.node)
}

// MarkDirty marks the node dirty and propagates to its dependents.
func (n NodeState) MarkDirty(cause Cause) {
	n.world.MarkDirty(n.node, cause)
}

// Destroy removes the node from the graph.
func (n NodeState) Destroy() {
	n.world.logger.Debug("node destroyed", "node", n.node)
	n.world.DestroyNode(n.node)
}

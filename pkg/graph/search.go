package graph

// Visitor is called once per traversed edge during a read-only search.
// It receives the child node, its value and the state carried along the
// edge, and returns the state to hand to the child's own children.
type Visitor[T, S any] func(child NodeIndex, value T, state S) (S, Continuation)

// MutVisitor is the mutating counterpart of Visitor.
type MutVisitor[T, S any] func(child NodeIndex, value *T, state S) (S, Continuation)

type frontier[S any] struct {
	node  NodeIndex
	state S
}

// SearchChildren walks the descendants of start breadth-first. The start
// node itself is not visited. A node reachable along several paths is
// visited once per path unless the visitor stops the walk there, so the
// visitor is responsible for pruning; on a cyclic graph a visitor that
// never returns Stop does not terminate.
func SearchChildren[T, S any](g *Graph[T], start NodeIndex, state S, visit Visitor[T, S]) {
	queue := []frontier[S]{{node: start, state: state}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, child := range g.slot(cur.node).adj.children {
			next, cont := visit(child, g.slot(child).value, cur.state)
			if cont == Continue {
				queue = append(queue, frontier[S]{node: child, state: next})
			}
		}
	}
}

// SearchChildrenMut is SearchChildren with a visitor that may modify node
// values in place. The visitor must not add or remove nodes or edges.
func SearchChildrenMut[T, S any](g *Graph[T], start NodeIndex, state S, visit MutVisitor[T, S]) {
	queue := []frontier[S]{{node: start, state: state}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, child := range g.slot(cur.node).adj.children {
			next, cont := visit(child, &g.slot(child).value, cur.state)
			if cont == Continue {
				queue = append(queue, frontier[S]{node: child, state: next})
			}
		}
	}
}

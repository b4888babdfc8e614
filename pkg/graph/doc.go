// Package graph provides the node arena underneath the viste dependency
// graph.
//
// Nodes live in a slice and are addressed by NodeIndex. Every node keeps an
// ordered list of parents and children; edges always update both endpoints.
// Removing a node strips it from all neighbors and puts its slot on a free
// queue for reuse.
//
// Two breadth-first primitives walk the descendants of a node:
// SearchChildren (read-only) and SearchChildrenMut (in-place updates). Both
// thread a caller-defined state along each edge and let the visitor prune
// the walk with Stop:
//
//	g := graph.New[bool]()
//	a := g.AddNode(false)
//	b := g.AddNode(false)
//	g.AddEdge(a, b)
//
//	graph.SearchChildrenMut(g, a, struct{}{},
//	    func(_ graph.NodeIndex, dirty *bool, s struct{}) (struct{}, graph.Continuation) {
//	        if *dirty {
//	            return s, graph.Stop
//	        }
//	        *dirty = true
//	        return s, graph.Continue
//	    })
//
// Misuse (an empty slot, a missing edge) panics with a coded error from
// internal/errors.
package graph

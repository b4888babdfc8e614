// Package viste is an incremental dataflow runtime: a graph of computation
// nodes where a change at a source only pushes a dirty bit downstream, and
// the actual recomputation waits until somebody pulls a value.
//
// # Signals and Streams
//
// A ValueSignal produces one current value. Pulling it returns a Result
// that is Changed the first time a reader sees a value and Unchanged
// afterwards. A StreamSignal produces discrete items; each reader has its
// own queue and receives every item pushed after it attached.
//
//	w := viste.NewWorld()
//	set, count := viste.NewMutable(w, 0)
//	label := viste.Map(count, func(n int) string { return fmt.Sprintf("count: %d", n) })
//
//	r := viste.NewChangeReader(label)
//	r.Read() // Changed("count: 0")
//	r.Read() // Unchanged
//	set(5)
//	r.Read() // Changed("count: 5")
//	r.Close()
//
// # Ownership
//
// Every constructor returns a handle that owns one reference to its node.
// Clone adds a reference, Dispose drops one, and the node is removed from
// the graph together with its edges and parent readers once the last
// reference is gone. Using a handle after Dispose panics.
//
// # Dirty propagation
//
// World.MarkDirty walks the descendants of a node breadth-first and stops
// below nodes that are already dirty. Each reached node records the parent
// it was reached from, which lets multi-parent nodes such as Many pull only
// the parents that produced data.
//
// # Threading
//
// A World and everything built on it is single-threaded. Misuse of the
// reader or edge protocol is a programming error and panics with a coded
// error from internal/errors.
package viste

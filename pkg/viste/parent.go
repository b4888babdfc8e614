package viste

import (
	"github.com/SpacialCircumstances/viste/internal/errors"
)

// ParentValueSignal is a node's subscription to one value parent. While
// open it holds a handle to the parent, one dependency edge from the parent
// to the owning node and one reader on the parent.
type ParentValueSignal[T any] struct {
	parent *ValueSignal[T]
	own    NodeIndex
	reader ReaderToken
	closed bool
}

// NewParentValueSignal subscribes own to parent. The wrapper keeps its own
// clone of parent; the caller's handle is not consumed.
func NewParentValueSignal[T any](parent *ValueSignal[T], own NodeIndex) *ParentValueSignal[T] {
	p := &ParentValueSignal[T]{parent: parent.Clone(), own: own}
	p.parent.AddDependency(own)
	p.reader = p.parent.CreateReader()
	return p
}

// Compute pulls the parent through the wrapper's reader.
func (p *ParentValueSignal[T]) Compute() Result[T] {
	return p.parent.Compute(p.reader)
}

// Node returns the index of the current parent.
func (p *ParentValueSignal[T]) Node() NodeIndex {
	return p.parent.Node()
}

// SetParent switches the subscription to parent. The old reader, edge and
// handle are released and a fresh reader is opened on the new parent, so
// the next Compute reports the new parent's value as Changed.
func (p *ParentValueSignal[T]) SetParent(parent *ValueSignal[T]) {
	next := parent.Clone()
	old := p.parent
	old.DestroyReader(p.reader)
	old.RemoveDependency(p.own)
	next.AddDependency(p.own)
	p.parent = next
	p.reader = next.CreateReader()
	old.World().logger.Debug("parent switched", "node", p.own, "from", old.Node(), "to", next.Node())
	old.Dispose()
}

// Close releases the edge, the reader and the parent handle. Closing twice
// panics with E007.
func (p *ParentValueSignal[T]) Close() {
	if p.closed {
		panic(errors.New("E007").WithDetailf("node %v", p.own))
	}
	p.closed = true
	p.parent.World().logger.Debug("removing from parent", "node", p.own, "parent", p.parent.Node())
	p.parent.RemoveDependency(p.own)
	p.parent.DestroyReader(p.reader)
	p.parent.Dispose()
}

// CachedParentValueSignal is a ParentValueSignal that remembers the last
// value it saw, for nodes that need every parent's value on each
// recomputation even if only one of them changed.
type CachedParentValueSignal[T any] struct {
	*ParentValueSignal[T]
	cache T
}

// NewCachedParentValueSignal subscribes own to parent and reads the
// parent's current value.
func NewCachedParentValueSignal[T any](parent *ValueSignal[T], own NodeIndex) *CachedParentValueSignal[T] {
	p := NewParentValueSignal(parent, own)
	return &CachedParentValueSignal[T]{ParentValueSignal: p, cache: p.Compute().MustChanged()}
}

// Compute returns whether the parent changed since the last call, and its
// current value either way.
func (p *CachedParentValueSignal[T]) Compute() (bool, T) {
	if v, ok := p.ParentValueSignal.Compute().Get(); ok {
		p.cache = v
		return true, v
	}
	return false, p.cache
}

// Value returns the cached value without pulling the parent.
func (p *CachedParentValueSignal[T]) Value() T {
	return p.cache
}

// SetParent switches to parent and refreshes the cache from it.
func (p *CachedParentValueSignal[T]) SetParent(parent *ValueSignal[T]) {
	p.ParentValueSignal.SetParent(parent)
	p.cache = p.ParentValueSignal.Compute().MustChanged()
}

// ParentStreamSignal is a node's subscription to one stream parent.
type ParentStreamSignal[T any] struct {
	parent *StreamSignal[T]
	own    NodeIndex
	reader ReaderToken
	closed bool
}

// NewParentStreamSignal subscribes own to parent. Items pushed by the
// parent before this call are not delivered.
func NewParentStreamSignal[T any](parent *StreamSignal[T], own NodeIndex) *ParentStreamSignal[T] {
	p := &ParentStreamSignal[T]{parent: parent.Clone(), own: own}
	p.parent.AddDependency(own)
	p.reader = p.parent.CreateReader()
	return p
}

// Compute returns the next item from the parent.
func (p *ParentStreamSignal[T]) Compute() (T, bool) {
	return p.parent.Compute(p.reader)
}

// Drain calls fn with every item the parent has queued for this wrapper.
func (p *ParentStreamSignal[T]) Drain(fn func(T)) {
	for {
		v, ok := p.parent.Compute(p.reader)
		if !ok {
			return
		}
		fn(v)
	}
}

// Node returns the index of the parent.
func (p *ParentStreamSignal[T]) Node() NodeIndex {
	return p.parent.Node()
}

// Close releases the edge, the reader and the parent handle. Closing twice
// panics with E007.
func (p *ParentStreamSignal[T]) Close() {
	if p.closed {
		panic(errors.New("E007").WithDetailf("node %v", p.own))
	}
	p.closed = true
	p.parent.World().logger.Debug("removing from parent", "node", p.own, "parent", p.parent.Node())
	p.parent.RemoveDependency(p.own)
	p.parent.DestroyReader(p.reader)
	p.parent.Dispose()
}

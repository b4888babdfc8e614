package collections

import (
	"github.com/SpacialCircumstances/viste/pkg/viste"
)

// CollectionSignal is a collection described by its change log. It owns one
// handle to the underlying stream of SetChange values.
type CollectionSignal[T any] struct {
	changes *viste.StreamSignal[SetChange[T]]
}

// New wraps a change stream. The collection takes ownership of changes.
func New[T any](changes *viste.StreamSignal[SetChange[T]]) *CollectionSignal[T] {
	return &CollectionSignal[T]{changes: changes}
}

// Changes returns a new handle to the change stream.
func (c *CollectionSignal[T]) Changes() *viste.StreamSignal[SetChange[T]] {
	return c.changes.Clone()
}

// Clone returns another handle to the same collection.
func (c *CollectionSignal[T]) Clone() *CollectionSignal[T] {
	return &CollectionSignal[T]{changes: c.changes.Clone()}
}

// Dispose releases the collection's stream handle.
func (c *CollectionSignal[T]) Dispose() {
	c.changes.Dispose()
}

// World returns the World the collection lives in.
func (c *CollectionSignal[T]) World() *viste.World {
	return c.changes.World()
}

// Map applies fn to the item of every Added and Removed change. fn must be
// deterministic so that a removal maps to the item that was added.
func Map[I, O any](c *CollectionSignal[I], fn func(I) O) *CollectionSignal[O] {
	return New(viste.MapStream(c.changes, func(ch SetChange[I]) SetChange[O] {
		return SetChange[O]{Kind: ch.Kind, Item: mapItem(ch, fn)}
	}))
}

func mapItem[I, O any](ch SetChange[I], fn func(I) O) O {
	if ch.Kind == KindClear {
		var zero O
		return zero
	}
	return fn(ch.Item)
}

// Filter keeps the items for which pred holds. Clear always passes.
func (c *CollectionSignal[T]) Filter(pred func(T) bool) *CollectionSignal[T] {
	return FilterMap(c, func(item T) (T, bool) {
		return item, pred(item)
	})
}

// FilterMap maps every item through fn and drops those for which fn
// reports false. Clear always passes.
func FilterMap[I, O any](c *CollectionSignal[I], fn func(I) (O, bool)) *CollectionSignal[O] {
	return New(viste.FilterMapStream(c.changes, func(ch SetChange[I]) (SetChange[O], bool) {
		if ch.Kind == KindClear {
			return Clear[O](), true
		}
		item, ok := fn(ch.Item)
		return SetChange[O]{Kind: ch.Kind, Item: item}, ok
	}))
}

// =============================================================================
// CollectionPortal
// =============================================================================

// CollectionPortal is the external entry point of a collection.
type CollectionPortal[T any] struct {
	send func(SetChange[T])
}

// NewPortal creates a collection fed through the returned portal.
func NewPortal[T any](w *viste.World) (*CollectionPortal[T], *CollectionSignal[T]) {
	send, changes := viste.NewPortal[SetChange[T]](w)
	return &CollectionPortal[T]{send: send}, New(changes)
}

// Add records that item joined the collection.
func (p *CollectionPortal[T]) Add(item T) {
	p.send(Added(item))
}

// Remove records that item left the collection.
func (p *CollectionPortal[T]) Remove(item T) {
	p.send(Removed(item))
}

// Clear records that the collection was emptied.
func (p *CollectionPortal[T]) Clear() {
	p.send(Clear[T]())
}

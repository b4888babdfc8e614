package collections

import (
	"github.com/SpacialCircumstances/viste/pkg/viste"
)

// Container is a materialized collection kept up to date by a View.
//
// Apply panics with E008 when a Removed change refers to an item the
// container does not hold.
type Container[T any] interface {
	Apply(change SetChange[T])
	// Items returns the current items in the container's own order.
	Items() []T
	Len() int
}

type view[T any, C Container[T]] struct {
	viste.NodeState
	source    *viste.ParentStreamSignal[SetChange[T]]
	store     *viste.BufferedStore[SetChange[T]]
	container C
}

// sync applies every change the source queued since the last pull and
// forwards it to the view's readers.
func (v *view[T, C]) sync() {
	if !v.IsDirty() {
		return
	}
	v.Clean()
	v.source.Drain(func(ch SetChange[T]) {
		v.container.Apply(ch)
		v.store.Push(ch)
	})
}

func (v *view[T, C]) Compute(reader viste.ReaderToken) (SetChange[T], bool) {
	v.sync()
	return v.store.Read(reader)
}

// CreateReader replays the current contents as Added changes, so a late
// reader rebuilds the same state before it sees live changes.
func (v *view[T, C]) CreateReader() viste.ReaderToken {
	v.sync()
	items := v.container.Items()
	replay := make([]SetChange[T], len(items))
	for i, item := range items {
		replay[i] = Added(item)
	}
	return v.store.CreateReaderWith(replay)
}

func (v *view[T, C]) DestroyReader(reader viste.ReaderToken) {
	v.store.DestroyReader(reader)
}

func (v *view[T, C]) Dispose() {
	v.source.Close()
	v.Destroy()
}

// View is a collection materialized into a container of type C. It is a
// node of its own: pulling it applies pending changes, and its change log
// can be consumed further through Collection.
type View[T any, C Container[T]] struct {
	core   *view[T, C]
	stream *viste.StreamSignal[SetChange[T]]
}

// NewView materializes c into container.
func NewView[T any, C Container[T]](c *CollectionSignal[T], kind string, container C) *View[T, C] {
	n := viste.NewNodeState(c.World(), kind)
	core := &view[T, C]{
		NodeState: n,
		source:    viste.NewParentStreamSignal(c.changes, n.Node()),
		store:     viste.NewBufferedStore[SetChange[T]](),
		container: container,
	}
	return &View[T, C]{core: core, stream: viste.NewStreamSignal[SetChange[T]](core)}
}

// Get applies pending changes and returns the container. Callers must not
// modify it.
func (v *View[T, C]) Get() C {
	v.stream.Node() // E005 after Dispose
	v.core.sync()
	return v.core.container
}

// Items returns the current items in container order.
func (v *View[T, C]) Items() []T {
	return v.Get().Items()
}

// Len returns the current number of items.
func (v *View[T, C]) Len() int {
	return v.Get().Len()
}

// Collection returns the view's change log as a collection. Readers that
// attach to it first receive the current items as Added changes.
func (v *View[T, C]) Collection() *CollectionSignal[T] {
	return New(v.stream.Clone())
}

// Dispose releases the view's handle.
func (v *View[T, C]) Dispose() {
	v.stream.Dispose()
}

package viste

type folder[T, V any] struct {
	NodeState
	source *ParentStreamSignal[T]
	acc    V
	value  *SingleValueStore[V]
	fn     func(V, T) V
}

// Fold turns a stream into a value by reducing every item into an
// accumulator. All items queued since the last pull are folded in one go,
// and the new accumulator is published once per pull.
func Fold[T, V any](source *StreamSignal[T], initial V, fn func(V, T) V) *ValueSignal[V] {
	n := NewNodeState(source.World(), "fold")
	return NewValueSignal[V](&folder[T, V]{
		NodeState: n,
		source:    NewParentStreamSignal(source, n.Node()),
		acc:       initial,
		value:     NewSingleValueStore(initial),
		fn:        fn,
	})
}

func (f *folder[T, V]) Compute(reader ReaderToken) Result[V] {
	if f.IsDirty() {
		f.Clean()
		folded := false
		f.source.Drain(func(item T) {
			f.acc = f.fn(f.acc, item)
			folded = true
		})
		if folded {
			f.value.SetValue(f.acc)
		}
	}
	return f.value.Read(reader)
}

func (f *folder[T, V]) CreateReader() ReaderToken        { return f.value.CreateReader() }
func (f *folder[T, V]) DestroyReader(reader ReaderToken) { f.value.DestroyReader(reader) }

func (f *folder[T, V]) Dispose() {
	f.source.Close()
	f.Destroy()
}

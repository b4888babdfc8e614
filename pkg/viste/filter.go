package viste

// =============================================================================
// Filter
// =============================================================================

type filter[T any] struct {
	NodeState
	source *ParentValueSignal[T]
	value  *SingleValueStore[T]
	pred   func(T) bool
}

// Filter derives a signal that follows s only while pred accepts the new
// value. A rejected value leaves the previous output in place; initial is
// the output until the first accepted value.
func (s *ValueSignal[T]) Filter(pred func(T) bool, initial T) *ValueSignal[T] {
	n := NewNodeState(s.World(), "filter")
	return NewValueSignal[T](&filter[T]{
		NodeState: n,
		source:    NewParentValueSignal(s, n.Node()),
		value:     NewSingleValueStore(initial),
		pred:      pred,
	})
}

func (f *filter[T]) Compute(reader ReaderToken) Result[T] {
	if f.IsDirty() {
		f.Clean()
		if v, ok := f.source.Compute().Get(); ok && f.pred(v) {
			f.value.SetValue(v)
		}
	}
	return f.value.Read(reader)
}

func (f *filter[T]) CreateReader() ReaderToken        { return f.value.CreateReader() }
func (f *filter[T]) DestroyReader(reader ReaderToken) { f.value.DestroyReader(reader) }

func (f *filter[T]) Dispose() {
	f.source.Close()
	f.Destroy()
}

// =============================================================================
// FilterMap
// =============================================================================

type filterMapper[I, O any] struct {
	NodeState
	source *ParentValueSignal[I]
	value  *SingleValueStore[O]
	fn     func(I) (O, bool)
}

// FilterMap derives a signal from the values of source for which fn
// reports true. Other values leave the previous output in place.
func FilterMap[I, O any](source *ValueSignal[I], fn func(I) (O, bool), initial O) *ValueSignal[O] {
	n := NewNodeState(source.World(), "filter_map")
	return NewValueSignal[O](&filterMapper[I, O]{
		NodeState: n,
		source:    NewParentValueSignal(source, n.Node()),
		value:     NewSingleValueStore(initial),
		fn:        fn,
	})
}

func (f *filterMapper[I, O]) Compute(reader ReaderToken) Result[O] {
	if f.IsDirty() {
		f.Clean()
		if v, ok := f.source.Compute().Get(); ok {
			if out, keep := f.fn(v); keep {
				f.value.SetValue(out)
			}
		}
	}
	return f.value.Read(reader)
}

func (f *filterMapper[I, O]) CreateReader() ReaderToken        { return f.value.CreateReader() }
func (f *filterMapper[I, O]) DestroyReader(reader ReaderToken) { f.value.DestroyReader(reader) }

func (f *filterMapper[I, O]) Dispose() {
	f.source.Close()
	f.Destroy()
}

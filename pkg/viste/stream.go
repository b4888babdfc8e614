package viste

// =============================================================================
// MapStream
// =============================================================================

type streamMapper[I, O any] struct {
	NodeState
	source *ParentStreamSignal[I]
	store  *BufferedStore[O]
	fn     func(I) O
}

// MapStream applies fn to every item of source.
func MapStream[I, O any](source *StreamSignal[I], fn func(I) O) *StreamSignal[O] {
	n := NewNodeState(source.World(), "map_stream")
	return NewStreamSignal[O](&streamMapper[I, O]{
		NodeState: n,
		source:    NewParentStreamSignal(source, n.Node()),
		store:     NewBufferedStore[O](),
		fn:        fn,
	})
}

func (m *streamMapper[I, O]) Compute(reader ReaderToken) (O, bool) {
	if m.IsDirty() {
		m.Clean()
		m.source.Drain(func(item I) {
			m.store.Push(m.fn(item))
		})
	}
	return m.store.Read(reader)
}

func (m *streamMapper[I, O]) CreateReader() ReaderToken        { return m.store.CreateReader() }
func (m *streamMapper[I, O]) DestroyReader(reader ReaderToken) { m.store.DestroyReader(reader) }

func (m *streamMapper[I, O]) Dispose() {
	m.source.Close()
	m.Destroy()
}

// =============================================================================
// FilterMapStream
// =============================================================================

type streamFilterMapper[I, O any] struct {
	NodeState
	source *ParentStreamSignal[I]
	store  *BufferedStore[O]
	fn     func(I) (O, bool)
}

// FilterMapStream forwards fn(item) for every item of source for which fn
// reports true.
func FilterMapStream[I, O any](source *StreamSignal[I], fn func(I) (O, bool)) *StreamSignal[O] {
	n := NewNodeState(source.World(), "filter_map_stream")
	return NewStreamSignal[O](&streamFilterMapper[I, O]{
		NodeState: n,
		source:    NewParentStreamSignal(source, n.Node()),
		store:     NewBufferedStore[O](),
		fn:        fn,
	})
}

func (f *streamFilterMapper[I, O]) Compute(reader ReaderToken) (O, bool) {
	if f.IsDirty() {
		f.Clean()
		f.source.Drain(func(item I) {
			if out, keep := f.fn(item); keep {
				f.store.Push(out)
			}
		})
	}
	return f.store.Read(reader)
}

func (f *streamFilterMapper[I, O]) CreateReader() ReaderToken        { return f.store.CreateReader() }
func (f *streamFilterMapper[I, O]) DestroyReader(reader ReaderToken) { f.store.DestroyReader(reader) }

func (f *streamFilterMapper[I, O]) Dispose() {
	f.source.Close()
	f.Destroy()
}

// Filter forwards the items of s accepted by pred.
func (s *StreamSignal[T]) Filter(pred func(T) bool) *StreamSignal[T] {
	return FilterMapStream(s, func(item T) (T, bool) {
		return item, pred(item)
	})
}

// FilterStream is the function form of StreamSignal.Filter.
func FilterStream[T any](source *StreamSignal[T], pred func(T) bool) *StreamSignal[T] {
	return source.Filter(pred)
}

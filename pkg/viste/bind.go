package viste

// =============================================================================
// Bind
// =============================================================================

type binder[I, O any] struct {
	NodeState
	source  *ParentValueSignal[I]
	current *ParentValueSignal[O]
	value   *SingleValueStore[O]
	fn      func(I) *ValueSignal[O]
}

// Bind derives a signal that follows whichever signal fn selects for the
// current value of source. When source changes, the node drops its
// subscription to the old selection and subscribes to the new one; changes
// of a signal that is no longer selected do not reach the result.
//
// The handle returned by fn is owned by Bind and disposed once it has been
// subscribed to. To select a signal that lives on elsewhere, return a Clone
// of it.
func Bind[I, O any](source *ValueSignal[I], fn func(I) *ValueSignal[O]) *ValueSignal[O] {
	n := NewNodeState(source.World(), "bind")
	src := NewParentValueSignal(source, n.Node())
	selected := fn(src.Compute().MustChanged())
	current := NewParentValueSignal(selected, n.Node())
	selected.Dispose()
	return NewValueSignal[O](&binder[I, O]{
		NodeState: n,
		source:    src,
		current:   current,
		value:     NewSingleValueStore(current.Compute().MustChanged()),
		fn:        fn,
	})
}

func (b *binder[I, O]) Compute(reader ReaderToken) Result[O] {
	if b.IsDirty() {
		b.Clean()
		if v, ok := b.source.Compute().Get(); ok {
			selected := b.fn(v)
			b.current.SetParent(selected)
			selected.Dispose()
		}
		if v, ok := b.current.Compute().Get(); ok {
			b.value.SetValue(v)
		}
	}
	return b.value.Read(reader)
}

func (b *binder[I, O]) CreateReader() ReaderToken        { return b.value.CreateReader() }
func (b *binder[I, O]) DestroyReader(reader ReaderToken) { b.value.DestroyReader(reader) }

func (b *binder[I, O]) Dispose() {
	b.source.Close()
	b.current.Close()
	b.Destroy()
}

// =============================================================================
// Bind2
// =============================================================================

type binder2[I1, I2, O any] struct {
	NodeState
	source1 *CachedParentValueSignal[I1]
	source2 *CachedParentValueSignal[I2]
	current *ParentValueSignal[O]
	value   *SingleValueStore[O]
	fn      func(I1, I2) *ValueSignal[O]
}

// Bind2 is Bind with two selector inputs. A change of either input
// reselects using the last known value of the other.
func Bind2[I1, I2, O any](source1 *ValueSignal[I1], source2 *ValueSignal[I2], fn func(I1, I2) *ValueSignal[O]) *ValueSignal[O] {
	n := NewNodeState(source1.World(), "bind2")
	s1 := NewCachedParentValueSignal(source1, n.Node())
	s2 := NewCachedParentValueSignal(source2, n.Node())
	selected := fn(s1.Value(), s2.Value())
	current := NewParentValueSignal(selected, n.Node())
	selected.Dispose()
	return NewValueSignal[O](&binder2[I1, I2, O]{
		NodeState: n,
		source1:   s1,
		source2:   s2,
		current:   current,
		value:     NewSingleValueStore(current.Compute().MustChanged()),
		fn:        fn,
	})
}

func (b *binder2[I1, I2, O]) Compute(reader ReaderToken) Result[O] {
	if b.IsDirty() {
		b.Clean()
		changed1, v1 := b.source1.Compute()
		changed2, v2 := b.source2.Compute()
		if changed1 || changed2 {
			selected := b.fn(v1, v2)
			b.current.SetParent(selected)
			selected.Dispose()
		}
		if v, ok := b.current.Compute().Get(); ok {
			b.value.SetValue(v)
		}
	}
	return b.value.Read(reader)
}

func (b *binder2[I1, I2, O]) CreateReader() ReaderToken        { return b.value.CreateReader() }
func (b *binder2[I1, I2, O]) DestroyReader(reader ReaderToken) { b.value.DestroyReader(reader) }

func (b *binder2[I1, I2, O]) Dispose() {
	b.source1.Close()
	b.source2.Close()
	b.current.Close()
	b.Destroy()
}

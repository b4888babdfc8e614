package viste

// =============================================================================
// Map
// =============================================================================

type mapper[I, O any] struct {
	NodeState
	source *ParentValueSignal[I]
	value  *SingleValueStore[O]
	fn     func(I) O
}

// Map derives a value signal by applying fn to source. fn runs once at
// construction and afterwards only when source has changed and the result
// is pulled.
func Map[I, O any](source *ValueSignal[I], fn func(I) O) *ValueSignal[O] {
	n := NewNodeState(source.World(), "map")
	src := NewParentValueSignal(source, n.Node())
	initial := fn(src.Compute().MustChanged())
	return NewValueSignal[O](&mapper[I, O]{
		NodeState: n,
		source:    src,
		value:     NewSingleValueStore(initial),
		fn:        fn,
	})
}

func (m *mapper[I, O]) Compute(reader ReaderToken) Result[O] {
	if m.IsDirty() {
		m.Clean()
		if v, ok := m.source.Compute().Get(); ok {
			m.value.SetValue(m.fn(v))
		}
	}
	return m.value.Read(reader)
}

func (m *mapper[I, O]) CreateReader() ReaderToken        { return m.value.CreateReader() }
func (m *mapper[I, O]) DestroyReader(reader ReaderToken) { m.value.DestroyReader(reader) }

func (m *mapper[I, O]) Dispose() {
	m.source.Close()
	m.Destroy()
}

// =============================================================================
// Map2
// =============================================================================

type mapper2[I1, I2, O any] struct {
	NodeState
	source1 *CachedParentValueSignal[I1]
	source2 *CachedParentValueSignal[I2]
	value   *SingleValueStore[O]
	fn      func(I1, I2) O
}

// Map2 derives a value signal from two sources. It recomputes when either
// source changed, using the last known value of the other.
func Map2[I1, I2, O any](source1 *ValueSignal[I1], source2 *ValueSignal[I2], fn func(I1, I2) O) *ValueSignal[O] {
	n := NewNodeState(source1.World(), "map2")
	s1 := NewCachedParentValueSignal(source1, n.Node())
	s2 := NewCachedParentValueSignal(source2, n.Node())
	return NewValueSignal[O](&mapper2[I1, I2, O]{
		NodeState: n,
		source1:   s1,
		source2:   s2,
		value:     NewSingleValueStore(fn(s1.Value(), s2.Value())),
		fn:        fn,
	})
}

func (m *mapper2[I1, I2, O]) Compute(reader ReaderToken) Result[O] {
	if m.IsDirty() {
		m.Clean()
		changed1, v1 := m.source1.Compute()
		changed2, v2 := m.source2.Compute()
		if changed1 || changed2 {
			m.value.SetValue(m.fn(v1, v2))
		}
	}
	return m.value.Read(reader)
}

func (m *mapper2[I1, I2, O]) CreateReader() ReaderToken        { return m.value.CreateReader() }
func (m *mapper2[I1, I2, O]) DestroyReader(reader ReaderToken) { m.value.DestroyReader(reader) }

func (m *mapper2[I1, I2, O]) Dispose() {
	m.source1.Close()
	m.source2.Close()
	m.Destroy()
}

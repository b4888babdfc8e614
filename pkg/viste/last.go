package viste

// =============================================================================
// Last
// =============================================================================

type last[T any] struct {
	NodeState
	source *ParentStreamSignal[T]
	value  *SingleValueStore[T]
}

// Last turns s into a value holding its most recent item, or initial until
// the first item arrives.
func (s *StreamSignal[T]) Last(initial T) *ValueSignal[T] {
	n := NewNodeState(s.World(), "last")
	return NewValueSignal[T](&last[T]{
		NodeState: n,
		source:    NewParentStreamSignal(s, n.Node()),
		value:     NewSingleValueStore(initial),
	})
}

func (l *last[T]) Compute(reader ReaderToken) Result[T] {
	if l.IsDirty() {
		l.Clean()
		var latest T
		got := false
		l.source.Drain(func(item T) {
			latest, got = item, true
		})
		if got {
			l.value.SetValue(latest)
		}
	}
	return l.value.Read(reader)
}

func (l *last[T]) CreateReader() ReaderToken        { return l.value.CreateReader() }
func (l *last[T]) DestroyReader(reader ReaderToken) { l.value.DestroyReader(reader) }

func (l *last[T]) Dispose() {
	l.source.Close()
	l.Destroy()
}

// =============================================================================
// Changes
// =============================================================================

type changes[T any] struct {
	NodeState
	source *ParentValueSignal[T]
	store  *BufferedStore[T]
}

// Changes turns s into a stream that emits every new value of s, starting
// with its current value on the first pull.
func (s *ValueSignal[T]) Changes() *StreamSignal[T] {
	n := NewNodeState(s.World(), "changes")
	return NewStreamSignal[T](&changes[T]{
		NodeState: n,
		source:    NewParentValueSignal(s, n.Node()),
		store:     NewBufferedStore[T](),
	})
}

func (c *changes[T]) Compute(reader ReaderToken) (T, bool) {
	if c.IsDirty() {
		c.Clean()
		if v, ok := c.source.Compute().Get(); ok {
			c.store.Push(v)
		}
	}
	return c.store.Read(reader)
}

func (c *changes[T]) CreateReader() ReaderToken        { return c.store.CreateReader() }
func (c *changes[T]) DestroyReader(reader ReaderToken) { c.store.DestroyReader(reader) }

func (c *changes[T]) Dispose() {
	c.source.Close()
	c.Destroy()
}

// =============================================================================
// Count
// =============================================================================

type counter[T any] struct {
	NodeState
	source *ParentStreamSignal[T]
	value  *SingleValueStore[uint64]
}

// Count turns s into a value holding the number of items seen so far.
func (s *StreamSignal[T]) Count() *ValueSignal[uint64] {
	n := NewNodeState(s.World(), "count")
	return NewValueSignal[uint64](&counter[T]{
		NodeState: n,
		source:    NewParentStreamSignal(s, n.Node()),
		value:     NewSingleValueStore[uint64](0),
	})
}

func (c *counter[T]) Compute(reader ReaderToken) Result[uint64] {
	if c.IsDirty() {
		c.Clean()
		n := c.value.Get()
		c.source.Drain(func(T) { n++ })
		c.value.SetValue(n)
	}
	return c.value.Read(reader)
}

func (c *counter[T]) CreateReader() ReaderToken        { return c.value.CreateReader() }
func (c *counter[T]) DestroyReader(reader ReaderToken) { c.value.DestroyReader(reader) }

func (c *counter[T]) Dispose() {
	c.source.Close()
	c.Destroy()
}

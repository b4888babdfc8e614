package viste

// =============================================================================
// ZipMap
// =============================================================================

type zipMapper[I1, I2, O any] struct {
	NodeState
	source1  *ParentStreamSignal[I1]
	source2  *ParentStreamSignal[I2]
	queue1   []I1
	queue2   []I2
	store    *BufferedStore[O]
	fn       func(I1, I2) O
}

// ZipMap pairs the items of two streams by position and emits fn of each
// pair. Items of the source that is ahead wait until their partner
// arrives.
func ZipMap[I1, I2, O any](source1 *StreamSignal[I1], source2 *StreamSignal[I2], fn func(I1, I2) O) *StreamSignal[O] {
	n := NewNodeState(source1.World(), "zip_map")
	return NewStreamSignal[O](&zipMapper[I1, I2, O]{
		NodeState: n,
		source1:   NewParentStreamSignal(source1, n.Node()),
		source2:   NewParentStreamSignal(source2, n.Node()),
		store:     NewBufferedStore[O](),
		fn:        fn,
	})
}

func (z *zipMapper[I1, I2, O]) Compute(reader ReaderToken) (O, bool) {
	if z.IsDirty() {
		z.Clean()
		// Both sides are drained every cycle so neither parent stays dirty
		// under a clean zip.
		z.source1.Drain(func(v I1) { z.queue1 = append(z.queue1, v) })
		z.source2.Drain(func(v I2) { z.queue2 = append(z.queue2, v) })
		n := min(len(z.queue1), len(z.queue2))
		for i := 0; i < n; i++ {
			z.store.Push(z.fn(z.queue1[i], z.queue2[i]))
		}
		z.queue1 = shift(z.queue1, n)
		z.queue2 = shift(z.queue2, n)
	}
	return z.store.Read(reader)
}

// shift drops the first n items, releasing them for the collector.
func shift[T any](q []T, n int) []T {
	clear(q[:n])
	if n == len(q) {
		return q[:0]
	}
	return q[n:]
}

func (z *zipMapper[I1, I2, O]) CreateReader() ReaderToken        { return z.store.CreateReader() }
func (z *zipMapper[I1, I2, O]) DestroyReader(reader ReaderToken) { z.store.DestroyReader(reader) }

func (z *zipMapper[I1, I2, O]) Dispose() {
	z.source1.Close()
	z.source2.Close()
	z.Destroy()
}

// =============================================================================
// CombineMap
// =============================================================================

type combineMapper[I1, I2, O any] struct {
	NodeState
	source1 *ParentStreamSignal[I1]
	source2 *ParentStreamSignal[I2]
	last1   *I1
	last2   *I2
	store   *BufferedStore[O]
	fn      func(I1, I2) O
}

// CombineMap emits fn(a, b) for every item of either stream, paired with
// the latest item of the other one. Nothing is emitted until both streams
// have produced at least one item. On each pull the first stream is
// drained before the second.
func CombineMap[I1, I2, O any](source1 *StreamSignal[I1], source2 *StreamSignal[I2], fn func(I1, I2) O) *StreamSignal[O] {
	n := NewNodeState(source1.World(), "combine_map")
	return NewStreamSignal[O](&combineMapper[I1, I2, O]{
		NodeState: n,
		source1:   NewParentStreamSignal(source1, n.Node()),
		source2:   NewParentStreamSignal(source2, n.Node()),
		store:     NewBufferedStore[O](),
		fn:        fn,
	})
}

func (c *combineMapper[I1, I2, O]) Compute(reader ReaderToken) (O, bool) {
	if c.IsDirty() {
		c.Clean()
		c.source1.Drain(func(v1 I1) {
			c.last1 = &v1
			if c.last2 != nil {
				c.store.Push(c.fn(v1, *c.last2))
			}
		})
		c.source2.Drain(func(v2 I2) {
			c.last2 = &v2
			if c.last1 != nil {
				c.store.Push(c.fn(*c.last1, v2))
			}
		})
	}
	return c.store.Read(reader)
}

func (c *combineMapper[I1, I2, O]) CreateReader() ReaderToken        { return c.store.CreateReader() }
func (c *combineMapper[I1, I2, O]) DestroyReader(reader ReaderToken) { c.store.DestroyReader(reader) }

func (c *combineMapper[I1, I2, O]) Dispose() {
	c.source1.Close()
	c.source2.Close()
	c.Destroy()
}

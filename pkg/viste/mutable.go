package viste

import (
	"github.com/SpacialCircumstances/viste/internal/errors"
)

// =============================================================================
// Mutable
// =============================================================================

type mutable[T any] struct {
	NodeState
	value    *SingleValueStore[T]
	disposed bool
}

// NewMutable creates a value signal that is changed from outside the graph
// through the returned setter. Setting a value equal to the current one
// does nothing; any other value marks the signal and its dependents dirty.
// Calling the setter after the signal has been disposed panics with E005.
func NewMutable[T any](w *World, initial T) (func(T), *ValueSignal[T]) {
	return newMutable(w, NewSingleValueStore(initial))
}

// NewMutableFunc is NewMutable with a custom equality.
func NewMutableFunc[T any](w *World, initial T, equal EqualFunc[T]) (func(T), *ValueSignal[T]) {
	return newMutable(w, NewSingleValueStoreFunc(initial, equal))
}

func newMutable[T any](w *World, store *SingleValueStore[T]) (func(T), *ValueSignal[T]) {
	m := &mutable[T]{NodeState: NewNodeState(w, "mutable"), value: store}
	return m.set, NewValueSignal[T](m)
}

func (m *mutable[T]) set(value T) {
	if m.disposed {
		panic(errors.New("E005").WithDetail("setter of a disposed mutable"))
	}
	if m.value.SetValue(value) {
		m.MarkDirty(External())
	}
}

func (m *mutable[T]) Compute(reader ReaderToken) Result[T] {
	m.Clean()
	return m.value.Read(reader)
}

func (m *mutable[T]) CreateReader() ReaderToken        { return m.value.CreateReader() }
func (m *mutable[T]) DestroyReader(reader ReaderToken) { m.value.DestroyReader(reader) }

func (m *mutable[T]) Dispose() {
	m.disposed = true
	m.Destroy()
}

// =============================================================================
// Constant
// =============================================================================

type constant[T any] struct {
	NodeState
	value *SingleValueStore[T]
}

// NewConstant creates a value signal that never changes. Its node is clean
// from the start and is never marked dirty.
func NewConstant[T any](w *World, value T) *ValueSignal[T] {
	c := &constant[T]{NodeState: NewNodeState(w, "constant"), value: NewSingleValueStore(value)}
	c.Clean()
	return NewValueSignal[T](c)
}

func (c *constant[T]) Compute(reader ReaderToken) Result[T] {
	return c.value.Read(reader)
}

func (c *constant[T]) CreateReader() ReaderToken        { return c.value.CreateReader() }
func (c *constant[T]) DestroyReader(reader ReaderToken) { c.value.DestroyReader(reader) }
func (c *constant[T]) Dispose()                         { c.Destroy() }

// =============================================================================
// Portal
// =============================================================================

type portal[T any] struct {
	NodeState
	store    *BufferedStore[T]
	disposed bool
}

// NewPortal creates a stream fed from outside the graph. Every item passed
// to the returned send function is queued for each reader attached at that
// moment, and the stream's dependents are marked dirty.
func NewPortal[T any](w *World) (func(T), *StreamSignal[T]) {
	p := &portal[T]{NodeState: NewNodeState(w, "portal"), store: NewBufferedStore[T]()}
	return p.send, NewStreamSignal[T](p)
}

func (p *portal[T]) send(value T) {
	if p.disposed {
		panic(errors.New("E005").WithDetail("sender of a disposed portal"))
	}
	p.store.Push(value)
	p.MarkDirty(External())
}

func (p *portal[T]) Compute(reader ReaderToken) (T, bool) {
	p.Clean()
	return p.store.Read(reader)
}

func (p *portal[T]) CreateReader() ReaderToken        { return p.store.CreateReader() }
func (p *portal[T]) DestroyReader(reader ReaderToken) { p.store.DestroyReader(reader) }

func (p *portal[T]) Dispose() {
	p.disposed = true
	p.Destroy()
}

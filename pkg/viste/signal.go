package viste

import (
	"fmt"

	"github.com/SpacialCircumstances/viste/internal/errors"
)

// ComputationCore is the part of the node contract shared by value and
// stream nodes. Embedding NodeState provides everything except the reader
// methods and Dispose.
type ComputationCore interface {
	CreateReader() ReaderToken
	DestroyReader(reader ReaderToken)
	AddDependency(child NodeIndex)
	RemoveDependency(child NodeIndex)
	IsDirty() bool
	World() *World
	Node() NodeIndex

	// Dispose releases the node's parents and removes it from the graph.
	// It is called once, when the last handle to the core is disposed.
	Dispose()
}

// ValueCore is a node that produces one current value.
//
// Compute must only recompute while the node is dirty; on a clean node it
// serves reader's pending state from the node's store and nothing else.
type ValueCore[T any] interface {
	ComputationCore
	Compute(reader ReaderToken) Result[T]
}

// StreamCore is a node that produces a sequence of items. Compute returns
// the next item queued for reader, or false when the queue is empty.
type StreamCore[T any] interface {
	ComputationCore
	Compute(reader ReaderToken) (T, bool)
}

// shared is the reference-counted cell behind a set of handle clones.
type shared[C ComputationCore] struct {
	core C
	refs int
}

func (s *shared[C]) release() {
	s.refs--
	if s.refs == 0 {
		s.core.Dispose()
	}
}

// =============================================================================
// ValueSignal
// =============================================================================

// ValueSignal is a handle to a value node. Handles are cheap: Clone returns
// another handle to the same node, and the node lives until every handle
// has been disposed.
type ValueSignal[T any] struct {
	shared   *shared[ValueCore[T]]
	disposed bool
}

// NewValueSignal wraps core in its first handle.
func NewValueSignal[T any](core ValueCore[T]) *ValueSignal[T] {
	return &ValueSignal[T]{shared: &shared[ValueCore[T]]{core: core, refs: 1}}
}

func (s *ValueSignal[T]) core() ValueCore[T] {
	if s.disposed {
		panic(errors.New("E005").WithDetail("value signal"))
	}
	return s.shared.core
}

// Clone returns a new handle to the same node.
func (s *ValueSignal[T]) Clone() *ValueSignal[T] {
	s.core()
	s.shared.refs++
	return &ValueSignal[T]{shared: s.shared}
}

// Dispose releases this handle. Disposing the last handle of a node
// disposes the node. Calling Dispose twice on the same handle is a no-op.
func (s *ValueSignal[T]) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	s.shared.release()
}

// Compute pulls the node for reader.
func (s *ValueSignal[T]) Compute(reader ReaderToken) Result[T] {
	return s.core().Compute(reader)
}

// CreateReader attaches a new consumer to the node.
func (s *ValueSignal[T]) CreateReader() ReaderToken {
	return s.core().CreateReader()
}

// DestroyReader detaches a consumer created by CreateReader.
func (s *ValueSignal[T]) DestroyReader(reader ReaderToken) {
	s.core().DestroyReader(reader)
}

// AddDependency registers child as a dependent of the node.
func (s *ValueSignal[T]) AddDependency(child NodeIndex) {
	s.core().AddDependency(child)
}

// RemoveDependency removes child from the node's dependents.
func (s *ValueSignal[T]) RemoveDependency(child NodeIndex) {
	s.core().RemoveDependency(child)
}

// IsDirty reports whether the node is dirty.
func (s *ValueSignal[T]) IsDirty() bool {
	return s.core().IsDirty()
}

// World returns the World the node lives in.
func (s *ValueSignal[T]) World() *World {
	return s.core().World()
}

// Node returns the node's index.
func (s *ValueSignal[T]) Node() NodeIndex {
	return s.core().Node()
}

// String reports the dirtiness and current value. Reading the value pulls
// the node, so the node is clean afterwards.
func (s *ValueSignal[T]) String() string {
	dirty := s.IsDirty()
	return fmt.Sprintf("ValueSignal{node: %v, dirty: %t, value: %v}", s.Node(), dirty, ReadOnce(s))
}

// =============================================================================
// StreamSignal
// =============================================================================

// StreamSignal is a handle to a stream node. It follows the same ownership
// rules as ValueSignal.
type StreamSignal[T any] struct {
	shared   *shared[StreamCore[T]]
	disposed bool
}

// NewStreamSignal wraps core in its first handle.
func NewStreamSignal[T any](core StreamCore[T]) *StreamSignal[T] {
	return &StreamSignal[T]{shared: &shared[StreamCore[T]]{core: core, refs: 1}}
}

func (s *StreamSignal[T]) core() StreamCore[T] {
	if s.disposed {
		panic(errors.New("E005").WithDetail("stream signal"))
	}
	return s.shared.core
}

// Clone returns a new handle to the same node.
func (s *StreamSignal[T]) Clone() *StreamSignal[T] {
	s.core()
	s.shared.refs++
	return &StreamSignal[T]{shared: s.shared}
}

// Dispose releases this handle. Disposing the last handle of a node
// disposes the node. Calling Dispose twice on the same handle is a no-op.
func (s *StreamSignal[T]) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	s.shared.release()
}

// Compute returns the next item queued for reader.
func (s *StreamSignal[T]) Compute(reader ReaderToken) (T, bool) {
	return s.core().Compute(reader)
}

// CreateReader attaches a new consumer to the node.
func (s *StreamSignal[T]) CreateReader() ReaderToken {
	return s.core().CreateReader()
}

// DestroyReader detaches a consumer created by CreateReader.
func (s *StreamSignal[T]) DestroyReader(reader ReaderToken) {
	s.core().DestroyReader(reader)
}

// AddDependency registers child as a dependent of the node.
func (s *StreamSignal[T]) AddDependency(child NodeIndex) {
	s.core().AddDependency(child)
}

// RemoveDependency removes child from the node's dependents.
func (s *StreamSignal[T]) RemoveDependency(child NodeIndex) {
	s.core().RemoveDependency(child)
}

// IsDirty reports whether the node is dirty.
func (s *StreamSignal[T]) IsDirty() bool {
	return s.core().IsDirty()
}

// World returns the World the node lives in.
func (s *StreamSignal[T]) World() *World {
	return s.core().World()
}

// Node returns the node's index.
func (s *StreamSignal[T]) Node() NodeIndex {
	return s.core().Node()
}

func (s *StreamSignal[T]) String() string {
	return fmt.Sprintf("StreamSignal{node: %v, dirty: %t}", s.Node(), s.IsDirty())
}

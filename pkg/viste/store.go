package viste

import (
	"fmt"

	"github.com/SpacialCircumstances/viste/internal/errors"
	"github.com/SpacialCircumstances/viste/internal/slab"
)

// ReaderToken identifies one consumer of a node. Tokens are issued by
// CreateReader, are only meaningful to the node that issued them and must
// be returned through DestroyReader exactly once.
type ReaderToken struct {
	key slab.Key
}

func (t ReaderToken) String() string {
	return fmt.Sprintf("reader %d", t.key.Index())
}

// Store is the per-reader bookkeeping shared by all node outputs.
type Store interface {
	CreateReader() ReaderToken
	DestroyReader(reader ReaderToken)
}

// =============================================================================
// SingleValueStore
// =============================================================================

// SingleValueStore holds one current value and remembers, per reader,
// whether that reader has already seen it.
type SingleValueStore[T any] struct {
	value T
	seen  *slab.Slab[bool]
	equal EqualFunc[T]
}

// NewSingleValueStore creates a store holding initial.
func NewSingleValueStore[T any](initial T) *SingleValueStore[T] {
	return &SingleValueStore[T]{value: initial, seen: slab.New[bool]()}
}

// NewSingleValueStoreFunc creates a store that compares values with equal
// instead of the default data equality.
func NewSingleValueStoreFunc[T any](initial T, equal EqualFunc[T]) *SingleValueStore[T] {
	s := NewSingleValueStore(initial)
	s.equal = equal
	return s
}

// SetValue replaces the stored value and marks it unseen for every reader.
// Writing a value equal to the current one is ignored. It reports whether
// the value changed.
func (s *SingleValueStore[T]) SetValue(value T) bool {
	if !changed(s.equal, s.value, value) {
		return false
	}
	s.value = value
	s.seen.Each(func(_ slab.Key, seen *bool) {
		*seen = false
	})
	return true
}

// Read returns Changed(value) the first time reader asks after a write and
// Unchanged afterwards.
func (s *SingleValueStore[T]) Read(reader ReaderToken) Result[T] {
	seen, ok := s.seen.Get(reader.key)
	if !ok {
		panic(errors.New("E001").WithDetailf("%v", reader))
	}
	if *seen {
		return Unchanged[T]()
	}
	*seen = true
	return Changed(s.value)
}

// Get returns the current value without touching any reader state.
func (s *SingleValueStore[T]) Get() T {
	return s.value
}

// Readers returns the number of attached readers.
func (s *SingleValueStore[T]) Readers() int {
	return s.seen.Len()
}

// CreateReader attaches a reader that has not seen the current value.
func (s *SingleValueStore[T]) CreateReader() ReaderToken {
	return ReaderToken{key: s.seen.Insert(false)}
}

// DestroyReader detaches reader. It panics with E001 for an unknown token.
func (s *SingleValueStore[T]) DestroyReader(reader ReaderToken) {
	if _, ok := s.seen.Remove(reader.key); !ok {
		panic(errors.New("E001").WithDetailf("%v", reader))
	}
}

// =============================================================================
// BufferedStore
// =============================================================================

// BufferedStore keeps a FIFO queue per reader. Every pushed item is
// appended to the queue of each reader attached at the time of the push,
// so readers drain the full history since they attached, independently of
// each other.
type BufferedStore[T any] struct {
	queues *slab.Slab[[]T]
}

// NewBufferedStore creates a store without readers.
func NewBufferedStore[T any]() *BufferedStore[T] {
	return &BufferedStore[T]{queues: slab.New[[]T]()}
}

// Push appends value to every reader's queue.
func (s *BufferedStore[T]) Push(value T) {
	s.queues.Each(func(_ slab.Key, q *[]T) {
		*q = append(*q, value)
	})
}

// PushExcept appends value to every reader's queue except skip's.
func (s *BufferedStore[T]) PushExcept(value T, skip ReaderToken) {
	s.queues.Each(func(key slab.Key, q *[]T) {
		if key != skip.key {
			*q = append(*q, value)
		}
	})
}

// Read pops the head of reader's queue. The second result is false when
// the queue is empty.
func (s *BufferedStore[T]) Read(reader ReaderToken) (T, bool) {
	q := s.queue(reader)
	var zero T
	if len(*q) == 0 {
		return zero, false
	}
	value := (*q)[0]
	(*q)[0] = zero
	*q = (*q)[1:]
	if len(*q) == 0 {
		*q = nil
	}
	return value, true
}

// Pending returns the number of items queued for reader.
func (s *BufferedStore[T]) Pending(reader ReaderToken) int {
	return len(*s.queue(reader))
}

// Readers returns the number of attached readers.
func (s *BufferedStore[T]) Readers() int {
	return s.queues.Len()
}

// CreateReader attaches a reader with an empty queue. Items pushed before
// the call are not delivered to it.
func (s *BufferedStore[T]) CreateReader() ReaderToken {
	return s.CreateReaderWith(nil)
}

// CreateReaderWith attaches a reader whose queue starts with preload.
// Nodes use it to replay their current state to late subscribers.
func (s *BufferedStore[T]) CreateReaderWith(preload []T) ReaderToken {
	var q []T
	if len(preload) > 0 {
		q = append(q, preload...)
	}
	return ReaderToken{key: s.queues.Insert(q)}
}

// DestroyReader detaches reader and drops its queue. It panics with E001
// for an unknown token.
func (s *BufferedStore[T]) DestroyReader(reader ReaderToken) {
	if _, ok := s.queues.Remove(reader.key); !ok {
		panic(errors.New("E001").WithDetailf("%v", reader))
	}
}

func (s *BufferedStore[T]) queue(reader ReaderToken) *[]T {
	q, ok := s.queues.Get(reader.key)
	if !ok {
		panic(errors.New("E001").WithDetailf("%v", reader))
	}
	return q
}

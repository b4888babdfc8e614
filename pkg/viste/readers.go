package viste

import "iter"

// ChangeReader is a consumer of a value signal that owns its reader
// token. Close it when done.
type ChangeReader[T any] struct {
	signal *ValueSignal[T]
	token  ReaderToken
}

// NewChangeReader attaches a reader to signal. The reader holds its own
// handle clone.
func NewChangeReader[T any](signal *ValueSignal[T]) *ChangeReader[T] {
	s := signal.Clone()
	return &ChangeReader[T]{signal: s, token: s.CreateReader()}
}

// Read pulls the signal. The first Read always reports Changed.
func (r *ChangeReader[T]) Read() Result[T] {
	return r.signal.Compute(r.token)
}

// Close destroys the reader and releases its handle.
func (r *ChangeReader[T]) Close() {
	r.signal.DestroyReader(r.token)
	r.signal.Dispose()
}

// StreamReader is a consumer of a stream signal that owns its reader
// token. Close it when done.
type StreamReader[T any] struct {
	signal *StreamSignal[T]
	token  ReaderToken
}

// NewStreamReader attaches a reader to signal.
func NewStreamReader[T any](signal *StreamSignal[T]) *StreamReader[T] {
	s := signal.Clone()
	return &StreamReader[T]{signal: s, token: s.CreateReader()}
}

// Read returns the next item, or false if none is queued.
func (r *StreamReader[T]) Read() (T, bool) {
	return r.signal.Compute(r.token)
}

// All yields the queued items until the queue is empty.
func (r *StreamReader[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, ok := r.Read()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// Close destroys the reader and releases its handle.
func (r *StreamReader[T]) Close() {
	r.signal.DestroyReader(r.token)
	r.signal.Dispose()
}

// ReadOnce reads the current value of signal through a temporary reader.
func ReadOnce[T any](signal *ValueSignal[T]) T {
	reader := signal.CreateReader()
	defer signal.DestroyReader(reader)
	return signal.Compute(reader).MustChanged()
}

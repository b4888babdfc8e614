package viste

import "iter"

type fromIter[T any] struct {
	NodeState
	store *BufferedStore[T]
	next  func() (T, bool)
	stop  func()
}

// FromIter exposes seq as a stream. Items are pulled lazily: a reader with
// an empty queue advances the sequence by one item, receives it directly,
// and every other reader gets it queued. Dependent nodes drain the whole
// sequence on their first pull, so seq must be finite if it feeds any.
//
// The sequence is stopped when the stream is disposed.
func FromIter[T any](w *World, seq iter.Seq[T]) *StreamSignal[T] {
	next, stop := iter.Pull(seq)
	return NewStreamSignal[T](&fromIter[T]{
		NodeState: NewNodeState(w, "from_iter"),
		store:     NewBufferedStore[T](),
		next:      next,
		stop:      stop,
	})
}

func (f *fromIter[T]) Compute(reader ReaderToken) (T, bool) {
	f.Clean()
	if v, ok := f.store.Read(reader); ok {
		return v, true
	}
	v, ok := f.next()
	if !ok {
		return v, false
	}
	f.store.PushExcept(v, reader)
	return v, true
}

func (f *fromIter[T]) CreateReader() ReaderToken        { return f.store.CreateReader() }
func (f *fromIter[T]) DestroyReader(reader ReaderToken) { f.store.DestroyReader(reader) }

func (f *fromIter[T]) Dispose() {
	f.stop()
	f.Destroy()
}

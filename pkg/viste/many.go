package viste

import (
	"github.com/SpacialCircumstances/viste/internal/errors"
)

type many[T any] struct {
	NodeState
	sources []*ParentStreamSignal[T]
	byNode  map[NodeIndex][]*ParentStreamSignal[T]
	store   *BufferedStore[T]
}

// Many merges any number of streams into one. Items are forwarded as soon
// as they are pulled, with no pairing or cold start. Only the sources that
// caused the current dirty cycle are pulled.
func Many[T any](w *World, sources ...*StreamSignal[T]) *StreamSignal[T] {
	m := &many[T]{
		NodeState: NewNodeState(w, "many"),
		byNode:    make(map[NodeIndex][]*ParentStreamSignal[T], len(sources)),
		store:     NewBufferedStore[T](),
	}
	for _, s := range sources {
		p := NewParentStreamSignal(s, m.Node())
		m.sources = append(m.sources, p)
		m.byNode[p.Node()] = append(m.byNode[p.Node()], p)
	}
	return NewStreamSignal[T](m)
}

func (m *many[T]) Compute(reader ReaderToken) (T, bool) {
	flag := m.ResetDirtyState()
	switch {
	case flag.All():
		for _, s := range m.sources {
			s.Drain(m.store.Push)
		}
	case flag.IsDirty():
		for _, cause := range flag.Causes() {
			sources, ok := m.byNode[cause]
			if !ok {
				panic(errors.New("E006").WithDetailf("%v is not a source of %v", cause, m.Node()))
			}
			for _, s := range sources {
				s.Drain(m.store.Push)
			}
		}
	}
	return m.store.Read(reader)
}

func (m *many[T]) CreateReader() ReaderToken        { return m.store.CreateReader() }
func (m *many[T]) DestroyReader(reader ReaderToken) { m.store.DestroyReader(reader) }

func (m *many[T]) Dispose() {
	for _, s := range m.sources {
		s.Close()
	}
	m.Destroy()
}

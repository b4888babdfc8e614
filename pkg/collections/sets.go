package collections

import (
	"cmp"
	"iter"
	"maps"
	"slices"

	"github.com/google/btree"

	"github.com/SpacialCircumstances/viste/internal/errors"
)

// btreeDegree is the node degree of every B-tree backed container.
const btreeDegree = 32

func missing(kind string, item any) *errors.VisteError {
	return errors.New("E008").WithDetailf("%s: %v", kind, item)
}

// =============================================================================
// SetHash
// =============================================================================

// SetHash is an unordered set.
type SetHash[T comparable] struct {
	items map[T]struct{}
}

func NewSetHash[T comparable]() *SetHash[T] {
	return &SetHash[T]{items: make(map[T]struct{})}
}

func (s *SetHash[T]) Apply(change SetChange[T]) {
	switch change.Kind {
	case KindAdded:
		s.items[change.Item] = struct{}{}
	case KindRemoved:
		if _, ok := s.items[change.Item]; !ok {
			panic(missing("hash set", change.Item))
		}
		delete(s.items, change.Item)
	case KindClear:
		clear(s.items)
	}
}

// Items returns the members in no particular order.
func (s *SetHash[T]) Items() []T { return slices.Collect(maps.Keys(s.items)) }
func (s *SetHash[T]) Len() int   { return len(s.items) }
func (s *SetHash[T]) Contains(item T) bool {
	_, ok := s.items[item]
	return ok
}

// ViewSetHash materializes c into a hash set.
func ViewSetHash[T comparable](c *CollectionSignal[T]) *View[T, *SetHash[T]] {
	return NewView(c, "view_set_hash", NewSetHash[T]())
}

// =============================================================================
// SetBTree
// =============================================================================

// SetBTree is a set ordered by a less function.
type SetBTree[T any] struct {
	tree *btree.BTreeG[T]
}

func NewSetBTree[T any](less func(a, b T) bool) *SetBTree[T] {
	return &SetBTree[T]{tree: btree.NewG(btreeDegree, less)}
}

func (s *SetBTree[T]) Apply(change SetChange[T]) {
	switch change.Kind {
	case KindAdded:
		s.tree.ReplaceOrInsert(change.Item)
	case KindRemoved:
		if _, ok := s.tree.Delete(change.Item); !ok {
			panic(missing("btree set", change.Item))
		}
	case KindClear:
		s.tree.Clear(false)
	}
}

// All yields the members in ascending order.
func (s *SetBTree[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		s.tree.Ascend(func(item T) bool { return yield(item) })
	}
}

// Items returns the members in ascending order.
func (s *SetBTree[T]) Items() []T           { return slices.Collect(s.All()) }
func (s *SetBTree[T]) Len() int             { return s.tree.Len() }
func (s *SetBTree[T]) Contains(item T) bool { return s.tree.Has(item) }
func (s *SetBTree[T]) Min() (T, bool)       { return s.tree.Min() }
func (s *SetBTree[T]) Max() (T, bool)       { return s.tree.Max() }

// ViewSetBTree materializes c into a set in natural order.
func ViewSetBTree[T cmp.Ordered](c *CollectionSignal[T]) *View[T, *SetBTree[T]] {
	return NewView(c, "view_set_btree", NewSetBTree(cmp.Less[T]))
}

// ViewSetBTreeFunc materializes c into a set ordered by less.
func ViewSetBTreeFunc[T any](c *CollectionSignal[T], less func(a, b T) bool) *View[T, *SetBTree[T]] {
	return NewView(c, "view_set_btree", NewSetBTree(less))
}

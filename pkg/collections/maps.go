package collections

import (
	"cmp"
	"iter"
	"maps"
	"slices"

	"github.com/google/btree"
)

// =============================================================================
// MapHash
// =============================================================================

// MapHash indexes items by a key derived from each item. Adding an item
// whose key is present replaces the stored item.
type MapHash[K comparable, T any] struct {
	key   func(T) K
	items map[K]T
}

func NewMapHash[K comparable, T any](key func(T) K) *MapHash[K, T] {
	return &MapHash[K, T]{key: key, items: make(map[K]T)}
}

func (m *MapHash[K, T]) Apply(change SetChange[T]) {
	switch change.Kind {
	case KindAdded:
		m.items[m.key(change.Item)] = change.Item
	case KindRemoved:
		k := m.key(change.Item)
		if _, ok := m.items[k]; !ok {
			panic(missing("hash map", k))
		}
		delete(m.items, k)
	case KindClear:
		clear(m.items)
	}
}

// Get returns the item stored under k.
func (m *MapHash[K, T]) Get(k K) (T, bool) {
	item, ok := m.items[k]
	return item, ok
}

// Items returns the stored items in no particular order.
func (m *MapHash[K, T]) Items() []T { return slices.Collect(maps.Values(m.items)) }
func (m *MapHash[K, T]) Len() int   { return len(m.items) }

// ViewMapHash materializes c into a hash map keyed by key.
func ViewMapHash[T any, K comparable](c *CollectionSignal[T], key func(T) K) *View[T, *MapHash[K, T]] {
	return NewView(c, "view_map_hash", NewMapHash(key))
}

// =============================================================================
// MapBTree
// =============================================================================

type entry[K, T any] struct {
	key  K
	item T
}

// MapBTree indexes items by a key derived from each item and keeps them
// in ascending key order.
type MapBTree[K cmp.Ordered, T any] struct {
	key  func(T) K
	tree *btree.BTreeG[entry[K, T]]
}

func NewMapBTree[K cmp.Ordered, T any](key func(T) K) *MapBTree[K, T] {
	less := func(a, b entry[K, T]) bool { return a.key < b.key }
	return &MapBTree[K, T]{key: key, tree: btree.NewG(btreeDegree, less)}
}

func (m *MapBTree[K, T]) Apply(change SetChange[T]) {
	switch change.Kind {
	case KindAdded:
		m.tree.ReplaceOrInsert(entry[K, T]{key: m.key(change.Item), item: change.Item})
	case KindRemoved:
		k := m.key(change.Item)
		if _, ok := m.tree.Delete(entry[K, T]{key: k}); !ok {
			panic(missing("btree map", k))
		}
	case KindClear:
		m.tree.Clear(false)
	}
}

// Get returns the item stored under k.
func (m *MapBTree[K, T]) Get(k K) (T, bool) {
	e, ok := m.tree.Get(entry[K, T]{key: k})
	return e.item, ok
}

// All yields key and item pairs in ascending key order.
func (m *MapBTree[K, T]) All() iter.Seq2[K, T] {
	return func(yield func(K, T) bool) {
		m.tree.Ascend(func(e entry[K, T]) bool { return yield(e.key, e.item) })
	}
}

// Keys returns the keys in ascending order.
func (m *MapBTree[K, T]) Keys() []K {
	keys := make([]K, 0, m.tree.Len())
	for k := range m.All() {
		keys = append(keys, k)
	}
	return keys
}

// Items returns the stored items in ascending key order.
func (m *MapBTree[K, T]) Items() []T {
	items := make([]T, 0, m.tree.Len())
	for _, item := range m.All() {
		items = append(items, item)
	}
	return items
}

func (m *MapBTree[K, T]) Len() int { return m.tree.Len() }

// ViewMapBTree materializes c into an ordered map keyed by key.
func ViewMapBTree[T any, K cmp.Ordered](c *CollectionSignal[T], key func(T) K) *View[T, *MapBTree[K, T]] {
	return NewView(c, "view_map_btree", NewMapBTree(key))
}

package collections

import (
	"cmp"
	"slices"

	"github.com/SpacialCircumstances/viste/internal/errors"
	"github.com/SpacialCircumstances/viste/pkg/viste"
)

// =============================================================================
// Vec
// =============================================================================

// Vec keeps items in the order they were added. Removing an item deletes
// its first equal occurrence.
type Vec[T any] struct {
	items []T
}

func NewVec[T any]() *Vec[T] {
	return &Vec[T]{}
}

func (v *Vec[T]) Apply(change SetChange[T]) {
	switch change.Kind {
	case KindAdded:
		v.items = append(v.items, change.Item)
	case KindRemoved:
		i := slices.IndexFunc(v.items, func(item T) bool { return viste.Equal(item, change.Item) })
		if i < 0 {
			panic(missing("vec", change.Item))
		}
		v.items = slices.Delete(v.items, i, i+1)
	case KindClear:
		clear(v.items)
		v.items = v.items[:0]
	}
}

func (v *Vec[T]) At(i int) T { return v.items[i] }
func (v *Vec[T]) Items() []T { return slices.Clone(v.items) }
func (v *Vec[T]) Len() int   { return len(v.items) }

// ViewVec materializes c into a vector in arrival order.
func ViewVec[T any](c *CollectionSignal[T]) *View[T, *Vec[T]] {
	return NewView(c, "view_vec", NewVec[T]())
}

// =============================================================================
// VecSorted
// =============================================================================

// VecSorted keeps items sorted by a key derived from each item. Keys are
// unique: adding an item whose key is present replaces it in place.
type VecSorted[K cmp.Ordered, T any] struct {
	key   func(T) K
	items []T
}

func NewVecSorted[K cmp.Ordered, T any](key func(T) K) *VecSorted[K, T] {
	return &VecSorted[K, T]{key: key}
}

func (v *VecSorted[K, T]) search(k K) (int, bool) {
	return slices.BinarySearchFunc(v.items, k, func(item T, k K) int {
		return cmp.Compare(v.key(item), k)
	})
}

func (v *VecSorted[K, T]) Apply(change SetChange[T]) {
	switch change.Kind {
	case KindAdded:
		i, found := v.search(v.key(change.Item))
		if found {
			v.items[i] = change.Item
		} else {
			v.items = slices.Insert(v.items, i, change.Item)
		}
	case KindRemoved:
		k := v.key(change.Item)
		i, found := v.search(k)
		if !found {
			panic(missing("sorted vec", k))
		}
		v.items = slices.Delete(v.items, i, i+1)
	case KindClear:
		clear(v.items)
		v.items = v.items[:0]
	}
}

// Find returns the item with key k.
func (v *VecSorted[K, T]) Find(k K) (T, bool) {
	if i, found := v.search(k); found {
		return v.items[i], true
	}
	var zero T
	return zero, false
}

func (v *VecSorted[K, T]) At(i int) T { return v.items[i] }
func (v *VecSorted[K, T]) Items() []T { return slices.Clone(v.items) }
func (v *VecSorted[K, T]) Len() int   { return len(v.items) }

// ViewVecSorted materializes c into a vector sorted by key.
func ViewVecSorted[T any, K cmp.Ordered](c *CollectionSignal[T], key func(T) K) *View[T, *VecSorted[K, T]] {
	return NewView(c, "view_vec_sorted", NewVecSorted(key))
}

// =============================================================================
// VecIndexed
// =============================================================================

// VecIndexed places every item at the position given by index. Positions
// between items stay empty; an item added at an occupied position replaces
// the previous one.
type VecIndexed[T any] struct {
	index func(T) int
	slots []T
	used  []bool
	count int
}

func NewVecIndexed[T any](index func(T) int) *VecIndexed[T] {
	return &VecIndexed[T]{index: index}
}

func (v *VecIndexed[T]) Apply(change SetChange[T]) {
	switch change.Kind {
	case KindAdded:
		i := v.index(change.Item)
		if i < 0 {
			panic(errors.New("E009").WithDetailf("index %d for %v", i, change.Item))
		}
		if i >= len(v.slots) {
			v.slots = append(v.slots, make([]T, i+1-len(v.slots))...)
			v.used = append(v.used, make([]bool, i+1-len(v.used))...)
		}
		if !v.used[i] {
			v.count++
		}
		v.slots[i], v.used[i] = change.Item, true
	case KindRemoved:
		i := v.index(change.Item)
		if i < 0 || i >= len(v.slots) || !v.used[i] {
			panic(missing("indexed vec", i))
		}
		var zero T
		v.slots[i], v.used[i] = zero, false
		v.count--
	case KindClear:
		clear(v.slots)
		clear(v.used)
		v.count = 0
	}
}

// At returns the item at position i, if any.
func (v *VecIndexed[T]) At(i int) (T, bool) {
	if i < 0 || i >= len(v.slots) || !v.used[i] {
		var zero T
		return zero, false
	}
	return v.slots[i], true
}

// Items returns the present items in position order.
func (v *VecIndexed[T]) Items() []T {
	items := make([]T, 0, v.count)
	for i, ok := range v.used {
		if ok {
			items = append(items, v.slots[i])
		}
	}
	return items
}

func (v *VecIndexed[T]) Len() int { return v.count }

// ViewVecIndexed materializes c into a vector addressed by index.
func ViewVecIndexed[T any](c *CollectionSignal[T], index func(T) int) *View[T, *VecIndexed[T]] {
	return NewView(c, "view_vec_indexed", NewVecIndexed(index))
}

package viste

import (
	"github.com/cespare/xxhash/v2"
)

type cache[T any] struct {
	NodeState
	source *ParentStreamSignal[T]
	store  *BufferedStore[T]

	// same reports whether item repeats the last forwarded item and
	// remembers item as the new last one.
	same func(item T) bool
}

func newCache[T any](source *StreamSignal[T], kind string, same func(T) bool) *StreamSignal[T] {
	n := NewNodeState(source.World(), kind)
	return NewStreamSignal[T](&cache[T]{
		NodeState: n,
		source:    NewParentStreamSignal(source, n.Node()),
		store:     NewBufferedStore[T](),
		same:      same,
	})
}

func (c *cache[T]) Compute(reader ReaderToken) (T, bool) {
	if c.IsDirty() {
		c.Clean()
		c.source.Drain(func(item T) {
			if !c.same(item) {
				c.store.Push(item)
			}
		})
	}
	return c.store.Read(reader)
}

func (c *cache[T]) CreateReader() ReaderToken        { return c.store.CreateReader() }
func (c *cache[T]) DestroyReader(reader ReaderToken) { c.store.DestroyReader(reader) }

func (c *cache[T]) Dispose() {
	c.source.Close()
	c.Destroy()
}

// Cached drops items of s that are equal to the item forwarded just before
// them. Equality follows the same rules as value signals.
func (s *StreamSignal[T]) Cached() *StreamSignal[T] {
	var last T
	seen := false
	return newCache(s, "cached", func(item T) bool {
		repeat := seen && !changed(nil, last, item)
		last, seen = item, true
		return repeat
	})
}

// CachedClone is Cached for item types that share memory, such as slices.
// The last forwarded item is kept as clone(item), so later mutation of
// the original does not affect the comparison.
func CachedClone[T any](source *StreamSignal[T], clone func(T) T) *StreamSignal[T] {
	var last T
	seen := false
	return newCache(source, "cached_clone", func(item T) bool {
		repeat := seen && !changed(nil, last, item)
		last, seen = clone(item), true
		return repeat
	})
}

// CachedBy drops items whose key equals the key of the item forwarded just
// before them.
func CachedBy[T any, K comparable](source *StreamSignal[T], key func(T) K) *StreamSignal[T] {
	var last K
	seen := false
	return newCache(source, "cached_by", func(item T) bool {
		k := key(item)
		repeat := seen && k == last
		last, seen = k, true
		return repeat
	})
}

// CachedHash drops items whose xxhash digest equals that of the item
// forwarded just before them. encode writes the identifying bytes of an
// item into the digest.
func CachedHash[T any](source *StreamSignal[T], encode func(d *xxhash.Digest, item T)) *StreamSignal[T] {
	d := xxhash.New()
	return CachedBy(source, func(item T) uint64 {
		d.Reset()
		encode(d, item)
		return d.Sum64()
	})
}

// HashString is an encode function for CachedHash over string streams.
func HashString(d *xxhash.Digest, s string) {
	_, _ = d.WriteString(s)
}

// Package slab provides a generational slot map: a slice-backed collection
// whose entries are addressed by small keys that stay valid until the entry
// is removed. Freed slots are reused in FIFO order, and every reuse bumps the
// slot's generation so that a key to a removed entry is never confused with
// the entry that later occupies the same slot.
package slab

// Key addresses one entry of a Slab.
// The zero Key is never returned by Insert.
type Key struct {
	index uint32
	gen   uint32
}

// Index returns the slot index of the key. Useful for logging only.
func (k Key) Index() int {
	return int(k.index)
}

type entry[T any] struct {
	value    T
	gen      uint32
	occupied bool
}

// Slab stores values of type T under generational keys.
type Slab[T any] struct {
	entries []entry[T]
	free    []uint32
	len     int
}

// New creates an empty slab.
func New[T any]() *Slab[T] {
	return &Slab[T]{}
}

// Insert stores value and returns its key.
func (s *Slab[T]) Insert(value T) Key {
	s.len++
	if len(s.free) > 0 {
		idx := s.free[0]
		s.free = s.free[1:]
		e := &s.entries[idx]
		e.gen++
		e.value = value
		e.occupied = true
		return Key{index: idx, gen: e.gen}
	}
	s.entries = append(s.entries, entry[T]{value: value, gen: 1, occupied: true})
	return Key{index: uint32(len(s.entries) - 1), gen: 1}
}

// Get returns a pointer to the value stored under key.
// The second result is false if the key is stale or foreign.
func (s *Slab[T]) Get(key Key) (*T, bool) {
	if int(key.index) >= len(s.entries) {
		return nil, false
	}
	e := &s.entries[key.index]
	if !e.occupied || e.gen != key.gen {
		return nil, false
	}
	return &e.value, true
}

// Contains reports whether key addresses a live entry.
func (s *Slab[T]) Contains(key Key) bool {
	_, ok := s.Get(key)
	return ok
}

// Remove deletes the entry under key and returns its value.
// The second result is false if the key is stale or foreign.
func (s *Slab[T]) Remove(key Key) (T, bool) {
	var zero T
	if !s.Contains(key) {
		return zero, false
	}
	e := &s.entries[key.index]
	value := e.value
	e.value = zero
	e.occupied = false
	s.free = append(s.free, key.index)
	s.len--
	return value, true
}

// Each calls fn for every live entry in slot order.
func (s *Slab[T]) Each(fn func(key Key, value *T)) {
	for i := range s.entries {
		e := &s.entries[i]
		if e.occupied {
			fn(Key{index: uint32(i), gen: e.gen}, &e.value)
		}
	}
}

// Len returns the number of live entries.
func (s *Slab[T]) Len() int {
	return s.len
}

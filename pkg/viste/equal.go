package viste

import "reflect"

// Changer lets a value type decide for itself whether it differs from a
// previous value. Stores prefer it over the built-in comparison.
type Changer[T any] interface {
	Changed(old T) bool
}

// EqualFunc reports whether two values carry the same data.
type EqualFunc[T any] func(a, b T) bool

// changed reports whether next differs from prev. equal wins if non-nil,
// then a Changer implementation, then defaultEquals.
func changed[T any](equal EqualFunc[T], prev, next T) bool {
	if equal != nil {
		return !equal(prev, next)
	}
	if c, ok := any(next).(Changer[T]); ok {
		return c.Changed(prev)
	}
	return !defaultEquals(prev, next)
}

// Equal reports whether a and b carry the same data under the rules used
// by value stores without a custom equality.
func Equal[T any](a, b T) bool {
	return !changed(nil, a, b)
}

// defaultEquals compares basic kinds with == and everything else with
// reflect.DeepEqual.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		return same(av, any(b))
	case int8:
		return same(av, any(b))
	case int16:
		return same(av, any(b))
	case int32:
		return same(av, any(b))
	case int64:
		return same(av, any(b))
	case uint:
		return same(av, any(b))
	case uint8:
		return same(av, any(b))
	case uint16:
		return same(av, any(b))
	case uint32:
		return same(av, any(b))
	case uint64:
		return same(av, any(b))
	case float32:
		return same(av, any(b))
	case float64:
		return same(av, any(b))
	case string:
		return same(av, any(b))
	case bool:
		return same(av, any(b))
	default:
		// Slices, maps, structs, pointers, and interface values whose
		// dynamic types differ.
		return reflect.DeepEqual(a, b)
	}
}

// same compares av with b, which may hold a different dynamic type when T
// is an interface.
func same[V comparable](av V, b any) bool {
	bv, ok := b.(V)
	return ok && av == bv
}

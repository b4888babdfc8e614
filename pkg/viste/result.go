package viste

import (
	"fmt"

	"github.com/SpacialCircumstances/viste/internal/errors"
)

// Result is the outcome of pulling a value signal: either the value
// changed since this reader last saw it, or it did not. The zero Result
// is Unchanged and carries no payload.
type Result[T any] struct {
	value   T
	changed bool
}

// Changed wraps a value the reader has not seen yet.
func Changed[T any](value T) Result[T] {
	return Result[T]{value: value, changed: true}
}

// Unchanged returns the result for a reader that is up to date.
func Unchanged[T any]() Result[T] {
	return Result[T]{}
}

// IsChanged reports whether the result carries a new value.
func (r Result[T]) IsChanged() bool {
	return r.changed
}

// Get returns the value and whether it is new. For an Unchanged result the
// value is the zero T.
func (r Result[T]) Get() (T, bool) {
	return r.value, r.changed
}

// MustChanged returns the new value. It panics with E002 when the result
// is Unchanged.
func (r Result[T]) MustChanged() T {
	if !r.changed {
		panic(errors.New("E002"))
	}
	return r.value
}

func (r Result[T]) String() string {
	if !r.changed {
		return "Unchanged"
	}
	return fmt.Sprintf("Changed(%v)", r.value)
}

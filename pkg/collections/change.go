package collections

import (
	"fmt"

	"github.com/SpacialCircumstances/viste/pkg/viste"
)

// ChangeKind identifies the variant of a SetChange.
type ChangeKind uint8

const (
	KindAdded ChangeKind = iota + 1
	KindRemoved
	KindClear
)

func (k ChangeKind) String() string {
	switch k {
	case KindAdded:
		return "Added"
	case KindRemoved:
		return "Removed"
	case KindClear:
		return "Clear"
	default:
		return fmt.Sprintf("ChangeKind(%d)", uint8(k))
	}
}

// SetChange is one entry of a collection's change log. Item is meaningless
// for KindClear.
type SetChange[T any] struct {
	Kind ChangeKind
	Item T
}

// Added reports that item joined the collection.
func Added[T any](item T) SetChange[T] {
	return SetChange[T]{Kind: KindAdded, Item: item}
}

// Removed reports that item left the collection.
func Removed[T any](item T) SetChange[T] {
	return SetChange[T]{Kind: KindRemoved, Item: item}
}

// Clear reports that every item left the collection.
func Clear[T any]() SetChange[T] {
	return SetChange[T]{Kind: KindClear}
}

// Changed implements viste.Changer. Two changes are the same if they have
// the same kind and equal items; two Clears are always the same.
func (c SetChange[T]) Changed(old SetChange[T]) bool {
	if c.Kind != old.Kind {
		return true
	}
	if c.Kind == KindClear {
		return false
	}
	return !viste.Equal(old.Item, c.Item)
}

func (c SetChange[T]) String() string {
	if c.Kind == KindClear {
		return "Clear"
	}
	return fmt.Sprintf("%v(%v)", c.Kind, c.Item)
}

package viste

import (
	"slices"
	"testing"
	"time"

	"github.com/SpacialCircumstances/viste/internal/errors"
)

func expectPanicCode(t *testing.T, code string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic with %s", code)
		}
		if got := errors.Code(r); got != code {
			t.Fatalf("expected panic code %s, got %q (%v)", code, got, r)
		}
	}()
	fn()
}

func collect[T any](r *StreamReader[T]) []T {
	return slices.Collect(r.All())
}

type countingObserver struct {
	created, destroyed int
	added, removed     int
	marks              []int
}

func (o *countingObserver) OnNodeCreated(NodeIndex)            { o.created++ }
func (o *countingObserver) OnNodeDestroyed(NodeIndex, int)     { o.destroyed++ }
func (o *countingObserver) OnDependencyAdded(_, _ NodeIndex)   { o.added++ }
func (o *countingObserver) OnDependencyRemoved(_, _ NodeIndex) { o.removed++ }
func (o *countingObserver) OnMarkDirty(_ NodeIndex, marked int, _ time.Duration) {
	o.marks = append(o.marks, marked)
}

package collections

import (
	"slices"
	"strings"
	"testing"

	"github.com/SpacialCircumstances/viste/internal/errors"
	"github.com/SpacialCircumstances/viste/pkg/viste"
)

func expectPanicCode(t *testing.T, code string, fn func()) {
	t.Helper()
	defer func() {
		if got := errors.Code(recover()); got != code {
			t.Errorf("expected panic %s, got %q", code, got)
		}
	}()
	fn()
}

func readChanges[T any](c *CollectionSignal[T]) *viste.StreamReader[SetChange[T]] {
	s := c.Changes()
	defer s.Dispose()
	return viste.NewStreamReader(s)
}

func drain[T any](r *viste.StreamReader[SetChange[T]]) []SetChange[T] {
	return slices.Collect(r.All())
}

func TestSetChangeChanged(t *testing.T) {
	tests := []struct {
		name    string
		a, b    SetChange[int]
		changed bool
	}{
		{"clear vs clear", Clear[int](), Clear[int](), false},
		{"same add", Added(1), Added(1), false},
		{"same remove", Removed(1), Removed(1), false},
		{"different item", Added(1), Added(2), true},
		{"different kind", Added(1), Removed(1), true},
		{"clear vs add", Clear[int](), Added(0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.b.Changed(tt.a); got != tt.changed {
				t.Errorf("expected %t, got %t", tt.changed, got)
			}
		})
	}
	if Added("x").String() != "Added(x)" || Clear[string]().String() != "Clear" {
		t.Errorf("unexpected String output %q / %q", Added("x"), Clear[string]())
	}
}

func TestPortalEmitsChanges(t *testing.T) {
	w := viste.NewWorld()
	p, c := NewPortal[string](w)
	defer c.Dispose()
	r := readChanges(c)
	defer r.Close()

	p.Add("a")
	p.Remove("a")
	p.Clear()
	want := []SetChange[string]{Added("a"), Removed("a"), Clear[string]()}
	if got := drain(r); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestMapFilterFilterMap(t *testing.T) {
	w := viste.NewWorld()
	p, c := NewPortal[int](w)
	evens := ViewVec(c.Filter(func(x int) bool { return x%2 == 0 }))
	labels := ViewVec(Map(c, func(x int) string { return strings.Repeat("*", x) }))
	small := ViewSetBTree(FilterMap(c, func(x int) (int, bool) { return -x, x < 3 }))

	for i := 1; i <= 4; i++ {
		p.Add(i)
	}
	if got := evens.Items(); !slices.Equal(got, []int{2, 4}) {
		t.Errorf("expected [2 4], got %v", got)
	}
	if got := labels.Items(); !slices.Equal(got, []string{"*", "**", "***", "****"}) {
		t.Errorf("unexpected labels %v", got)
	}
	if got := small.Items(); !slices.Equal(got, []int{-2, -1}) {
		t.Errorf("expected [-2 -1], got %v", got)
	}

	p.Remove(2)
	if got := evens.Items(); !slices.Equal(got, []int{4}) {
		t.Errorf("expected [4], got %v", got)
	}
	if got := labels.Items(); !slices.Equal(got, []string{"*", "***", "****"}) {
		t.Errorf("removal must map to the added label, got %v", got)
	}

	p.Clear()
	if evens.Len() != 0 || labels.Len() != 0 || small.Len() != 0 {
		t.Errorf("expected every view to be empty, got %d / %d / %d", evens.Len(), labels.Len(), small.Len())
	}
}

func TestLateReaderReplaysCurrentState(t *testing.T) {
	w := viste.NewWorld()
	p, c := NewPortal[string](w)
	view := ViewSetBTree(c)

	p.Add("A")
	p.Add("B")
	p.Add("C")
	p.Remove("C")

	coll := view.Collection()
	defer coll.Dispose()
	r := readChanges(coll)
	defer r.Close()

	p.Add("D")
	want := []SetChange[string]{Added("A"), Added("B"), Added("D")}
	if got := drain(r); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	p.Remove("B")
	late := readChanges(coll)
	defer late.Close()
	want = []SetChange[string]{Added("A"), Added("D")}
	if got := drain(late); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if got := drain(r); !slices.Equal(got, []SetChange[string]{Removed("B")}) {
		t.Errorf("early reader should only see the live removal, got %v", got)
	}
}

func TestViewBuiltOnLateCollection(t *testing.T) {
	w := viste.NewWorld()
	p, c := NewPortal[string](w)
	base := ViewVec(c)
	p.Add("x")
	p.Add("y")

	coll := base.Collection()
	defer coll.Dispose()
	derived := ViewSetHash(Map(coll, strings.ToUpper))
	p.Add("z")

	got := derived.Items()
	slices.Sort(got)
	if !slices.Equal(got, []string{"X", "Y", "Z"}) {
		t.Errorf("expected [X Y Z], got %v", got)
	}
	if !derived.Get().Contains("Y") {
		t.Error("expected Y in derived view")
	}
}

type user struct {
	id   int
	name string
}

func TestViewVecSortedReplacesInPlace(t *testing.T) {
	w := viste.NewWorld()
	p, c := NewPortal[user](w)
	view := ViewVecSorted(c, func(u user) int { return u.id })

	p.Add(user{3, "c"})
	p.Add(user{1, "a"})
	p.Add(user{2, "b"})
	p.Add(user{1, "A"})

	want := []user{{1, "A"}, {2, "b"}, {3, "c"}}
	if got := view.Items(); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if u, ok := view.Get().Find(2); !ok || u.name != "b" {
		t.Errorf("expected user 2, got %v (%t)", u, ok)
	}
	p.Remove(user{id: 2})
	if view.Len() != 2 || view.Get().At(1).id != 3 {
		t.Errorf("unexpected contents after removal %v", view.Items())
	}
}

func TestViewMaps(t *testing.T) {
	w := viste.NewWorld()
	p, c := NewPortal[user](w)
	byID := ViewMapHash(c, func(u user) int { return u.id })
	byName := ViewMapBTree(c, func(u user) string { return u.name })

	p.Add(user{1, "zoe"})
	p.Add(user{2, "adam"})
	p.Add(user{3, "mia"})
	p.Add(user{2, "bob"})

	if u, ok := byID.Get().Get(2); !ok || u.name != "bob" {
		t.Errorf("expected bob under 2, got %v (%t)", u, ok)
	}
	if byID.Len() != 3 {
		t.Errorf("expected 3 entries, got %d", byID.Len())
	}
	if got := byName.Get().Keys(); !slices.Equal(got, []string{"adam", "bob", "mia", "zoe"}) {
		t.Errorf("expected sorted names, got %v", got)
	}

	p.Remove(user{3, "mia"})
	if _, ok := byID.Get().Get(3); ok {
		t.Error("expected 3 to be removed")
	}
	if _, ok := byName.Get().Get("mia"); ok {
		t.Error("expected mia to be removed")
	}
}

func TestViewVecIndexed(t *testing.T) {
	w := viste.NewWorld()
	p, c := NewPortal[user](w)
	view := ViewVecIndexed(c, func(u user) int { return u.id })

	p.Add(user{4, "d"})
	p.Add(user{1, "a"})
	if view.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", view.Len())
	}
	if _, ok := view.Get().At(2); ok {
		t.Error("position 2 should be empty")
	}
	want := []user{{1, "a"}, {4, "d"}}
	if got := view.Items(); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	p.Remove(user{id: 4})
	if _, ok := view.Get().At(4); ok {
		t.Error("position 4 should be empty after removal")
	}
}

func TestRemovingMissingItemPanics(t *testing.T) {
	tests := []struct {
		name      string
		container Container[int]
	}{
		{"hash set", NewSetHash[int]()},
		{"btree set", NewSetBTree(func(a, b int) bool { return a < b })},
		{"hash map", NewMapHash(func(x int) int { return x })},
		{"btree map", NewMapBTree(func(x int) int { return x })},
		{"vec", NewVec[int]()},
		{"sorted vec", NewVecSorted(func(x int) int { return x })},
		{"indexed vec", NewVecIndexed(func(x int) int { return x })},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.container.Apply(Added(1))
			tt.container.Apply(Removed(1))
			if tt.container.Len() != 0 {
				t.Fatalf("expected empty container, got %d", tt.container.Len())
			}
			expectPanicCode(t, "E008", func() { tt.container.Apply(Removed(1)) })
		})
	}
}

func TestViewDisposeReleasesNodes(t *testing.T) {
	w := viste.NewWorld()
	p, c := NewPortal[int](w)
	positive := c.Filter(func(x int) bool { return x > 0 })
	view := ViewVecSorted(positive, func(x int) int { return x })
	p.Add(1)
	view.Len()

	view.Dispose()
	positive.Dispose()
	c.Dispose()
	if w.NodeCount() != 0 || w.EdgeCount() != 0 {
		t.Errorf("expected empty graph, got %d nodes / %d edges", w.NodeCount(), w.EdgeCount())
	}
	expectPanicCode(t, "E005", func() { view.Get() })
	expectPanicCode(t, "E005", func() { p.Add(2) })
}

func TestVecIndexedNegativeIndexPanics(t *testing.T) {
	w := viste.NewWorld()
	p, c := NewPortal[int](w)
	view := ViewVecIndexed(c, func(x int) int { return x })
	c.Dispose()
	defer view.Dispose()

	p.Add(2)
	if view.Len() != 1 {
		t.Fatalf("expected 1 item, got %d", view.Len())
	}
	p.Add(-1)
	expectPanicCode(t, "E009", func() { view.Len() })
}

func TestClearReleasesItems(t *testing.T) {
	one, two := 1, 2
	vec := NewVec[*int]()
	sorted := NewVecSorted(func(p *int) int { return *p })
	for _, c := range []Container[*int]{vec, sorted} {
		c.Apply(Added(&one))
		c.Apply(Added(&two))
		c.Apply(Clear[*int]())
		if c.Len() != 0 {
			t.Errorf("expected empty container after Clear, got %d", c.Len())
		}
	}
	for i, p := range vec.items[:cap(vec.items)] {
		if p != nil {
			t.Errorf("vec backing slot %d still holds %d", i, *p)
		}
	}
	for i, p := range sorted.items[:cap(sorted.items)] {
		if p != nil {
			t.Errorf("sorted vec backing slot %d still holds %d", i, *p)
		}
	}
}

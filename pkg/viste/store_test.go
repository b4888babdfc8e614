package viste

import (
	"testing"
)

func TestSingleValueStoreReadOncePerChange(t *testing.T) {
	s := NewSingleValueStore(1)
	r := s.CreateReader()

	if v := s.Read(r); !v.IsChanged() || v.MustChanged() != 1 {
		t.Errorf("expected Changed(1), got %v", v)
	}
	if v := s.Read(r); v.IsChanged() {
		t.Errorf("expected Unchanged, got %v", v)
	}

	if !s.SetValue(2) {
		t.Error("SetValue(2) should report a change")
	}
	if v := s.Read(r); v.MustChanged() != 2 {
		t.Errorf("expected Changed(2), got %v", v)
	}
}

func TestSingleValueStoreIgnoresEqualWrites(t *testing.T) {
	s := NewSingleValueStore([]string{"a"})
	r := s.CreateReader()
	s.Read(r)

	if s.SetValue([]string{"a"}) {
		t.Error("equal slice should not count as a change")
	}
	if v := s.Read(r); v.IsChanged() {
		t.Errorf("expected Unchanged, got %v", v)
	}
}

func TestSingleValueStoreCustomEquality(t *testing.T) {
	s := NewSingleValueStoreFunc(10, func(a, b int) bool { return a/10 == b/10 })
	r := s.CreateReader()
	s.Read(r)

	if s.SetValue(15) {
		t.Error("15 and 10 are equal under the custom equality")
	}
	if !s.SetValue(20) {
		t.Error("20 should be a change")
	}
	if v := s.Read(r); v.MustChanged() != 20 {
		t.Errorf("expected Changed(20), got %v", v)
	}
}

func TestSingleValueStoreReadersAreIndependent(t *testing.T) {
	s := NewSingleValueStore("x")
	r1 := s.CreateReader()
	s.Read(r1)
	r2 := s.CreateReader()

	if v := s.Read(r2); !v.IsChanged() {
		t.Error("a new reader must see the current value once")
	}
	if v := s.Read(r1); v.IsChanged() {
		t.Error("r1 already saw the value")
	}
	if s.Readers() != 2 {
		t.Errorf("expected 2 readers, got %d", s.Readers())
	}
}

func TestSingleValueStoreUnknownReaderPanics(t *testing.T) {
	s := NewSingleValueStore(0)
	r := s.CreateReader()
	s.DestroyReader(r)

	expectPanicCode(t, "E001", func() { s.Read(r) })
	expectPanicCode(t, "E001", func() { s.DestroyReader(r) })
}

func TestBufferedStoreFanOut(t *testing.T) {
	s := NewBufferedStore[int]()
	r1 := s.CreateReader()
	r2 := s.CreateReader()
	for i := 1; i <= 3; i++ {
		s.Push(i)
	}
	r3 := s.CreateReader()

	for _, r := range []ReaderToken{r1, r2} {
		for want := 1; want <= 3; want++ {
			got, ok := s.Read(r)
			if !ok || got != want {
				t.Errorf("%v: expected %d, got %d (%t)", r, want, got, ok)
			}
		}
		if _, ok := s.Read(r); ok {
			t.Errorf("%v: expected empty queue", r)
		}
	}
	if _, ok := s.Read(r3); ok {
		t.Error("late reader must not receive earlier pushes")
	}
}

func TestBufferedStorePushExceptAndPreload(t *testing.T) {
	s := NewBufferedStore[string]()
	r1 := s.CreateReader()
	r2 := s.CreateReader()
	s.PushExcept("a", r1)

	if s.Pending(r1) != 0 || s.Pending(r2) != 1 {
		t.Errorf("expected 0/1 pending, got %d/%d", s.Pending(r1), s.Pending(r2))
	}

	r3 := s.CreateReaderWith([]string{"x", "y"})
	s.Push("z")
	var got []string
	for v, ok := s.Read(r3); ok; v, ok = s.Read(r3) {
		got = append(got, v)
	}
	if len(got) != 3 || got[0] != "x" || got[2] != "z" {
		t.Errorf("expected [x y z], got %v", got)
	}
}

func TestBufferedStoreDestroyedReaderPanics(t *testing.T) {
	s := NewBufferedStore[int]()
	r := s.CreateReader()
	s.DestroyReader(r)
	expectPanicCode(t, "E001", func() { s.Read(r) })
}

func TestResultUnchangedPanics(t *testing.T) {
	var r Result[int]
	if r.IsChanged() {
		t.Error("zero Result must be Unchanged")
	}
	expectPanicCode(t, "E002", func() { r.MustChanged() })
	if Changed(4).String() != "Changed(4)" || r.String() != "Unchanged" {
		t.Errorf("unexpected String output %q / %q", Changed(4).String(), r.String())
	}
}

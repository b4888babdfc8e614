package inspect

import (
	"fmt"
	"testing"

	"github.com/SpacialCircumstances/viste/internal/errors"
	"github.com/SpacialCircumstances/viste/pkg/viste"
)

func TestParseMsg(t *testing.T) {
	if m, err := ParseMsg("incr"); err != nil || m != Incr {
		t.Errorf("expected Incr, got %v, %v", m, err)
	}
	if m, err := ParseMsg("decr"); err != nil || m != Decr {
		t.Errorf("expected Decr, got %v, %v", m, err)
	}
	_, err := ParseMsg("reset")
	if code := errors.Code(err); code != "E181" {
		t.Errorf("expected E181, got %q", code)
	}
}

func TestDemoCounter(t *testing.T) {
	w := viste.NewWorld()
	d := NewDemo(w)
	defer d.Close()

	first := d.Poll()
	if first.Counter == nil || *first.Counter != 0 || first.Text != "count: 0" {
		t.Fatalf("expected initial counter 0, got %+v", first)
	}
	if !d.Poll().Empty() {
		t.Error("expected second poll to be empty")
	}

	d.Send(Incr)
	d.Send(Incr)
	d.Send(Decr)
	d.Send(Incr)
	u := d.Poll()
	if u.Counter == nil || *u.Counter != 2 {
		t.Fatalf("expected counter 2, got %+v", u)
	}
	if u.Text != "count: 2" || d.Text() != "count: 2" {
		t.Errorf("expected text \"count: 2\", got %q", u.Text)
	}
}

func TestDemoLabels(t *testing.T) {
	w := viste.NewWorld()
	d := NewDemo(w)
	defer d.Close()
	d.Poll()

	for _, l := range []string{"pear", "apple", "fig"} {
		if !d.AddLabel(l) {
			t.Errorf("expected %q to be new", l)
		}
	}
	if d.AddLabel("fig") {
		t.Error("expected duplicate label to be rejected")
	}
	if got := fmt.Sprint(d.Labels()); got != "[apple fig pear]" {
		t.Errorf("expected [apple fig pear], got %s", got)
	}
	if !d.RemoveLabel("pear") || d.RemoveLabel("pear") {
		t.Error("expected pear to be removed exactly once")
	}

	u := d.Poll()
	want := []LabelChange{{"Added", "pear"}, {"Added", "apple"}, {"Added", "fig"}, {"Removed", "pear"}}
	if fmt.Sprint(u.Labels) != fmt.Sprint(want) {
		t.Errorf("expected %v, got %v", want, u.Labels)
	}
	if u.Counter != nil {
		t.Errorf("expected no counter change, got %d", *u.Counter)
	}
}

func TestDemoCloseReleasesNodes(t *testing.T) {
	w := viste.NewWorld()
	d := NewDemo(w)
	d.Send(Incr)
	d.AddLabel("x")
	d.Poll()
	d.Close()
	if n := w.NodeCount(); n != 0 {
		t.Errorf("expected 0 nodes after Close, got %d", n)
	}
}

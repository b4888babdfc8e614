package inspect

import (
	"strconv"

	"github.com/SpacialCircumstances/viste/internal/errors"
	"github.com/SpacialCircumstances/viste/pkg/collections"
	"github.com/SpacialCircumstances/viste/pkg/viste"
)

// Msg is a counter message.
type Msg int

const (
	Incr Msg = iota
	Decr
)

func (m Msg) String() string {
	if m == Incr {
		return "incr"
	}
	return "decr"
}

// ParseMsg parses "incr" or "decr".
func ParseMsg(op string) (Msg, error) {
	switch op {
	case "incr":
		return Incr, nil
	case "decr":
		return Decr, nil
	default:
		return 0, errors.New("E181").WithDetailf("%q", op)
	}
}

// LabelChange is one entry of the labels change log as sent to clients.
type LabelChange struct {
	Op    string `json:"op"`
	Label string `json:"label,omitempty"`
}

// Update is what changed in the demo graph since the last Poll.
type Update struct {
	Counter *int          `json:"counter,omitempty"`
	Text    string        `json:"text,omitempty"`
	Labels  []LabelChange `json:"labels,omitempty"`
}

// Empty reports whether nothing changed.
func (u Update) Empty() bool {
	return u.Counter == nil && len(u.Labels) == 0
}

// Demo is a small graph served by the inspector: a counter folded from
// Incr/Decr messages, and a set of labels kept sorted by a view. All
// methods must run on the Loop that owns the World.
type Demo struct {
	dispatch func(Msg)
	counter  *viste.ValueSignal[int]
	text     *viste.ValueSignal[string]
	labels   *collections.CollectionPortal[string]
	sorted   *collections.View[string, *collections.SetBTree[string]]

	counterFeed *viste.ChangeReader[int]
	labelFeed   *viste.StreamReader[collections.SetChange[string]]
}

// NewDemo builds the demo graph in w.
func NewDemo(w *viste.World) *Demo {
	dispatch, msgs := viste.NewPortal[Msg](w)
	counter := viste.Fold(msgs, 0, func(c int, m Msg) int {
		if m == Incr {
			return c + 1
		}
		return c - 1
	})
	msgs.Dispose()

	p, labels := collections.NewPortal[string](w)
	sorted := collections.ViewSetBTree(labels)
	labels.Dispose()

	feed := sorted.Collection()
	changes := feed.Changes()
	feed.Dispose()
	labelFeed := viste.NewStreamReader(changes)
	changes.Dispose()

	return &Demo{
		dispatch:    dispatch,
		counter:     counter,
		text:        viste.Map(counter, func(c int) string { return "count: " + strconv.Itoa(c) }),
		labels:      p,
		sorted:      sorted,
		counterFeed: viste.NewChangeReader(counter),
		labelFeed:   labelFeed,
	}
}

// Send pushes a counter message.
func (d *Demo) Send(m Msg) {
	d.dispatch(m)
}

// Counter returns the current counter value.
func (d *Demo) Counter() int {
	return viste.ReadOnce(d.counter)
}

// Text returns the rendered counter.
func (d *Demo) Text() string {
	return viste.ReadOnce(d.text)
}

// AddLabel adds label and reports whether it was new.
func (d *Demo) AddLabel(label string) bool {
	if d.sorted.Get().Contains(label) {
		return false
	}
	d.labels.Add(label)
	return true
}

// RemoveLabel removes label and reports whether it was present.
func (d *Demo) RemoveLabel(label string) bool {
	if !d.sorted.Get().Contains(label) {
		return false
	}
	d.labels.Remove(label)
	return true
}

// Labels returns the labels in sorted order.
func (d *Demo) Labels() []string {
	return d.sorted.Items()
}

// Poll collects the changes since the previous Poll. The first Poll
// reports the current counter.
func (d *Demo) Poll() Update {
	var u Update
	if c, ok := d.counterFeed.Read().Get(); ok {
		u.Counter = &c
		u.Text = d.Text()
	}
	for ch := range d.labelFeed.All() {
		u.Labels = append(u.Labels, LabelChange{Op: ch.Kind.String(), Label: ch.Item})
	}
	return u
}

// Close releases every node of the demo.
func (d *Demo) Close() {
	d.counterFeed.Close()
	d.labelFeed.Close()
	d.text.Dispose()
	d.counter.Dispose()
	d.sorted.Dispose()
}

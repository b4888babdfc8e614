package bench

import (
	"slices"
	"strconv"

	"github.com/SpacialCircumstances/viste/internal/errors"
	"github.com/SpacialCircumstances/viste/pkg/viste"
)

// Params sizes a scenario.
type Params struct {
	// Depth is the length of chains and the number of diamond layers.
	Depth int `json:"depth"`

	// Width is the fan-out and the number of merged streams.
	Width int `json:"width"`

	// Iterations is the number of timed steps.
	Iterations int `json:"iterations"`

	// Readers is the number of independent readers on each observed output.
	Readers int `json:"readers"`
}

// Validate reports E161 if any parameter is out of range.
func (p Params) Validate() error {
	switch {
	case p.Depth < 1:
		return errors.New("E161").WithDetail("depth must be at least 1, got " + strconv.Itoa(p.Depth))
	case p.Width < 1:
		return errors.New("E161").WithDetail("width must be at least 1, got " + strconv.Itoa(p.Width))
	case p.Iterations < 1:
		return errors.New("E161").WithDetail("iterations must be at least 1, got " + strconv.Itoa(p.Iterations))
	case p.Readers < 1:
		return errors.New("E161").WithDetail("readers must be at least 1, got " + strconv.Itoa(p.Readers))
	}
	return nil
}

// Instance is a built scenario. Step performs one update and pulls every
// observed output. Close releases the graph.
type Instance struct {
	Step  func(i int)
	Close func()
}

// Scenario builds a graph shape in a World.
type Scenario struct {
	Name        string
	Description string
	Build       func(w *viste.World, p Params) Instance
}

var scenarios = map[string]Scenario{
	"chain": {
		Name:        "chain",
		Description: "one mutable followed by depth maps",
		Build:       buildChain,
	},
	"fanout": {
		Name:        "fanout",
		Description: "one mutable read through width independent maps",
		Build:       buildFanout,
	},
	"diamond": {
		Name:        "diamond",
		Description: "depth layers of width nodes, each combining two nodes of the layer above",
		Build:       buildDiamond,
	},
	"stream": {
		Name:        "stream",
		Description: "portal, depth stream maps, a filter and a fold",
		Build:       buildStream,
	},
	"many": {
		Name:        "many",
		Description: "width portals merged by Many, one pushed per step",
		Build:       buildMany,
	},
}

// Lookup returns the named scenario, or E160.
func Lookup(name string) (Scenario, error) {
	s, ok := scenarios[name]
	if !ok {
		return Scenario{}, errors.New("E160").
			WithDetailf("%q", name).
			WithSuggestion("Available scenarios: " + joinNames())
	}
	return s, nil
}

// Names returns the scenario names in sorted order.
func Names() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func joinNames() string {
	out := ""
	for i, name := range Names() {
		if i > 0 {
			out += ", "
		}
		out += name
	}
	return out
}

// valueReaders attaches n readers to s and returns a func pulling all of them.
func valueReaders[T any](s *viste.ValueSignal[T], n int) (pull func(), closeAll func()) {
	readers := make([]*viste.ChangeReader[T], n)
	for i := range readers {
		readers[i] = viste.NewChangeReader(s)
	}
	pull = func() {
		for _, r := range readers {
			r.Read()
		}
	}
	closeAll = func() {
		for _, r := range readers {
			r.Close()
		}
	}
	return pull, closeAll
}

func buildChain(w *viste.World, p Params) Instance {
	set, head := viste.NewMutable(w, 0)
	for i := 0; i < p.Depth; i++ {
		next := viste.Map(head, func(x int) int { return x + 1 })
		head.Dispose()
		head = next
	}
	pull, closeAll := valueReaders(head, p.Readers)
	head.Dispose()
	return Instance{
		Step: func(i int) {
			set(i)
			pull()
		},
		Close: closeAll,
	}
}

func buildFanout(w *viste.World, p Params) Instance {
	set, root := viste.NewMutable(w, 0)
	pulls := make([]func(), p.Width)
	closes := make([]func(), p.Width)
	for i := range pulls {
		k := i
		m := viste.Map(root, func(x int) int { return x*k + 1 })
		pulls[i], closes[i] = valueReaders(m, p.Readers)
		m.Dispose()
	}
	root.Dispose()
	return Instance{
		Step: func(i int) {
			set(i)
			for _, pull := range pulls {
				pull()
			}
		},
		Close: func() {
			for _, c := range closes {
				c()
			}
		},
	}
}

func buildDiamond(w *viste.World, p Params) Instance {
	set, root := viste.NewMutable(w, 0)
	layer := make([]*viste.ValueSignal[int], p.Width)
	for i := range layer {
		k := i
		layer[i] = viste.Map(root, func(x int) int { return x + k })
	}
	root.Dispose()
	for d := 1; d < p.Depth; d++ {
		next := make([]*viste.ValueSignal[int], p.Width)
		for i := range next {
			if len(layer) == 1 {
				next[i] = viste.Map(layer[0], func(a int) int { return a * 2 })
				continue
			}
			left, right := layer[i], layer[(i+1)%len(layer)]
			next[i] = viste.Map2(left, right, func(a, b int) int { return a + b })
		}
		for _, s := range layer {
			s.Dispose()
		}
		layer = next
	}
	sink := layer[0]
	for _, s := range layer[1:] {
		next := viste.Map2(sink, s, func(a, b int) int { return a ^ b })
		sink.Dispose()
		s.Dispose()
		sink = next
	}
	pull, closeAll := valueReaders(sink, p.Readers)
	sink.Dispose()
	return Instance{
		Step: func(i int) {
			set(i)
			pull()
		},
		Close: closeAll,
	}
}

func buildStream(w *viste.World, p Params) Instance {
	send, head := viste.NewPortal[int](w)
	for i := 0; i < p.Depth; i++ {
		next := viste.MapStream(head, func(x int) int { return x + 1 })
		head.Dispose()
		head = next
	}
	even := viste.FilterStream(head, func(x int) bool { return x%2 == 0 })
	head.Dispose()
	sum := viste.Fold(even, 0, func(acc, x int) int { return acc + x })
	even.Dispose()
	pull, closeAll := valueReaders(sum, p.Readers)
	sum.Dispose()
	return Instance{
		Step: func(i int) {
			send(i)
			pull()
		},
		Close: closeAll,
	}
}

func buildMany(w *viste.World, p Params) Instance {
	sends := make([]func(int), p.Width)
	sources := make([]*viste.StreamSignal[int], p.Width)
	for i := range sources {
		sends[i], sources[i] = viste.NewPortal[int](w)
	}
	merged := viste.Many(w, sources...)
	for _, s := range sources {
		s.Dispose()
	}
	readers := make([]*viste.StreamReader[int], p.Readers)
	for i := range readers {
		readers[i] = viste.NewStreamReader(merged)
	}
	merged.Dispose()
	return Instance{
		Step: func(i int) {
			sends[i%len(sends)](i)
			for _, r := range readers {
				for range r.All() {
				}
			}
		},
		Close: func() {
			for _, r := range readers {
				r.Close()
			}
		},
	}
}

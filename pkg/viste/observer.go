package viste

import (
	"time"

	"github.com/SpacialCircumstances/viste/pkg/graph"
)

// =============================================================================
// Observer Hooks
// =============================================================================

// Observer receives structural and propagation events from a World.
// Implementations must be cheap: hooks run synchronously inside the graph
// mutation that triggered them. pkg/telemetry ships Prometheus and
// OpenTelemetry implementations.
type Observer interface {
	// OnNodeCreated records a new graph node.
	OnNodeCreated(node graph.NodeIndex)

	// OnNodeDestroyed records the removal of a node and all its edges.
	OnNodeDestroyed(node graph.NodeIndex, edges int)

	// OnDependencyAdded records a new parent -> child edge.
	OnDependencyAdded(parent, child graph.NodeIndex)

	// OnDependencyRemoved records the removal of a parent -> child edge.
	OnDependencyRemoved(parent, child graph.NodeIndex)

	// OnMarkDirty records one dirty propagation started at node.
	// marked is the number of nodes that went from clean to dirty.
	OnMarkDirty(node graph.NodeIndex, marked int, duration time.Duration)
}

// NoopObserver is a no-op implementation of Observer.
type NoopObserver struct{}

func (NoopObserver) OnNodeCreated(graph.NodeIndex)                        {}
func (NoopObserver) OnNodeDestroyed(graph.NodeIndex, int)                 {}
func (NoopObserver) OnDependencyAdded(graph.NodeIndex, graph.NodeIndex)   {}
func (NoopObserver) OnDependencyRemoved(graph.NodeIndex, graph.NodeIndex) {}
func (NoopObserver) OnMarkDirty(graph.NodeIndex, int, time.Duration)      {}

type multiObserver []Observer

// Observers fans every event out to each of obs in order.
// Nil entries are skipped.
func Observers(obs ...Observer) Observer {
	out := make(multiObserver, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return NoopObserver{}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

func (m multiObserver) OnNodeCreated(node graph.NodeIndex) {
	for _, o := range m {
		o.OnNodeCreated(node)
	}
}

func (m multiObserver) OnNodeDestroyed(node graph.NodeIndex, edges int) {
	for _, o := range m {
		o.OnNodeDestroyed(node, edges)
	}
}

func (m multiObserver) OnDependencyAdded(parent, child graph.NodeIndex) {
	for _, o := range m {
		o.OnDependencyAdded(parent, child)
	}
}

func (m multiObserver) OnDependencyRemoved(parent, child graph.NodeIndex) {
	for _, o := range m {
		o.OnDependencyRemoved(parent, child)
	}
}

func (m multiObserver) OnMarkDirty(node graph.NodeIndex, marked int, duration time.Duration) {
	for _, o := range m {
		o.OnMarkDirty(node, marked, duration)
	}
}

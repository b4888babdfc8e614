package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/SpacialCircumstances/viste/pkg/graph"
	"github.com/SpacialCircumstances/viste/pkg/viste"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "viste").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for the number of nodes marked
	// by one propagation.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "viste",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1 to 2048 nodes
		Registry:  prometheus.DefaultRegisterer,
	}
}

// PrometheusObserver exports graph churn and propagation statistics.
//
// Metrics collected:
//   - viste_nodes: Gauge of live graph nodes
//   - viste_edges: Gauge of live dependency edges
//   - viste_nodes_created_total: Counter of created nodes
//   - viste_nodes_destroyed_total: Counter of destroyed nodes
//   - viste_propagations_total: Counter of dirty propagations that marked anything
//   - viste_propagation_marked_nodes: Histogram of nodes marked per propagation
//   - viste_propagation_duration_seconds: Histogram of propagation walk time
type PrometheusObserver struct {
	nodes          prometheus.Gauge
	edges          prometheus.Gauge
	nodesCreated   prometheus.Counter
	nodesDestroyed prometheus.Counter
	propagations   prometheus.Counter
	marked         prometheus.Histogram
	duration       prometheus.Histogram
}

// NewPrometheusObserver registers the metrics and returns the observer.
// Registering twice against the same registry panics, so create one
// observer per registry and share it between Worlds.
//
// Example:
//
//	obs := telemetry.NewPrometheusObserver(telemetry.WithNamespace("myapp"))
//	w := viste.NewWorld(viste.WithObserver(obs))
//	http.Handle("/metrics", promhttp.Handler())
func NewPrometheusObserver(opts ...MetricsOption) *PrometheusObserver {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &PrometheusObserver{
		nodes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes",
			Help:        "Number of live graph nodes",
			ConstLabels: config.ConstLabels,
		}),

		edges: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "edges",
			Help:        "Number of live dependency edges",
			ConstLabels: config.ConstLabels,
		}),

		nodesCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_created_total",
			Help:        "Total number of graph nodes created",
			ConstLabels: config.ConstLabels,
		}),

		nodesDestroyed: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_destroyed_total",
			Help:        "Total number of graph nodes destroyed",
			ConstLabels: config.ConstLabels,
		}),

		propagations: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "propagations_total",
			Help:        "Total number of dirty propagations",
			ConstLabels: config.ConstLabels,
		}),

		marked: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "propagation_marked_nodes",
			Help:        "Number of nodes newly marked dirty by one propagation",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "propagation_duration_seconds",
			Help:        "Time spent walking the graph in one propagation",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{1e-7, 1e-6, 1e-5, 1e-4, 1e-3, 1e-2}, // 100ns to 10ms
		}),
	}
}

func (p *PrometheusObserver) OnNodeCreated(graph.NodeIndex) {
	p.nodes.Inc()
	p.nodesCreated.Inc()
}

func (p *PrometheusObserver) OnNodeDestroyed(_ graph.NodeIndex, edges int) {
	p.nodes.Dec()
	p.nodesDestroyed.Inc()
	p.edges.Sub(float64(edges))
}

func (p *PrometheusObserver) OnDependencyAdded(graph.NodeIndex, graph.NodeIndex)   { p.edges.Inc() }
func (p *PrometheusObserver) OnDependencyRemoved(graph.NodeIndex, graph.NodeIndex) { p.edges.Dec() }

// OnMarkDirty records propagations that marked at least one node. Adding a
// cause to an already dirty node is not counted.
func (p *PrometheusObserver) OnMarkDirty(_ graph.NodeIndex, marked int, duration time.Duration) {
	if marked == 0 {
		return
	}
	p.propagations.Inc()
	p.marked.Observe(float64(marked))
	p.duration.Observe(duration.Seconds())
}

var _ viste.Observer = (*PrometheusObserver)(nil)

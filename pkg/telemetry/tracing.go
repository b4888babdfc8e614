package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/SpacialCircumstances/viste/pkg/graph"
	"github.com/SpacialCircumstances/viste/pkg/viste"
)

// Default tracer name for viste graphs.
const defaultTracerName = "viste"

// TracingConfig configures the OpenTelemetry observer.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: "viste").
	TracerName string

	// Tracer overrides the tracer taken from the global provider.
	Tracer trace.Tracer

	// MinMarked skips propagations that marked fewer nodes.
	MinMarked int
}

// TracingOption configures the OpenTelemetry observer.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithTracer sets the tracer directly.
func WithTracer(tracer trace.Tracer) TracingOption {
	return func(c *TracingConfig) {
		c.Tracer = tracer
	}
}

// WithMinMarked only traces propagations that marked at least n nodes.
func WithMinMarked(n int) TracingOption {
	return func(c *TracingConfig) {
		c.MinMarked = n
	}
}

// TracingObserver records one span per dirty propagation. Spans are
// created after the walk finished, backdated to its start.
//
// Span attributes:
//   - viste.node: the node the propagation started at
//   - viste.marked: number of nodes newly marked dirty
//
// The tracer uses the global OpenTelemetry tracer provider unless
// WithTracer is given. Configure it before creating the observer.
type TracingObserver struct {
	viste.NoopObserver
	ctx       context.Context
	tracer    trace.Tracer
	minMarked int
}

// NewTracingObserver creates an observer whose spans are children of the
// span in ctx, if any.
func NewTracingObserver(ctx context.Context, opts ...TracingOption) *TracingObserver {
	config := TracingConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	tracer := config.Tracer
	if tracer == nil {
		tracer = otel.Tracer(config.TracerName)
	}
	return &TracingObserver{ctx: ctx, tracer: tracer, minMarked: config.MinMarked}
}

func (o *TracingObserver) OnMarkDirty(node graph.NodeIndex, marked int, duration time.Duration) {
	if marked < o.minMarked {
		return
	}
	end := time.Now()
	_, span := o.tracer.Start(o.ctx, "viste.mark_dirty",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithTimestamp(end.Add(-duration)),
		trace.WithAttributes(
			attribute.Int("viste.node", int(node)),
			attribute.Int("viste.marked", marked),
		),
	)
	span.End(trace.WithTimestamp(end))
}

var _ viste.Observer = (*TracingObserver)(nil)

package bench

import (
	"context"
	"math"
	"runtime"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/SpacialCircumstances/viste/pkg/viste"
)

// Report is the result of one scenario run.
type Report struct {
	Scenario string      `json:"scenario"`
	Params   Params      `json:"params"`
	Graph    graphInfo   `json:"graph"`
	NsPerOp  float64     `json:"ns_per_op"`
	Latency  latencyInfo `json:"latency_us"`
	GC       gcInfo      `json:"gc"`
}

type graphInfo struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

type latencyInfo struct {
	Min float64 `json:"min"`
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
	Max float64 `json:"max"`
}

type gcInfo struct {
	AllocsPerOp float64 `json:"allocs_per_op"`
	BytesPerOp  float64 `json:"bytes_per_op"`
	NumGC       uint32  `json:"num_gc"`
}

// Options configures Run.
type Options struct {
	// Tracer records one span per scenario. Default: the global provider.
	Tracer trace.Tracer

	// Observer is installed on the World the scenario runs in.
	Observer viste.Observer
}

// Run builds the named scenario in a fresh World and times p.Iterations
// steps. The graph is released before Run returns; ctx is checked between
// steps.
func Run(ctx context.Context, name string, p Params, opts Options) (Report, error) {
	sc, err := Lookup(name)
	if err != nil {
		return Report{}, err
	}
	if err := p.Validate(); err != nil {
		return Report{}, err
	}

	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer("github.com/SpacialCircumstances/viste/internal/bench")
	}
	ctx, span := tracer.Start(ctx, "bench."+sc.Name, trace.WithAttributes(
		attribute.Int("bench.depth", p.Depth),
		attribute.Int("bench.width", p.Width),
		attribute.Int("bench.iterations", p.Iterations),
		attribute.Int("bench.readers", p.Readers),
	))
	defer span.End()

	var worldOpts []viste.WorldOption
	if opts.Observer != nil {
		worldOpts = append(worldOpts, viste.WithObserver(opts.Observer))
	}
	w := viste.NewWorld(worldOpts...)
	inst := sc.Build(w, p)
	defer inst.Close()

	report := Report{
		Scenario: sc.Name,
		Params:   p,
		Graph:    graphInfo{Nodes: w.NodeCount(), Edges: w.EdgeCount()},
	}

	// One untimed step settles the initial pull.
	inst.Step(0)

	samples := make([]time.Duration, 0, p.Iterations)
	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	start := time.Now()
	for i := 1; i <= p.Iterations; i++ {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "canceled")
				return Report{}, err
			}
		}
		t0 := time.Now()
		inst.Step(i)
		samples = append(samples, time.Since(t0))
	}
	elapsed := time.Since(start)
	runtime.ReadMemStats(&after)

	n := float64(p.Iterations)
	report.NsPerOp = float64(elapsed.Nanoseconds()) / n
	report.GC = gcInfo{
		AllocsPerOp: float64(after.Mallocs-before.Mallocs) / n,
		BytesPerOp:  float64(after.TotalAlloc-before.TotalAlloc) / n,
		NumGC:       after.NumGC - before.NumGC,
	}

	slices.Sort(samples)
	report.Latency = latencyInfo{
		Min: us(percentile(samples, 0)),
		P50: us(percentile(samples, 0.50)),
		P95: us(percentile(samples, 0.95)),
		P99: us(percentile(samples, 0.99)),
		Max: us(percentile(samples, 1)),
	}

	span.SetAttributes(
		attribute.Int("bench.nodes", report.Graph.Nodes),
		attribute.Float64("bench.ns_per_op", report.NsPerOp),
	)
	return report, nil
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	idx := int(math.Ceil(float64(len(sorted))*p)) - 1
	idx = max(0, min(idx, len(sorted)-1))
	return sorted[idx]
}

func us(d time.Duration) float64 {
	return float64(d) / float64(time.Microsecond)
}

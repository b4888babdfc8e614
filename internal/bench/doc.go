// Package bench runs propagation benchmarks over fixed graph shapes.
//
// Each scenario builds a graph in a fresh World, performs one untimed
// step, then times Params.Iterations steps. A step changes one source and
// pulls every observed output. Per-step latencies are sampled and reported
// as percentiles alongside ns/op and allocations.
//
//	report, err := bench.Run(ctx, "chain", bench.Params{Depth: 100, Width: 1, Iterations: 10000, Readers: 1}, bench.Options{})
package bench

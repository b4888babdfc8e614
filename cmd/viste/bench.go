package main

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/SpacialCircumstances/viste/internal/bench"
	"github.com/SpacialCircumstances/viste/pkg/telemetry"
	"github.com/SpacialCircumstances/viste/pkg/viste"
)

func benchCmd() *cobra.Command {
	var (
		scenario   string
		depth      int
		width      int
		iterations int
		readers    int
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark dirty propagation",
		Long: `Run a propagation benchmark over a fixed graph shape.

Scenarios: ` + strings.Join(bench.Names(), ", ") + `, or "all".

Each step changes one source and pulls every observed output. Unset flags
fall back to the [bench] section of the configuration.`,
		Example: `  viste bench --scenario chain --depth 100
  viste bench --scenario all --iterations 100000 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := envFrom(cmd)
			p := bench.Params{
				Depth:      e.config.Bench.Depth,
				Width:      e.config.Bench.Width,
				Iterations: e.config.Bench.Iterations,
				Readers:    e.config.Bench.Readers,
			}
			flags := cmd.Flags()
			if flags.Changed("depth") {
				p.Depth = depth
			}
			if flags.Changed("width") {
				p.Width = width
			}
			if flags.Changed("iterations") {
				p.Iterations = iterations
			}
			if flags.Changed("readers") {
				p.Readers = readers
			}

			names := []string{scenario}
			if scenario == "all" {
				names = bench.Names()
			}

			opts := bench.Options{Tracer: otel.Tracer(e.config.Tracing.TracerName)}
			var observers []viste.Observer
			if e.config.Metrics.Enabled {
				observers = append(observers, telemetry.NewPrometheusObserver(
					telemetry.WithRegistry(prometheus.NewRegistry()),
					telemetry.WithNamespace(e.config.Metrics.Namespace),
					telemetry.WithSubsystem(e.config.Metrics.Subsystem),
				))
			}
			if e.config.Tracing.Enabled {
				observers = append(observers, telemetry.NewTracingObserver(cmd.Context(),
					telemetry.WithTracerName(e.config.Tracing.TracerName)))
			}
			if len(observers) > 0 {
				opts.Observer = viste.Observers(observers...)
			}

			reports := make([]bench.Report, 0, len(names))
			for _, name := range names {
				e.logger.Debug("running scenario", "scenario", name, "depth", p.Depth, "width", p.Width, "iterations", p.Iterations)
				start := time.Now()
				report, err := bench.Run(cmd.Context(), name, p, opts)
				if err != nil {
					return err
				}
				e.logger.Info("scenario finished", "scenario", name, "elapsed", time.Since(start).Round(time.Millisecond))
				reports = append(reports, report)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(reports)
			}
			printReports(cmd, reports)
			return nil
		},
	}

	cmd.Flags().StringVar(&scenario, "scenario", "chain", "scenario to run, or \"all\"")
	cmd.Flags().IntVar(&depth, "depth", 0, "chain length and diamond layers")
	cmd.Flags().IntVar(&width, "width", 0, "fan-out and merged streams")
	cmd.Flags().IntVar(&iterations, "iterations", 0, "timed steps")
	cmd.Flags().IntVar(&readers, "readers", 0, "readers per observed output")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print reports as JSON")

	return cmd
}

func printReports(cmd *cobra.Command, reports []bench.Report) {
	printf(cmd, "%-9s %6s %6s %12s %10s %10s %10s %10s\n",
		"SCENARIO", "NODES", "EDGES", "NS/OP", "P50 µs", "P99 µs", "ALLOCS/OP", "B/OP")
	for _, r := range reports {
		printf(cmd, "%-9s %6d %6d %12.1f %10.2f %10.2f %10.1f %10.1f\n",
			r.Scenario, r.Graph.Nodes, r.Graph.Edges, r.NsPerOp,
			r.Latency.P50, r.Latency.P99, r.GC.AllocsPerOp, r.GC.BytesPerOp)
	}
}

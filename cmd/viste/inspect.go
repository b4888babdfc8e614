package main

import (
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/SpacialCircumstances/viste/pkg/inspect"
	"github.com/SpacialCircumstances/viste/pkg/telemetry"
	"github.com/SpacialCircumstances/viste/pkg/viste"
)

func inspectCmd() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Serve a live demo graph",
		Long: `Start the inspector: an HTTP server hosting a demo graph.

Routes:
  GET  /graph          node and edge snapshot
  GET  /counter        POST /counter/{incr,decr}
  GET  /labels         POST /labels, DELETE /labels/{label}
  GET  /metrics        Prometheus metrics
  GET  /ws             websocket feed of every change`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := envFrom(cmd)
			cfg := e.config
			if cmd.Flags().Changed("host") {
				cfg.Inspect.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Inspect.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			worldOpts := []viste.WorldOption{viste.WithLogger(e.logger.With("component", "viste"))}
			var observers []viste.Observer
			if cfg.Metrics.Enabled {
				observers = append(observers, telemetry.NewPrometheusObserver(
					telemetry.WithRegistry(reg),
					telemetry.WithNamespace(cfg.Metrics.Namespace),
					telemetry.WithSubsystem(cfg.Metrics.Subsystem),
				))
			}
			if cfg.Tracing.Enabled {
				observers = append(observers, telemetry.NewTracingObserver(cmd.Context(),
					telemetry.WithTracerName(cfg.Tracing.TracerName)))
			}
			if len(observers) > 0 {
				worldOpts = append(worldOpts, viste.WithObserver(viste.Observers(observers...)))
			}

			loop := inspect.NewLoop(viste.NewWorld(worldOpts...), cfg.Inspect.QueueSize)
			defer loop.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := inspect.New(ctx, loop,
				inspect.WithAddress(net.JoinHostPort(cfg.Inspect.Host, strconv.Itoa(cfg.Inspect.Port))),
				inspect.WithLogger(e.logger),
				inspect.WithGatherer(reg),
			)
			if err != nil {
				return err
			}
			defer srv.Close(cmd.Context())

			printf(cmd, "Inspector running at http://%s\n", cfg.InspectAddress())
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "host to bind to (default from config: localhost)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (default from config: 7070)")

	return cmd
}

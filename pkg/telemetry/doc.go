// Package telemetry provides viste.Observer implementations for Prometheus
// and OpenTelemetry.
//
// Both observers are attached through viste.WithObserver and can be
// combined with viste.Observers:
//
//	w := viste.NewWorld(viste.WithObserver(viste.Observers(
//	    telemetry.NewPrometheusObserver(),
//	    telemetry.NewTracingObserver(ctx),
//	)))
package telemetry

package bench

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SpacialCircumstances/viste/internal/errors"
	"github.com/SpacialCircumstances/viste/pkg/viste"
)

var small = Params{Depth: 2, Width: 3, Iterations: 100, Readers: 2}

func TestScenarioShapes(t *testing.T) {
	tests := []struct {
		name  string
		p     Params
		nodes int
		edges int
	}{
		{"chain", Params{Depth: 3, Width: 1, Readers: 1}, 4, 3},
		{"fanout", Params{Depth: 1, Width: 4, Readers: 1}, 5, 4},
		{"diamond", Params{Depth: 2, Width: 3, Readers: 1}, 9, 13},
		{"diamond", Params{Depth: 3, Width: 1, Readers: 1}, 4, 3},
		{"stream", Params{Depth: 2, Width: 1, Readers: 1}, 5, 4},
		{"many", Params{Depth: 1, Width: 3, Readers: 1}, 4, 3},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%dx%d", tt.name, tt.p.Depth, tt.p.Width), func(t *testing.T) {
			sc, err := Lookup(tt.name)
			if err != nil {
				t.Fatal(err)
			}
			w := viste.NewWorld()
			inst := sc.Build(w, tt.p)
			if w.NodeCount() != tt.nodes || w.EdgeCount() != tt.edges {
				t.Errorf("expected %d nodes and %d edges, got %d and %d",
					tt.nodes, tt.edges, w.NodeCount(), w.EdgeCount())
			}
			for i := 0; i < 5; i++ {
				inst.Step(i)
			}
			inst.Close()
			if w.NodeCount() != 0 {
				t.Errorf("expected 0 nodes after Close, got %d", w.NodeCount())
			}
		})
	}
}

func TestRunAllScenarios(t *testing.T) {
	for _, name := range Names() {
		report, err := Run(context.Background(), name, small, Options{})
		if err != nil {
			t.Fatalf("%s: Run() error: %v", name, err)
		}
		if report.Scenario != name || report.Graph.Nodes == 0 {
			t.Errorf("%s: unexpected report %+v", name, report)
		}
		if report.NsPerOp <= 0 {
			t.Errorf("%s: expected positive ns/op, got %v", name, report.NsPerOp)
		}
		if report.Latency.Min > report.Latency.P50 || report.Latency.P50 > report.Latency.Max {
			t.Errorf("%s: latencies out of order: %+v", name, report.Latency)
		}
	}
}

func TestRunErrors(t *testing.T) {
	_, err := Run(context.Background(), "spiral", small, Options{})
	if code := errors.Code(err); code != "E160" {
		t.Errorf("expected E160, got %q", code)
	}

	bad := small
	bad.Iterations = 0
	_, err = Run(context.Background(), "chain", bad, Options{})
	if code := errors.Code(err); code != "E161" {
		t.Errorf("expected E161, got %q", code)
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := small
	p.Iterations = 4096
	if _, err := Run(ctx, "chain", p, Options{}); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNames(t *testing.T) {
	if got := fmt.Sprint(Names()); got != "[chain diamond fanout many stream]" {
		t.Errorf("expected sorted scenario names, got %s", got)
	}
}

func TestPercentile(t *testing.T) {
	sorted := []time.Duration{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	tests := []struct {
		p    float64
		want time.Duration
	}{
		{0, 1}, {0.5, 5}, {0.95, 10}, {0.1, 1}, {1, 10},
	}
	for _, tt := range tests {
		if got := percentile(sorted, tt.p); got != tt.want {
			t.Errorf("percentile(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
	if percentile(nil, 0.5) != 0 {
		t.Error("expected 0 for empty samples")
	}
}

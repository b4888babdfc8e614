package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/SpacialCircumstances/viste/internal/bench"
	"github.com/SpacialCircumstances/viste/internal/errors"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd(&stdout, &stderr, &rootOptions{})
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), err
}

func TestVersionShort(t *testing.T) {
	out, err := run(t, "version", "--short")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if out != version+"\n" {
		t.Errorf("expected %q, got %q", version+"\n", out)
	}
}

func TestBenchJSON(t *testing.T) {
	out, err := run(t, "bench", "--scenario", "all", "--depth", "2", "--width", "2", "--iterations", "20", "--json")
	if err != nil {
		t.Fatalf("bench failed: %v", err)
	}
	var reports []bench.Report
	if err := json.Unmarshal([]byte(out), &reports); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if len(reports) != len(bench.Names()) {
		t.Errorf("expected %d reports, got %d", len(bench.Names()), len(reports))
	}
	for _, r := range reports {
		if r.Params.Depth != 2 || r.Params.Iterations != 20 {
			t.Errorf("%s: flags not applied: %+v", r.Scenario, r.Params)
		}
	}
}

func TestBenchUsesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viste.toml")
	if err := os.WriteFile(path, []byte("[bench]\ndepth = 4\niterations = 10\n"), 0644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "--config", path, "bench", "--scenario", "chain")
	if err != nil {
		t.Fatalf("bench failed: %v", err)
	}
	if !strings.Contains(out, "chain") || !strings.Contains(out, "NS/OP") {
		t.Errorf("expected a report table, got:\n%s", out)
	}
	// chain with depth 4: one mutable and four maps.
	fields := strings.Fields(strings.Split(strings.TrimSpace(out), "\n")[1])
	if fields[1] != "5" {
		t.Errorf("expected 5 nodes, got %s", fields[1])
	}
}

func TestBenchErrors(t *testing.T) {
	_, err := run(t, "bench", "--scenario", "spiral", "--iterations", "1")
	if code := errors.Code(err); code != "E160" {
		t.Errorf("expected E160, got %q (%v)", code, err)
	}
	_, err = run(t, "bench", "--depth", "-3")
	if code := errors.Code(err); code != "E161" {
		t.Errorf("expected E161, got %q (%v)", code, err)
	}
}

func TestConfigErrors(t *testing.T) {
	_, err := run(t, "--config", filepath.Join(t.TempDir(), "missing.toml"), "version")
	if code := errors.Code(err); code != "E141" {
		t.Errorf("expected E141, got %q (%v)", code, err)
	}
}

func TestErrorFormats(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), []string{"--error-format", "json", "bench", "--scenario", "spiral"}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	var got struct {
		Code     string `json:"code"`
		Category string `json:"category"`
		Message  string `json:"message"`
	}
	if err := json.Unmarshal(stderr.Bytes(), &got); err != nil {
		t.Fatalf("expected JSON on stderr, got %q: %v", stderr.String(), err)
	}
	if got.Code != "E160" || got.Category != "cli" {
		t.Errorf("expected E160 in category cli, got %+v", got)
	}

	stderr.Reset()
	execute(context.Background(), []string{"--error-format", "compact", "--bogus"}, &stdout, &stderr)
	if out := stderr.String(); out != "E162: Invalid command line\n" {
		t.Errorf("expected compact E162 line, got %q", out)
	}

	stderr.Reset()
	execute(context.Background(), []string{"--no-color", "bench", "--depth", "-3"}, &stdout, &stderr)
	out := stderr.String()
	if !strings.Contains(out, "ERROR E161: Invalid benchmark parameters") {
		t.Errorf("expected text error, got %q", out)
	}
	if strings.Contains(out, "\033[") {
		t.Errorf("expected no ANSI escapes with --no-color, got %q", out)
	}
}

func TestUnknownErrorFormat(t *testing.T) {
	_, err := run(t, "--error-format", "yaml", "version")
	if code := errors.Code(err); code != "E163" {
		t.Errorf("expected E163, got %q (%v)", code, err)
	}
}

func TestSuccessfulExecuteExitsZero(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := execute(context.Background(), []string{"version", "--short"}, &stdout, &stderr); code != 0 {
		t.Errorf("expected exit code 0, got %d (%s)", code, stderr.String())
	}
	if stderr.Len() != 0 {
		t.Errorf("expected empty stderr, got %q", stderr.String())
	}
}

package config

import (
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/SpacialCircumstances/viste/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Inspect.Port != DefaultPort {
		t.Errorf("Inspect.Port = %d, want %d", cfg.Inspect.Port, DefaultPort)
	}
	if cfg.Inspect.Host != DefaultHost {
		t.Errorf("Inspect.Host = %q, want %q", cfg.Inspect.Host, DefaultHost)
	}
	if cfg.Metrics.Namespace != DefaultNamespace || !cfg.Metrics.Enabled {
		t.Errorf("Metrics = %+v, want enabled with namespace %q", cfg.Metrics, DefaultNamespace)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoadJSON(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := Load(tmpDir)
	if code := errors.Code(err); code != "E141" {
		t.Errorf("expected E141 for missing config, got %q", code)
	}

	writeFile(t, tmpDir, JSONFileName, `{
  "log": {"level": "debug"},
  "metrics": {"enabled": false, "subsystem": "demo"},
  "inspect": {"host": "0.0.0.0", "port": 9090}
}
`)
	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Inspect.Port != 9090 || cfg.Inspect.Host != "0.0.0.0" {
		t.Errorf("Inspect = %+v, want 0.0.0.0:9090", cfg.Inspect)
	}
	if cfg.Inspect.QueueSize != DefaultQueueSize {
		t.Errorf("Inspect.QueueSize = %d, want %d", cfg.Inspect.QueueSize, DefaultQueueSize)
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled should be false")
	}
	if cfg.Metrics.Namespace != DefaultNamespace || cfg.Metrics.Subsystem != "demo" {
		t.Errorf("Metrics = %+v", cfg.Metrics)
	}
	if level, _ := cfg.SlogLevel(); level != slog.LevelDebug {
		t.Errorf("SlogLevel = %v, want debug", level)
	}
	if cfg.Path() != filepath.Join(tmpDir, JSONFileName) {
		t.Errorf("Path = %q", cfg.Path())
	}
}

func TestLoadTOML(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, JSONFileName, `{"inspect": {"port": 1111}}`)
	writeFile(t, tmpDir, TOMLFileName, `
[tracing]
enabled = true
tracer_name = "bench"

[inspect]
port = 8081
queue_size = 8

[bench]
depth = 3
iterations = 50
`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Inspect.Port != 8081 {
		t.Errorf("expected viste.toml to win, got port %d", cfg.Inspect.Port)
	}
	if cfg.Inspect.QueueSize != 8 {
		t.Errorf("Inspect.QueueSize = %d, want 8", cfg.Inspect.QueueSize)
	}
	if !cfg.Tracing.Enabled || cfg.Tracing.TracerName != "bench" {
		t.Errorf("Tracing = %+v", cfg.Tracing)
	}
	if cfg.Bench.Depth != 3 || cfg.Bench.Iterations != 50 || cfg.Bench.Width != 10 {
		t.Errorf("Bench = %+v, want depth 3, iterations 50, default width", cfg.Bench)
	}
	if got := cfg.InspectAddress(); got != "localhost:8081" {
		t.Errorf("InspectAddress = %q", got)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		code    string
	}{
		{"unsupported extension", "viste.yaml", "log: {}", "E121"},
		{"missing file", "absent.json", "", "E141"},
		{"invalid json", "bad.json", "{", "E120"},
		{"invalid toml", "bad.toml", "[inspect\nport = 1", "E120"},
		{"port out of range", "port.json", `{"inspect": {"port": 70000}}`, "E122"},
		{"negative port", "neg.toml", "[inspect]\nport = -1", "E122"},
		{"bad log level", "level.json", `{"log": {"level": "loud"}}`, "E123"},
		{"negative bench", "bench.json", `{"bench": {"depth": -1}}`, "E120"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tt.file)
			if tt.content != "" {
				writeFile(t, tmpDir, tt.file, tt.content)
			}
			_, err := LoadFile(path)
			if code := errors.Code(err); code != tt.code {
				t.Errorf("expected %s, got %q (%v)", tt.code, code, err)
			}
		})
	}
}

func TestLoadFileReadErrorKeepsCause(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viste.toml")
	if err := os.Mkdir(path, 0755); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFile(path)
	if code := errors.Code(err); code != "E120" {
		t.Fatalf("expected E120, got %q (%v)", code, err)
	}
	var pathErr *os.PathError
	if !stderrors.As(err, &pathErr) {
		t.Errorf("expected the read error to stay wrapped, got %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"out.json", "out.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			cfg := New()
			cfg.Metrics.Enabled = false
			cfg.Inspect.Port = 7171
			cfg.Log.Level = "warn"
			if err := cfg.SaveTo(path); err != nil {
				t.Fatalf("SaveTo error: %v", err)
			}

			loaded, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile error: %v", err)
			}
			if loaded.Metrics.Enabled || loaded.Inspect.Port != 7171 || loaded.Log.Level != "warn" {
				t.Errorf("round trip lost fields: %+v", loaded)
			}

			loaded.Inspect.Port = 7272
			if err := loaded.Save(); err != nil {
				t.Fatalf("Save error: %v", err)
			}
			again, _ := LoadFile(path)
			if again.Inspect.Port != 7272 {
				t.Errorf("Save did not write back, port %d", again.Inspect.Port)
			}
		})
	}

	if err := New().Save(); err == nil {
		t.Error("expected error saving config without a path")
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, TOMLFileName, "")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot error: %v", err)
	}
	want, _ := filepath.Abs(root)
	if got != want {
		t.Errorf("FindProjectRoot = %q, want %q", got, want)
	}
	if !Exists(root) || Exists(nested) {
		t.Error("Exists should only report the root")
	}
}

func TestLoadFromWorkingDirDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadFromWorkingDir()
	if err != nil {
		t.Fatalf("LoadFromWorkingDir error: %v", err)
	}
	if cfg.Inspect.Port != DefaultPort || cfg.Path() != "" {
		t.Errorf("expected defaults without a path, got %+v", cfg)
	}
}

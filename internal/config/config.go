package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/SpacialCircumstances/viste/internal/errors"
)

const (
	// JSONFileName is the JSON configuration file name.
	JSONFileName = "viste.json"

	// TOMLFileName is the TOML configuration file name.
	TOMLFileName = "viste.toml"

	// DefaultPort is the default inspector port.
	DefaultPort = 7070

	// DefaultHost is the default inspector host.
	DefaultHost = "localhost"

	// DefaultQueueSize is the default inspector loop queue size.
	DefaultQueueSize = 64

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "viste"

	// DefaultTracerName is the default OpenTelemetry tracer name.
	DefaultTracerName = "github.com/SpacialCircumstances/viste"
)

// Config represents a viste.json or viste.toml file.
type Config struct {
	// Log contains logging configuration.
	Log LogConfig `json:"log" toml:"log"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics" toml:"metrics"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing" toml:"tracing"`

	// Inspect contains inspector server configuration.
	Inspect InspectConfig `json:"inspect" toml:"inspect"`

	// Bench contains defaults for `viste bench`.
	Bench BenchConfig `json:"bench" toml:"bench"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig contains logging configuration.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" toml:"level,omitempty"`

	// Timestamps prefixes each line with the time.
	Timestamps bool `json:"timestamps" toml:"timestamps"`
}

// MetricsConfig contains Prometheus configuration.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled" toml:"enabled"`
	Namespace string `json:"namespace,omitempty" toml:"namespace,omitempty"`
	Subsystem string `json:"subsystem,omitempty" toml:"subsystem,omitempty"`
}

// TracingConfig contains OpenTelemetry configuration.
type TracingConfig struct {
	Enabled    bool   `json:"enabled" toml:"enabled"`
	TracerName string `json:"tracer_name,omitempty" toml:"tracer_name,omitempty"`
}

// InspectConfig contains inspector server configuration.
type InspectConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty" toml:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty" toml:"port,omitempty"`

	// QueueSize bounds the number of requests waiting for the graph.
	QueueSize int `json:"queue_size,omitempty" toml:"queue_size,omitempty"`
}

// BenchConfig contains defaults for benchmark scenarios.
type BenchConfig struct {
	Depth      int `json:"depth,omitempty" toml:"depth,omitempty"`
	Width      int `json:"width,omitempty" toml:"width,omitempty"`
	Iterations int `json:"iterations,omitempty" toml:"iterations,omitempty"`
	Readers    int `json:"readers,omitempty" toml:"readers,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Log: LogConfig{
			Level:      "info",
			Timestamps: true,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: DefaultTracerName,
		},
		Inspect: InspectConfig{
			Host:      DefaultHost,
			Port:      DefaultPort,
			QueueSize: DefaultQueueSize,
		},
		Bench: BenchConfig{
			Depth:      10,
			Width:      10,
			Iterations: 10000,
			Readers:    1,
		},
	}
}

// Load reads configuration from dir. viste.toml wins over viste.json when
// both exist.
func Load(dir string) (*Config, error) {
	for _, name := range []string{TOMLFileName, JSONFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("E141").
		WithDetail("No " + JSONFileName + " or " + TOMLFileName + " found in " + dir).
		WithSuggestion("Create one, or run without --config to use the defaults")
}

// LoadFile reads configuration from the specified file path. The format
// is chosen by extension.
func LoadFile(path string) (*Config, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".json" && ext != ".toml" {
		return nil, errors.New("E121").WithDetail(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").WithDetail("No config file at " + path)
		}
		return nil, errors.FromError(err, "E120")
	}

	cfg := New()
	if ext == ".toml" {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check the file syntax")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to path, as TOML if path ends in .toml
// and JSON otherwise.
func (c *Config) SaveTo(path string) error {
	var data []byte
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return errors.New("E120").Wrap(err)
		}
		data = buf.Bytes()
	} else {
		var err error
		data, err = json.MarshalIndent(c, "", "  ")
		if err != nil {
			return errors.New("E120").Wrap(err)
		}
		data = append(data, '\n')
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}
	if c.Inspect.Host == "" {
		c.Inspect.Host = DefaultHost
	}
	if c.Inspect.Port == 0 {
		c.Inspect.Port = DefaultPort
	}
	if c.Inspect.QueueSize <= 0 {
		c.Inspect.QueueSize = DefaultQueueSize
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Inspect.Port < 1 || c.Inspect.Port > 65535 {
		return errors.New("E122").
			WithDetail("inspect.port is " + strconv.Itoa(c.Inspect.Port))
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	b := c.Bench
	if b.Depth < 0 || b.Width < 0 || b.Iterations < 0 || b.Readers < 0 {
		return errors.New("E120").WithDetail("bench values must not be negative")
	}
	return nil
}

// SlogLevel parses Log.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.New("E123").WithDetailf("log.level is %q", c.Log.Level)
	}
}

// InspectAddress returns host:port for the inspector.
func (c *Config) InspectAddress() string {
	return net.JoinHostPort(c.Inspect.Host, strconv.Itoa(c.Inspect.Port))
}

// Exists reports whether dir contains a viste config file.
func Exists(dir string) bool {
	for _, name := range []string{TOMLFileName, JSONFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find one holding a config file.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E141").
				WithDetail("No viste config found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the working directory or its
// nearest parent that has one. Without any config file it returns the
// defaults.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		if errors.Code(err) == "E141" {
			return New(), nil
		}
		return nil, err
	}

	return Load(root)
}

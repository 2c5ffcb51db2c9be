package config

import (
	"bytes"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/natefinch/atomic"

	"github.com/vango-dev/pagetree/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "pagetree.json"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultRoot is the default application directory.
	DefaultRoot = "."

	// DefaultExportDir is the default static export directory.
	DefaultExportDir = "dist"

	// DefaultMetricsNamespace prefixes every exported metric.
	DefaultMetricsNamespace = "pagetree"
)

// Config represents pagetree.json.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Root is the application directory holding routes/, relative to the
	// config file.
	Root string `json:"root,omitempty"`

	// Host is the interface to bind to.
	Host string `json:"host,omitempty"`

	// Port is the server port.
	Port int `json:"port,omitempty"`

	// Dev enables development mode (live reload).
	Dev bool `json:"dev,omitempty"`

	// Props are the static props handed to every request.
	Props PropsConfig `json:"props,omitempty"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tracing configures OpenTelemetry request spans.
	Tracing TracingConfig `json:"tracing,omitempty"`

	// Export configures `export`.
	Export ExportConfig `json:"export,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// PropsConfig holds static props.
type PropsConfig struct {
	// Values are cloned into every request's props.
	Values map[string]any `json:"values,omitempty"`

	// Root values are passed to the root layout.
	Root map[string]any `json:"root,omitempty"`
}

// MetricsConfig configures the metrics listener.
type MetricsConfig struct {
	// Addr is the listen address of the /metrics server. Empty disables it.
	Addr string `json:"addr,omitempty"`

	// Namespace prefixes metric names.
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig configures tracing.
type TracingConfig struct {
	// Enabled wraps requests in server spans.
	Enabled bool `json:"enabled,omitempty"`
}

// ExportConfig configures static export.
type ExportConfig struct {
	// Dir is the local output directory.
	Dir string `json:"dir,omitempty"`

	// Bucket, when set, publishes to S3 instead of Dir.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is prepended to every object key.
	Prefix string `json:"prefix,omitempty"`

	// Region is the bucket region.
	Region string `json:"region,omitempty"`

	// Endpoint overrides the S3 endpoint.
	Endpoint string `json:"endpoint,omitempty"`

	// PathStyle forces path-style bucket addressing.
	PathStyle bool `json:"pathStyle,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Root: DefaultRoot,
		Host: DefaultHost,
		Port: DefaultPort,
		Metrics: MetricsConfig{
			Namespace: DefaultMetricsNamespace,
		},
		Export: ExportConfig{
			Dir: DefaultExportDir,
		},
	}
}

// Load reads pagetree.json from dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").
				WithDetail("No pagetree.json found in " + filepath.Dir(path)).
				WithSuggestion("Create pagetree.json or pass flags instead")
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse pagetree.json: " + err.Error()).
			WithSuggestion("Check that pagetree.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration to path, replacing it atomically.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E120").Wrap(err)
	}
	data = append(data, '\n')

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Root == "" {
		c.Root = DefaultRoot
	}
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultMetricsNamespace
	}
	if c.Export.Dir == "" {
		c.Export.Dir = DefaultExportDir
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return errors.New("E122").
			WithDetail("Port must be between 0 and 65535")
	}
	return nil
}

// Address returns the listen address.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// RootPath returns the application directory, resolved against the config
// file's directory.
func (c *Config) RootPath() string {
	return c.resolve(c.Root)
}

// ExportPath returns the export directory, resolved against the config
// file's directory.
func (c *Config) ExportPath() string {
	return c.resolve(c.Export.Dir)
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing pagetree.json, or an E141 error.
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
				WithDetail("No pagetree.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working
// directory or its nearest parent holding pagetree.json.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}

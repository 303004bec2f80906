package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vango-dev/vangotest/internal/errors"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "vangotest.json"

	// YAMLConfigFileName is the name of the YAML configuration file.
	YAMLConfigFileName = "vangotest.yaml"

	// DefaultInspectorAddr is the default inspector listen address.
	DefaultInspectorAddr = "localhost:7357"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "vangotest"

	// DefaultArchiveDir is the default directory for the disk archive.
	DefaultArchiveDir = "testdata/snapshots"
)

// Archive backends.
const (
	BackendMemory = "memory"
	BackendDisk   = "disk"
	BackendS3     = "s3"
	BackendSQLite = "sqlite"
)

// Config represents the complete vangotest configuration.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`

	// Clock configures the fake clock handed to mounted roots.
	Clock ClockConfig `json:"clock,omitempty" yaml:"clock,omitempty"`

	// Inspector configures the HTTP inspector.
	Inspector InspectorConfig `json:"inspector,omitempty" yaml:"inspector,omitempty"`

	// Metrics configures Prometheus metrics.
	Metrics MetricsConfig `json:"metrics,omitempty" yaml:"metrics,omitempty"`

	// Archive configures where golden snapshots are stored.
	Archive ArchiveConfig `json:"archive,omitempty" yaml:"archive,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ClockConfig configures the fake clock.
type ClockConfig struct {
	// Start is the RFC3339 instant the fake clock starts at.
	Start string `json:"start,omitempty" yaml:"start,omitempty"`
}

// InspectorConfig configures the inspector server.
type InspectorConfig struct {
	// Addr is the listen address.
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace.
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// ArchiveConfig configures the snapshot archive.
type ArchiveConfig struct {
	// Backend is one of memory, disk, s3, sqlite.
	Backend string `json:"backend,omitempty" yaml:"backend,omitempty"`

	// Dir is the disk backend directory.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	// Bucket, Prefix and Region configure the s3 backend.
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region string `json:"region,omitempty" yaml:"region,omitempty"`

	// DSN is the sqlite backend data source name.
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
}

// New returns a configuration with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads configuration from dir, preferring vangotest.json over
// vangotest.yaml.
func Load(dir string) (*Config, error) {
	jsonPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(jsonPath); err == nil {
		return LoadFile(jsonPath)
	}
	yamlPath := filepath.Join(dir, YAMLConfigFileName)
	if _, err := os.Stat(yamlPath); err == nil {
		return LoadFile(yamlPath)
	}
	return nil, errors.New(errors.CodeConfigNotFound).
		WithDetail("No " + ConfigFileName + " or " + YAMLConfigFileName + " found in " + dir)
}

// LoadFile reads configuration from the specified file path. Files ending
// in .yaml or .yml are parsed as YAML, everything else as JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigNotFound).
				WithDetail("No configuration at " + path)
		}
		return nil, errors.New(errors.CodeConfigInvalid).Wrap(err)
	}

	cfg := &Config{}
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New(errors.CodeConfigInvalid).
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error())
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration to path in the format implied by its
// extension.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New(errors.CodeConfigInvalid).Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeConfigInvalid).Wrap(err)
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
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Inspector.Addr == "" {
		c.Inspector.Addr = DefaultInspectorAddr
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Archive.Backend == "" {
		c.Archive.Backend = BackendDisk
	}
	if c.Archive.Backend == BackendDisk && c.Archive.Dir == "" {
		c.Archive.Dir = DefaultArchiveDir
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if _, err := c.ClockStart(); err != nil {
		return err
	}

	switch c.Archive.Backend {
	case BackendMemory, BackendDisk:
	case BackendS3:
		if c.Archive.Bucket == "" {
			return errors.New(errors.CodeConfigInvalid).
				WithDetail("archive.bucket is required for the s3 backend")
		}
	case BackendSQLite:
		if c.Archive.DSN == "" {
			return errors.New(errors.CodeConfigInvalid).
				WithDetail("archive.dsn is required for the sqlite backend")
		}
	default:
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("unknown archive backend %q", c.Archive.Backend).
			WithSuggestion("Use one of memory, disk, s3, sqlite.")
	}
	return nil
}

// SlogLevel converts LogLevel into a slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, errors.New(errors.CodeConfigInvalid).
			WithDetailf("invalid logLevel %q", c.LogLevel)
	}
	return level, nil
}

// ClockStart parses Clock.Start. The zero time is returned when unset.
func (c *Config) ClockStart() (time.Time, error) {
	if c.Clock.Start == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, c.Clock.Start)
	if err != nil {
		return time.Time{}, errors.New(errors.CodeConfigInvalid).
			WithDetailf("invalid clock.start %q", c.Clock.Start).
			WithSuggestion("Use an RFC3339 timestamp such as 2024-01-01T00:00:00Z.")
	}
	return t, nil
}

// Exists reports whether dir contains a configuration file.
func Exists(dir string) bool {
	for _, name := range []string{ConfigFileName, YAMLConfigFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the directory holding a
// configuration file.
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
			return "", errors.New(errors.CodeConfigNotFound).
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory
// or its nearest ancestor holding one.
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

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

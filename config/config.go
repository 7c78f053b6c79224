package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Server configures the application endpoint probed by the server check.
type Server struct {
	Scheme         string `toml:"scheme"`
	Host           string `toml:"host"`
	Port           int    `toml:"port"`
	Path           string `toml:"path"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	TokenSecret    string `toml:"token_secret"`
	TokenAudience  string `toml:"token_audience"`
}

// Store configures the data store check.
type Store struct {
	Paths           []string `toml:"paths"`
	VerifyIntegrity bool     `toml:"verify_integrity"`
}

// Workspace configures the working directory check.
type Workspace struct {
	Dirs []string `toml:"dirs"`
}

// Filesystem configures the critical directory and probe file check.
type Filesystem struct {
	Dirs          []string `toml:"dirs"`
	LogsDir       string   `toml:"logs_dir"`
	ProbeFile     string   `toml:"probe_file"`
	LockTimeoutMS int      `toml:"lock_timeout_ms"`
}

// Process configures the process check.
type Process struct {
	PID              int `toml:"pid"`
	MemoryWarnMB     int `toml:"memory_warn_mb"`
	MinUptimeSeconds int `toml:"min_uptime_seconds"`
}

// Retry configures --retry mode.
type Retry struct {
	MaxAttempts  int  `toml:"max_attempts"`
	DelaySeconds int  `toml:"delay_seconds"`
	OnUnhealthy  bool `toml:"on_unhealthy"`
}

// Logging configures the structured logger.
type Logging struct {
	Level string `toml:"level"`
}

// Telemetry configures tracing and metrics exporters.
type Telemetry struct {
	TracingExporter string  `toml:"tracing_exporter"`
	SamplePct       float64 `toml:"sample_pct"`
	MetricsExporter string  `toml:"metrics_exporter"`
}

// Serve configures the HTTP sidecar mode.
type Serve struct {
	Listen                string `toml:"listen"`
	BatteryTimeoutSeconds int    `toml:"battery_timeout_seconds"`
}

// Config is the full probe configuration.
type Config struct {
	Root       string     `toml:"root"`
	Server     Server     `toml:"server"`
	Store      Store      `toml:"store"`
	Workspace  Workspace  `toml:"workspace"`
	Filesystem Filesystem `toml:"filesystem"`
	Process    Process    `toml:"process"`
	Retry      Retry      `toml:"retry"`
	Logging    Logging    `toml:"logging"`
	Telemetry  Telemetry  `toml:"telemetry"`
	Serve      Serve      `toml:"serve"`
}

// Default returns the built-in configuration. Paths are relative to Root,
// which is resolved to the working directory during normalization.
func Default() Config {
	return Config{
		Server: Server{
			Scheme:         defaultScheme,
			Host:           defaultHost,
			Port:           defaultPort,
			Path:           defaultPath,
			TimeoutSeconds: defaultServerTimeoutSecs,
			TokenAudience:  defaultTokenAudience,
		},
		Store: Store{
			Paths: append([]string(nil), defaultStorePaths...),
		},
		Workspace: Workspace{
			Dirs: append([]string(nil), defaultWorkspaceDirs...),
		},
		Filesystem: Filesystem{
			Dirs:          append([]string(nil), defaultCriticalDirs...),
			LogsDir:       defaultLogsDir,
			ProbeFile:     defaultProbeFile,
			LockTimeoutMS: defaultLockTimeoutMillis,
		},
		Process: Process{
			MemoryWarnMB:     defaultMemoryWarnMB,
			MinUptimeSeconds: defaultMinUptimeSeconds,
		},
		Retry: Retry{
			MaxAttempts:  defaultRetryMaxAttempts,
			DelaySeconds: defaultRetryDelaySeconds,
		},
		Logging: Logging{
			Level: defaultLogLevel,
		},
		Telemetry: Telemetry{
			TracingExporter: defaultTracingExporter,
			SamplePct:       defaultTracingSamplePct,
			MetricsExporter: defaultMetricsExporter,
		},
		Serve: Serve{
			Listen:                defaultServeListen,
			BatteryTimeoutSeconds: defaultBatteryTimeoutSecs,
		},
	}
}

// Override adjusts a Config after the file and environment are applied and
// before normalization, typically from command-line flags.
type Override func(*Config)

// Load reads configuration from path, or from $HEALTHPROBE_CONFIG, or from
// ./healthprobe.toml when present, layering it over Default. HOST and PORT
// from the environment override the file, and overrides run last. The
// result is normalized and validated. The returned string is the file that
// was read, empty when none.
func Load(path string, overrides ...Override) (*Config, string, error) {
	cfg := Default()

	resolved, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", err
	}

	if resolved != "" {
		data, err := os.ReadFile(resolved)
		if err != nil {
			return nil, "", fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, "", fmt.Errorf("%w: %s: %w", ErrParse, resolved, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, "", err
	}
	for _, o := range overrides {
		o(&cfg)
	}
	if err := cfg.normalize(); err != nil {
		return nil, "", err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	return &cfg, resolved, nil
}

func resolveConfigPath(path string) (string, error) {
	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", fmt.Errorf("%w: %s", ErrConfigNotFound, path)
			}
			return "", fmt.Errorf("stat config: %w", err)
		}
		if info.IsDir() {
			return "", fmt.Errorf("%w: %s is a directory", ErrConfigNotFound, path)
		}
		return path, nil
	}

	if info, err := os.Stat(defaultConfigFileName); err == nil && !info.IsDir() {
		return defaultConfigFileName, nil
	}
	return "", nil
}

// applyEnv applies the HOST and PORT overrides.
func (c *Config) applyEnv() error {
	if host, ok := os.LookupEnv("HOST"); ok && host != "" {
		c.Server.Host = host
	}
	if port, ok := os.LookupEnv("PORT"); ok && port != "" {
		n, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("%w: PORT=%q is not a number", ErrInvalid, port)
		}
		c.Server.Port = n
	}
	return nil
}

// ServerURL returns the health endpoint URL.
func (c *Config) ServerURL() string {
	u := url.URL{
		Scheme: c.Server.Scheme,
		Host:   net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port)),
		Path:   c.Server.Path,
	}
	return u.String()
}

// ServerTimeout returns the server request timeout.
func (c *Config) ServerTimeout() time.Duration {
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}

// LockTimeout returns the probe file lock timeout.
func (c *Config) LockTimeout() time.Duration {
	return time.Duration(c.Filesystem.LockTimeoutMS) * time.Millisecond
}

// MemoryWarnBytes returns the resident memory warning threshold.
func (c *Config) MemoryWarnBytes() uint64 {
	return uint64(c.Process.MemoryWarnMB) * 1024 * 1024
}

// MinUptime returns the uptime warning threshold.
func (c *Config) MinUptime() time.Duration {
	return time.Duration(c.Process.MinUptimeSeconds) * time.Second
}

// RetryDelay returns the fixed wait between retry attempts.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Retry.DelaySeconds) * time.Second
}

// BatteryTimeout bounds one battery run in serve mode.
func (c *Config) BatteryTimeout() time.Duration {
	return time.Duration(c.Serve.BatteryTimeoutSeconds) * time.Second
}

// SampleConfig returns the commented sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes the sample configuration to path, creating parent
// directories. An existing file is never overwritten.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	if _, err := file.WriteString(sampleConfig); err != nil {
		_ = file.Close()
		return fmt.Errorf("write sample config: %w", err)
	}
	return file.Close()
}

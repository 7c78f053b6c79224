package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jonwraymond/healthprobe/observe"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateProcess(); err != nil {
		return err
	}
	if err := c.validateRetry(); err != nil {
		return err
	}
	if err := c.validateObservability(); err != nil {
		return err
	}
	return c.validateServe()
}

func (c *Config) validateServe() error {
	if strings.TrimSpace(c.Serve.Listen) == "" {
		return invalid("serve.listen must be set")
	}
	if c.Serve.BatteryTimeoutSeconds <= 0 {
		return invalid("serve.battery_timeout_seconds must be positive")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...)
}

func (c *Config) validateServer() error {
	if c.Server.Scheme != "http" && c.Server.Scheme != "https" {
		return invalid("server.scheme must be http or https, got %q", c.Server.Scheme)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return invalid("server.host must be set")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return invalid("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.TimeoutSeconds <= 0 {
		return invalid("server.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Filesystem.LogsDir == "" || c.Filesystem.LogsDir == "." {
		return invalid("filesystem.logs_dir must be set")
	}
	probe := c.Filesystem.ProbeFile
	if probe == "" || probe != filepath.Base(probe) || probe == "." || probe == ".." {
		return invalid("filesystem.probe_file must be a plain file name, got %q", probe)
	}
	if c.Filesystem.LockTimeoutMS <= 0 {
		return invalid("filesystem.lock_timeout_ms must be positive")
	}
	return nil
}

func (c *Config) validateProcess() error {
	if c.Process.PID < 0 {
		return invalid("process.pid must not be negative")
	}
	if c.Process.MemoryWarnMB <= 0 {
		return invalid("process.memory_warn_mb must be positive")
	}
	if c.Process.MinUptimeSeconds <= 0 {
		return invalid("process.min_uptime_seconds must be positive")
	}
	return nil
}

func (c *Config) validateRetry() error {
	if c.Retry.MaxAttempts < 1 {
		return invalid("retry.max_attempts must be at least 1")
	}
	if c.Retry.DelaySeconds < 0 {
		return invalid("retry.delay_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateObservability() error {
	if !slices.Contains(observe.ValidLogLevels, c.Logging.Level) {
		return invalid("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	if !slices.Contains(observe.ValidTracingExporters, c.Telemetry.TracingExporter) {
		return invalid("telemetry.tracing_exporter %q is not supported", c.Telemetry.TracingExporter)
	}
	if !slices.Contains(observe.ValidMetricsExporters, c.Telemetry.MetricsExporter) {
		return invalid("telemetry.metrics_exporter %q is not supported", c.Telemetry.MetricsExporter)
	}
	if c.Telemetry.SamplePct < observe.MinSamplePct || c.Telemetry.SamplePct > observe.MaxSamplePct {
		return invalid("telemetry.sample_pct must be between 0 and 1")
	}
	return nil
}

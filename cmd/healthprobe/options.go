package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/jonwraymond/healthprobe/config"
	"github.com/jonwraymond/healthprobe/observe"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const serviceName = "healthprobe"

// errReported marks a failure whose output has already been written.
var errReported = errors.New("health check failed")

var validOutputs = []string{"text", "json", "yaml"}

type options struct {
	configPath     string
	root           string
	host           string
	port           int
	retry          bool
	retryUnhealthy bool
	output         string
	logLevel       string
	listen         string
}

// errRetryUnhealthyAlone rejects --retry-unhealthy without --retry.
var errRetryUnhealthyAlone = errors.New("--retry-unhealthy requires --retry")

func (o *options) validateRetry() error {
	if o.retryUnhealthy && !o.retry {
		return errRetryUnhealthyAlone
	}
	return nil
}

func (o *options) validateOutput() error {
	o.output = strings.ToLower(strings.TrimSpace(o.output))
	if !slices.Contains(validOutputs, o.output) {
		return fmt.Errorf("unsupported --output %q (want text, json or yaml)", o.output)
	}
	return nil
}

// overrides turns explicitly set flags into config overrides.
func (o *options) overrides() []config.Override {
	var out []config.Override
	if o.root != "" {
		out = append(out, func(c *config.Config) { c.Root = o.root })
	}
	if o.host != "" {
		out = append(out, func(c *config.Config) { c.Server.Host = o.host })
	}
	if o.port != 0 {
		out = append(out, func(c *config.Config) { c.Server.Port = o.port })
	}
	if o.retryUnhealthy {
		out = append(out, func(c *config.Config) { c.Retry.OnUnhealthy = true })
	}
	if o.logLevel != "" {
		out = append(out, func(c *config.Config) { c.Logging.Level = o.logLevel })
	}
	if o.listen != "" {
		out = append(out, func(c *config.Config) { c.Serve.Listen = o.listen })
	}
	return out
}

func (o *options) loadConfig() (*config.Config, error) {
	cfg, _, err := config.Load(strings.TrimSpace(o.configPath), o.overrides()...)
	return cfg, err
}

// newObserver builds the telemetry stack described by cfg. Logs and stdout
// exporters write to logOut so the probe's own stdout stays parseable.
func newObserver(ctx context.Context, cfg *config.Config, logOut io.Writer) (observe.Observer, *observe.Middleware, error) {
	obs, err := observe.NewObserver(ctx, observe.Config{
		ServiceName: serviceName,
		Version:     version,
		Tracing: observe.TracingConfig{
			Enabled:   cfg.Telemetry.TracingExporter != "none",
			Exporter:  cfg.Telemetry.TracingExporter,
			SamplePct: cfg.Telemetry.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  cfg.Telemetry.MetricsExporter != "none",
			Exporter: cfg.Telemetry.MetricsExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   cfg.Logging.Level,
			Output:  logOut,
		},
		ExporterOutput: logOut,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("observability: %w", err)
	}

	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		_ = obs.Shutdown(ctx)
		return nil, nil, fmt.Errorf("observability: %w", err)
	}
	return obs, mw, nil
}

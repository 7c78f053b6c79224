package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/healthprobe/health"
	"github.com/jonwraymond/healthprobe/observe"
	"github.com/jonwraymond/healthprobe/probe"
)

func newServeCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the health battery over HTTP",
		Long:  "Exposes /healthz (liveness), /readyz and /health (one battery per request, coalesced) and /metrics when the prometheus exporter is selected.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.listen, "listen", "", "Listen address (default from config, :9090)")
	return cmd
}

func runServe(cmd *cobra.Command, opts *options) error {
	ctx := cmd.Context()

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	obs, mw, err := newObserver(ctx, cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		_ = obs.Shutdown(shutdownCtx)
	}()

	p, err := probe.New(cfg, probe.WithMiddleware(mw), probe.WithRunTimeout(cfg.BatteryTimeout()))
	if err != nil {
		return err
	}

	mux := newServeMux(newBatteryRunner(p), cfg.Telemetry.MetricsExporter == "prometheus")
	srv := &http.Server{
		Addr:              cfg.Serve.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger := mw.Logger()
	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "serving health endpoints",
			observe.Field{Key: "listen", Value: cfg.Serve.Listen},
			observe.Field{Key: "checks", Value: p.Checks()},
			observe.Field{Key: "battery_timeout_s", Value: cfg.Serve.BatteryTimeoutSeconds},
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("serve shutdown: %w", err)
	}
	logger.Info(ctx, "health endpoints stopped")
	return nil
}

func newServeMux(runner *batteryRunner, prometheus bool) *http.ServeMux {
	mux := http.NewServeMux()
	health.RegisterHandlers(mux, runner.Run)
	if prometheus {
		mux.Handle("/metrics", promhttp.Handler())
	}
	return mux
}

// batteryRunner coalesces concurrent requests so at most one battery runs at
// a time; callers that arrive mid-run share its report.
type batteryRunner struct {
	run   func(context.Context) (probe.Outcome, error)
	group singleflight.Group
}

func newBatteryRunner(p *probe.Probe) *batteryRunner {
	return &batteryRunner{run: p.Run}
}

// Run satisfies health.RunFunc.
func (b *batteryRunner) Run(ctx context.Context) (health.Report, error) {
	ch := b.group.DoChan("battery", func() (any, error) {
		// Shared by every waiting request, so one disconnect must not cancel it.
		out, err := b.run(context.WithoutCancel(ctx))
		return out.Report, err
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return health.Report{}, res.Err
		}
		return res.Val.(health.Report), nil
	case <-ctx.Done():
		return health.Report{}, ctx.Err()
	}
}

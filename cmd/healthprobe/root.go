package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/healthprobe/probe"
)

const shutdownTimeout = 5 * time.Second

func newRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "healthprobe",
		Short:         "Container health check",
		Long:          "Runs the server, database, memory, filesystem and processes checks and exits 0 only when all pass.",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe(cmd, opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Configuration file path (default $HEALTHPROBE_CONFIG or ./healthprobe.toml)")
	flags.StringVar(&opts.root, "root", "", "Application root that relative paths resolve against (default working directory)")
	flags.StringVar(&opts.host, "host", "", "Application host (overrides $HOST)")
	flags.IntVar(&opts.port, "port", 0, "Application port (overrides $PORT)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	rootCmd.Flags().BoolVar(&opts.retry, "retry", false, "Re-run the battery after a failed attempt")
	rootCmd.Flags().BoolVar(&opts.retryUnhealthy, "retry-unhealthy", false, "Also retry a failing verdict (requires --retry)")
	rootCmd.Flags().StringVarP(&opts.output, "output", "o", "text", "Output format: text, json or yaml")

	rootCmd.AddCommand(newServeCommand(opts))
	rootCmd.AddCommand(newConfigCommand(opts))

	return rootCmd
}

func runProbe(cmd *cobra.Command, opts *options) error {
	if err := opts.validateRetry(); err != nil {
		return err
	}
	if err := opts.validateOutput(); err != nil {
		return err
	}
	r := newRenderer(cmd, opts.output)
	ctx := cmd.Context()

	cfg, err := opts.loadConfig()
	if err != nil {
		return r.outcome(probe.Outcome{}, err)
	}

	obs, mw, err := newObserver(ctx, cfg, cmd.ErrOrStderr())
	if err != nil {
		return r.outcome(probe.Outcome{}, err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "telemetry shutdown: %v\n", err)
		}
	}()

	p, err := probe.New(cfg, probe.WithMiddleware(mw), probe.WithProgress(r.progress()))
	if err != nil {
		return r.outcome(probe.Outcome{}, err)
	}

	var out probe.Outcome
	if opts.retry {
		out, err = p.RunWithRetry(ctx)
	} else {
		out, err = p.Run(ctx)
	}
	return r.outcome(out, err)
}

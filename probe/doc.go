// Package probe runs the container health battery.
//
// New builds the five checks from a config.Config and registers them on a
// health.Aggregator in a fixed order: server, database, memory, filesystem,
// processes. Every check is wrapped by an observe.Middleware so each
// execution gets a span, metrics and a log line tagged with the run ID and
// attempt number.
//
// Run executes the battery once. RunWithRetry re-runs it with a fixed delay
// when a run fails with an error, and also on a failing verdict when
// retry.on_unhealthy is set.
package probe

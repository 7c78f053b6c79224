// Package observe provides tracing, metrics and structured logging for
// health check execution.
//
// An Observer is built from Config and owns the OpenTelemetry providers.
// MiddlewareFromObserver returns a Middleware whose Wrap decorates a
// CheckFunc with a span named probe.check.<name>, the probe.check.total,
// probe.check.failures and probe.check.duration_ms instruments, and one JSON
// log line per execution. Healthy checks log at debug, degraded checks at
// info and failed checks at warn.
package observe

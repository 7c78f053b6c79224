package observe

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/healthprobe/health"
)

// CheckFunc runs one check. This is the signature Middleware wraps.
type CheckFunc func(ctx context.Context, meta CheckMeta) health.Result

// Middleware wraps check execution with tracing, metrics and logging.
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe CheckFunc.
//   - Context: Propagates context through tracing spans.
//   - Results: The wrapped result is returned unchanged. Panics are recorded
//     and re-raised so the caller's recovery still sees them.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given observability components.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// NopMiddleware returns a Middleware that records nothing.
func NopMiddleware() *Middleware {
	return NewMiddleware(newNoopTracer(), &noopMetrics{}, &noopLogger{})
}

// Wrap wraps a CheckFunc with tracing, metrics, and logging.
func (m *Middleware) Wrap(fn CheckFunc) CheckFunc {
	return func(ctx context.Context, meta CheckMeta) (result health.Result) {
		ctx, span := m.tracer.StartSpan(ctx, meta)
		start := time.Now()

		defer func() {
			r := recover()
			if r == nil {
				return
			}
			failed := health.Unhealthy("check panicked", fmt.Errorf("%w: %v", health.ErrCheckPanicked, r))
			m.record(ctx, meta, failed, time.Since(start))
			m.tracer.EndSpan(span, failed)
			panic(r)
		}()

		result = fn(ctx, meta)

		m.record(ctx, meta, result, time.Since(start))
		m.tracer.EndSpan(span, result)
		return result
	}
}

func (m *Middleware) record(ctx context.Context, meta CheckMeta, result health.Result, duration time.Duration) {
	m.metrics.RecordCheck(ctx, meta, result.Status, duration)

	logger := m.logger.WithCheck(meta)
	fields := []Field{
		{Key: "status", Value: result.Status.String()},
		{Key: "duration_ms", Value: float64(duration.Microseconds()) / 1000},
	}

	switch result.Status {
	case health.StatusHealthy:
		logger.Debug(ctx, "check passed", fields...)
	case health.StatusDegraded:
		fields = append(fields, Field{Key: "warnings", Value: result.Warnings})
		logger.Info(ctx, "check passed with warnings", fields...)
	default:
		fields = append(fields, Field{Key: "message", Value: result.Message})
		if result.Error != nil {
			fields = append(fields, Field{Key: "error", Value: result.Error.Error()})
		}
		logger.Warn(ctx, "check failed", fields...)
	}
}

// Logger returns the middleware's logger.
func (m *Middleware) Logger() Logger {
	return m.logger
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(newTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

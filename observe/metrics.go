package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jonwraymond/healthprobe/health"
)

// Metrics records per-check execution metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordCheck records one check execution with its status and duration.
	RecordCheck(ctx context.Context, meta CheckMeta, status health.Status, duration time.Duration)
}

type metricsImpl struct {
	totalCount   metric.Int64Counter
	failureCount metric.Int64Counter
	durationHist metric.Float64Histogram
}

func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	totalCount, err := meter.Int64Counter(
		"probe.check.total",
		metric.WithDescription("Total number of health check executions"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, err
	}

	failureCount, err := meter.Int64Counter(
		"probe.check.failures",
		metric.WithDescription("Total number of failed health checks"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"probe.check.duration_ms",
		metric.WithDescription("Health check duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		totalCount:   totalCount,
		failureCount: failureCount,
		durationHist: durationHist,
	}, nil
}

// RecordCheck records metrics for a check execution.
func (m *metricsImpl) RecordCheck(ctx context.Context, meta CheckMeta, status health.Status, duration time.Duration) {
	opt := metric.WithAttributes(
		attribute.String("check.name", meta.Name),
		attribute.String("check.status", status.String()),
	)

	m.totalCount.Add(ctx, 1, opt)
	if status == health.StatusUnhealthy {
		m.failureCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Microseconds())/1000, opt)
}

type noopMetrics struct{}

func (m *noopMetrics) RecordCheck(context.Context, CheckMeta, health.Status, time.Duration) {}

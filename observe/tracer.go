package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/jonwraymond/healthprobe/health"
)

// CheckMeta identifies one check execution for telemetry purposes.
type CheckMeta struct {
	Name    string // Check name, e.g. "server" (required)
	RunID   string // Probe run identifier (optional)
	Attempt int    // 1-based attempt within a retried run (optional)
}

// SpanName returns the deterministic span name for this check.
// Format: probe.check.<name>
func (m CheckMeta) SpanName() string {
	return "probe.check." + m.Name
}

// Validate reports whether the metadata is usable.
func (m CheckMeta) Validate() error {
	if m.Name == "" {
		return ErrMissingCheckName
	}
	return nil
}

// Tracer wraps OpenTelemetry tracing with check-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a check execution.
	StartSpan(ctx context.Context, meta CheckMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording the check outcome.
	EndSpan(span trace.Span, result health.Result)
}

type tracerImpl struct {
	tracer trace.Tracer
}

func newTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with check metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta CheckMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("check.name", meta.Name),
	}
	if meta.RunID != "" {
		attrs = append(attrs, attribute.String("probe.run_id", meta.RunID))
	}
	if meta.Attempt > 0 {
		attrs = append(attrs, attribute.Int("probe.attempt", meta.Attempt))
	}

	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpan ends the span. Unhealthy results set an error status; degraded
// results stay Ok and carry their warnings as an attribute.
func (t *tracerImpl) EndSpan(span trace.Span, result health.Result) {
	span.SetAttributes(
		attribute.String("check.status", result.Status.String()),
		attribute.Bool("check.passed", result.Passed()),
	)
	if len(result.Warnings) > 0 {
		span.SetAttributes(attribute.StringSlice("check.warnings", result.Warnings))
	}

	if result.Passed() {
		span.SetStatus(codes.Ok, "")
	} else {
		span.SetStatus(codes.Error, result.Message)
		if result.Error != nil {
			span.RecordError(result.Error)
		}
	}
	span.End()
}

type noopTracer struct {
	noop trace.Tracer
}

func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta CheckMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, _ health.Result) {
	span.End()
}

package oteladapters

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/twinforge/thing-engine-go/observability"
)

// TracingCollector implements observability.TracingCollector on the
// OpenTelemetry tracing API.
type TracingCollector struct {
	tracer trace.Tracer
}

// NewTracingCollector creates a collector on the given tracer.
func NewTracingCollector(tracer trace.Tracer) *TracingCollector {
	return &TracingCollector{tracer: tracer}
}

// StartSpan starts a span with the given name and string attributes and
// returns the span-carrying context plus a wrapper for finishing it.
func (t *TracingCollector) StartSpan(
	ctx context.Context, name string, attrs map[string]string,
) (context.Context, observability.SpanContext) {
	options := make([]trace.SpanStartOption, 0, len(attrs))
	for key, value := range attrs {
		options = append(options, trace.WithAttributes(attribute.String(key, value)))
	}

	spanCtx, span := t.tracer.Start(ctx, name, options...)

	return spanCtx, &OTelSpanContext{span: span}
}

// FinishSpan sets final attributes and the mapped status, then ends the span.
func (t *TracingCollector) FinishSpan(spanCtx observability.SpanContext, status string, attrs map[string]string) {
	otelSpan, ok := spanCtx.(*OTelSpanContext)
	if !ok {
		return
	}

	for key, value := range attrs {
		otelSpan.span.SetAttributes(attribute.String(key, value))
	}
	otelSpan.setSpanStatus(status)
	otelSpan.span.End()
}

var _ observability.TracingCollector = (*TracingCollector)(nil)

// OTelSpanContext wraps an OpenTelemetry span behind observability.SpanContext.
type OTelSpanContext struct {
	span trace.Span
}

// SetStatus maps a generic status string onto the span status.
func (s *OTelSpanContext) SetStatus(status string) {
	s.setSpanStatus(status)
}

// AddAttribute adds a string attribute to the span.
func (s *OTelSpanContext) AddAttribute(key, value string) {
	s.span.SetAttributes(attribute.String(key, value))
}

func (s *OTelSpanContext) setSpanStatus(status string) {
	switch status {
	case "ok", "success", "completed":
		s.span.SetStatus(codes.Ok, "")
	case "error", "failed", "failure":
		s.span.SetStatus(codes.Error, "operation failed")
	case "cancelled", "canceled":
		s.span.SetStatus(codes.Error, "operation cancelled")
	case "timeout":
		s.span.SetStatus(codes.Error, "operation timed out")
	case "conflict":
		s.span.SetStatus(codes.Error, "concurrency conflict")
	default:
		s.span.SetAttributes(attribute.String("status", status))
	}
}

var _ observability.SpanContext = (*OTelSpanContext)(nil)

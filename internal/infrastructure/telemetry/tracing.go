package telemetry

import (
	"context"
	"errors"

	"github.com/erp/distribution/internal/domain/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer used for application spans
const TracerName = "distribution-erp"

// StartSpan starts an internal span from the global provider.
//
//	ctx, span := telemetry.StartSpan(ctx, "cash_session.close", attribute.String("session_id", id))
//	defer span.End()
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// EndSpan records err on the span and ends it. Domain errors are expected
// outcomes and leave the span status unset.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		var de *shared.DomainError
		if errors.As(err, &de) {
			span.SetAttributes(attribute.String("error.code", de.Code))
		} else {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}
	span.End()
}

package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = otel.Tracer("challenge-league/internal/usecase")

// startUsecaseSpan only opens spans inside an existing trace so background
// work without a request never creates root spans.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if name == "" || !parent.SpanContext().IsValid() {
		return ctx, parent
	}
	return usecaseTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func challengeAttr(id string) attribute.KeyValue {
	return attribute.String("challenge.id", id)
}

func leagueAttr(id string) attribute.KeyValue {
	return attribute.String("league.id", id)
}

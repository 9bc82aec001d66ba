package data

import (
	"context"
	"fmt"

	"github.com/trailmark/trailmark"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var packageName = fmt.Sprintf("%s%s", trailmark.PackageName, "/rest/data")

var tracer = otel.GetTracerProvider().Tracer(packageName)

const (
	destinationIdAttribute   = "trailmark.destination.id"
	destinationNameAttribute = "trailmark.destination.name"
	locationAttribute        = "trailmark.destination.location"
	minRatingAttribute       = "trailmark.destination.min_rating"
	resultCountAttribute     = "trailmark.result.count"
)

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

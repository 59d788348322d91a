package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	versionCreatedCounter metric.Int64Counter
	bindCounter           metric.Int64Counter
	bindDuration          metric.Float64Histogram
	eventPublishErrors    metric.Int64Counter
)

// InitDocumentMetrics registers the document lifecycle instruments on the
// global meter provider. Until it is called every Record* function is a no-op.
func InitDocumentMetrics() error {
	meter := otel.Meter("docledger.document")

	var err error

	versionCreatedCounter, err = meter.Int64Counter(
		"document.version.created",
		metric.WithDescription("Number of document versions appended"),
		metric.WithUnit("{version}"),
	)
	if err != nil {
		return err
	}

	bindCounter, err = meter.Int64Counter(
		"document.bind.count",
		metric.WithDescription("Number of session bind operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return err
	}

	bindDuration, err = meter.Float64Histogram(
		"document.bind.duration",
		metric.WithDescription("Duration of session bind operations"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	eventPublishErrors, err = meter.Int64Counter(
		"document.event.publish_errors",
		metric.WithDescription("Number of lifecycle events that failed to publish"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// RecordVersionCreated counts one appended version. source names the
// operation that appended it, e.g. "create_document" or "bind".
func RecordVersionCreated(ctx context.Context, source string) {
	if versionCreatedCounter != nil {
		versionCreatedCounter.Add(ctx, 1,
			metric.WithAttributes(attribute.String("source", source)),
		)
	}
}

// RecordBind records a bind outcome: "first_version", "copy_forward",
// "replayed" or an error kind.
func RecordBind(ctx context.Context, outcome string, durationMs float64) {
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	if bindCounter != nil {
		bindCounter.Add(ctx, 1, attrs)
	}
	if bindDuration != nil {
		bindDuration.Record(ctx, durationMs, attrs)
	}
}

func RecordEventPublishError(ctx context.Context, routingKey string) {
	if eventPublishErrors != nil {
		eventPublishErrors.Add(ctx, 1,
			metric.WithAttributes(attribute.String("routing_key", routingKey)),
		)
	}
}

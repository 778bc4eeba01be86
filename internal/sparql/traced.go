package sparql

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TracedExecutor wraps an Executor with a span per remote call.
type TracedExecutor struct {
	inner  Executor
	tracer trace.Tracer
}

// NewTracedExecutor creates a tracing decorator around inner.
func NewTracedExecutor(inner Executor, tracer trace.Tracer) *TracedExecutor {
	return &TracedExecutor{
		inner:  inner,
		tracer: tracer,
	}
}

func (e *TracedExecutor) Select(ctx context.Context, query string) ([]Row, error) {
	ctx, span := e.tracer.Start(ctx, "sparql.Select",
		trace.WithAttributes(
			attribute.Int("query.length", len(query)),
		),
	)
	defer span.End()

	rows, err := e.inner.Select(ctx, query)
	if err != nil {
		span.RecordError(err)
	} else {
		span.SetAttributes(attribute.Int("result.rows", len(rows)))
	}

	return rows, err
}

func (e *TracedExecutor) Update(ctx context.Context, update string) error {
	ctx, span := e.tracer.Start(ctx, "sparql.Update",
		trace.WithAttributes(
			attribute.Int("update.length", len(update)),
		),
	)
	defer span.End()

	err := e.inner.Update(ctx, update)
	if err != nil {
		span.RecordError(err)
	}

	return err
}

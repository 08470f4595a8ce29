package telemetry

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/astarviz/astar"
	"github.com/katalvlaran/astarviz/grid"
)

// InstrumentationName names the tracer used for search spans.
const InstrumentationName = "github.com/katalvlaran/astarviz"

// SpanName is the name of the span wrapping one search.
const SpanName = "astar.search"

// Recorder instruments searches with a span and, optionally, Metrics.
type Recorder struct {
	metrics *Metrics
	tracer  trace.Tracer
}

// NewRecorder returns a Recorder reporting to m (may be nil) and tracing
// through tp. A nil tp uses the global provider.
func NewRecorder(m *Metrics, tp trace.TracerProvider) *Recorder {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Recorder{metrics: m, tracer: tp.Tracer(InstrumentationName)}
}

// Observer wraps next with event counting.
func (r *Recorder) Observer(next astar.Observer) astar.Observer {
	return r.metrics.Observer(next)
}

// Begin opens a search span as a child of ctx. The returned func must be
// called exactly once with the search outcome; it ends the span and records
// metrics.
func (r *Recorder) Begin(ctx context.Context, size int, start, goal grid.Coord) (context.Context, func(astar.Result, error)) {
	ctx, span := r.tracer.Start(ctx, SpanName, trace.WithAttributes(
		attribute.Int("grid.size", size),
		attribute.String("search.start", start.String()),
		attribute.String("search.goal", goal.String()),
	))
	r.metrics.started()
	began := time.Now()

	return ctx, func(res astar.Result, err error) {
		r.metrics.finished(res, err, time.Since(began))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.End()
			return
		}
		span.SetAttributes(
			attribute.String("search.status", res.Status.String()),
			attribute.Int("search.expanded", res.Expanded),
			attribute.Int("search.cost", res.Cost),
			attribute.Int("search.path_length", len(res.Path)),
		)
		span.End()
	}
}

// Run executes astar.Run inside a span. ctx replaces any context given in
// opts, and the observer from opts, if any, is wrapped with event counting.
func (r *Recorder) Run(ctx context.Context, g *grid.Grid, start, goal grid.Coord, opts ...astar.Option) (astar.Result, error) {
	o := astar.DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	size := 0
	if g != nil {
		size = g.Size()
	}

	ctx, finish := r.Begin(ctx, size, start, goal)
	all := make([]astar.Option, 0, len(opts)+2)
	all = append(all, opts...)
	all = append(all, astar.WithContext(ctx), astar.WithObserver(r.Observer(o.Observer)))

	res, err := astar.Run(g, start, goal, all...)
	finish(res, err)
	return res, err
}

// NewStdoutTracerProvider returns a provider that writes every finished span
// to w as indented JSON. Shut it down to flush.
func NewStdoutTracerProvider(w io.Writer) (*sdktrace.TracerProvider, error) {
	exp, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("telemetry: stdout exporter: %w", err)
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exp),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", "astarviz"))),
	), nil
}

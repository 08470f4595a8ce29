package telemetry_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/katalvlaran/astarviz/astar"
	"github.com/katalvlaran/astarviz/grid"
	"github.com/katalvlaran/astarviz/telemetry"
)

func open3(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.New(3)
	require.NoError(t, err)
	return g
}

func newRecorder(t *testing.T) (*telemetry.Recorder, *prometheus.Registry, *tracetest.SpanRecorder) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m, err := telemetry.NewMetrics(reg)
	require.NoError(t, err)
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return telemetry.NewRecorder(m, tp), reg, sr
}

func attrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := telemetry.NewMetrics(reg)
	require.NoError(t, err)
	_, err = telemetry.NewMetrics(reg)
	require.ErrorIs(t, err, telemetry.ErrRegistration)
}

// TestRecorder_Run counts events and outcomes of a small search.
func TestRecorder_Run(t *testing.T) {
	r, reg, sr := newRecorder(t)

	var seen int
	res, err := r.Run(context.Background(), open3(t), grid.Coord{Row: 0, Col: 0}, grid.Coord{Row: 0, Col: 2},
		astar.WithObserver(func(astar.Event) astar.Action {
			seen++
			return astar.Continue
		}))
	require.NoError(t, err)
	require.Equal(t, astar.Found, res.Status)
	assert.Equal(t, 10, seen, "caller observer still called")

	const want = `
# HELP astarviz_events_total Search events delivered to observers, by kind.
# TYPE astarviz_events_total counter
astarviz_events_total{kind="closed"} 1
astarviz_events_total{kind="opened"} 4
astarviz_events_total{kind="path_step"} 3
astarviz_events_total{kind="step_complete"} 2
# HELP astarviz_runs_in_flight Searches currently running.
# TYPE astarviz_runs_in_flight gauge
astarviz_runs_in_flight 0
# HELP astarviz_runs_total Completed searches by outcome.
# TYPE astarviz_runs_total counter
astarviz_runs_total{status="found"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(want),
		"astarviz_events_total", "astarviz_runs_total", "astarviz_runs_in_flight"))
	n, err := testutil.GatherAndCount(reg, "astarviz_run_path_length", "astarviz_run_expanded_nodes")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, telemetry.SpanName, spans[0].Name())
	a := attrs(spans[0])
	assert.Equal(t, "found", a["search.status"].AsString())
	assert.Equal(t, int64(3), a["search.expanded"].AsInt64())
	assert.Equal(t, int64(2), a["search.cost"].AsInt64())
	assert.Equal(t, "(0,0)", a["search.start"].AsString())
}

// TestRecorder_RunError marks the span failed and counts an error run.
func TestRecorder_RunError(t *testing.T) {
	r, reg, sr := newRecorder(t)

	_, err := r.Run(context.Background(), open3(t), grid.Coord{Row: 1, Col: 1}, grid.Coord{Row: 1, Col: 1})
	require.ErrorIs(t, err, astar.ErrInvalidEndpoints)

	const want = `
# HELP astarviz_runs_total Completed searches by outcome.
# TYPE astarviz_runs_total counter
astarviz_runs_total{status="error"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(want), "astarviz_runs_total"))
	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

// TestRecorder_Cancelled propagates the caller's context into the search.
func TestRecorder_Cancelled(t *testing.T) {
	r, reg, _ := newRecorder(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := r.Run(ctx, open3(t), grid.Coord{Row: 0, Col: 0}, grid.Coord{Row: 2, Col: 2})
	require.NoError(t, err)
	assert.Equal(t, astar.Cancelled, res.Status)

	const want = `
# HELP astarviz_runs_total Completed searches by outcome.
# TYPE astarviz_runs_total counter
astarviz_runs_total{status="cancelled"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(want), "astarviz_runs_total"))
}

// TestNilMetrics keeps the observer chain intact without collectors.
func TestNilMetrics(t *testing.T) {
	var m *telemetry.Metrics
	called := false
	obs := m.Observer(func(astar.Event) astar.Action {
		called = true
		return astar.Stop
	})
	assert.Equal(t, astar.Stop, obs(astar.Event{Kind: astar.Opened}))
	assert.True(t, called)
	assert.Equal(t, astar.Continue, m.Observer(nil)(astar.Event{}))

	r := telemetry.NewRecorder(nil, nil)
	res, err := r.Run(context.Background(), open3(t), grid.Coord{Row: 0, Col: 0}, grid.Coord{Row: 2, Col: 2})
	require.NoError(t, err)
	assert.Equal(t, astar.Found, res.Status)
}

// TestStdoutTracerProvider writes the search span as JSON.
func TestStdoutTracerProvider(t *testing.T) {
	var buf bytes.Buffer
	tp, err := telemetry.NewStdoutTracerProvider(&buf)
	require.NoError(t, err)

	r := telemetry.NewRecorder(nil, tp)
	_, err = r.Run(context.Background(), open3(t), grid.Coord{Row: 0, Col: 0}, grid.Coord{Row: 2, Col: 2})
	require.NoError(t, err)
	require.NoError(t, tp.Shutdown(context.Background()))

	out := buf.String()
	assert.Contains(t, out, telemetry.SpanName)
	assert.Contains(t, out, "search.expanded")
}

package stream_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/katalvlaran/astarviz/grid"
	"github.com/katalvlaran/astarviz/scenario"
	"github.com/katalvlaran/astarviz/stream"
	"github.com/katalvlaran/astarviz/telemetry"
)

type fixture struct {
	srv  *stream.Server
	ts   *httptest.Server
	reg  *prometheus.Registry
	hook *logtest.Hook
}

func newFixture(t *testing.T, n int, opts ...stream.Option) *fixture {
	t.Helper()
	g, err := grid.New(n)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m, err := telemetry.NewMetrics(reg)
	require.NoError(t, err)
	logger, hook := logtest.NewNullLogger()

	all := append([]stream.Option{
		stream.WithLogger(logger),
		stream.WithRecorder(telemetry.NewRecorder(m, nil)),
		stream.WithMetrics(reg),
	}, opts...)
	srv, err := stream.New(g, all...)
	require.NoError(t, err)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	return &fixture{srv: srv, ts: ts, reg: reg, hook: hook}
}

func (f *fixture) dial(t *testing.T, query string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	u := "ws" + strings.TrimPrefix(f.ts.URL, "http") + "/run" + query
	return websocket.DefaultDialer.Dial(u, nil)
}

func (f *fixture) do(t *testing.T, method, path, contentType, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, f.ts.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// readRun collects event messages up to and including the result.
func readRun(t *testing.T, conn *websocket.Conn) ([]stream.EventMessage, stream.ResultMessage) {
	t.Helper()
	var events []stream.EventMessage
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var probe struct {
			Kind string `json:"kind"`
		}
		require.NoError(t, json.Unmarshal(data, &probe))
		if probe.Kind == stream.KindResult {
			var res stream.ResultMessage
			require.NoError(t, json.Unmarshal(data, &res))
			return events, res
		}
		var ev stream.EventMessage
		require.NoError(t, json.Unmarshal(data, &ev))
		events = append(events, ev)
	}
}

//----------------------------------------------------------------------------//
// Runs
//----------------------------------------------------------------------------//

// TestRun_StreamsEvents checks the message sequence of a small search.
func TestRun_StreamsEvents(t *testing.T) {
	f := newFixture(t, 3)
	conn, _, err := f.dial(t, "?start=0,0&goal=0,2")
	require.NoError(t, err)
	defer conn.Close()

	events, res := readRun(t, conn)
	kinds := make([]string, len(events))
	for i, ev := range events {
		kinds[i] = ev.Kind
	}
	assert.Equal(t, []string{
		"opened", "opened", "step_complete",
		"opened", "opened", "step_complete", "closed",
		"path_step", "path_step", "path_step",
	}, kinds)
	assert.Equal(t, stream.EventMessage{Kind: "opened", Row: 1, Col: 0, Step: 1, G: 1, F: 4}, events[0])

	assert.Equal(t, "found", res.Status)
	assert.Equal(t, [][2]int{{0, 0}, {0, 1}, {0, 2}}, res.Path)
	assert.Equal(t, 3, res.Expanded)
	assert.Equal(t, 2, res.Cost)
	assert.NotEmpty(t, res.RunID)

	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)

	var finished *logrus.Entry
	for _, e := range f.hook.AllEntries() {
		if e.Message == "run finished" {
			finished = e
		}
	}
	require.NotNil(t, finished)
	assert.Equal(t, res.RunID, finished.Data["run_id"])
	assert.Equal(t, "found", finished.Data["status"])
}

// TestRun_Span records one span per run and tags the run's log lines with its trace.
func TestRun_Span(t *testing.T) {
	m, err := telemetry.NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	f := newFixture(t, 3, stream.WithRecorder(telemetry.NewRecorder(m, tp)))

	conn, _, err := f.dial(t, "?start=0,0&goal=0,2")
	require.NoError(t, err)
	_, res := readRun(t, conn)
	require.NoError(t, conn.Close())
	require.Equal(t, "found", res.Status)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, telemetry.SpanName, spans[0].Name())
	traceID := spans[0].SpanContext().TraceID().String()
	for _, e := range f.hook.AllEntries() {
		if e.Data["run_id"] == res.RunID {
			assert.Equal(t, traceID, e.Data["trace_id"], e.Message)
		}
	}

	_, resp, err := f.dial(t, "?start=0,0&goal=0,0")
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	spans = sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}

// TestRun_GridEndpoints falls back to the painted Start and Goal cells.
func TestRun_GridEndpoints(t *testing.T) {
	f := newFixture(t, 4)
	for _, p := range []string{"/cells/3/0", "/cells/0/3", "/cells/1/0", "/cells/1/1", "/cells/1/2"} {
		resp := f.do(t, http.MethodPost, p, "", "")
		require.Equal(t, http.StatusOK, resp.StatusCode, p)
	}

	conn, _, err := f.dial(t, "")
	require.NoError(t, err)
	defer conn.Close()

	_, res := readRun(t, conn)
	require.Equal(t, "found", res.Status)
	assert.Equal(t, [2]int{3, 0}, res.Path[0])
	assert.Equal(t, [2]int{0, 3}, res.Path[len(res.Path)-1])
	assert.Equal(t, 6, res.Cost)
}

// TestRun_NotFound streams a failed search to completion.
func TestRun_NotFound(t *testing.T) {
	f := newFixture(t, 3)
	f.srv.SetGrid(mustText(t, "S#.\n##.\n..G\n"))

	conn, _, err := f.dial(t, "")
	require.NoError(t, err)
	defer conn.Close()

	events, res := readRun(t, conn)
	require.Len(t, events, 1, "start has no open neighbor")
	assert.Equal(t, "step_complete", events[0].Kind)
	assert.Equal(t, "not_found", res.Status)
	assert.Empty(t, res.Path)
	assert.Equal(t, 1, res.Expanded)
}

// TestRun_BadRequest refuses the upgrade for unusable endpoints.
func TestRun_BadRequest(t *testing.T) {
	f := newFixture(t, 3)
	for _, q := range []string{"", "?start=0,0&goal=0,0", "?start=0,0&goal=9,9", "?start=x&goal=0,1"} {
		_, resp, err := f.dial(t, q)
		require.ErrorIs(t, err, websocket.ErrBadHandshake, q)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
	}
}

// TestRun_ClientCloseCancels stops a paced search when the socket goes away.
func TestRun_ClientCloseCancels(t *testing.T) {
	f := newFixture(t, 40, stream.WithStepDelay(20*time.Millisecond))
	conn, _, err := f.dial(t, "?start=0,0&goal=39,39")
	require.NoError(t, err)

	_, _, err = conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	const want = `
# HELP astarviz_runs_total Completed searches by outcome.
# TYPE astarviz_runs_total counter
astarviz_runs_total{status="cancelled"} 1
`
	assert.Eventually(t, func() bool {
		return testutil.GatherAndCompare(f.reg, strings.NewReader(want), "astarviz_runs_total") == nil
	}, 5*time.Second, 20*time.Millisecond)

	resp := f.do(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

//----------------------------------------------------------------------------//
// Grid editing
//----------------------------------------------------------------------------//

func mustText(t *testing.T, m string) *grid.Grid {
	t.Helper()
	g, err := scenario.ParseText(strings.NewReader(m))
	require.NoError(t, err)
	return g
}

func decodeFile(t *testing.T, resp *http.Response) scenario.File {
	t.Helper()
	var file scenario.File
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&file))
	return file
}

func TestGetGrid(t *testing.T) {
	f := newFixture(t, 3)
	f.srv.SetGrid(mustText(t, "S#.\n...\n..G\n"))

	resp := f.do(t, http.MethodGet, "/grid", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	file := decodeFile(t, resp)
	assert.Equal(t, 3, file.Size)
	assert.Equal(t, &[2]int{0, 0}, file.Start)
	assert.Equal(t, &[2]int{2, 2}, file.Goal)
	assert.Equal(t, [][2]int{{0, 1}}, file.Obstacles)
}

// TestPutGrid accepts text maps, YAML and JSON bodies.
func TestPutGrid(t *testing.T) {
	f := newFixture(t, 3)

	resp := f.do(t, http.MethodPut, "/grid", "text/plain; charset=utf-8", "S..\n.#.\n..G\n")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "S..\n.#.\n..G\n", scenario.Render(f.srv.Grid()))

	resp = f.do(t, http.MethodPut, "/grid", "application/yaml", "size: 2\nstart: [0, 0]\n")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "S.\n..\n", scenario.Render(f.srv.Grid()))

	resp = f.do(t, http.MethodPut, "/grid", "application/json", `{"size": 2, "goal": [1, 1], "obstacles": [[0, 1]]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, ".#\n.G\n", scenario.Render(f.srv.Grid()))

	resp = f.do(t, http.MethodPut, "/grid", "text/plain", "S.\n.")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, ".#\n.G\n", scenario.Render(f.srv.Grid()), "grid kept on error")
}

// TestCells follows the editor click rules over HTTP.
func TestCells(t *testing.T) {
	f := newFixture(t, 3)

	kinds := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		resp := f.do(t, http.MethodPost, "/cells/1/1", "", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var cell stream.CellMessage
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&cell))
		kinds = append(kinds, cell.Kind)
	}
	assert.Equal(t, []string{"start", "start", "start"}, kinds, "start is never overwritten")

	resp := f.do(t, http.MethodPost, "/cells/0/0", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, grid.Goal, f.srv.Grid().Kind(grid.Coord{Row: 0, Col: 0}))

	resp = f.do(t, http.MethodDelete, "/cells/1/1", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, grid.Free, f.srv.Grid().Kind(grid.Coord{Row: 1, Col: 1}))

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/cells/5/0", "", "").StatusCode)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/cells/a/0", "", "").StatusCode)

	resp = f.do(t, http.MethodDelete, "/grid", "", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "...\n...\n...\n", scenario.Render(f.srv.Grid()))
}

func TestIndex(t *testing.T) {
	f := newFixture(t, 3)
	resp := f.do(t, http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

// TestWatch swaps the served grid when the scenario file changes.
func TestWatch(t *testing.T) {
	f := newFixture(t, 2)
	path := filepath.Join(t.TempDir(), "board.txt")
	require.NoError(t, os.WriteFile(path, []byte("S.\n.G\n"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.srv.Watch(ctx, path) }()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	assert.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("S...\n....\n....\n...G\n"), 0o600)
		return f.srv.Grid().Size() == 4
	}, 5*time.Second, 50*time.Millisecond)
}

func TestNew_NilGrid(t *testing.T) {
	_, err := stream.New(nil)
	require.ErrorIs(t, err, stream.ErrNilGrid)
}

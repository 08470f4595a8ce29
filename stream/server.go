package stream

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/matryer/way"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/astarviz/astar"
	"github.com/katalvlaran/astarviz/grid"
	"github.com/katalvlaran/astarviz/scenario"
	"github.com/katalvlaran/astarviz/telemetry"
)

// ErrNilGrid indicates New was called without a grid.
var ErrNilGrid = errors.New("stream: grid is nil")

const (
	defaultWriteTimeout = 5 * time.Second
	maxBodyBytes        = 1 << 20
	shutdownGrace       = 5 * time.Second
)

//go:embed static/index.html
var static embed.FS

// Server owns the shared grid and the HTTP routes around it.
type Server struct {
	mu   sync.RWMutex
	grid *grid.Grid

	router   *way.Router
	upgrader websocket.Upgrader

	log          logrus.FieldLogger
	recorder     *telemetry.Recorder
	metrics      http.Handler
	stepDelay    time.Duration
	writeTimeout time.Duration
	search       []astar.Option
}

// Option configures a Server.
type Option func(*Server)

// WithLogger replaces the standard logrus logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRecorder instruments every run.
func WithRecorder(r *telemetry.Recorder) Option {
	return func(s *Server) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithMetrics exposes g on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		if g != nil {
			s.metrics = promhttp.HandlerFor(g, promhttp.HandlerOpts{})
		}
	}
}

// WithStepDelay sleeps d between expansions of a streamed run.
func WithStepDelay(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.stepDelay = d
		}
	}
}

// WithWriteTimeout bounds every websocket write.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.writeTimeout = d
		}
	}
}

// WithSearchOptions adds engine options (timeouts, step limits) to every run.
func WithSearchOptions(opts ...astar.Option) Option {
	return func(s *Server) {
		s.search = append(s.search, opts...)
	}
}

// New returns a Server serving g. The server takes ownership of g.
func New(g *grid.Grid, opts ...Option) (*Server, error) {
	if g == nil {
		return nil, ErrNilGrid
	}
	s := &Server{
		grid:         g,
		log:          logrus.StandardLogger(),
		recorder:     telemetry.NewRecorder(nil, nil),
		writeTimeout: defaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()

	return s, nil
}

func (s *Server) routes() {
	s.router = way.NewRouter()
	s.router.HandleFunc(http.MethodGet, "/", s.handleIndex())
	s.router.HandleFunc(http.MethodGet, "/grid", s.handleGetGrid())
	s.router.HandleFunc(http.MethodPut, "/grid", s.handlePutGrid())
	s.router.HandleFunc(http.MethodDelete, "/grid", s.handleClear())
	s.router.HandleFunc(http.MethodPost, "/cells/:row/:col", s.handlePaint())
	s.router.HandleFunc(http.MethodDelete, "/cells/:row/:col", s.handleErase())
	s.router.HandleFunc(http.MethodGet, "/run", s.handleRun())
	if s.metrics != nil {
		s.router.Handle(http.MethodGet, "/metrics", s.metrics)
	}
}

// ServeHTTP dispatches to the routes listed in the package documentation.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Grid returns a snapshot of the current grid.
func (s *Server) Grid() *grid.Grid {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grid.Snapshot()
}

// SetGrid replaces the served grid. Runs already streaming are unaffected.
func (s *Server) SetGrid(g *grid.Grid) {
	if g == nil {
		return
	}
	g.RefreshNeighbors()
	s.mu.Lock()
	s.grid = g
	s.mu.Unlock()
}

// edit runs fn on the live grid under the write lock and refreshes the
// neighbor cache afterwards.
func (s *Server) edit(fn func(g *grid.Grid) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.grid); err != nil {
		return err
	}
	s.grid.RefreshNeighbors()
	return nil
}

// Watch reloads the grid from path whenever the file changes, until ctx
// ends. Load failures are logged and keep the previous grid.
func (s *Server) Watch(ctx context.Context, path string) error {
	return scenario.Watch(ctx, path, func(g *grid.Grid, err error) {
		if err != nil {
			s.log.WithError(err).WithField("path", path).Warn("scenario reload failed")
			return
		}
		s.SetGrid(g)
		s.log.WithFields(logrus.Fields{"path": path, "size": g.Size()}).Info("scenario reloaded")
	})
}

// ListenAndServe serves on addr until ctx ends, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("stream: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("stream: shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("stream: %w", err)
	}
	return nil
}

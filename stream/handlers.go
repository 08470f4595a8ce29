package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/matryer/way"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/astarviz/astar"
	"github.com/katalvlaran/astarviz/grid"
	"github.com/katalvlaran/astarviz/scenario"
)

func (s *Server) handleIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := static.ReadFile("static/index.html")
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	}
}

func (s *Server) handleGetGrid() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, scenario.FromGrid(s.Grid()))
	}
}

func (s *Server) handlePutGrid() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
		parse := scenario.ParseYAML
		if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "text/plain" {
			parse = scenario.ParseText
		}
		g, err := parse(body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.SetGrid(g)
		s.log.WithField("size", g.Size()).Info("grid replaced")
		writeJSON(w, http.StatusOK, scenario.FromGrid(g))
	}
}

func (s *Server) handleClear() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = s.edit(func(g *grid.Grid) error {
			g.Clear()
			return nil
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handlePaint() http.HandlerFunc {
	return s.cellHandler(func(g *grid.Grid, c grid.Coord) (grid.Kind, error) {
		return g.Paint(c)
	})
}

func (s *Server) handleErase() http.HandlerFunc {
	return s.cellHandler(func(g *grid.Grid, c grid.Coord) (grid.Kind, error) {
		return grid.Free, g.Erase(c)
	})
}

// cellHandler applies fn to the cell named by the :row and :col path params.
func (s *Server) cellHandler(fn func(*grid.Grid, grid.Coord) (grid.Kind, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		row, errRow := strconv.Atoi(way.Param(r.Context(), "row"))
		col, errCol := strconv.Atoi(way.Param(r.Context(), "col"))
		if errRow != nil || errCol != nil {
			http.Error(w, "row and col must be integers", http.StatusBadRequest)
			return
		}
		c := grid.Coord{Row: row, Col: col}
		var k grid.Kind
		err := s.edit(func(g *grid.Grid) error {
			var err error
			k, err = fn(g, c)
			return err
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, newCellMessage(c, k))
	}
}

// handleRun upgrades to a websocket and streams one search.
func (s *Server) handleRun() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g := s.Grid()
		start, goal, err := endpoints(g, r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		ctx, finish := s.recorder.Begin(ctx, g.Size(), start, goal)

		sess := &session{
			id:           uuid.NewString(),
			writeTimeout: s.writeTimeout,
		}
		fields := logrus.Fields{
			"run_id": sess.id,
			"start":  start.String(),
			"goal":   goal.String(),
		}
		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			fields["trace_id"] = sc.TraceID().String()
		}
		sess.log = s.log.WithFields(fields)

		opts := make([]astar.Option, 0, len(s.search)+2)
		opts = append(opts, s.search...)
		opts = append(opts, astar.WithContext(ctx), astar.WithObserver(s.recorder.Observer(sess.observe)))
		search, err := astar.NewSearch(g, start, goal, opts...)
		if err != nil {
			finish(astar.Result{}, err)
			status := http.StatusInternalServerError
			if errors.Is(err, astar.ErrInvalidEndpoints) {
				status = http.StatusBadRequest
			}
			http.Error(w, err.Error(), status)
			return
		}
		defer search.Close()

		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			finish(astar.Result{}, err)
			sess.log.WithError(err).Warn("websocket upgrade failed")
			return
		}
		defer conn.Close()
		sess.conn = conn
		sess.log.Info("run started")

		// Any read error, including a client close frame, ends the run.
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.NextReader(); err != nil {
					return
				}
			}
		}()

		for search.Step() {
			if s.stepDelay > 0 {
				select {
				case <-time.After(s.stepDelay):
				case <-ctx.Done():
				}
			}
		}
		res := search.Result()
		finish(res, nil)

		sess.log.WithFields(logrus.Fields{
			"status":   res.Status.String(),
			"expanded": res.Expanded,
			"cost":     res.Cost,
		}).Info("run finished")

		if err := sess.send(newResultMessage(sess.id, res)); err != nil {
			sess.log.WithError(err).Debug("result not delivered")
			return
		}
		closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, res.Status.String())
		_ = conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(s.writeTimeout))
	}
}

// session is the websocket side of one run.
type session struct {
	id           string
	conn         *websocket.Conn
	log          logrus.FieldLogger
	writeTimeout time.Duration
}

func (ss *session) send(v interface{}) error {
	if err := ss.conn.SetWriteDeadline(time.Now().Add(ss.writeTimeout)); err != nil {
		return err
	}
	return ss.conn.WriteJSON(v)
}

// observe forwards an event to the client and stops the search once the
// client can no longer be written to.
func (ss *session) observe(ev astar.Event) astar.Action {
	if err := ss.send(newEventMessage(ev)); err != nil {
		ss.log.WithError(err).Debug("event not delivered")
		return astar.Stop
	}
	return astar.Continue
}

// endpoints reads ?start= and ?goal=, falling back to the grid's own cells.
func endpoints(g *grid.Grid, q url.Values) (grid.Coord, grid.Coord, error) {
	start, err := endpoint(q.Get("start"), g.Start)
	if err != nil {
		return grid.Coord{}, grid.Coord{}, fmt.Errorf("start: %w", err)
	}
	goal, err := endpoint(q.Get("goal"), g.Goal)
	if err != nil {
		return grid.Coord{}, grid.Coord{}, fmt.Errorf("goal: %w", err)
	}
	return start, goal, nil
}

func endpoint(raw string, fallback func() (grid.Coord, bool)) (grid.Coord, error) {
	if raw == "" {
		c, ok := fallback()
		if !ok {
			return grid.Coord{}, errors.New("not given and not set on the grid")
		}
		return c, nil
	}
	return grid.ParseCoord(raw)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	_ = enc.Encode(v)
}

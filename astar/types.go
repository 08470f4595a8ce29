// Package astar defines outcomes, progress events and configuration options
// for A* search over a grid.Grid.
package astar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/katalvlaran/astarviz/grid"
)

// Sentinel errors returned by the A* implementation.
var (
	// ErrNilGrid indicates that a nil *grid.Grid was passed to Run or NewSearch.
	ErrNilGrid = errors.New("astar: grid is nil")

	// ErrInvalidEndpoints indicates a caller bug: start or goal is out of bounds
	// or Blocked, or start equals goal. Fix the call site; never retry.
	ErrInvalidEndpoints = errors.New("astar: invalid endpoints")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("astar: invalid option supplied")
)

// Status is the outcome of a search.
type Status int

const (
	// Searching means the search has not finished yet.
	Searching Status = iota
	// Found means a path from start to goal was produced.
	Found
	// NotFound means the frontier emptied without reaching the goal.
	NotFound
	// Cancelled means an observer returned Stop, the context ended,
	// or the step budget ran out.
	Cancelled
)

// String returns the lower-case status name.
func (s Status) String() string {
	switch s {
	case Searching:
		return "searching"
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// EventKind enumerates the progress notifications emitted during a search.
type EventKind int

const (
	// Opened: Node entered the frontier for the first time.
	Opened EventKind = iota
	// Closed: Node finished expansion. Never emitted for the start node.
	Closed
	// StepComplete: one expansion finished; a good moment to redraw.
	StepComplete
	// PathStep: Node lies on the final path. Emitted goal first, start last.
	PathStep
)

// String returns the lower-case event name.
func (k EventKind) String() string {
	switch k {
	case Opened:
		return "opened"
	case Closed:
		return "closed"
	case StepComplete:
		return "step_complete"
	case PathStep:
		return "path_step"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is a single progress notification.
//
// Node is the cell the event refers to; for StepComplete it is the node that
// was just expanded. Step is the 1-based expansion index. G and F are the
// node's scores at emission time.
type Event struct {
	Kind EventKind
	Node grid.Coord
	Step int
	G, F int
}

// Action tells the engine whether to keep going after an event.
type Action int

const (
	// Continue lets the search proceed.
	Continue Action = iota
	// Stop unwinds the search; the outcome becomes Cancelled.
	Stop
)

// Observer receives every event in emission order.
type Observer func(Event) Action

// Result holds the outcome of a search:
//   - Status: Found, NotFound or Cancelled (Searching while still running).
//   - Path: start → goal inclusive when Found, nil otherwise.
//   - Expanded: number of nodes popped from the frontier.
//   - Cost: number of moves on Path (len(Path)-1) when Found.
type Result struct {
	Status   Status
	Path     []grid.Coord
	Expanded int
	Cost     int
}

// Option configures a search via functional arguments.
// Invalid values are recorded and surfaced as ErrOptionViolation.
type Option func(*Options)

// Options holds parameters and callbacks to customize a search.
type Options struct {
	// Ctx allows cancellation and deadlines; an ended context yields Cancelled.
	Ctx context.Context

	// Observer is called for every event. Returning Stop cancels the search.
	Observer Observer

	// Timeout, if > 0, bounds the wall-clock duration of the search.
	Timeout time.Duration

	// MaxSteps, if > 0, caps the number of expansions.
	MaxSteps int

	// Snapshot makes the search run on a private copy of the grid.
	Snapshot bool

	// internal error recorded during option parsing
	err error
}

// DefaultOptions returns Options with sane defaults:
//   - context.Background()
//   - a no-op observer that always continues
//   - no timeout, no step limit, no snapshot.
func DefaultOptions() Options {
	return Options{
		Ctx:      context.Background(),
		Observer: func(Event) Action { return Continue },
	}
}

// WithContext sets a custom context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithObserver registers the progress callback.
func WithObserver(fn Observer) Option {
	return func(o *Options) {
		if fn != nil {
			o.Observer = fn
		}
	}
}

// WithTimeout cancels the search once d has elapsed.
//
//	d > 0: deadline d after the search is created
//	d == 0: no timeout
//	d < 0: invalid option → ErrOptionViolation
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		if d < 0 {
			o.err = fmt.Errorf("%w: Timeout cannot be negative (%s)", ErrOptionViolation, d)
			return
		}
		o.Timeout = d
	}
}

// WithMaxSteps cancels the search after n expansions.
//
//	n > 0: limit to n expansions
//	n == 0: no limit
//	n < 0: invalid option → ErrOptionViolation
func WithMaxSteps(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: MaxSteps cannot be negative (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxSteps = n
	}
}

// WithSnapshot runs the search on a deep copy of the grid taken at creation,
// so the caller may keep editing the live grid.
func WithSnapshot() Option {
	return func(o *Options) {
		o.Snapshot = true
	}
}

package astar

import (
	"container/heap"
	"context"
	"fmt"

	"github.com/katalvlaran/astarviz/grid"
)

// Run searches g for a path from start to goal and returns its outcome.
// It is equivalent to NewSearch followed by Step until it returns false.
//
// Returns:
//
//   - Result with Status Found, NotFound or Cancelled.
//   - err: ErrNilGrid, ErrOptionViolation or ErrInvalidEndpoints for invalid
//     input. NotFound and Cancelled are outcomes, not errors.
//
// Preconditions and validation (in order):
//  1. g must be non-nil (ErrNilGrid).
//  2. Options must be valid (ErrOptionViolation).
//  3. start and goal must be in bounds, not Blocked and distinct (ErrInvalidEndpoints).
//
// The grid's neighbor cache is refreshed once before the search starts; the
// grid must not be edited while Run is in progress unless WithSnapshot is set.
func Run(g *grid.Grid, start, goal grid.Coord, opts ...Option) (Result, error) {
	s, err := NewSearch(g, start, goal, opts...)
	if err != nil {
		return Result{}, err
	}
	defer s.Close()

	for s.Step() {
	}

	return s.Result(), nil
}

// Search holds the mutable state of one A* execution and advances it one
// expansion at a time. It is not safe for concurrent use.
type Search struct {
	g     *grid.Grid
	start grid.Coord
	goal  grid.Coord
	opts  Options

	ctx    context.Context
	cancel context.CancelFunc

	gScore   map[grid.Coord]int        // cheapest known cost from start; missing = +∞
	fScore   map[grid.Coord]int        // gScore + heuristic; missing = +∞
	cameFrom map[grid.Coord]grid.Coord // predecessor on the cheapest known route
	open     openQueue                 // frontier ordered by (f, seq)
	inOpen   map[grid.Coord]*openItem  // frontier membership
	expanded map[grid.Coord]bool       // popped nodes, start included

	seq    int // last insertion sequence handed out
	steps  int // expansions so far
	result Result
}

// NewSearch validates the input, refreshes the grid's neighbor cache (or that
// of a snapshot when WithSnapshot is set) and seeds the frontier with start.
// Call Close when abandoning a search before it finishes.
func NewSearch(g *grid.Grid, start, goal grid.Coord, opts ...Option) (*Search, error) {
	if g == nil {
		return nil, ErrNilGrid
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if err := validateEndpoints(g, start, goal); err != nil {
		return nil, err
	}

	if o.Snapshot {
		g = g.Snapshot()
	}
	g.RefreshNeighbors()

	s := &Search{
		g:        g,
		start:    start,
		goal:     goal,
		opts:     o,
		gScore:   make(map[grid.Coord]int),
		fScore:   make(map[grid.Coord]int),
		cameFrom: make(map[grid.Coord]grid.Coord),
		open:     make(openQueue, 0, g.Size()),
		inOpen:   make(map[grid.Coord]*openItem),
		expanded: make(map[grid.Coord]bool),
	}
	if o.Timeout > 0 {
		s.ctx, s.cancel = context.WithTimeout(o.Ctx, o.Timeout)
	} else {
		s.ctx, s.cancel = context.WithCancel(o.Ctx)
	}
	s.init()

	return s, nil
}

// validateEndpoints rejects out-of-bounds, Blocked or identical endpoints.
func validateEndpoints(g *grid.Grid, start, goal grid.Coord) error {
	switch {
	case !g.InBounds(start):
		return fmt.Errorf("%w: start %s out of bounds", ErrInvalidEndpoints, start)
	case !g.InBounds(goal):
		return fmt.Errorf("%w: goal %s out of bounds", ErrInvalidEndpoints, goal)
	case g.Kind(start) == grid.Blocked:
		return fmt.Errorf("%w: start %s is blocked", ErrInvalidEndpoints, start)
	case g.Kind(goal) == grid.Blocked:
		return fmt.Errorf("%w: goal %s is blocked", ErrInvalidEndpoints, goal)
	case start == goal:
		return fmt.Errorf("%w: start and goal are both %s", ErrInvalidEndpoints, start)
	}
	return nil
}

// init sets g(start)=0, f(start)=h(start) and pushes start with sequence 0.
func (s *Search) init() {
	s.gScore[s.start] = 0
	s.fScore[s.start] = grid.Manhattan(s.start, s.goal)
	heap.Init(&s.open)
	item := &openItem{node: s.start, f: s.fScore[s.start], seq: 0}
	heap.Push(&s.open, item)
	s.inOpen[s.start] = item
}

// Step performs one expansion and reports whether the search can continue.
// Reaching the goal replays the path (PathStep events) within the same call.
// After Step returns false, Result holds the final outcome.
func (s *Search) Step() bool {
	if s.Done() {
		return false
	}
	if s.ctx.Err() != nil {
		return s.finish(Cancelled)
	}
	if s.opts.MaxSteps > 0 && s.steps >= s.opts.MaxSteps {
		return s.finish(Cancelled)
	}
	if s.open.Len() == 0 {
		return s.finish(NotFound)
	}

	// 1) Pop the lowest (f, seq) node.
	item := heap.Pop(&s.open).(*openItem)
	current := item.node
	delete(s.inOpen, current)
	s.expanded[current] = true
	s.steps++

	// 2) Goal reached: replay and report the path.
	if current == s.goal {
		return s.complete()
	}

	// 3) Relax the neighbors in grid order.
	if !s.relax(current) {
		return s.finish(Cancelled)
	}

	// 4) Expansion finished.
	if s.emit(StepComplete, current) == Stop {
		return s.finish(Cancelled)
	}

	// 5) Close everything but the start.
	if current != s.start && s.emit(Closed, current) == Stop {
		return s.finish(Cancelled)
	}

	return true
}

// relax tries to improve every neighbor of current. It returns false if the
// observer asked to stop.
func (s *Search) relax(current grid.Coord) bool {
	tentative := s.gScore[current] + 1
	for _, nb := range s.g.Neighbors(current) {
		if s.expanded[nb] {
			continue
		}
		if old, seen := s.gScore[nb]; seen && tentative >= old {
			continue
		}
		s.cameFrom[nb] = current
		s.gScore[nb] = tentative
		s.fScore[nb] = tentative + grid.Manhattan(nb, s.goal)

		if _, queued := s.inOpen[nb]; queued {
			continue
		}
		s.seq++
		item := &openItem{node: nb, f: s.fScore[nb], seq: s.seq}
		heap.Push(&s.open, item)
		s.inOpen[nb] = item
		if s.emit(Opened, nb) == Stop {
			return false
		}
	}

	return true
}

// complete reconstructs the path, emits PathStep goal → start and finishes Found.
func (s *Search) complete() bool {
	path := ReconstructPath(s.cameFrom, s.goal)
	for i := len(path) - 1; i >= 0; i-- {
		if s.emit(PathStep, path[i]) == Stop {
			return s.finish(Cancelled)
		}
	}
	s.result.Path = path
	s.result.Cost = s.gScore[s.goal]

	return s.finish(Found)
}

// emit delivers an event for node to the observer.
func (s *Search) emit(kind EventKind, node grid.Coord) Action {
	return s.opts.Observer(Event{
		Kind: kind,
		Node: node,
		Step: s.steps,
		G:    s.gScore[node],
		F:    s.fScore[node],
	})
}

// finish records the terminal status, releases the context and returns false.
func (s *Search) finish(status Status) bool {
	s.result.Status = status
	s.result.Expanded = s.steps
	if status != Found {
		s.result.Path = nil
		s.result.Cost = 0
	}
	s.cancel()

	return false
}

// Close releases the search's context. It is safe to call more than once and
// turns an unfinished search into Cancelled.
func (s *Search) Close() {
	if !s.Done() {
		s.finish(Cancelled)
	}
	s.cancel()
}

// Done reports whether the search has reached a terminal status.
func (s *Search) Done() bool {
	return s.result.Status != Searching
}

// Result returns the current outcome; Status is Searching until Done.
func (s *Search) Result() Result {
	return s.result
}

// Start returns the search origin.
func (s *Search) Start() grid.Coord { return s.start }

// Goal returns the search target.
func (s *Search) Goal() grid.Coord { return s.goal }

// Steps returns the number of expansions performed so far.
func (s *Search) Steps() int { return s.steps }

// G returns the best known cost from start to c, or false if c is unreached.
func (s *Search) G(c grid.Coord) (int, bool) {
	v, ok := s.gScore[c]
	return v, ok
}

// F returns the current f-score of c, or false if c is unreached.
func (s *Search) F(c grid.Coord) (int, bool) {
	v, ok := s.fScore[c]
	return v, ok
}

// IsOpen reports whether c is waiting in the frontier.
func (s *Search) IsOpen(c grid.Coord) bool {
	_, ok := s.inOpen[c]
	return ok
}

// IsClosed reports whether c has been expanded. The start is never closed.
func (s *Search) IsClosed(c grid.Coord) bool {
	return c != s.start && s.expanded[c]
}

// Package astar provides a deterministic A* search over a
// grid.Grid with four-directional, unit-cost moves.
//
// Overview:
//
//   - Run searches from a start cell to a goal cell and returns a Result whose
//     Status is Found, NotFound or Cancelled.
//   - NewSearch returns a *Search that advances one expansion per Step call,
//     for front ends that animate the search on their own clock.
//   - Progress is reported through a single Observer callback. Returning Stop
//     from it unwinds the search with Status Cancelled.
//
// Heuristic:
//
//	h(a, b) = |a.Row-b.Row| + |a.Col-b.Col|
//
// Ordering and determinism:
//
//   - The frontier is keyed by (f-score, insertion sequence). start is inserted
//     with sequence 0; every newly discovered node takes the next integer.
//   - The key is taken on insertion. A node whose g-score improves while it
//     waits keeps its old key; its G, F and predecessor are updated.
//   - An expanded node is closed for good; a cheaper route found later is
//     ignored.
//   - Neighbors are relaxed in the grid's fixed Down, Up, Right, Left order.
//   - A neighbor is updated only on a strict g-score improvement.
//
// Fixed keys mean the pop order can lag behind the current f-scores. On most
// grids the returned path is a shortest one; on some cluttered grids it can be
// a few steps longer than the breadth-first distance.
//
// Together these make repeated runs on an unchanged grid yield identical paths
// and identical event streams.
//
// Event contract (per expansion of node u):
//
//	Opened(v)        for each neighbor v newly added to the frontier, in neighbor order
//	StepComplete(u)  once all neighbors are processed
//	Closed(u)        unless u is the start
//
// When the goal is popped, no StepComplete or Closed follow; instead one
// PathStep is emitted per path node, goal first and start last, and the
// search finishes with Status Found. Result.Path is ordered start → goal.
//
// Outcomes and errors:
//
//   - Found, NotFound, Cancelled are values of Status, never errors.
//   - ErrNilGrid: nil grid.
//   - ErrInvalidEndpoints: start or goal out of bounds, Blocked, or equal.
//     This is a programming error at the call site.
//   - ErrOptionViolation: negative WithTimeout or WithMaxSteps.
//
// Cancellation:
//
// An observer returning Stop, an ended WithContext context, an elapsed
// WithTimeout and an exhausted WithMaxSteps budget all produce Cancelled.
// Context and budget are checked before every expansion.
//
// Thread safety:
//
//   - A Search is single-goroutine. Different searches may run concurrently on
//     the same grid only if nobody edits it; use WithSnapshot otherwise.
//   - Run refreshes the grid's neighbor cache at start-up, so it writes to the
//     grid it is given (not to a snapshot).
//
// Complexity:
//
//   - Time:  O(E log V) with E ≤ 4V and V = N².
//   - Space: O(V).
//
// Example usage:
//
//	g, _ := grid.New(50)
//	_ = g.SetKind(grid.Coord{Row: 10, Col: 10}, grid.Blocked)
//	res, err := astar.Run(g, grid.Coord{}, grid.Coord{Row: 49, Col: 49},
//	    astar.WithObserver(func(e astar.Event) astar.Action {
//	        fmt.Println(e.Kind, e.Node)
//	        return astar.Continue
//	    }),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Status, res.Path)
package astar

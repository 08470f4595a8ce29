package grid

import "fmt"

// New returns an n×n grid of Free cells with a fresh neighbor cache.
// Returns ErrBadSize if n < 1.
// Complexity: O(n²) time and memory.
func New(n int) (*Grid, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrBadSize, n)
	}
	g := &Grid{
		n:     n,
		kinds: make([]Kind, n*n),
	}
	g.RefreshNeighbors()

	return g, nil
}

// Size returns the side length N.
func (g *Grid) Size() int {
	return g.n
}

// InBounds reports whether c lies within the grid.
// Complexity: O(1).
func (g *Grid) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < g.n && c.Col >= 0 && c.Col < g.n
}

// Index maps c to its row-major index: Row*N + Col.
// The result is meaningless for out-of-bounds coordinates.
func (g *Grid) Index(c Coord) int {
	return c.Row*g.n + c.Col
}

// Coordinate converts a row-major index back to a Coord.
func (g *Grid) Coordinate(idx int) Coord {
	return Coord{Row: idx / g.n, Col: idx % g.n}
}

// Kind returns the kind of c. Out-of-bounds cells report Blocked.
func (g *Grid) Kind(c Coord) Kind {
	if !g.InBounds(c) {
		return Blocked
	}
	return g.kinds[g.Index(c)]
}

// SetKind assigns k to c. It does not touch other cells, so keeping a single
// Start and a single Goal is the caller's job. The neighbor cache is not
// rebuilt; call RefreshNeighbors before querying neighbors again.
func (g *Grid) SetKind(c Coord, k Kind) error {
	if !g.InBounds(c) {
		return fmt.Errorf("%w: %s on %dx%d grid", ErrOutOfBounds, c, g.n, g.n)
	}
	g.kinds[g.Index(c)] = k

	return nil
}

// Start returns the first cell of kind Start in row-major order.
func (g *Grid) Start() (Coord, bool) {
	return g.find(Start)
}

// Goal returns the first cell of kind Goal in row-major order.
func (g *Grid) Goal() (Coord, bool) {
	return g.find(Goal)
}

func (g *Grid) find(k Kind) (Coord, bool) {
	for i, kind := range g.kinds {
		if kind == k {
			return g.Coordinate(i), true
		}
	}
	return Coord{}, false
}

// Paint applies one "click" at c and returns the resulting kind:
//  1. no Start yet and c is not the Goal → c becomes Start;
//  2. no Goal yet and c is not the Start → c becomes Goal;
//  3. c is neither Start nor Goal       → c becomes Blocked.
//
// Start and Goal are never overwritten.
func (g *Grid) Paint(c Coord) (Kind, error) {
	if !g.InBounds(c) {
		return Free, fmt.Errorf("%w: %s on %dx%d grid", ErrOutOfBounds, c, g.n, g.n)
	}
	cur := g.kinds[g.Index(c)]
	_, hasStart := g.Start()
	_, hasGoal := g.Goal()
	switch {
	case !hasStart && cur != Goal:
		g.kinds[g.Index(c)] = Start
	case !hasGoal && cur != Start:
		g.kinds[g.Index(c)] = Goal
	case cur != Start && cur != Goal:
		g.kinds[g.Index(c)] = Blocked
	}

	return g.kinds[g.Index(c)], nil
}

// Erase resets c to Free. Erasing the Start or Goal removes it.
func (g *Grid) Erase(c Coord) error {
	return g.SetKind(c, Free)
}

// Clear resets every cell to Free and rebuilds the neighbor cache.
func (g *Grid) Clear() {
	for i := range g.kinds {
		g.kinds[i] = Free
	}
	g.RefreshNeighbors()
}

// Snapshot returns a deep copy of g, including its neighbor cache.
// Later edits to either grid are invisible to the other.
// Complexity: O(N²).
func (g *Grid) Snapshot() *Grid {
	cp := &Grid{
		n:         g.n,
		kinds:     make([]Kind, len(g.kinds)),
		neighbors: make([][]Coord, len(g.neighbors)),
	}
	copy(cp.kinds, g.kinds)
	for i, nbrs := range g.neighbors {
		cp.neighbors[i] = append([]Coord(nil), nbrs...)
	}

	return cp
}

// RefreshNeighbors rebuilds the cached neighbor lists from the current
// obstacle layout. Blocked cells get an empty list.
// Complexity: O(N²).
func (g *Grid) RefreshNeighbors() {
	if len(g.neighbors) != len(g.kinds) {
		g.neighbors = make([][]Coord, len(g.kinds))
	}
	for i := range g.kinds {
		nbrs := g.neighbors[i][:0]
		if g.kinds[i] == Blocked {
			g.neighbors[i] = nbrs
			continue
		}
		c := g.Coordinate(i)
		for _, d := range neighborOffsets {
			nc := Coord{Row: c.Row + d.Row, Col: c.Col + d.Col}
			if !g.InBounds(nc) || g.kinds[g.Index(nc)] == Blocked {
				continue
			}
			nbrs = append(nbrs, nc)
		}
		g.neighbors[i] = nbrs
	}
}

// Neighbors returns the cached neighbors of c in Down, Up, Right, Left order,
// as of the last RefreshNeighbors. The slice is shared; do not modify it.
// Out-of-bounds coordinates have no neighbors.
func (g *Grid) Neighbors(c Coord) []Coord {
	if !g.InBounds(c) {
		return nil
	}
	return g.neighbors[g.Index(c)]
}
